// Package gitsave is a one-shot project backup to a git remote.
//
// gitsave snapshots a working tree into git and ships it off the machine
// in one command: it checks the repository state, stages every change,
// commits with a timestamped message and pushes the branch to a remote,
// adding the remote first when it is missing.
//
// # Quick Start
//
//	# Navigate to your project
//	cd /path/to/your/project
//
//	# Back up to origin/main, creating origin if needed
//	gitsave --remote-url git@github.com:me/project.git
//
// # Key Features
//
//   - Timestamped Commits: "Sauvegarde automatique - 2006-01-02 15:04:05" by default
//   - Remote Setup: Adds the remote when it does not exist yet
//   - Two Backends: the git executable, or an in-process go-git implementation
//   - Safe Concurrency: A per-repository lock keeps runs from overlapping
//   - Metrics: Optional Prometheus textfile for node_exporter
//
// # Package Layout
//
//   - cmd/gitsave: command-line entry point and exit codes
//   - internal/backup: the status, stage, commit, remote and push pipeline
//   - internal/git: the Repository interface and its exec and go-git backends
//   - internal/config: defaults, YAML file, environment and flags
//   - internal/lock: per-repository run lock
//   - internal/logger: console and structured file logging
//   - internal/metrics: Prometheus textfile export
//
// For command-line usage see the cmd/gitsave package documentation.
package gitsave
