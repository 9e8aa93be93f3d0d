// Package main implements gitsave, a one-shot project backup to a git remote.
//
// A single run checks the state of the repository, stages every change,
// records them in a commit named after the current time and pushes the
// branch to a remote, adding the remote first when it is missing. A tree
// with nothing to commit is not an error.
//
// # Basic Usage
//
//	gitsave                                   # Back up the current directory to origin/main
//	gitsave --repo ~/src/site                 # Back up another project
//	gitsave --remote-url git@host:me/site.git # Create origin when it does not exist
//	gitsave --prefix "Nightly" --branch dev   # Custom message prefix and branch
//	gitsave --backend gogit                   # Use the in-process git implementation
//	gitsave version                           # Print version information
//
// # Configuration
//
// Settings are applied in increasing order of precedence: built-in
// defaults, a YAML file ($XDG_CONFIG_HOME/gitsave/config.yaml, or the path
// given by --config or GITSAVE_CONFIG), GITSAVE_* environment variables,
// and flags given on the command line.
//
//	--repo          Repository to back up (env: GITSAVE_REPO_PATH)
//	--remote        Remote name (env: GITSAVE_REMOTE)
//	--remote-url    URL used to create the remote (env: GITSAVE_REMOTE_URL)
//	--branch        Branch to push (env: GITSAVE_BRANCH)
//	--prefix        Commit message prefix (env: GITSAVE_MESSAGE_PREFIX)
//	--backend       exec or gogit (env: GITSAVE_BACKEND)
//	--timeout       Per-command timeout (env: GITSAVE_COMMAND_TIMEOUT)
//	--push-retries  Extra push attempts (env: GITSAVE_PUSH_RETRIES)
//	--quiet         Hide internal warnings (env: GITSAVE_VERBOSE=false)
//	--debug         Write a structured log file (env: GITSAVE_DEBUG)
//	--log-file      Log file path (env: GITSAVE_LOG_FILE)
//	--metrics-file  Prometheus textfile output (env: GITSAVE_METRICS_FILE)
//	--no-lock       Skip the repository lock (env: GITSAVE_LOCK=false)
//
// The HTTPS token used by the gogit backend is read from GITSAVE_TOKEN or
// the auth_token key of the config file, never from a flag.
//
// # Exit Codes
//
//	0    changes pushed, or nothing to commit
//	1    commit or push failed
//	2    invalid configuration or flags
//	3    git missing, not a repository, lock held or git unusable
//	130  interrupted by a signal
package main
