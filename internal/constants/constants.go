package constants

import "time"

// AppName is used for the binary, lock files, log directories and metric names.
const AppName = "gitsave"

// Tagline is shown under the banner in the version output.
const Tagline = "One-shot project backup to a git remote"

// Banner is printed by the version command.
const Banner = `       _ _
  __ _(_) |_ ___  __ ___   _____
 / _` + "`" + ` | | __/ __|/ _` + "`" + ` \ \ / / _ \
| (_| | | |_\__ \ (_| |\ V /  __/
 \__, |_|\__|___/\__,_| \_/ \___|
 |___/`

// Pipeline defaults.
const (
	// DefaultRemoteName is the remote that is checked, created and pushed to.
	DefaultRemoteName = "origin"

	// DefaultBranch is the branch pushed with upstream tracking.
	DefaultBranch = "main"

	// DefaultMessagePrefix starts every backup commit message.
	DefaultMessagePrefix = "Sauvegarde automatique"

	// MessageSeparator joins the prefix and the timestamp.
	MessageSeparator = " - "

	// TimestampLayout renders the commit timestamp as YYYY-MM-DD HH:MM:SS.
	TimestampLayout = "2006-01-02 15:04:05"
)

// Backends
const (
	// BackendExec shells out to the git executable.
	BackendExec = "exec"

	// BackendGoGit uses the in-process go-git implementation.
	BackendGoGit = "gogit"
)

// DefaultPushRetryDelay is the pause between push attempts when retries are enabled.
const DefaultPushRetryDelay = 2 * time.Second
