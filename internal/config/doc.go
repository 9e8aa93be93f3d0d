// Package config provides configuration handling for the gitsave application.
//
// # Configuration Sources
//
// Configuration values are loaded with the following precedence:
//
// 1. Command-line flags (highest priority, only when set explicitly)
// 2. Environment variables (GITSAVE_*)
// 3. YAML config file
// 4. Default values (lowest priority)
//
// The config file is the one named by --config, else GITSAVE_CONFIG, else
// $XDG_CONFIG_HOME/gitsave/config.yaml when it exists. Unknown keys are
// rejected.
//
//	repo: ~/projects/site
//	remote: origin
//	remote_url: https://github.com/acme/site.git
//	branch: main
//	message_prefix: Sauvegarde automatique
//	backend: exec            # or gogit
//	command_timeout: 2m
//	push_retries: 1
//	author:
//	  name: Backup Bot
//	  email: backup@example.com
//	metrics_file: /var/lib/node_exporter/textfile/gitsave.prom
//
// # Environment Variables
//
//	GITSAVE_REPO_PATH        Path to repository (default: current directory)
//	GITSAVE_REMOTE           Remote name (default: origin)
//	GITSAVE_REMOTE_URL       URL used when the remote has to be created
//	GITSAVE_BRANCH           Branch to push (default: main)
//	GITSAVE_MESSAGE_PREFIX   Commit message prefix (default: "Sauvegarde automatique")
//	GITSAVE_BACKEND          exec or gogit (default: exec)
//	GITSAVE_COMMAND_TIMEOUT  Per-command timeout, e.g. 30s (default: none)
//	GITSAVE_PUSH_RETRIES     Extra push attempts (default: 0)
//	GITSAVE_TOKEN            HTTPS token for the gogit backend
//	GITSAVE_AUTHOR_NAME      Commit author name
//	GITSAVE_AUTHOR_EMAIL     Commit author email
//	GITSAVE_VERBOSE          Echo internal warnings (default: true)
//	GITSAVE_DEBUG            Enable debug logging (default: false)
//	GITSAVE_LOG_FILE         Path to log file
//	GITSAVE_METRICS_FILE     Prometheus textfile output
//	GITSAVE_LOCK             Take the repository lock (default: true)
//
// # Usage
//
//	cfg := config.New()
//	cfg.SetupFlags(cmd.Flags())
//
//	// after flag parsing
//	if err := cfg.Load(cmd.Flags()); err != nil {
//	    // Handle error
//	}
//	if err := cfg.Finalize(); err != nil {
//	    // Handle error
//	}
//
// # Thread Safety
//
// Config is loaded once at startup and then only read.
package config
