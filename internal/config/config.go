package config

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/bashhack/gitsave/internal/constants"
	"github.com/bashhack/gitsave/internal/errors"
)

// envPrefix is prepended to every environment variable name.
const envPrefix = "GITSAVE_"

// Config holds all gitsave settings.
// Values come from defaults, the YAML config file, GITSAVE_* environment
// variables and command-line flags, in increasing order of precedence.
type Config struct {
	// Repository configuration

	// RepoPath is the working tree to back up. Empty means the current directory.
	RepoPath string

	// RemoteName is the remote checked, created if missing, and pushed to.
	RemoteName string

	// RemoteURL is used when RemoteName has to be created. Empty means the
	// remote is never created.
	RemoteURL string

	// Branch is pushed with upstream tracking.
	Branch string

	// MessagePrefix starts every backup commit message.
	MessagePrefix string

	// Git access

	// Backend selects the git implementation: constants.BackendExec or constants.BackendGoGit.
	Backend string

	// CommandTimeout bounds each git command. Zero disables the limit.
	CommandTimeout time.Duration

	// PushRetries is the number of extra push attempts after a failure.
	PushRetries int

	// AuthToken authenticates HTTPS pushes with the gogit backend.
	AuthToken string

	// AuthorName and AuthorEmail override the repository's commit identity.
	AuthorName  string
	AuthorEmail string

	// Output

	// Verbose echoes internal warnings to the console.
	Verbose bool

	// Debug enables the structured log file.
	Debug bool

	// LogFile is the debug log path. Derived from the repository path when empty.
	LogFile string

	// MetricsFile receives a Prometheus textfile after each run. Empty disables it.
	MetricsFile string

	// Lock guards the repository against concurrent gitsave runs.
	Lock bool

	// ConfigFile is the YAML file that was loaded, if any.
	ConfigFile string

	// Build metadata

	// VersionInfo contains version, commit, and build date information.
	VersionInfo VersionInfo

	parsed *flagValues
}

// VersionInfo contains build-time version metadata.
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// New creates a new Config with default values
func New() *Config {
	return &Config{
		RemoteName:    constants.DefaultRemoteName,
		Branch:        constants.DefaultBranch,
		MessagePrefix: constants.DefaultMessagePrefix,
		Backend:       constants.BackendExec,
		Verbose:       true,
		Lock:          true,

		// Default version info, will be overridden if provided
		VersionInfo: VersionInfo{
			Version: "dev",
			Commit:  "unknown",
			Date:    "unknown",
		},
	}
}

// LoadFromEnvironment updates config from GITSAVE_* environment variables.
// Values that do not parse are ignored.
func (c *Config) LoadFromEnvironment() {
	c.RepoPath = getEnvString("REPO_PATH", c.RepoPath)
	c.RemoteName = getEnvString("REMOTE", c.RemoteName)
	c.RemoteURL = getEnvString("REMOTE_URL", c.RemoteURL)
	c.Branch = getEnvString("BRANCH", c.Branch)
	c.MessagePrefix = getEnvString("MESSAGE_PREFIX", c.MessagePrefix)
	c.Backend = getEnvString("BACKEND", c.Backend)
	c.CommandTimeout = getEnvDuration("COMMAND_TIMEOUT", c.CommandTimeout)
	c.PushRetries = getEnvInt("PUSH_RETRIES", c.PushRetries)
	c.AuthToken = getEnvString("TOKEN", c.AuthToken)
	c.AuthorName = getEnvString("AUTHOR_NAME", c.AuthorName)
	c.AuthorEmail = getEnvString("AUTHOR_EMAIL", c.AuthorEmail)
	c.Verbose = getEnvBool("VERBOSE", c.Verbose)
	c.Debug = getEnvBool("DEBUG", c.Debug)
	c.LogFile = getEnvString("LOG_FILE", c.LogFile)
	c.MetricsFile = getEnvString("METRICS_FILE", c.MetricsFile)
	c.Lock = getEnvBool("LOCK", c.Lock)
}

// Finalize validates and finalizes the configuration
func (c *Config) Finalize() error {
	if err := c.validate(); err != nil {
		return err
	}

	if c.RepoPath == "" {
		var err error
		c.RepoPath, err = os.Getwd()
		if err != nil {
			return errors.NewConfigError("repo", "", errors.Wrap(err, "failed to get current directory"))
		}
	}

	absRepoPath, err := filepath.Abs(c.RepoPath)
	if err != nil {
		return errors.NewConfigError("repo", c.RepoPath, errors.Wrap(err, "failed to resolve absolute path"))
	}
	c.RepoPath = absRepoPath

	if c.LogFile == "" {
		c.LogFile = DefaultLogFile(c.RepoPath)
	}
	if c.LogFile, err = filepath.Abs(c.LogFile); err != nil {
		return errors.NewConfigError("log_file", c.LogFile, errors.Wrap(err, "failed to resolve absolute path"))
	}
	if c.Debug {
		if err := os.MkdirAll(filepath.Dir(c.LogFile), 0o700); err != nil {
			return errors.NewConfigError("log_file", c.LogFile, errors.Wrap(err, "cannot create log directory"))
		}
	}

	if c.MetricsFile != "" {
		if c.MetricsFile, err = filepath.Abs(c.MetricsFile); err != nil {
			return errors.NewConfigError("metrics_file", c.MetricsFile, errors.Wrap(err, "failed to resolve absolute path"))
		}
	}

	return nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case constants.BackendExec, constants.BackendGoGit:
	default:
		return invalid("backend", c.Backend, "must be %q or %q", constants.BackendExec, constants.BackendGoGit)
	}

	required := []struct {
		name  string
		value string
	}{
		{"remote", c.RemoteName},
		{"branch", c.Branch},
		{"message_prefix", c.MessagePrefix},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return invalid(r.name, r.value, "must not be empty")
		}
	}

	// A leading dash would be read by git as an option.
	if strings.HasPrefix(c.RemoteName, "-") {
		return invalid("remote", c.RemoteName, "must not start with '-'")
	}
	if strings.HasPrefix(c.Branch, "-") {
		return invalid("branch", c.Branch, "must not start with '-'")
	}

	if c.CommandTimeout < 0 {
		return invalid("command_timeout", c.CommandTimeout, "must not be negative")
	}
	if c.PushRetries < 0 {
		return invalid("push_retries", c.PushRetries, "must not be negative")
	}

	return nil
}

func invalid(param string, value interface{}, format string, args ...interface{}) error {
	return errors.NewConfigError(param, value,
		errors.Wrap(errors.ErrInvalidConfiguration, fmt.Sprintf(format, args...)))
}

// DefaultLogFile returns $XDG_DATA_HOME/gitsave/logs/gitsave-<hash>.log,
// where hash identifies the repository path.
func DefaultLogFile(repoPath string) string {
	return filepath.Join(xdg.DataHome, constants.AppName, "logs",
		fmt.Sprintf("%s-%s.log", constants.AppName, RepoHash(repoPath)))
}

// RepoHash returns a short stable identifier for a repository path.
func RepoHash(repoPath string) string {
	hash := sha256.Sum256([]byte(repoPath))
	return fmt.Sprintf("%x", hash[:8])
}

// Redacted returns a copy safe to log: the auth token is masked.
func (c Config) Redacted() Config {
	if c.AuthToken != "" {
		c.AuthToken = "****"
	}
	c.parsed = nil
	return c
}

// getEnvString returns an environment variable string or a default value
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(envPrefix + key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as int or a default value
func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(envPrefix + key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("30s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(envPrefix + key); exists {
		if value, err := parseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

// getEnvBool returns an environment variable as bool or a default value
func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(envPrefix + key); exists {
		valueLower := strings.ToLower(valueStr)
		if valueLower == "true" || valueLower == "1" || valueLower == "yes" {
			return true
		}
		if valueLower == "false" || valueLower == "0" || valueLower == "no" {
			return false
		}
		// For any other value, fall back to default
	}
	return defaultValue
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(s)
}
