package config

import (
	"os"
	"time"

	"github.com/spf13/pflag"
)

// flagValues holds parsed flag values until Load decides which ones were
// given explicitly.
type flagValues struct {
	configFile     string
	repo           string
	remote         string
	remoteURL      string
	branch         string
	prefix         string
	backend        string
	commandTimeout time.Duration
	pushRetries    int
	quiet          bool
	debug          bool
	logFile        string
	metricsFile    string
	noLock         bool
}

// SetupFlags registers the command-line flags on fs. Flags override the
// file and environment only when set explicitly.
func (c *Config) SetupFlags(fs *pflag.FlagSet) {
	v := &flagValues{}
	c.parsed = v

	fs.StringVar(&v.configFile, "config", "", "Path to a YAML config file (default: $XDG_CONFIG_HOME/gitsave/config.yaml)")
	fs.StringVar(&v.repo, "repo", c.RepoPath, "Path to repository (default: current directory)")
	fs.StringVar(&v.remote, "remote", c.RemoteName, "Remote to push to")
	fs.StringVar(&v.remoteURL, "remote-url", c.RemoteURL, "URL used to create the remote when it is missing")
	fs.StringVar(&v.branch, "branch", c.Branch, "Branch to push")
	fs.StringVar(&v.prefix, "prefix", c.MessagePrefix, "Commit message prefix")
	fs.StringVar(&v.backend, "backend", c.Backend, "Git backend: exec or gogit")
	fs.DurationVar(&v.commandTimeout, "timeout", c.CommandTimeout, "Timeout for each git command (0 = none)")
	fs.IntVar(&v.pushRetries, "push-retries", c.PushRetries, "Extra push attempts after a failure")
	fs.BoolVarP(&v.quiet, "quiet", "q", !c.Verbose, "Hide internal warnings")
	fs.BoolVar(&v.debug, "debug", c.Debug, "Enable debug logging")
	fs.StringVar(&v.logFile, "log-file", c.LogFile, "Path to log file (default: $XDG_DATA_HOME/gitsave/logs/gitsave-<repo-hash>.log)")
	fs.StringVar(&v.metricsFile, "metrics-file", c.MetricsFile, "Write a Prometheus textfile here after the run")
	fs.BoolVar(&v.noLock, "no-lock", !c.Lock, "Do not take the repository lock")
}

// Load applies, in order, the config file, the environment and the flags
// explicitly set on fs. fs must have been passed to SetupFlags and parsed.
func (c *Config) Load(fs *pflag.FlagSet) error {
	path := ""
	switch {
	case c.parsed != nil && fs.Changed("config"):
		path = c.parsed.configFile
	case os.Getenv(envPrefix+"CONFIG") != "":
		path = os.Getenv(envPrefix + "CONFIG")
	default:
		if p, ok := DefaultConfigFile(); ok {
			path = p
		}
	}

	if path != "" {
		if err := c.LoadFile(path); err != nil {
			return err
		}
	}

	c.LoadFromEnvironment()
	c.ApplyFlags(fs)
	return nil
}

// ApplyFlags copies every flag that was set explicitly into the config.
// Inverted flags (--quiet, --no-lock) are applied here too.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) {
	v := c.parsed
	if v == nil {
		return
	}

	apply := map[string]func(){
		"repo":         func() { c.RepoPath = v.repo },
		"remote":       func() { c.RemoteName = v.remote },
		"remote-url":   func() { c.RemoteURL = v.remoteURL },
		"branch":       func() { c.Branch = v.branch },
		"prefix":       func() { c.MessagePrefix = v.prefix },
		"backend":      func() { c.Backend = v.backend },
		"timeout":      func() { c.CommandTimeout = v.commandTimeout },
		"push-retries": func() { c.PushRetries = v.pushRetries },
		"quiet":        func() { c.Verbose = !v.quiet },
		"debug":        func() { c.Debug = v.debug },
		"log-file":     func() { c.LogFile = v.logFile },
		"metrics-file": func() { c.MetricsFile = v.metricsFile },
		"no-lock":      func() { c.Lock = !v.noLock },
	}

	fs.Visit(func(f *pflag.Flag) {
		if fn, ok := apply[f.Name]; ok {
			fn()
		}
	})
}
