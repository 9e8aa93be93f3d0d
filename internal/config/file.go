package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/bashhack/gitsave/internal/constants"
	"github.com/bashhack/gitsave/internal/errors"
)

// fileConfig mirrors Config for YAML decoding. Pointer fields tell an
// absent key apart from a zero value.
type fileConfig struct {
	Repo           *string `yaml:"repo"`
	Remote         *string `yaml:"remote"`
	RemoteURL      *string `yaml:"remote_url"`
	Branch         *string `yaml:"branch"`
	MessagePrefix  *string `yaml:"message_prefix"`
	Backend        *string `yaml:"backend"`
	CommandTimeout *string `yaml:"command_timeout"`
	PushRetries    *int    `yaml:"push_retries"`
	AuthToken      *string `yaml:"auth_token"`
	Author         *struct {
		Name  *string `yaml:"name"`
		Email *string `yaml:"email"`
	} `yaml:"author"`
	Verbose     *bool   `yaml:"verbose"`
	Debug       *bool   `yaml:"debug"`
	LogFile     *string `yaml:"log_file"`
	MetricsFile *string `yaml:"metrics_file"`
	Lock        *bool   `yaml:"lock"`
}

// DefaultConfigFile returns $XDG_CONFIG_HOME/gitsave/config.yaml (or the
// first match in $XDG_CONFIG_DIRS) when such a file exists.
func DefaultConfigFile() (string, bool) {
	path, err := xdg.SearchConfigFile(filepath.Join(constants.AppName, "config.yaml"))
	if err != nil {
		return "", false
	}
	return path, true
}

// LoadFile applies the YAML file at path on top of the current values.
// Relative paths inside the file are resolved against the file's directory.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewConfigError("config", path, errors.Wrap(err, "cannot read config file"))
	}

	if err := c.loadYAML(bytes.NewReader(data), filepath.Dir(path)); err != nil {
		return errors.NewConfigError("config", path, err)
	}

	c.ConfigFile = path
	return nil
}

func (c *Config) loadYAML(r io.Reader, baseDir string) error {
	var fc fileConfig

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		if err == io.EOF {
			// Empty file
			return nil
		}
		return errors.Wrap(errors.ErrInvalidConfiguration, err.Error())
	}

	setString(&c.RepoPath, resolve(fc.Repo, baseDir))
	setString(&c.RemoteName, fc.Remote)
	setString(&c.RemoteURL, fc.RemoteURL)
	setString(&c.Branch, fc.Branch)
	setString(&c.MessagePrefix, fc.MessagePrefix)
	setString(&c.Backend, fc.Backend)
	setString(&c.AuthToken, fc.AuthToken)
	setString(&c.LogFile, resolve(fc.LogFile, baseDir))
	setString(&c.MetricsFile, resolve(fc.MetricsFile, baseDir))

	if fc.CommandTimeout != nil {
		d, err := parseDuration(*fc.CommandTimeout)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidConfiguration, "command_timeout %q", *fc.CommandTimeout)
		}
		c.CommandTimeout = d
	}
	if fc.PushRetries != nil {
		c.PushRetries = *fc.PushRetries
	}
	if fc.Author != nil {
		setString(&c.AuthorName, fc.Author.Name)
		setString(&c.AuthorEmail, fc.Author.Email)
	}
	if fc.Verbose != nil {
		c.Verbose = *fc.Verbose
	}
	if fc.Debug != nil {
		c.Debug = *fc.Debug
	}
	if fc.Lock != nil {
		c.Lock = *fc.Lock
	}

	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func resolve(p *string, baseDir string) *string {
	if p == nil || *p == "" || filepath.IsAbs(*p) || baseDir == "" {
		return p
	}
	joined := filepath.Join(baseDir, *p)
	return &joined
}
