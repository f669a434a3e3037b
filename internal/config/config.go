// Package config provides configuration loading for the bro-exchange CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/bro-exchange/bro-exchange/internal/telemetry"
)

const (
	// EnvPrefix prefixes every environment variable read through viper, e.g. BRO_EXCHANGE_PORTAL_PASSWORD
	EnvPrefix = "BRO_EXCHANGE"

	// DefaultStateDir is where delivery records are kept when stateDir is not set
	DefaultStateDir = ".bro-exchange"

	// DefaultAPI is the portal API version used when none is configured
	DefaultAPI = "v1"

	// DefaultTimeout is the per-request portal timeout
	DefaultTimeout = 30 * time.Second

	// DefaultRetries is how often a transient portal failure is attempted
	DefaultRetries = 3
)

// Viper keys that can be overridden from the environment or bound to flags
const (
	KeyPortalUser         = "portal.user"
	KeyPortalPassword     = "portal.password"
	KeyPortalPasswordFile = "portal.passwordFile"
	KeyPortalProjectID    = "portal.projectId"
	KeyPortalAPI          = "portal.api"
	KeyPortalDemo         = "portal.demo"
	KeyPortalBaseURL      = "portal.baseURL"
	KeyStateDir           = "stateDir"
)

// ConfigureViper makes v read BRO_EXCHANGE_* environment variables, mapping
// portal.projectId to BRO_EXCHANGE_PORTAL_PROJECTID
func ConfigureViper(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path  string
	viper *viper.Viper
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		// Validate the path to prevent path traversal attacks
		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// WithViper applies the values set in v (environment, bound flags) on top of the file
func WithViper(v *viper.Viper) Option {
	return func(cfg *loaderConfig) error {
		if v == nil {
			return fmt.Errorf("viper instance is required")
		}
		cfg.viper = v
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	Portal PortalConfig `yaml:"portal"`

	// StateDir holds the delivery records. Defaults to DefaultStateDir.
	StateDir string `yaml:"stateDir,omitempty"`

	Telemetry *telemetry.Config `yaml:"telemetry,omitempty"`
}

// PortalConfig defines the bronhouderportaal connection
type PortalConfig struct {
	User string `yaml:"user,omitempty"`

	// Password is the portal token. Prefer PasswordFile or BRO_EXCHANGE_PORTAL_PASSWORD.
	Password string `yaml:"password,omitempty"`

	// PasswordFile is the path to a file containing the portal token
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// ProjectID is required by API v2
	ProjectID string `yaml:"projectId,omitempty"`

	// API is v1 or v2
	API string `yaml:"api,omitempty"`

	// Demo selects the acceptance environment
	Demo bool `yaml:"demo,omitempty"`

	// BaseURL replaces the API root, e.g. for a local test portal
	BaseURL string `yaml:"baseURL,omitempty"`

	// Timeout is the per-request timeout (e.g., "30s", "2m")
	Timeout string `yaml:"timeout,omitempty"`

	// Retries is how often a transient failure is attempted
	Retries *int `yaml:"retries,omitempty"`
}

// GetPassword returns the portal token using the following priority:
// 1. Read from PasswordFile if specified
// 2. Password as configured or overridden through BRO_EXCHANGE_PORTAL_PASSWORD
//
// The password from file will have leading/trailing whitespace trimmed.
func (p *PortalConfig) GetPassword() (string, error) {
	if p.PasswordFile != "" {
		cleanPath := filepath.Clean(p.PasswordFile)

		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to read password from file %s: %w", p.PasswordFile, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if p.Password != "" {
		return p.Password, nil
	}

	return "", fmt.Errorf(
		"no portal password configured: set passwordFile or %s_PORTAL_PASSWORD environment variable", EnvPrefix,
	)
}

// GetTimeout returns the parsed timeout, DefaultTimeout when unset
func (p *PortalConfig) GetTimeout() time.Duration {
	if p.Timeout == "" {
		return DefaultTimeout
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return DefaultTimeout
	}
	return d
}

// GetRetries returns how often a call is attempted, DefaultRetries when unset
func (p *PortalConfig) GetRetries() int {
	if p.Retries == nil {
		return DefaultRetries
	}
	return *p.Retries
}

// GetStateDir returns the state directory, DefaultStateDir when unset
func (c *Config) GetStateDir() string {
	if c.StateDir == "" {
		return DefaultStateDir
	}
	return c.StateDir
}

// LoadConfig loads the YAML file (when given), applies viper overrides and
// validates the result. Without any option the defaults are returned.
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	var config Config
	if loaderCfg.path != "" {
		data, err := os.ReadFile(loaderCfg.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	if loaderCfg.viper != nil {
		config.applyOverrides(loaderCfg.viper)
	}
	if config.Portal.API == "" {
		config.Portal.API = DefaultAPI
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func overrideString(v *viper.Viper, key string, target *string) {
	if v.IsSet(key) {
		*target = v.GetString(key)
	}
}

// applyOverrides copies every key v has a value for into c
func (c *Config) applyOverrides(v *viper.Viper) {
	overrideString(v, KeyPortalUser, &c.Portal.User)
	overrideString(v, KeyPortalPassword, &c.Portal.Password)
	overrideString(v, KeyPortalPasswordFile, &c.Portal.PasswordFile)
	overrideString(v, KeyPortalProjectID, &c.Portal.ProjectID)
	overrideString(v, KeyPortalAPI, &c.Portal.API)
	overrideString(v, KeyPortalBaseURL, &c.Portal.BaseURL)
	overrideString(v, KeyStateDir, &c.StateDir)
	if v.IsSet(KeyPortalDemo) {
		c.Portal.Demo = v.GetBool(KeyPortalDemo)
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := c.Portal.validate(); err != nil {
		return err
	}

	if c.Telemetry != nil {
		if err := c.Telemetry.Validate(); err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
	}

	return nil
}

func (p *PortalConfig) validate() error {
	switch p.API {
	case "v1":
	case "v2":
		if p.ProjectID == "" {
			return fmt.Errorf("portal.projectId is required for api v2")
		}
	default:
		return fmt.Errorf("portal.api must be v1 or v2, got %s", p.API)
	}

	if p.Timeout != "" {
		if _, err := time.ParseDuration(p.Timeout); err != nil {
			return fmt.Errorf("portal.timeout must be a valid duration (e.g., '30s', '2m'): %w", err)
		}
	}

	if p.Retries != nil && *p.Retries < 1 {
		return fmt.Errorf("portal.retries must be at least 1, got %d", *p.Retries)
	}

	return nil
}
