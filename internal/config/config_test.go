package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bro-exchange/bro-exchange/internal/telemetry"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func intPtr(i int) *int { return &i }

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		yamlContent string
		wantConfig  *Config
		wantErr     string
	}{
		{
			name: "full_config",
			yamlContent: `portal:
  user: aanlever
  passwordFile: /run/secrets/portal
  projectId: "1234"
  api: v2
  demo: true
  timeout: 1m
  retries: 5
stateDir: /var/lib/bro-exchange
telemetry:
  enabled: true
  endpoint: otel:4318
  tracing:
    enabled: true
    sampling: 0.5`,
			wantConfig: &Config{
				Portal: PortalConfig{
					User:         "aanlever",
					PasswordFile: "/run/secrets/portal",
					ProjectID:    "1234",
					API:          "v2",
					Demo:         true,
					Timeout:      "1m",
					Retries:      intPtr(5),
				},
				StateDir: "/var/lib/bro-exchange",
				Telemetry: &telemetry.Config{
					Enabled:  true,
					Endpoint: "otel:4318",
					Tracing:  &telemetry.TracingConfig{Enabled: true, Sampling: 0.5},
				},
			},
		},
		{
			name: "minimal_config_defaults_api",
			yamlContent: `portal:
  user: aanlever`,
			wantConfig: &Config{
				Portal: PortalConfig{User: "aanlever", API: DefaultAPI},
			},
		},
		{
			name: "v2_without_project",
			yamlContent: `portal:
  api: v2`,
			wantErr: "portal.projectId is required",
		},
		{
			name: "unknown_api",
			yamlContent: `portal:
  api: v3`,
			wantErr: "portal.api must be v1 or v2",
		},
		{
			name: "invalid_timeout",
			yamlContent: `portal:
  timeout: soon`,
			wantErr: "portal.timeout must be a valid duration",
		},
		{
			name: "zero_retries",
			yamlContent: `portal:
  retries: 0`,
			wantErr: "portal.retries must be at least 1",
		},
		{
			name: "invalid_sampling",
			yamlContent: `telemetry:
  enabled: true
  tracing:
    enabled: true
    sampling: 2`,
			wantErr: "telemetry: tracing: sampling",
		},
		{
			name:        "invalid_yaml",
			yamlContent: "portal: [",
			wantErr:     "failed to parse YAML config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := LoadConfig(WithConfigPath(writeConfig(t, tt.yamlContent)))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantConfig, cfg)
		})
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultAPI, cfg.Portal.API)
	assert.Equal(t, DefaultStateDir, cfg.GetStateDir())
	assert.Equal(t, DefaultTimeout, cfg.Portal.GetTimeout())
	assert.Equal(t, DefaultRetries, cfg.Portal.GetRetries())

	_, err = LoadConfig(func(lc *loaderConfig) error {
		lc.path = filepath.Join(t.TempDir(), "missing.yaml")
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_ViperOverrides(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `portal:
  user: from-file
  api: v1
stateDir: /from/file`)

	v := viper.New()
	v.Set(KeyPortalUser, "from-flag")
	v.Set(KeyPortalAPI, "v2")
	v.Set(KeyPortalProjectID, "42")
	v.Set(KeyPortalDemo, true)

	cfg, err := LoadConfig(WithConfigPath(path), WithViper(v))
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Portal.User)
	assert.Equal(t, "v2", cfg.Portal.API)
	assert.Equal(t, "42", cfg.Portal.ProjectID)
	assert.True(t, cfg.Portal.Demo)
	assert.Equal(t, "/from/file", cfg.StateDir)

	_, err = LoadConfig(WithViper(nil))
	require.Error(t, err)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("BRO_EXCHANGE_PORTAL_PASSWORD", "env-token")
	t.Setenv("BRO_EXCHANGE_STATEDIR", "/from/env")

	v := viper.New()
	ConfigureViper(v)

	cfg, err := LoadConfig(WithViper(v))
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.StateDir)

	password, err := cfg.Portal.GetPassword()
	require.NoError(t, err)
	assert.Equal(t, "env-token", password)
}

func TestWithConfigPath(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("portal: {}"), 0600))
	linkPath := filepath.Join(tmpDir, "link.yaml")
	require.NoError(t, os.Symlink(configPath, linkPath))

	tests := []struct {
		name     string
		path     string
		wantPath string
		wantErr  bool
	}{
		{
			name:    "empty path",
			path:    "",
			wantErr: true,
		},
		{
			name:    "path traversal at start",
			path:    "../etc/passwd",
			wantErr: true,
		},
		{
			name:    "path traversal with dot",
			path:    "./../etc/passwd",
			wantErr: true,
		},
		{
			name:     "absolute path",
			path:     configPath,
			wantPath: configPath,
		},
		{
			name:     "symlink is resolved",
			path:     linkPath,
			wantPath: configPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &loaderConfig{}
			err := WithConfigPath(tt.path)(cfg)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			want, err := filepath.EvalSymlinks(tt.wantPath)
			require.NoError(t, err)
			assert.Equal(t, want, cfg.path)
		})
	}
}

func TestPortalConfigGetPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		portal       *PortalConfig
		setupFile    func(t *testing.T) string
		wantPassword string
		errMsg       string
	}{
		{
			name: "password_from_file_with_whitespace",
			setupFile: func(t *testing.T) string {
				t.Helper()
				passwordFile := filepath.Join(t.TempDir(), "password.txt")
				require.NoError(t, os.WriteFile(passwordFile, []byte("  mytoken\n\t"), 0600))
				return passwordFile
			},
			portal:       &PortalConfig{Password: "ignored"},
			wantPassword: "mytoken",
		},
		{
			name:         "inline_password",
			portal:       &PortalConfig{Password: "inline"},
			wantPassword: "inline",
		},
		{
			name:   "password_file_not_found",
			portal: &PortalConfig{PasswordFile: "/nonexistent/password.txt"},
			errMsg: "failed to read password from file",
		},
		{
			name:   "nothing_configured",
			portal: &PortalConfig{},
			errMsg: "BRO_EXCHANGE_PORTAL_PASSWORD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if tt.setupFile != nil {
				tt.portal.PasswordFile = tt.setupFile(t)
			}

			password, err := tt.portal.GetPassword()
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPassword, password)
		})
	}
}

func TestPortalConfigGetters(t *testing.T) {
	t.Parallel()

	p := &PortalConfig{Timeout: "45s", Retries: intPtr(2)}
	assert.Equal(t, 45*time.Second, p.GetTimeout())
	assert.Equal(t, 2, p.GetRetries())

	c := &Config{StateDir: "/tmp/state"}
	assert.Equal(t, "/tmp/state", c.GetStateDir())
}
