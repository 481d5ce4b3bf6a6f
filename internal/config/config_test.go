package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/yamusic/internal/constants"
)

func validConfig() *Config {
	return &Config{
		Token:              "AQAAAA-token",
		DeviceID:           "7f1c2a4e-0000-4000-8000-000000000001",
		LogLevel:           "info",
		DownloadSpeedLimit: "1MB",
		MaxDownloadPause:   "2s",
	}
}

// TestLoadConfig tests the LoadConfig function.
//
//nolint:paralleltest // Viper keeps global state.
func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		expectError   bool
		expectedError string
	}{
		{
			name: "valid config file",
			content: `
login: "listener"
password: "secret"
device_id: "dev-1"
log_level: "debug"
requests_per_second: 2.5
tag_files: true
`,
		},
		{
			name:          "non-existent file",
			expectError:   true,
			expectedError: "failed to read config from file",
		},
		{
			name:          "invalid yaml",
			content:       "invalid: yaml: content: [unclosed\n",
			expectError:   true,
			expectedError: "failed to read config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.content != "" {
				require.NoError(t, os.WriteFile(configPath, []byte(tt.content), constants.DefaultFilePermissions))
			}

			cfg, err := LoadConfig(configPath)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, cfg)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "listener", cfg.Login)
			assert.Equal(t, "secret", cfg.Password)
			assert.Equal(t, "dev-1", cfg.DeviceID)
			assert.Equal(t, "debug", cfg.LogLevel)
			assert.InDelta(t, 2.5, cfg.RequestsPerSecond, 0.0001)
			assert.True(t, cfg.TagFiles)
		})
	}
}

// TestValidateConfig tests the ValidateConfig function.
func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(cfg *Config)
		errorIs  error
		errorMsg string
	}{
		{name: "valid token config", mutate: func(*Config) {}},
		{
			name: "login and password instead of token",
			mutate: func(cfg *Config) {
				cfg.Token = ""
				cfg.Login = "listener"
				cfg.Password = "secret"
			},
		},
		{
			name:    "no credentials",
			mutate:  func(cfg *Config) { cfg.Token = "  " },
			errorIs: ErrMissingCredentials,
		},
		{
			name: "login without password",
			mutate: func(cfg *Config) {
				cfg.Token = ""
				cfg.Login = "listener"
			},
			errorIs: ErrMissingCredentials,
		},
		{
			name:    "invalid log level",
			mutate:  func(cfg *Config) { cfg.LogLevel = "verbose" },
			errorIs: ErrUnknownLogLevel,
		},
		{
			name:     "invalid download speed limit",
			mutate:   func(cfg *Config) { cfg.DownloadSpeedLimit = "fast" },
			errorMsg: "failed to parse download speed limit:",
		},
		{
			name:     "invalid max download pause",
			mutate:   func(cfg *Config) { cfg.MaxDownloadPause = "soon" },
			errorMsg: "failed to parse max download pause:",
		},
		{
			name:    "negative max download pause",
			mutate:  func(cfg *Config) { cfg.MaxDownloadPause = "-1s" },
			errorIs: ErrInvalidMaxDownloadPause,
		},
		{
			name:    "zero request timeout",
			mutate:  func(cfg *Config) { cfg.RequestTimeout = "0s" },
			errorIs: ErrInvalidRequestTimeout,
		},
		{
			name:    "negative request rate",
			mutate:  func(cfg *Config) { cfg.RequestsPerSecond = -1 },
			errorIs: ErrInvalidRequestsPerSecond,
		},
		{
			name:    "negative cache size",
			mutate:  func(cfg *Config) { cfg.CacheSize = -5 },
			errorIs: ErrInvalidCacheSize,
		},
		{
			name:    "base URL without scheme",
			mutate:  func(cfg *Config) { cfg.MusicBaseURL = "music.yandex.ru" },
			errorIs: ErrInvalidBaseURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)

			switch {
			case tt.errorIs != nil:
				require.ErrorIs(t, err, tt.errorIs)
			case tt.errorMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, zapcore.InfoLevel, cfg.ParsedLogLevel)
			}
		})
	}
}

// TestValidateConfig_Defaults tests that empty settings receive defaults.
func TestValidateConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{Token: "AQAAAA-token"}
	require.NoError(t, ValidateConfig(cfg))

	assert.True(t, cfg.DeviceIDGenerated)

	_, err := uuid.Parse(cfg.DeviceID)
	require.NoError(t, err)

	assert.Equal(t, DefaultLanguage, cfg.Language)
	assert.Equal(t, DefaultMusicBaseURL, cfg.MusicBaseURL)
	assert.Equal(t, DefaultPassportBaseURL, cfg.PassportBaseURL)
	assert.Equal(t, DefaultPassportAPIBaseURL, cfg.PassportAPIBaseURL)
	assert.Equal(t, DefaultAdfoxBaseURL, cfg.AdfoxBaseURL)
	assert.Equal(t, DefaultYnisonRedirectURL, cfg.YnisonRedirectURL)
	assert.Equal(t, DefaultOrigin, cfg.Origin)
	assert.Equal(t, DefaultDeviceAppName, cfg.DeviceAppName)
	assert.Equal(t, DefaultDeviceType, cfg.DeviceType)
	assert.Equal(t, DefaultSignSalt, cfg.SignSalt)
	assert.Empty(t, cfg.SignKey)
	assert.Equal(t, DefaultTrackFilenameTemplate, cfg.TrackFilenameTemplate)
	assert.Equal(t, DefaultCacheSize, cfg.CacheSize)
	assert.Equal(t, time.Minute, cfg.ParsedRequestTimeout)
	assert.Equal(t, zapcore.InfoLevel, cfg.ParsedLogLevel)
	assert.Zero(t, cfg.ParsedMaxDownloadPause)
	assert.Zero(t, cfg.ParsedDownloadSpeedLimit)
}

// TestValidateConfig_DownloadSpeedLimit tests download speed limit parsing.
func TestValidateConfig_DownloadSpeedLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		speedLimit    string
		expectedBytes int64
	}{
		{speedLimit: "", expectedBytes: 0},
		{speedLimit: "0", expectedBytes: 0},
		{speedLimit: "1KB", expectedBytes: 1000},
		{speedLimit: "1KiB", expectedBytes: 1024},
		{speedLimit: " 2MB ", expectedBytes: 2000000},
	}

	for _, tt := range tests {
		t.Run(tt.speedLimit, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			cfg.DownloadSpeedLimit = tt.speedLimit

			require.NoError(t, ValidateConfig(cfg))
			assert.Equal(t, tt.expectedBytes, cfg.ParsedDownloadSpeedLimit)
		})
	}
}

// TestUpdateValuesInNode tests that existing keys are updated in place and missing ones appended.
func TestUpdateValuesInNode(t *testing.T) {
	t.Parallel()

	source := "login: listener\ntoken: old\nlog_level: info\n"

	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(source), &node))

	updateValuesInNode(&node, map[string]string{tokenKey: "new-token", deviceIDKey: "dev-2"})

	out, err := yaml.Marshal(&node)
	require.NoError(t, err)

	assert.Equal(t, "login: listener\ntoken: \"new-token\"\nlog_level: info\ndevice_id: \"dev-2\"\n", string(out))
}

// TestUpdateValuesInNode_NotAMapping tests that non-mapping documents are left untouched.
func TestUpdateValuesInNode_NotAMapping(t *testing.T) {
	t.Parallel()

	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("- a\n- b\n"), &node))

	updateValuesInNode(&node, map[string]string{tokenKey: "x"})

	out, err := yaml.Marshal(&node)
	require.NoError(t, err)
	assert.Equal(t, "- a\n- b\n", string(out))
}

// TestSaveConfig tests that SaveConfig preserves the file and updates credentials.
//
//nolint:paralleltest // Viper keeps global state.
func TestSaveConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "# comment\nlogin: listener\ndevice_id: \"\"\nlog_level: info\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), constants.DefaultFilePermissions))

	viper.SetConfigFile(configPath)

	cfg := &Config{Token: "saved-token", DeviceID: "dev-3"}
	require.NoError(t, SaveConfig(cfg))

	saved, err := os.ReadFile(configPath)
	require.NoError(t, err)

	assert.Contains(t, string(saved), "# comment")
	assert.Contains(t, string(saved), `device_id: "dev-3"`)
	assert.Contains(t, string(saved), `token: "saved-token"`)
	assert.Less(t,
		strings.Index(string(saved), "login"),
		strings.Index(string(saved), "device_id"),
		"existing keys keep their order")
}
