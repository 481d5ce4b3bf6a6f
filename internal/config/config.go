package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/yamusic/internal/constants"
	"github.com/oshokin/yamusic/internal/logger"
	"github.com/oshokin/yamusic/internal/utils"
)

// Config holds all configuration settings.
type Config struct {
	// Login is the Yandex account login used for passport authorization.
	Login string `mapstructure:"login"`
	// Password is the Yandex account password used for passport authorization.
	Password string `mapstructure:"password"`
	// Token is an OAuth token. When set, it is used instead of login and password.
	Token string `mapstructure:"token"`
	// DeviceID identifies this installation. Generated and saved on first run.
	DeviceID string `mapstructure:"device_id"`
	// Language is the interface language sent to the service (e.g. "ru", "en").
	Language string `mapstructure:"language"`
	// UserAgent overrides the browser User-Agent sent with every request.
	UserAgent string `mapstructure:"user_agent"`
	// MusicBaseURL is the base URL of the music web handlers.
	MusicBaseURL string `mapstructure:"music_base_url"`
	// PassportBaseURL is the base URL of the passport login form.
	PassportBaseURL string `mapstructure:"passport_base_url"`
	// PassportAPIBaseURL is the base URL of the passport account API.
	PassportAPIBaseURL string `mapstructure:"passport_api_base_url"`
	// AdfoxBaseURL is the base URL of the cookie-matching service.
	AdfoxBaseURL string `mapstructure:"adfox_base_url"`
	// YnisonRedirectURL is the WebSocket URL of the Ynison redirector.
	YnisonRedirectURL string `mapstructure:"ynison_redirect_url"`
	// Origin is sent as the Origin header of realtime connections.
	Origin string `mapstructure:"origin"`
	// DeviceAppName is reported as the application name in Ynison device info.
	DeviceAppName string `mapstructure:"device_app_name"`
	// DeviceType is reported as the device type in Ynison device info.
	DeviceType int `mapstructure:"device_type"`
	// SignSalt is the salt prepended to the storage path when signing download links.
	SignSalt string `mapstructure:"sign_salt"`
	// SignKey is the HMAC key used when signing download links.
	SignKey string `mapstructure:"sign_key"`
	// OutputPath is the directory path where downloaded files will be saved.
	OutputPath string `mapstructure:"output_path"`
	// TrackFilenameTemplate is the template for naming downloaded track files.
	TrackFilenameTemplate string `mapstructure:"track_filename_template"`
	// ReplaceTracks indicates whether to replace existing track files.
	ReplaceTracks bool `mapstructure:"replace_tracks"`
	// TagFiles indicates whether downloaded files get metadata tags.
	TagFiles bool `mapstructure:"tag_files"`
	// EmbedCover indicates whether album art is embedded into tagged files.
	EmbedCover bool `mapstructure:"embed_cover"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// DownloadSpeedLimit sets the maximum download speed (e.g., "1MB", "500KB").
	DownloadSpeedLimit string `mapstructure:"download_speed_limit"`
	// MaxDownloadPause is the maximum pause duration between downloads.
	MaxDownloadPause string `mapstructure:"max_download_pause"`
	// RequestTimeout is the timeout of a single HTTP request.
	RequestTimeout string `mapstructure:"request_timeout"`
	// RequestsPerSecond limits the request rate to the service. Zero disables limiting.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	// CacheSize is the number of albums and tracks kept in memory.
	CacheSize int `mapstructure:"cache_size"`
	// Proxy routes HTTP and WebSocket traffic, e.g. "socks5://127.0.0.1:1080".
	Proxy string `mapstructure:"proxy"`
	// DeviceIDGenerated is set when ValidateConfig generated a new device id.
	DeviceIDGenerated bool
	// ParsedDownloadSpeedLimit is the parsed download speed limit in bytes.
	ParsedDownloadSpeedLimit int64
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedMaxDownloadPause is the parsed maximum download pause duration.
	ParsedMaxDownloadPause time.Duration
	// ParsedRequestTimeout is the parsed request timeout.
	ParsedRequestTimeout time.Duration
}

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".yamusic.yaml"

	// DefaultMusicBaseURL is the base URL of the music web service.
	DefaultMusicBaseURL = "https://music.yandex.ru"
	// DefaultPassportBaseURL is the base URL of the passport login form.
	DefaultPassportBaseURL = "https://pda-passport.yandex.ru"
	// DefaultPassportAPIBaseURL is the base URL of the passport account API.
	DefaultPassportAPIBaseURL = "https://api.passport.yandex.ru"
	// DefaultAdfoxBaseURL is the base URL of the cookie-matching service.
	DefaultAdfoxBaseURL = "https://matchid.adfox.yandex.ru"
	// DefaultYnisonRedirectURL is the Ynison redirector endpoint.
	DefaultYnisonRedirectURL = "wss://ynison.music.yandex.ru/redirector.YnisonRedirectService/GetRedirectToYnison"
	// DefaultOrigin is the Origin header of realtime connections.
	DefaultOrigin = "https://music.yandex.ru"

	// DefaultDeviceAppName is the application name reported to Ynison.
	DefaultDeviceAppName = "Chrome"
	// DefaultDeviceType is the device type reported to Ynison (web).
	DefaultDeviceType = 1

	// DefaultSignSalt is the salt of the download link signature.
	DefaultSignSalt = "XGRlBW9FXlekgbPrRHuSiA"

	// DefaultLanguage is the interface language.
	DefaultLanguage = "ru"
	// DefaultTrackFilenameTemplate is the default template for naming downloaded track files.
	DefaultTrackFilenameTemplate = "{{.trackArtist}} - {{.trackTitle}}"
	// DefaultRequestTimeout is the default timeout of a single HTTP request.
	DefaultRequestTimeout = "60s"
	// DefaultCacheSize is the default number of cached albums and tracks.
	DefaultCacheSize = 256

	tokenKey    = "token"
	deviceIDKey = "device_id"
)

// Static error definitions for better error handling.
var (
	// ErrMissingCredentials indicates that neither a token nor a login/password pair is configured.
	ErrMissingCredentials = errors.New("either token or login and password must be set")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidBaseURL indicates that one of the base URLs can't be parsed.
	ErrInvalidBaseURL = errors.New("invalid base URL")
	// ErrInvalidMaxDownloadPause indicates that the max download pause duration is invalid.
	ErrInvalidMaxDownloadPause = errors.New("max_download_pause must be positive")
	// ErrInvalidRequestTimeout indicates that the request timeout is invalid.
	ErrInvalidRequestTimeout = errors.New("request_timeout must be positive")
	// ErrInvalidRequestsPerSecond indicates that the request rate is negative.
	ErrInvalidRequestsPerSecond = errors.New("requests_per_second cannot be negative")
	// ErrInvalidCacheSize indicates that the cache size is negative.
	ErrInvalidCacheSize = errors.New("cache_size cannot be negative")
)

// LoadConfig loads configuration settings from a YAML file.
func LoadConfig(configFilename string) (*Config, error) {
	if configFilename == "" {
		configFilename = DefaultConfigFilename
	}

	viper.SetConfigFile(configFilename)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config from file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// HasCredentials reports whether the configuration allows authorization.
func (c *Config) HasCredentials() bool {
	return strings.TrimSpace(c.Token) != "" ||
		(strings.TrimSpace(c.Login) != "" && c.Password != "")
}

// ValidateConfig checks the configuration for validity, fills defaults and sets derived fields.
//
//nolint:funlen,cyclop // Validation functions naturally have high complexity and length due to sequential checks.
func ValidateConfig(cfg *Config) error {
	var (
		downloadSpeedLimit       = strings.TrimSpace(cfg.DownloadSpeedLimit)
		parsedDownloadSpeedLimit uint64
		err                      error
	)

	cfg.Token = strings.TrimSpace(cfg.Token)
	cfg.Login = strings.TrimSpace(cfg.Login)

	if !cfg.HasCredentials() {
		return ErrMissingCredentials
	}

	if strings.TrimSpace(cfg.DeviceID) == "" {
		cfg.DeviceID = uuid.NewString()
		cfg.DeviceIDGenerated = true
	}

	applyDefaults(cfg)

	for name, value := range map[string]string{
		"music_base_url":        cfg.MusicBaseURL,
		"passport_base_url":     cfg.PassportBaseURL,
		"passport_api_base_url": cfg.PassportAPIBaseURL,
		"adfox_base_url":        cfg.AdfoxBaseURL,
		"ynison_redirect_url":   cfg.YnisonRedirectURL,
	} {
		parsed, parseErr := url.Parse(value)
		if parseErr != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%w: %s '%s'", ErrInvalidBaseURL, name, value)
		}
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	if downloadSpeedLimit != "" && downloadSpeedLimit != "0" {
		parsedDownloadSpeedLimit, err = humanize.ParseBytes(downloadSpeedLimit)
		if err != nil {
			return fmt.Errorf("failed to parse download speed limit: %w", err)
		}
	}

	// The rate limiter takes int64 byte counts.
	cfg.ParsedDownloadSpeedLimit = utils.SafeUint64ToInt64(parsedDownloadSpeedLimit)

	if cfg.MaxDownloadPause != "" {
		cfg.ParsedMaxDownloadPause, err = time.ParseDuration(cfg.MaxDownloadPause)
		if err != nil {
			return fmt.Errorf("failed to parse max download pause: %w", err)
		}

		if cfg.ParsedMaxDownloadPause <= 0 {
			return ErrInvalidMaxDownloadPause
		}
	}

	cfg.ParsedRequestTimeout, err = time.ParseDuration(cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("failed to parse request timeout: %w", err)
	}

	if cfg.ParsedRequestTimeout <= 0 {
		return ErrInvalidRequestTimeout
	}

	if cfg.RequestsPerSecond < 0 {
		return ErrInvalidRequestsPerSecond
	}

	if cfg.CacheSize < 0 {
		return ErrInvalidCacheSize
	}

	return nil
}

//nolint:cyclop // Flat list of independent defaults.
func applyDefaults(cfg *Config) {
	setDefault := func(value *string, fallback string) {
		if strings.TrimSpace(*value) == "" {
			*value = fallback
		}
	}

	setDefault(&cfg.Language, DefaultLanguage)
	setDefault(&cfg.MusicBaseURL, DefaultMusicBaseURL)
	setDefault(&cfg.PassportBaseURL, DefaultPassportBaseURL)
	setDefault(&cfg.PassportAPIBaseURL, DefaultPassportAPIBaseURL)
	setDefault(&cfg.AdfoxBaseURL, DefaultAdfoxBaseURL)
	setDefault(&cfg.YnisonRedirectURL, DefaultYnisonRedirectURL)
	setDefault(&cfg.Origin, DefaultOrigin)
	setDefault(&cfg.DeviceAppName, DefaultDeviceAppName)
	setDefault(&cfg.SignSalt, DefaultSignSalt)
	setDefault(&cfg.TrackFilenameTemplate, DefaultTrackFilenameTemplate)
	setDefault(&cfg.RequestTimeout, DefaultRequestTimeout)
	setDefault(&cfg.LogLevel, zapcore.InfoLevel.String())

	if cfg.OutputPath == "" {
		cfg.OutputPath = "."
	}

	if cfg.DeviceType == 0 {
		cfg.DeviceType = DefaultDeviceType
	}

	if cfg.CacheSize == 0 {
		cfg.CacheSize = DefaultCacheSize
	}
}

// SaveConfig saves the token and device id to the file while preserving the original format and order.
func SaveConfig(cfg *Config) error {
	configFile := getConfigFilePath()

	values := map[string]string{
		tokenKey:    cfg.Token,
		deviceIDKey: cfg.DeviceID,
	}

	// Read the original file content.
	originalContent, err := os.ReadFile(configFile)
	if err != nil {
		return handleMissingConfigFile(configFile, values, err)
	}

	// Parse YAML while preserving order using yaml.Node.
	var node yaml.Node
	if err = yaml.Unmarshal(originalContent, &node); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	updateValuesInNode(&node, values)

	// Marshal back to YAML (preserves order).
	newContent, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err = os.WriteFile(configFile, newContent, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getConfigFilePath returns the config file path from viper or the default.
func getConfigFilePath() string {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		return DefaultConfigFilename
	}

	return configFile
}

// handleMissingConfigFile creates a new config file if it doesn't exist.
func handleMissingConfigFile(configFile string, values map[string]string, err error) error {
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	for key, value := range values {
		viper.Set(key, value)
	}

	if err = viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// updateValuesInNode sets the given keys in the YAML node tree.
// Existing keys keep their position, missing non-empty keys are appended.
func updateValuesInNode(node *yaml.Node, values map[string]string) {
	// The root node is a document node, content[0] is the actual map.
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return
	}

	mapNode := node.Content[0]
	seen := make(map[string]bool, len(values))

	// Key-value pairs are stored as alternating nodes.
	for i := 0; i+1 < len(mapNode.Content); i += 2 {
		keyNode := mapNode.Content[i]
		valueNode := mapNode.Content[i+1]

		value, ok := values[keyNode.Value]
		if !ok {
			continue
		}

		seen[keyNode.Value] = true
		valueNode.Kind = yaml.ScalarNode
		valueNode.Tag = "!!str"
		valueNode.Value = value

		if valueNode.Style == 0 {
			valueNode.Style = yaml.DoubleQuotedStyle
		}
	}

	for _, key := range []string{tokenKey, deviceIDKey} {
		value, ok := values[key]
		if !ok || seen[key] || value == "" {
			continue
		}

		mapNode.Content = append(mapNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value, Style: yaml.DoubleQuotedStyle},
		)
	}
}
