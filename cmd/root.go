package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/yamusic/internal/config"
	"github.com/oshokin/yamusic/internal/logger"
	"github.com/oshokin/yamusic/internal/version"
)

const (
	flagConfig        = "config"
	flagToken         = "token"
	flagLogin         = "login"
	flagPassword      = "password"
	flagLogLevel      = "log-level"
	flagProxy         = "proxy"
	flagOutput        = "output"
	flagSpeedLimit    = "speed-limit"
	flagTemplate      = "template"
	flagReplace       = "replace"
	flagTags          = "tags"
	flagCover         = "cover"
	flagMaxPause      = "max-pause"
	flagSearchType    = "type"
	flagSearchPage    = "page"
	flagPlaylistTitle = "title"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "yamusic",
		Short: "Yandex Music client: download, search, likes, playlists and Ynison.",
		Long: `yamusic is a CLI client for Yandex Music.
It supports:
- Downloading tracks, albums, liked tracks and generated playlists
- Searching for tracks, artists, albums, playlists and users
- Liking and unliking tracks
- Creating and removing playlists
- Watching the shared playback session (Ynison)

Credentials are read from the configuration file and can be overridden with flags.`,
		Version:          version.Full(),
		PersistentPreRun: initConfig,
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmdFlags := rootCmd.PersistentFlags()

	rootCmdFlags.StringVarP(
		&configFilenameFromFlag,
		flagConfig,
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	rootCmdFlags.String(
		flagToken,
		"",
		"OAuth token, takes precedence over login and password.")

	rootCmdFlags.String(
		flagLogin,
		"",
		"Yandex account login.")

	rootCmdFlags.String(
		flagPassword,
		"",
		"Yandex account password.")

	rootCmdFlags.String(
		flagLogLevel,
		"",
		"log level: debug, info, warn, error.")

	rootCmdFlags.String(
		flagProxy,
		"",
		"proxy for all connections, for example: socks5://127.0.0.1:1080.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}
}

// prepareConfig applies the command line flags and validates the result.
func prepareConfig(cmd *cobra.Command) *config.Config {
	if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
		logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
	}

	logger.SetLevel(appConfig.ParsedLogLevel)

	return appConfig
}

//nolint:cyclop // Flat list of independent overrides.
func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup(flagToken); flag != nil && flag.Changed {
		cfg.Token, _ = flags.GetString(flagToken)
	}

	if flag := flags.Lookup(flagLogin); flag != nil && flag.Changed {
		cfg.Login, _ = flags.GetString(flagLogin)
	}

	if flag := flags.Lookup(flagPassword); flag != nil && flag.Changed {
		cfg.Password, _ = flags.GetString(flagPassword)
	}

	if flag := flags.Lookup(flagLogLevel); flag != nil && flag.Changed {
		cfg.LogLevel, _ = flags.GetString(flagLogLevel)
	}

	if flag := flags.Lookup(flagProxy); flag != nil && flag.Changed {
		cfg.Proxy, _ = flags.GetString(flagProxy)
	}

	if flag := flags.Lookup(flagOutput); flag != nil && flag.Changed {
		cfg.OutputPath, _ = flags.GetString(flagOutput)
	}

	if flag := flags.Lookup(flagSpeedLimit); flag != nil && flag.Changed {
		cfg.DownloadSpeedLimit, _ = flags.GetString(flagSpeedLimit)
	}

	if flag := flags.Lookup(flagTemplate); flag != nil && flag.Changed {
		cfg.TrackFilenameTemplate, _ = flags.GetString(flagTemplate)
	}

	if flag := flags.Lookup(flagReplace); flag != nil && flag.Changed {
		cfg.ReplaceTracks, _ = flags.GetBool(flagReplace)
	}

	if flag := flags.Lookup(flagTags); flag != nil && flag.Changed {
		cfg.TagFiles, _ = flags.GetBool(flagTags)
	}

	if flag := flags.Lookup(flagCover); flag != nil && flag.Changed {
		cfg.EmbedCover, _ = flags.GetBool(flagCover)
	}

	if flag := flags.Lookup(flagMaxPause); flag != nil && flag.Changed {
		cfg.MaxDownloadPause, _ = flags.GetString(flagMaxPause)
	}

	return config.ValidateConfig(cfg)
}
