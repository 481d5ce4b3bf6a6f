package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oshokin/yamusic/internal/app"
	"github.com/oshokin/yamusic/internal/logger"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	playlistCmd = &cobra.Command{
		Use:   "playlist",
		Short: "Playlist management commands",
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	playlistCreateCmd = &cobra.Command{
		Use:   "create --title {title}",
		Short: "Create a playlist and print its kind",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cfg := prepareConfig(cmd)

			title, _ := cmd.Flags().GetString(flagPlaylistTitle)

			app.ExecutePlaylistCreateCommand(cmd.Context(), cfg, title)
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	playlistRemoveCmd = &cobra.Command{
		Use:   "remove {kind}",
		Short: "Remove a playlist by its kind",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := prepareConfig(cmd)

			kind, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				logger.Fatalf(cmd.Context(), "Invalid playlist kind '%s': %v", args[0], err)
			}

			app.ExecutePlaylistRemoveCommand(cmd.Context(), cfg, kind)
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	playlistCreateCmd.Flags().String(flagPlaylistTitle, "", "title of the new playlist.")
	_ = playlistCreateCmd.MarkFlagRequired(flagPlaylistTitle) //nolint:errcheck // The flag is defined above.

	playlistCmd.AddCommand(playlistCreateCmd, playlistRemoveCmd)
	rootCmd.AddCommand(playlistCmd)
}
