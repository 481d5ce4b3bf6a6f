package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/yamusic/internal/app"
)

//nolint:gochecknoglobals // Cobra command requires a global definition.
var downloadCmd = &cobra.Command{
	Use:   "download [flags] {links}",
	Short: "Download tracks, albums, liked tracks or generated playlists.",
	Long: `Downloads audio content from the given links.
It supports:
- Track links: https://music.yandex.ru/album/1193829/track/10994777
- Album links: https://music.yandex.ru/album/1193829
- Track keys: 10994777:1193829
- favorites, playlist-of-day and deja-vu
- Text files with one link per line

Tracks are tagged and get cover art unless disabled in the configuration.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, links []string) {
		app.ExecuteDownloadCommand(cmd.Context(), prepareConfig(cmd), links)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	downloadCmdFlags := downloadCmd.Flags()

	downloadCmdFlags.StringP(
		flagOutput,
		"o",
		"",
		"directory to save downloaded files (the path will be created if it doesn’t exist).")

	downloadCmdFlags.StringP(
		flagSpeedLimit,
		"s",
		"",
		"set download speed limit, for example: 500 kbps, 1 mbps, 1.5 mbps.")

	downloadCmdFlags.StringP(
		flagTemplate,
		"t",
		"",
		"track filename template, for example: '{{.trackNumber}}. {{.trackTitle}}'.")

	downloadCmdFlags.BoolP(
		flagReplace,
		"r",
		false,
		"replace tracks that already exist.")

	downloadCmdFlags.Bool(
		flagTags,
		false,
		"write tags to downloaded MP3 and FLAC files.")

	downloadCmdFlags.Bool(
		flagCover,
		false,
		"embed cover art into tagged files.")

	downloadCmdFlags.String(
		flagMaxPause,
		"",
		"maximum random pause between tracks, for example: 2s.")

	rootCmd.AddCommand(downloadCmd)
}
