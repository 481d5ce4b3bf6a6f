package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/oshokin/yamusic/internal/app"
	"github.com/oshokin/yamusic/internal/client/yandex"
	"github.com/oshokin/yamusic/internal/logger"
)

//nolint:gochecknoglobals // Cobra command requires a global definition.
var searchCmd = &cobra.Command{
	Use:   "search [flags] {query}",
	Short: "Search for tracks, artists, albums, playlists or users.",
	Long: `Searches the catalog and prints one line per hit with its id.
Track ids can be passed to 'download', 'like' and 'unlike'.

yamusic search --type album "Группа крови"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := prepareConfig(cmd)
		flags := cmd.Flags()

		typeText, _ := flags.GetString(flagSearchType)

		searchType, err := yandex.ParseSearchType(typeText)
		if err != nil {
			logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
		}

		page, _ := flags.GetInt(flagSearchPage)
		if page < 1 {
			page = 1
		}

		app.ExecuteSearchCommand(cmd.Context(), cfg, strings.Join(args, " "), searchType, page-1)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	searchCmdFlags := searchCmd.Flags()

	searchCmdFlags.String(
		flagSearchType,
		string(yandex.SearchTracks),
		"what to search for: track, artist, album, playlist, user.")

	searchCmdFlags.IntP(
		flagSearchPage,
		"p",
		1,
		"results page, starting from 1.")

	rootCmd.AddCommand(searchCmd)
}
