package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/yamusic/internal/app"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	likeCmd = &cobra.Command{
		Use:   "like {track links}",
		Short: "Add tracks to your liked tracks.",
		Long: `Likes every given track. Accepts track links and "trackId:albumId" keys:
yamusic like https://music.yandex.ru/album/1193829/track/10994777 2758009:297567`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, links []string) {
			app.ExecuteLikeCommand(cmd.Context(), prepareConfig(cmd), links, true)
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	unlikeCmd = &cobra.Command{
		Use:   "unlike {track links}",
		Short: "Remove tracks from your liked tracks.",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, links []string) {
			app.ExecuteLikeCommand(cmd.Context(), prepareConfig(cmd), links, false)
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	rootCmd.AddCommand(likeCmd, unlikeCmd)
}
