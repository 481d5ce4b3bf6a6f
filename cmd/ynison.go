package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/yamusic/internal/app"
)

//nolint:gochecknoglobals // Cobra command requires a global definition.
var ynisonCmd = &cobra.Command{
	Use:   "ynison",
	Short: "Watch the shared playback session.",
	Long: `Connects to Ynison, the realtime playback service, as an idle remote control
and prints what your other devices are playing until interrupted.
Requires an OAuth token.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		app.ExecuteYnisonCommand(cmd.Context(), prepareConfig(cmd))
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	rootCmd.AddCommand(ynisonCmd)
}
