package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/yamusic/internal/app"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	authCmd = &cobra.Command{
		Use:   "auth",
		Short: "Authentication management commands",
		Long: `Manage authentication for Yandex Music.

Use 'auth login' to check your credentials and save the session to the configuration file.`,
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	authLoginCmd = &cobra.Command{
		Use:   "login",
		Short: "Log in to Yandex Music and save the session",
		Long: `Logs in with an OAuth token or with a login and password.

Credentials come from the configuration file or from the flags:
yamusic auth login --token y0_AgAAAAA...
yamusic auth login --login user@yandex.ru --password secret

After a successful login the token and the device id are saved to the
configuration file, so the next commands reuse the same device.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteAuthLoginCommand(cmd.Context(), prepareConfig(cmd))
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	authCmd.AddCommand(authLoginCmd)
	rootCmd.AddCommand(authCmd)
}
