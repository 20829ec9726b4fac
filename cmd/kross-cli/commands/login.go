package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Checks that the configured credentials can login to the hotel.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		client, err := login(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer client.Close()

		base, err := client.BaseUrl()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "logged into %s\n", base)
		return nil
	},
}
