package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mailvault-systems/mailvault-stack/cli/internal/client"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Show the archived event count",
	Long:  "Query the archiver service for the number of events stored since it started",
	RunE: func(cmd *cobra.Command, args []string) error {
		profileName, _ := cmd.Flags().GetString("profile")
		profile, err := cfg.GetProfile(profileName)
		if err != nil {
			return err
		}

		mvClient := client.New(profile.RelayURL, profile.ArchiverURL)
		count, err := mvClient.Count()
		if err != nil {
			return fmt.Errorf("failed to fetch count: %w", err)
		}

		fmt.Printf("%d\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
}
