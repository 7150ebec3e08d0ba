package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage connection profiles",
}

var profileSetCmd = &cobra.Command{
	Use:   "set NAME",
	Short: "Create or update a profile",
	Example: `  mvctl profile set production --relay-url https://relay.example.com --archiver-url https://archiver.example.com --token s3cret
  mvctl profile set local`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		relayURL, _ := cmd.Flags().GetString("relay-url")
		archiverURL, _ := cmd.Flags().GetString("archiver-url")
		token, _ := cmd.Flags().GetString("token")

		// Unspecified flags keep their previous values.
		if existing, err := cfg.GetProfile(name); err == nil {
			if relayURL == "" {
				relayURL = existing.RelayURL
			}
			if archiverURL == "" {
				archiverURL = existing.ArchiverURL
			}
			if token == "" {
				token = existing.Token
			}
		}
		if relayURL == "" {
			relayURL = "http://localhost:8081"
		}
		if archiverURL == "" {
			archiverURL = "http://localhost:8082"
		}

		if err := cfg.SaveProfile(name, relayURL, archiverURL, token); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}

		fmt.Printf("Profile '%s' saved and set as current\n", name)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		for name, p := range cfg.Profiles {
			marker := " "
			if name == cfg.CurrentProfile {
				marker = "*"
			}
			fmt.Printf("%s %-16s relay=%s archiver=%s\n", marker, name, p.RelayURL, p.ArchiverURL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileListCmd)

	profileSetCmd.Flags().String("relay-url", "", "Relay service URL")
	profileSetCmd.Flags().String("archiver-url", "", "Archiver service URL")
	profileSetCmd.Flags().String("token", "", "Publish token")
}
