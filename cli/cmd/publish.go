package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mailvault-systems/mailvault-stack/cli/internal/client"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish an email event",
	Long:  "Send an email event to the relay service for queueing and archival",
	Example: `  mvctl publish --subject "Quarterly results" --sender cfo@example.com --content "Attached."
  mvctl publish --json '{"subject":"Hi","sender":"a@b.com","timestream":"1700000000","content":"..."}'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonData, _ := cmd.Flags().GetString("json")
		subject, _ := cmd.Flags().GetString("subject")
		sender, _ := cmd.Flags().GetString("sender")
		timestream, _ := cmd.Flags().GetString("timestream")
		content, _ := cmd.Flags().GetString("content")
		token, _ := cmd.Flags().GetString("token")

		profileName, _ := cmd.Flags().GetString("profile")
		profile, err := cfg.GetProfile(profileName)
		if err != nil {
			return err
		}

		if token == "" {
			token = profile.Token
		}
		if token == "" {
			return fmt.Errorf("publish token is required (use --token or 'mvctl profile set --token')")
		}

		var data map[string]interface{}
		if jsonData != "" {
			if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
				return fmt.Errorf("invalid --json payload: %w", err)
			}
		} else {
			if subject == "" || sender == "" || content == "" {
				return fmt.Errorf("either --json or --subject, --sender and --content are required")
			}
			if timestream == "" {
				timestream = strconv.FormatInt(time.Now().Unix(), 10)
			}
			data = map[string]interface{}{
				"subject":    subject,
				"sender":     sender,
				"timestream": timestream,
				"content":    content,
			}
		}

		mvClient := client.New(profile.RelayURL, profile.ArchiverURL)
		messageID, err := mvClient.Publish(token, data)
		if err != nil {
			return fmt.Errorf("failed to publish event: %w", err)
		}

		fmt.Printf("Event published (message_id: %s)\n", messageID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().StringP("subject", "s", "", "Email subject")
	publishCmd.Flags().String("sender", "", "Email sender address")
	publishCmd.Flags().String("timestream", "", "Event timestamp (defaults to now)")
	publishCmd.Flags().StringP("content", "c", "", "Email body")
	publishCmd.Flags().String("json", "", "Raw JSON event data")
	publishCmd.Flags().StringP("token", "t", "", "Publish token")
}
