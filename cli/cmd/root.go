package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mailvault-systems/mailvault-stack/cli/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mvctl",
	Short: "MailVault CLI",
	Long: `mvctl is the command-line interface for the MailVault pipeline.

Publish email events to the relay service, check how many events the
archiver has stored, and manage connection profiles.`,
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.mvctl/config.yaml)")
	rootCmd.PersistentFlags().String("profile", "", "profile to use")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
		cfg = config.Default()
	}
}
