package cli

import (
	"github.com/spf13/cobra"

	"github.com/neboloop/cryptoportal/internal/config"
	"github.com/neboloop/cryptoportal/internal/logging"
)

// Shared CLI flags (used across multiple command files)
var (
	cfgFile string
	verbose bool
)

// ServerConfig holds the loaded configuration (set by main)
var ServerConfig *config.Config

// SetupRootCmd configures the root command with all subcommands and flags
func SetupRootCmd(c *config.Config) *cobra.Command {
	ServerConfig = c

	rootCmd := &cobra.Command{
		Use:   "cryptoportal",
		Short: "Crypto portal password reset",
		Long: `cryptoportal serves the password reset page of the crypto portal and talks
to its REST API.

Use 'cryptoportal serve' for the web page, or 'cryptoportal reset --token T'
to reset a password from the terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				if err := ServerConfig.Merge(cfgFile); err != nil {
					return err
				}
			}
			logging.SetLevel(ServerConfig.App.LogLevel)
			if verbose {
				logging.SetVerbose(true)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML file overriding the built-in configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add commands
	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(ResetCmd())
	rootCmd.AddCommand(TokenCmd())

	return rootCmd
}
