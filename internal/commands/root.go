package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
// Running it without a subcommand serves the HTTP API.
func NewRootCommand() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "movicar-ledger",
		Short: "Double-entry ledger for the rental fleet",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configFile)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path; environment variables override it")

	rootCmd.AddCommand(newServeCommand(&configFile))
	rootCmd.AddCommand(newRecomputeCommand(&configFile))

	return rootCmd
}
