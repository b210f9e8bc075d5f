// Package cli defines the catalog command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/logger"
)

// NewRootCommand builds the command tree. Running the root command without
// a subcommand starts the server.
func NewRootCommand(version string) *cobra.Command {
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:           "catalog",
		Short:         "Library catalog API server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.NewConfig()
			logger.Init(cfg.Log.Level, cfg.Log.Format)
		},
	}

	load := func() *config.Config { return cfg }

	serveCmd := newServeCommand(load, version)
	rootCmd.RunE = serveCmd.RunE

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newMigrateCommand(load))
	rootCmd.AddCommand(newCreateUserCommand(load))

	return rootCmd
}
