package main

import (
	"github.com/spf13/cobra"

	"mediavault/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "mediavault",
		Short: "Mediavault is a byte-serving media object store and catalog",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := setupLogging(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				cmd.PrintErrln(warning)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newHashTokenCmd(),
		newSeedCmd(cfg),
	)

	return cmd
}
