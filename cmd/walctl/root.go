package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"walctl/internal/config"
	"walctl/internal/format"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		jsonOutput bool
		outputName string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "walctl",
		Short: "Walctl stores and retrieves blobs on a remote publisher/aggregator service",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := format.ByName(outputName)
			if err != nil {
				return err
			}
			outputFormatter = formatter

			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output structured data instead of plain text")
	cmd.PersistentFlags().StringVar(&outputName, "format", "json", "structured output format (json or yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newStoreCmd(cfg, &jsonOutput),
		newGetCmd(cfg),
		newStatusCmd(cfg, &jsonOutput),
		newDemoCmd(cfg),
		newBatchCmd(cfg, &jsonOutput),
		newHistoryCmd(cfg, &jsonOutput),
		newConfigCmd(cfg),
	)

	return cmd
}
