package main

import (
	"github.com/spf13/cobra"

	"walctl/internal/config"
	"walctl/internal/ledger"
)

func newHistoryCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List blobs recorded in the local store ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cfg, func(l *ledger.Ledger) error {
				records, err := l.List(cmd.Context(), limit)
				if err != nil {
					return err
				}

				if *jsonOutput {
					return writeStructured(records)
				}
				for _, rec := range records {
					if err := writeHistoryLine(rec); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum entries to list (0 means default)")
	return cmd
}
