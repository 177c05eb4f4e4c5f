package main

import (
	"os"

	"github.com/spf13/cobra"

	"walctl/internal/config"
	"walctl/internal/manifest"
	"walctl/internal/models"
)

func newBatchCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <manifest.yaml>",
		Short: "Store every file listed in a YAML manifest, one at a time",
		Args:  requireExactlyArgs(1, "manifest path is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(args[0])
			if err != nil {
				return err
			}

			epochs := m.Epochs
			if epochs == 0 {
				epochs = cfg.DefaultEpochs
			}

			records := make([]models.BlobRecord, 0, len(m.Entries))
			for _, entry := range m.Entries {
				data, err := os.ReadFile(entry.Path)
				if err != nil {
					return err
				}
				contentType := entry.ContentType
				if contentType == "" {
					contentType = guessContentType(entry.Path)
				}

				rec, err := storeOne(cmd, cfg, data, epochs, contentType, entry.Note, false)
				if err != nil {
					return err
				}
				records = append(records, rec)
				if !*jsonOutput {
					_ = writePlain("%s -> %s (%d bytes)\n", entry.Path, rec.BlobID, rec.SizeBytes)
				}
			}

			if *jsonOutput {
				return writeStructured(records)
			}
			return nil
		},
	}
}
