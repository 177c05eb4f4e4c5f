package main

import (
	"github.com/spf13/cobra"

	"walctl/internal/config"
	"walctl/internal/walrus"
)

func newStatusCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "status <blob-id>",
		Short: "Check whether a blob exists and report its metadata",
		Args:  requireExactlyArgs(1, "blob id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			blobID := args[0]

			var status walrus.BlobStatus
			err := withClient(cfg, func(client *walrus.Client) error {
				var statusErr error
				status, statusErr = client.Status(cmd.Context(), blobID)
				return statusErr
			})
			if err != nil {
				return err
			}

			return writeBlobStatus(blobID, status, *jsonOutput)
		},
	}
}
