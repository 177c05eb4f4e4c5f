package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"walctl/internal/config"
	"walctl/internal/digest"
	"walctl/internal/ledger"
	"walctl/internal/walrus"
)

type getOptions struct {
	outPath string
	verify  bool
}

func newGetCmd(cfg *config.Config) *cobra.Command {
	opts := &getOptions{}
	cmd := &cobra.Command{
		Use:   "get <blob-id>",
		Short: "Retrieve a blob's content",
		Args:  requireExactlyArgs(1, "blob id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			blobID := args[0]

			var data []byte
			err := withClient(cfg, func(client *walrus.Client) error {
				var retrieveErr error
				data, retrieveErr = client.Retrieve(cmd.Context(), blobID)
				return retrieveErr
			})
			if err != nil {
				return err
			}
			slog.Debug("retrieved blob", "blob_id", blobID, "size_bytes", len(data))

			if opts.verify {
				if err := verifyAgainstLedger(cmd, cfg, blobID, data); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "integrity verified: %s\n", blobID)
			}

			if opts.outPath != "" {
				return os.WriteFile(opts.outPath, data, 0o644)
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.outPath, "output", "o", "", "write content to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "verify content against the digest recorded at store time")
	return cmd
}

func verifyAgainstLedger(cmd *cobra.Command, cfg *config.Config, blobID string, data []byte) error {
	return withLedger(cfg, func(l *ledger.Ledger) error {
		rec, err := l.Find(cmd.Context(), blobID)
		if errors.Is(err, ledger.ErrNotRecorded) {
			return fmt.Errorf("cannot verify %s: %w (was it stored from this machine?)", blobID, err)
		}
		if err != nil {
			return err
		}

		got := digest.Sum(data)
		if got != rec.Digest {
			return &walrus.IntegrityError{BlobID: blobID, WantDigest: rec.Digest, GotDigest: got}
		}
		return nil
	})
}
