package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"walctl/internal/cache"
	"walctl/internal/config"
	"walctl/internal/digest"
	"walctl/internal/ledger"
	"walctl/internal/models"
	"walctl/internal/walrus"
)

type storeOptions struct {
	epochs      int
	note        string
	keepCopy    bool
	contentType string
}

func newStoreCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	opts := &storeOptions{}
	cmd := &cobra.Command{
		Use:   "store <path|->",
		Short: "Store a file (or stdin) as a blob",
		Args:  requireExactlyArgs(1, "path is required (use - for stdin)"),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, source, err := readPayload(args[0])
			if err != nil {
				return err
			}

			epochs := opts.epochs
			if epochs == 0 {
				epochs = cfg.DefaultEpochs
			}
			contentType := opts.contentType
			if contentType == "" {
				contentType = guessContentType(source)
			}

			rec, err := storeOne(cmd, cfg, data, epochs, contentType, opts.note, opts.keepCopy)
			if err != nil {
				return err
			}
			return writeBlobRecord(rec, *jsonOutput)
		},
	}

	cmd.Flags().IntVar(&opts.epochs, "epochs", 0, "retention epochs (default from config)")
	cmd.Flags().StringVar(&opts.note, "note", "", "free-form note recorded in the local ledger")
	cmd.Flags().BoolVar(&opts.keepCopy, "cache", false, "keep a local content-addressed copy for later verification")
	cmd.Flags().StringVar(&opts.contentType, "content-type", "", "content type recorded in the local ledger")
	return cmd
}

// storeOne uploads one payload and records it in the ledger. It is shared by
// the store, batch and demo commands.
func storeOne(cmd *cobra.Command, cfg *config.Config, data []byte, epochs int, contentType, note string, keepCopy bool) (models.BlobRecord, error) {
	var rec models.BlobRecord

	sum := digest.Sum(data)
	slog.Debug("storing blob", "size_bytes", len(data), "epochs", epochs, "digest", sum)

	var result walrus.StoreResult
	err := withClient(cfg, func(client *walrus.Client) error {
		var storeErr error
		result, storeErr = client.Store(cmd.Context(), data, epochs)
		return storeErr
	})
	if err != nil {
		return rec, err
	}

	rec = models.BlobRecord{
		BlobID:      result.BlobID,
		SizeBytes:   int64(len(data)),
		Digest:      sum,
		Epochs:      epochs,
		ContentType: contentType,
		Note:        note,
		StoredAt:    time.Now().UTC(),
	}

	if err := withLedger(cfg, func(l *ledger.Ledger) error {
		return l.Record(cmd.Context(), rec)
	}); err != nil {
		return rec, fmt.Errorf("blob %s stored but not recorded: %w", rec.BlobID, err)
	}

	if keepCopy {
		c, err := cache.New(cfg.CacheDir)
		if err != nil {
			return rec, err
		}
		if _, err := c.Put(cmd.Context(), bytes.NewReader(data)); err != nil {
			return rec, fmt.Errorf("blob %s stored but not cached: %w", rec.BlobID, err)
		}
	}

	return rec, nil
}

func readPayload(arg string) ([]byte, string, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, "", nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, "", err
	}
	return data, arg, nil
}

func guessContentType(path string) string {
	if path == "" {
		return "application/octet-stream"
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
