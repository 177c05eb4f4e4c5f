package main

import (
	"fmt"
	"os"
	"time"

	"walctl/internal/format"
	"walctl/internal/models"
	"walctl/internal/walrus"
)

var outputFormatter format.Formatter = format.JSONFormatter{}

func writeStructured(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeBlobRecord(rec models.BlobRecord, structured bool) error {
	if structured {
		return writeStructured(rec)
	}
	_ = writePlain("blob_id: %s\n", rec.BlobID)
	_ = writePlain("size_bytes: %d\n", rec.SizeBytes)
	_ = writePlain("digest: %s\n", rec.Digest)
	_ = writePlain("epochs: %d\n", rec.Epochs)
	if rec.ContentType != "" {
		_ = writePlain("content_type: %s\n", rec.ContentType)
	}
	if rec.Note != "" {
		_ = writePlain("note: %s\n", rec.Note)
	}
	return writePlain("stored_at: %s\n", formatTime(rec.StoredAt))
}

func writeBlobStatus(blobID string, status walrus.BlobStatus, structured bool) error {
	if structured {
		return writeStructured(struct {
			BlobID string `json:"blob_id" yaml:"blob_id"`
			walrus.BlobStatus
		}{BlobID: blobID, BlobStatus: status})
	}
	if !status.Exists {
		return writePlain("blob %s does not exist (expired or never stored)\n", blobID)
	}
	_ = writePlain("blob_id: %s\n", blobID)
	_ = writePlain("exists: true\n")
	_ = writePlain("size_bytes: %d\n", status.SizeBytes)
	if status.ContentType != "" {
		_ = writePlain("content_type: %s\n", status.ContentType)
	}
	return nil
}

func writeHistoryLine(rec models.BlobRecord) error {
	return writePlain("%s  %s  %8d B  %d epochs  %s\n",
		formatTime(rec.StoredAt), rec.BlobID, rec.SizeBytes, rec.Epochs, rec.Note)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
