package models

import "time"

// BlobRecord is one successfully stored blob as remembered locally.
type BlobRecord struct {
	BlobID      string    `json:"blob_id"`
	SizeBytes   int64     `json:"size_bytes"`
	Digest      string    `json:"digest"`
	Epochs      int       `json:"epochs"`
	ContentType string    `json:"content_type,omitempty"`
	Note        string    `json:"note,omitempty"`
	StoredAt    time.Time `json:"stored_at"`
}
