package walrus

import "encoding/json"

// StoreResult describes one stored blob as reported by the publisher.
type StoreResult struct {
	BlobID string `json:"blob_id"`
	// Raw is the publisher's full response body, kept verbatim so callers
	// can inspect certification metadata the client does not model.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// BlobStatus is the result of a lightweight existence probe.
type BlobStatus struct {
	Exists      bool   `json:"exists"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// storeResponse covers the publisher response shapes seen in the wild:
// a flat blobId, a newly created blob object, or an already certified one.
type storeResponse struct {
	BlobID       string `json:"blobId"`
	NewlyCreated *struct {
		BlobObject struct {
			BlobID string `json:"blobId"`
		} `json:"blobObject"`
	} `json:"newlyCreated"`
	AlreadyCertified *struct {
		BlobID string `json:"blobId"`
	} `json:"alreadyCertified"`
}

func (r storeResponse) blobID() string {
	if r.BlobID != "" {
		return r.BlobID
	}
	if r.NewlyCreated != nil && r.NewlyCreated.BlobObject.BlobID != "" {
		return r.NewlyCreated.BlobObject.BlobID
	}
	if r.AlreadyCertified != nil {
		return r.AlreadyCertified.BlobID
	}
	return ""
}
