package walrus

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// TransportError wraps a network-level failure (dial, reset, timeout).
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Timeout reports whether the underlying failure was a timeout rather
// than a connection problem.
func (e *TransportError) Timeout() bool {
	if e == nil || e.Err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(e.Err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(e.Err.Error(), "context deadline exceeded")
}

// ServerError is a non-2xx response from the publisher or aggregator.
type ServerError struct {
	Op     string
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	if e == nil {
		return ""
	}
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s: server returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: server returned status %d: %s", e.Op, e.Status, body)
}

// NotFoundError means the aggregator does not know the blob id; the blob
// may have expired or the id may be wrong.
type NotFoundError struct {
	BlobID string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("blob not found: %s", e.BlobID)
}

// IntegrityError means retrieved bytes do not match what was stored.
type IntegrityError struct {
	BlobID     string
	WantDigest string
	GotDigest  string
}

func (e *IntegrityError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("integrity mismatch for blob %s: stored digest %s, retrieved digest %s",
		e.BlobID, e.WantDigest, e.GotDigest)
}
