package walrus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultStoreTimeout    = 30 * time.Second
	defaultRetrieveTimeout = 30 * time.Second
	defaultStatusTimeout   = 10 * time.Second

	httpTimeoutEnvKey = "WALCTL_HTTP_TIMEOUT"

	userAgent = "walctl/1.0"

	// errorBodyLimit caps how much of an error response is kept for messages.
	errorBodyLimit = 4 << 10
)

// Client talks to a blob-storage publisher (writes) and aggregator (reads).
// Each call is a single bounded synchronous request; there are no retries.
type Client struct {
	publisherURL  string
	aggregatorURL string

	store    *http.Client
	retrieve *http.Client
	status   *http.Client
}

// NewClient creates a client for the given publisher and aggregator base URLs.
func NewClient(publisherURL, aggregatorURL string) *Client {
	return &Client{
		publisherURL:  strings.TrimRight(publisherURL, "/"),
		aggregatorURL: strings.TrimRight(aggregatorURL, "/"),
		store:         &http.Client{Timeout: timeoutFromEnv(defaultStoreTimeout)},
		retrieve:      &http.Client{Timeout: timeoutFromEnv(defaultRetrieveTimeout)},
		status:        &http.Client{Timeout: timeoutFromEnv(defaultStatusTimeout)},
	}
}

// Store uploads data to the publisher for the given number of retention
// epochs and returns the blob id assigned by the service.
func (c *Client) Store(ctx context.Context, data []byte, epochs int) (StoreResult, error) {
	var zero StoreResult
	if epochs < 1 {
		return zero, fmt.Errorf("epochs must be at least 1, got %d", epochs)
	}

	endpoint := c.publisherURL + "/v1/store?epochs=" + strconv.Itoa(epochs)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return zero, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("User-Agent", userAgent)
	req.ContentLength = int64(len(data))

	resp, err := c.store.Do(req)
	if err != nil {
		return zero, &TransportError{Op: "store", URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, &TransportError{Op: "store", URL: endpoint, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return zero, &ServerError{Op: "store", Status: resp.StatusCode, Body: truncate(body)}
	}

	var parsed storeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return zero, fmt.Errorf("store: decode publisher response: %w", err)
	}
	blobID := parsed.blobID()
	if blobID == "" {
		return zero, fmt.Errorf("store: publisher response contains no blob id")
	}

	return StoreResult{BlobID: blobID, Raw: json.RawMessage(body)}, nil
}

// Retrieve fetches blob content from the aggregator.
func (c *Client) Retrieve(ctx context.Context, blobID string) ([]byte, error) {
	blobID = strings.TrimSpace(blobID)
	if blobID == "" {
		return nil, fmt.Errorf("blob id is required")
	}

	endpoint := c.aggregatorURL + "/v1/" + url.PathEscape(blobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.retrieve.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "retrieve", URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &NotFoundError{BlobID: blobID}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, &ServerError{Op: "retrieve", Status: resp.StatusCode, Body: truncate(body)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "retrieve", URL: endpoint, Err: err}
	}
	return data, nil
}

// Status probes blob existence and metadata without transferring the body.
// A not-found response is reported as Exists=false, not as an error.
func (c *Client) Status(ctx context.Context, blobID string) (BlobStatus, error) {
	var zero BlobStatus
	blobID = strings.TrimSpace(blobID)
	if blobID == "" {
		return zero, fmt.Errorf("blob id is required")
	}

	endpoint := c.aggregatorURL + "/v1/" + url.PathEscape(blobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, endpoint, nil)
	if err != nil {
		return zero, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.status.Do(req)
	if err != nil {
		return zero, &TransportError{Op: "status", URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return BlobStatus{Exists: false}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return zero, &ServerError{Op: "status", Status: resp.StatusCode}
	}

	status := BlobStatus{
		Exists:      true,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if raw := resp.Header.Get("Content-Length"); raw != "" {
		if size, err := strconv.ParseInt(raw, 10, 64); err == nil {
			status.SizeBytes = size
		}
	}
	return status, nil
}

func truncate(body []byte) string {
	if len(body) > errorBodyLimit {
		body = body[:errorBodyLimit]
	}
	return string(bytes.TrimSpace(body))
}

func timeoutFromEnv(fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if value == "" {
		return fallback
	}

	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return fallback
}
