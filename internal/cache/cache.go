// Package cache keeps local content-addressed copies of payloads the user
// has stored remotely, so retrieved bytes can be verified offline.
package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"walctl/internal/digest"
)

const algorithmPrefix = "blake2b"

// PutResult describes one cached payload.
type PutResult struct {
	Digest    string
	SizeBytes int64
	Key       string
}

// Cache stores payload bytes in a local content-addressed tree keyed by
// blake2b digest.
type Cache struct {
	root string
}

// New creates a cache rooted at root.
func New(root string) (*Cache, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("cache root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(abs, "tmp"), 0o755); err != nil {
		return nil, err
	}
	return &Cache{root: abs}, nil
}

// Put streams bytes, computes the blake2b digest, and stores content by
// digest. Re-putting identical content is a no-op.
func (c *Cache) Put(ctx context.Context, r io.Reader) (PutResult, error) {
	var zero PutResult
	if c == nil {
		return zero, fmt.Errorf("cache is not configured")
	}
	if r == nil {
		return zero, fmt.Errorf("reader is required")
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	tmp, err := os.CreateTemp(filepath.Join(c.root, "tmp"), "put-*")
	if err != nil {
		return zero, err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	h := digest.New()
	n, err := io.Copy(io.MultiWriter(tmp, h), r)
	if err != nil {
		cleanup()
		return zero, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return zero, err
	}

	sum := fmt.Sprintf("%x", h.Sum(nil))
	key := keyFromDigest(sum)
	dst := filepath.Join(c.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		cleanup()
		return zero, err
	}

	if _, err := os.Stat(dst); err == nil {
		_ = os.Remove(tmpPath)
		return PutResult{Digest: sum, SizeBytes: n, Key: key}, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		cleanup()
		return zero, err
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		if _, statErr := os.Stat(dst); statErr == nil {
			_ = os.Remove(tmpPath)
			return PutResult{Digest: sum, SizeBytes: n, Key: key}, nil
		}
		cleanup()
		return zero, err
	}

	return PutResult{Digest: sum, SizeBytes: n, Key: key}, nil
}

// Open returns a reader for cached content by digest.
func (c *Cache) Open(ctx context.Context, sum string) (io.ReadCloser, error) {
	if c == nil {
		return nil, fmt.Errorf("cache is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := c.pathFromDigest(sum)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Has reports whether content with the given digest is cached.
func (c *Cache) Has(sum string) bool {
	if c == nil {
		return false
	}
	path, err := c.pathFromDigest(sum)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Delete removes cached content. Missing entries are ignored.
func (c *Cache) Delete(ctx context.Context, sum string) error {
	if c == nil {
		return fmt.Errorf("cache is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := c.pathFromDigest(sum)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func keyFromDigest(sum string) string {
	return fmt.Sprintf("%s/%s/%s/%s", algorithmPrefix, sum[0:2], sum[2:4], sum)
}

func (c *Cache) pathFromDigest(sum string) (string, error) {
	sum = strings.TrimSpace(strings.ToLower(sum))
	if len(sum) < 4 {
		return "", fmt.Errorf("invalid digest %q", sum)
	}
	for _, r := range sum {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return "", fmt.Errorf("invalid digest %q", sum)
		}
	}
	return filepath.Join(c.root, filepath.FromSlash(keyFromDigest(sum))), nil
}
