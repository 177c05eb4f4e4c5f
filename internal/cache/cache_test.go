package cache

import (
	"bytes"
	"context"
	"io"
	"testing"

	"walctl/internal/digest"
)

func TestCachePutOpenDelete(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	first, err := c.Put(context.Background(), bytes.NewBufferString("hello"))
	if err != nil {
		t.Fatalf("put first: %v", err)
	}
	if first.Digest != digest.Sum([]byte("hello")) {
		t.Fatalf("cache digest %s does not match content digest", first.Digest)
	}
	if first.SizeBytes != 5 || first.Key == "" {
		t.Fatalf("unexpected put result: %#v", first)
	}

	second, err := c.Put(context.Background(), bytes.NewBufferString("hello"))
	if err != nil {
		t.Fatalf("put second: %v", err)
	}
	if first.Key != second.Key || first.Digest != second.Digest {
		t.Fatalf("expected dedupe keys/digests to match: first=%#v second=%#v", first, second)
	}

	if !c.Has(first.Digest) {
		t.Fatal("Has reported cached content as missing")
	}

	rc, err := c.Open(context.Background(), first.Digest)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("expected hello, got %q", string(data))
	}

	if err := c.Delete(context.Background(), first.Digest); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := c.Delete(context.Background(), first.Digest); err != nil {
		t.Fatalf("delete missing should be noop: %v", err)
	}
	if c.Has(first.Digest) {
		t.Fatal("Has reported deleted content as cached")
	}
}

func TestCacheRejectsBadDigests(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	for _, sum := range []string{"", "ab", "../../etc/passwd", "XYZ123"} {
		if _, err := c.Open(context.Background(), sum); err == nil {
			t.Fatalf("expected error opening digest %q", sum)
		}
	}
}
