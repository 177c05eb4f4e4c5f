package format

import (
	"bytes"
	"strings"
	"testing"
)

type payload struct {
	BlobID string `json:"blob_id" yaml:"blob_id"`
	Size   int64  `json:"size_bytes" yaml:"size_bytes"`
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (JSONFormatter{}).Write(&buf, payload{BlobID: "abc", Size: 7}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `{"blob_id":"abc","size_bytes":7}` {
		t.Fatalf("unexpected JSON: %s", got)
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (YAMLFormatter{}).Write(&buf, payload{BlobID: "abc", Size: 7}); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "blob_id: abc") || !strings.Contains(out, "size_bytes: 7") {
		t.Fatalf("unexpected YAML: %s", out)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"", "json", "yaml"} {
		if _, err := ByName(name); err != nil {
			t.Fatalf("expected formatter for %q: %v", name, err)
		}
	}
	if _, err := ByName("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
