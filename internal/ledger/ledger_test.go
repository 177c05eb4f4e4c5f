package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"walctl/internal/models"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "walctl.db"))
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestRecordAndFind(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	rec := models.BlobRecord{
		BlobID:      "blob-1",
		SizeBytes:   17,
		Digest:      "abcd1234",
		Epochs:      3,
		ContentType: "application/octet-stream",
		Note:        "first",
		StoredAt:    time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := l.Record(ctx, rec); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := l.Find(ctx, "blob-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Digest != rec.Digest || got.SizeBytes != rec.SizeBytes || got.Epochs != rec.Epochs {
		t.Fatalf("stored record differs: %#v", got)
	}
	if !got.StoredAt.Equal(rec.StoredAt) {
		t.Fatalf("expected stored_at %v, got %v", rec.StoredAt, got.StoredAt)
	}
}

func TestRecordUpsertsSameBlobID(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	base := models.BlobRecord{BlobID: "blob-1", SizeBytes: 5, Digest: "d1", Epochs: 1}
	if err := l.Record(ctx, base); err != nil {
		t.Fatalf("record: %v", err)
	}

	base.Epochs = 10
	base.Note = "extended retention"
	if err := l.Record(ctx, base); err != nil {
		t.Fatalf("re-record: %v", err)
	}

	got, err := l.Find(ctx, "blob-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Epochs != 10 || got.Note != "extended retention" {
		t.Fatalf("upsert did not apply: %#v", got)
	}

	records, err := l.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record after upsert, got %d", len(records))
	}
}

func TestFindUnknownBlob(t *testing.T) {
	l := openTestLedger(t)

	_, err := l.Find(context.Background(), "missing")
	if !errors.Is(err, ErrNotRecorded) {
		t.Fatalf("expected ErrNotRecorded, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	for i, id := range []string{"old", "mid", "new"} {
		rec := models.BlobRecord{
			BlobID:    id,
			SizeBytes: int64(i),
			Digest:    "d",
			Epochs:    1,
			StoredAt:  time.Date(2026, 5, 1+i, 0, 0, 0, 0, time.UTC),
		}
		if err := l.Record(ctx, rec); err != nil {
			t.Fatalf("record %s: %v", id, err)
		}
	}

	records, err := l.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected limit to apply, got %d records", len(records))
	}
	if records[0].BlobID != "new" || records[1].BlobID != "mid" {
		t.Fatalf("unexpected order: %s, %s", records[0].BlobID, records[1].BlobID)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty ledger path")
	}
}
