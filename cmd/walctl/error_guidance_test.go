package main

import (
	"context"
	"errors"
	"testing"

	"walctl/internal/walrus"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "context deadline exceeded" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestFormatCLIError_NotFoundGuidance(t *testing.T) {
	err := &walrus.NotFoundError{BlobID: "abc123"}
	lines := formatCLIError(err)
	if !containsLine(lines, "hint: the blob may have expired or the id is incorrect.") {
		t.Fatalf("expected expiry guidance, got %v", lines)
	}
}

func TestFormatCLIError_TimeoutGuidance(t *testing.T) {
	err := &walrus.TransportError{Op: "store", URL: "http://publisher", Err: timeoutErr{}}
	lines := formatCLIError(err)
	if !containsLine(lines, "hint: request timed out; try again or increase WALCTL_HTTP_TIMEOUT.") {
		t.Fatalf("expected timeout guidance, got %v", lines)
	}
}

func TestFormatCLIError_ConnectionGuidance(t *testing.T) {
	err := &walrus.TransportError{Op: "store", URL: "http://publisher", Err: errors.New("dial tcp: connection refused")}
	lines := formatCLIError(err)
	if !containsLine(lines, "hint: check your network connection.") {
		t.Fatalf("expected connectivity guidance, got %v", lines)
	}
}

func TestFormatCLIError_ServerGuidance(t *testing.T) {
	t.Run("internal error", func(t *testing.T) {
		err := &walrus.ServerError{Op: "store", Status: 500, Body: "boom"}
		lines := formatCLIError(err)
		if !containsLine(lines, "hint: the service returned an internal error; try again or point walctl at a different publisher/aggregator.") {
			t.Fatalf("expected internal-error guidance, got %v", lines)
		}
	})

	t.Run("client error", func(t *testing.T) {
		err := &walrus.ServerError{Op: "store", Status: 400, Body: "bad epochs"}
		lines := formatCLIError(err)
		if !containsLine(lines, "hint: the service rejected the request; check blob id and epochs.") {
			t.Fatalf("expected rejection guidance, got %v", lines)
		}
	})
}

func TestFormatCLIError_IntegrityGuidance(t *testing.T) {
	err := &walrus.IntegrityError{BlobID: "abc", WantDigest: "d1", GotDigest: "d2"}
	lines := formatCLIError(err)
	if !containsLine(lines, "hint: retrieved bytes differ from what was stored; retry the retrieval or store the payload again.") {
		t.Fatalf("expected integrity guidance, got %v", lines)
	}
}

func TestFormatCLIError_DeadlineGuidance(t *testing.T) {
	lines := formatCLIError(context.DeadlineExceeded)
	if !containsLine(lines, "hint: request timed out; try again or increase WALCTL_HTTP_TIMEOUT.") {
		t.Fatalf("expected timeout guidance, got %v", lines)
	}
}

func TestFormatCLIError_NilAndDedup(t *testing.T) {
	if lines := formatCLIError(nil); lines != nil {
		t.Fatalf("expected nil for nil error, got %v", lines)
	}

	lines := uniqueLines([]string{"a", "", "a", "b"})
	if len(lines) != 2 || lines[0] != "a" || lines[1] != "b" {
		t.Fatalf("unexpected dedup result: %v", lines)
	}
}

func containsLine(lines []string, expected string) bool {
	for _, line := range lines {
		if line == expected {
			return true
		}
	}
	return false
}
