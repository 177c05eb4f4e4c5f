package main

import (
	"context"
	"errors"
	"net"

	"walctl/internal/walrus"
)

func formatCLIError(err error) []string {
	if err == nil {
		return nil
	}

	lines := []string{err.Error()}

	var notFound *walrus.NotFoundError
	if errors.As(err, &notFound) {
		lines = append(lines,
			"hint: the blob may have expired or the id is incorrect.",
			"hint: walctl status <blob-id> shows whether the aggregator still knows it.",
		)
		return uniqueLines(lines)
	}

	var integrity *walrus.IntegrityError
	if errors.As(err, &integrity) {
		lines = append(lines, "hint: retrieved bytes differ from what was stored; retry the retrieval or store the payload again.")
		return uniqueLines(lines)
	}

	var serverErr *walrus.ServerError
	if errors.As(err, &serverErr) {
		if serverErr.Status >= 500 {
			lines = append(lines, "hint: the service returned an internal error; try again or point walctl at a different publisher/aggregator.")
		} else {
			lines = append(lines, "hint: the service rejected the request; check blob id and epochs.")
		}
		return uniqueLines(lines)
	}

	var transportErr *walrus.TransportError
	if errors.As(err, &transportErr) {
		if transportErr.Timeout() {
			lines = append(lines, "hint: request timed out; try again or increase WALCTL_HTTP_TIMEOUT.")
		} else {
			lines = append(lines,
				"hint: check your network connection.",
				"hint: verify the publisher/aggregator URLs with: walctl config get publisher_url",
			)
		}
		return uniqueLines(lines)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		lines = append(lines, "hint: request timed out; try again or increase WALCTL_HTTP_TIMEOUT.")
		return uniqueLines(lines)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		lines = append(lines,
			"hint: check your network connection.",
			"hint: verify the publisher/aggregator URLs with: walctl config get publisher_url",
		)
		return uniqueLines(lines)
	}

	return uniqueLines(lines)
}

func uniqueLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
