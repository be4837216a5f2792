package dynamodb

import (
	"fmt"
	"strconv"
	"time"
)

// parseTimestamp normalizes the timestamp representations found in store
// documents into a single canonical time.Time. Older records were written by
// clients that stored native dates, RFC3339 strings, or numeric epochs; no
// layer above the adapters ever sees those variants.
func parseTimestamp(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		// Heuristic: epochs past the year 33658 are millisecond epochs.
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", raw)
}

// formatTimestamp is the single write-side representation.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
