package utils

import "time"

// FormatRFC3339 renders a timestamp the way API responses carry them.
func FormatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
