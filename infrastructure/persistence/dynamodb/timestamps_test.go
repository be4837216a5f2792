package dynamodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{
			name: "rfc3339 nano",
			raw:  "2024-03-15T10:30:00.123456789Z",
			want: time.Date(2024, 3, 15, 10, 30, 0, 123456789, time.UTC),
		},
		{
			name: "rfc3339 seconds",
			raw:  "2024-03-15T10:30:00Z",
			want: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name: "rfc3339 with offset",
			raw:  "2024-03-15T12:30:00+02:00",
			want: time.Date(2024, 3, 15, 12, 30, 0, 0, time.FixedZone("", 2*3600)),
		},
		{
			name: "epoch seconds",
			raw:  "1710498600",
			want: time.Unix(1710498600, 0).UTC(),
		},
		{
			name: "epoch milliseconds",
			raw:  "1710498600123",
			want: time.UnixMilli(1710498600123).UTC(),
		},
		{
			name:    "empty",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "garbage",
			raw:     "not-a-timestamp",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimestamp(tt.raw)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestFormatTimestamp_RoundTrips(t *testing.T) {
	// Arrange
	original := time.Date(2024, 3, 15, 10, 30, 0, 123456789, time.UTC)

	// Act
	parsed, err := parseTimestamp(formatTimestamp(original))

	// Assert
	require.NoError(t, err)
	assert.True(t, original.Equal(parsed))
}

func TestFormatTimestamp_NormalizesToUTC(t *testing.T) {
	// Arrange
	local := time.Date(2024, 3, 15, 12, 30, 0, 0, time.FixedZone("CEST", 2*3600))

	// Act
	formatted := formatTimestamp(local)

	// Assert
	assert.Equal(t, "2024-03-15T10:30:00Z", formatted)
}
