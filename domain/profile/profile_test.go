package profile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfile_Validation(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		displayName string
		avatarURL   string
		wantErr     bool
	}{
		{name: "valid", id: "u1", displayName: "Alice", avatarURL: "https://cdn.example/a.png"},
		{name: "valid without avatar", id: "u1", displayName: "Alice"},
		{name: "missing id", displayName: "Alice", wantErr: true},
		{name: "blank display name", id: "u1", displayName: "   ", wantErr: true},
		{name: "display name too long", id: "u1", displayName: strings.Repeat("x", MaxDisplayNameLength+1), wantErr: true},
		{name: "display name at limit", id: "u1", displayName: strings.Repeat("x", MaxDisplayNameLength)},
		{name: "malformed avatar url", id: "u1", displayName: "Alice", avatarURL: "not a url", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProfile(tt.id, tt.displayName, tt.avatarURL)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, p.ID())
			assert.Equal(t, tt.displayName, p.DisplayName())
		})
	}
}

func TestUpdateDisplay_DetectsChange(t *testing.T) {
	// Arrange
	p, err := NewProfile("u1", "Alice", "https://cdn.example/a.png")
	require.NoError(t, err)

	// Act
	changed, err := p.UpdateDisplay("Alice Renamed", "https://cdn.example/a.png")

	// Assert
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Alice Renamed", p.DisplayName())

	events := p.GetUncommittedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "profile.updated", events[0].GetEventType())
	assert.Equal(t, "u1", events[0].GetAggregateID())
}

func TestUpdateDisplay_NoOpWhenUnchanged(t *testing.T) {
	// Arrange
	p, err := NewProfile("u1", "Alice", "https://cdn.example/a.png")
	require.NoError(t, err)

	// Act
	changed, err := p.UpdateDisplay("Alice", "https://cdn.example/a.png")

	// Assert
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, p.GetUncommittedEvents())
}

func TestUpdateDisplay_AvatarOnlyChangeCounts(t *testing.T) {
	// Arrange
	p, err := NewProfile("u1", "Alice", "https://cdn.example/a.png")
	require.NoError(t, err)

	// Act
	changed, err := p.UpdateDisplay("Alice", "https://cdn.example/b.png")

	// Assert
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "https://cdn.example/b.png", p.AvatarURL())
}

func TestUpdateDisplay_RejectsInvalidInput(t *testing.T) {
	// Arrange
	p, err := NewProfile("u1", "Alice", "")
	require.NoError(t, err)

	// Act
	_, err = p.UpdateDisplay("", "")

	// Assert
	require.Error(t, err)
	assert.Equal(t, "Alice", p.DisplayName(), "failed update leaves fields intact")
}

func TestUpdateBio(t *testing.T) {
	// Arrange
	p, err := NewProfile("u1", "Alice", "")
	require.NoError(t, err)

	// Act
	require.NoError(t, p.UpdateBio("hello"))
	tooLong := strings.Repeat("x", MaxBioLength+1)

	// Assert
	assert.Equal(t, "hello", p.Bio())
	assert.Error(t, p.UpdateBio(tooLong))
}

func TestMarkEventsAsCommitted(t *testing.T) {
	// Arrange
	p, err := NewProfile("u1", "Alice", "")
	require.NoError(t, err)
	_, err = p.UpdateDisplay("Alice Renamed", "")
	require.NoError(t, err)
	require.NotEmpty(t, p.GetUncommittedEvents())

	// Act
	p.MarkEventsAsCommitted()

	// Assert
	assert.Empty(t, p.GetUncommittedEvents())
}
