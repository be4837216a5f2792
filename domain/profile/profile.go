package profile

import (
	"net/url"
	"strings"
	"time"

	"github.com/jakubrachwalski/SocialNetwork/domain/events"
	pkgerrors "github.com/jakubrachwalski/SocialNetwork/pkg/errors"
)

const (
	// MaxDisplayNameLength bounds what the UI will render in author lines.
	MaxDisplayNameLength = 100

	// MaxBioLength bounds the free-text bio field.
	MaxBioLength = 2000
)

// Profile is the source-of-truth user record. Display name and avatar are
// denormalized into every post and comment the user authors, so any change
// to them must be repaired across that content.
type Profile struct {
	id          string
	displayName string
	avatarURL   string
	bio         string
	createdAt   time.Time
	updatedAt   time.Time

	// Domain events recorded during this instance's lifetime
	events []events.DomainEvent
}

// NewProfile creates a profile with validated display fields.
func NewProfile(id, displayName, avatarURL string) (*Profile, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("profile id cannot be empty")
	}

	if err := validateDisplayName(displayName); err != nil {
		return nil, err
	}

	if err := validateAvatarURL(avatarURL); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Profile{
		id:          id,
		displayName: displayName,
		avatarURL:   avatarURL,
		createdAt:   now,
		updatedAt:   now,
		events:      []events.DomainEvent{},
	}, nil
}

// Reconstruct rebuilds a profile from repository data with preserved timestamps.
// It bypasses validation: stored data is trusted.
func Reconstruct(id, displayName, avatarURL, bio string, createdAt, updatedAt time.Time) *Profile {
	return &Profile{
		id:          id,
		displayName: displayName,
		avatarURL:   avatarURL,
		bio:         bio,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		events:      []events.DomainEvent{},
	}
}

// ID returns the stable profile identifier.
func (p *Profile) ID() string { return p.id }

// DisplayName returns the current display name.
func (p *Profile) DisplayName() string { return p.displayName }

// AvatarURL returns the current avatar reference.
func (p *Profile) AvatarURL() string { return p.avatarURL }

// Bio returns the free-text bio.
func (p *Profile) Bio() string { return p.bio }

// CreatedAt returns the creation timestamp.
func (p *Profile) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last-modified timestamp.
func (p *Profile) UpdatedAt() time.Time { return p.updatedAt }

// UpdateDisplay changes the display name and/or avatar and records a
// ProfileUpdated event. It reports whether anything actually changed, so
// callers can skip reference repair on no-op edits.
func (p *Profile) UpdateDisplay(displayName, avatarURL string) (bool, error) {
	if err := validateDisplayName(displayName); err != nil {
		return false, err
	}
	if err := validateAvatarURL(avatarURL); err != nil {
		return false, err
	}

	if displayName == p.displayName && avatarURL == p.avatarURL {
		return false, nil
	}

	oldName := p.displayName
	p.displayName = displayName
	p.avatarURL = avatarURL
	p.updatedAt = time.Now()

	p.addEvent(events.NewProfileUpdated(p.id, oldName, displayName, avatarURL, p.updatedAt))
	return true, nil
}

// UpdateBio changes the bio. Bio is never denormalized, so no repair follows.
func (p *Profile) UpdateBio(bio string) error {
	if len(bio) > MaxBioLength {
		return pkgerrors.NewValidationError("bio exceeds maximum length")
	}
	p.bio = bio
	p.updatedAt = time.Now()
	return nil
}

// GetUncommittedEvents returns events recorded since construction or the last
// MarkEventsAsCommitted call.
func (p *Profile) GetUncommittedEvents() []events.DomainEvent {
	return p.events
}

// MarkEventsAsCommitted clears the recorded events after publishing.
func (p *Profile) MarkEventsAsCommitted() {
	p.events = []events.DomainEvent{}
}

func (p *Profile) addEvent(event events.DomainEvent) {
	p.events = append(p.events, event)
}

func validateDisplayName(name string) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.NewValidationError("display name cannot be empty")
	}
	if len(name) > MaxDisplayNameLength {
		return pkgerrors.NewValidationError("display name exceeds maximum length")
	}
	return nil
}

func validateAvatarURL(avatarURL string) error {
	if avatarURL == "" {
		// Avatar is optional; the UI falls back to initials.
		return nil
	}
	if _, err := url.ParseRequestURI(avatarURL); err != nil {
		return pkgerrors.NewValidationError("avatar URL is not a valid URL")
	}
	return nil
}
