package events

import "time"

// ProfileUpdated is raised when a profile's denormalized display fields
// change. Consumers can use it to trigger out-of-band reconciliation; within
// this service it also drives cache invalidation bookkeeping.
type ProfileUpdated struct {
	BaseEvent
	ProfileID      string `json:"profile_id"`
	OldDisplayName string `json:"old_display_name"`
	NewDisplayName string `json:"new_display_name"`
	NewAvatarURL   string `json:"new_avatar_url"`
}

// NewProfileUpdated creates a ProfileUpdated event
func NewProfileUpdated(profileID, oldDisplayName, newDisplayName, newAvatarURL string, timestamp time.Time) ProfileUpdated {
	return ProfileUpdated{
		BaseEvent: BaseEvent{
			AggregateID: profileID,
			EventType:   "profile.updated",
			Timestamp:   timestamp,
			Version:     1,
		},
		ProfileID:      profileID,
		OldDisplayName: oldDisplayName,
		NewDisplayName: newDisplayName,
		NewAvatarURL:   newAvatarURL,
	}
}

// ProfileCreated is raised when a new profile is registered.
type ProfileCreated struct {
	BaseEvent
	ProfileID   string `json:"profile_id"`
	DisplayName string `json:"display_name"`
}

// NewProfileCreated creates a ProfileCreated event
func NewProfileCreated(profileID, displayName string, timestamp time.Time) ProfileCreated {
	return ProfileCreated{
		BaseEvent: BaseEvent{
			AggregateID: profileID,
			EventType:   "profile.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		ProfileID:   profileID,
		DisplayName: displayName,
	}
}
