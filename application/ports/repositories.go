package ports

import (
	"context"

	"github.com/jakubrachwalski/SocialNetwork/domain/content"
	"github.com/jakubrachwalski/SocialNetwork/domain/events"
	"github.com/jakubrachwalski/SocialNetwork/domain/profile"
)

// Store limits imposed by the backing document store. Callers above the
// adapters are responsible for chunking to these sizes.
const (
	// MaxLookupBatch is the largest identifier list a single
	// FindManyByIDs call may carry.
	MaxLookupBatch = 10

	// MaxWriteBatch is the largest operation count a single atomic
	// BatchWrite call may carry.
	MaxWriteBatch = 500
)

// ProfileRepository defines the interface for profile persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type ProfileRepository interface {
	// FindByID retrieves a profile by its ID. A missing profile is a
	// NotFound error, which the cache layer translates to absence.
	FindByID(ctx context.Context, id string) (*profile.Profile, error)

	// FindManyByIDs retrieves the profiles that exist among the given IDs.
	// The caller must send at most MaxLookupBatch IDs per call; missing
	// profiles are simply omitted from the result.
	FindManyByIDs(ctx context.Context, ids []string) ([]*profile.Profile, error)

	// Save persists a profile (create or update)
	Save(ctx context.Context, p *profile.Profile) error
}

// ContentWriteOp is one staged operation of a batched atomic content write.
// Exactly one of the Set fields is populated.
type ContentWriteOp struct {
	// PostID keys the document the operation targets.
	PostID string

	// SetAuthor rewrites the post's denormalized author fields.
	SetAuthor *content.AuthorSnapshot

	// SetComments replaces the post's embedded comment list.
	SetComments []content.Comment
}

// PostRepository defines the interface for post persistence
type PostRepository interface {
	// FindByID retrieves a post by its ID
	FindByID(ctx context.Context, id string) (*content.Post, error)

	// FindByAuthor retrieves all posts authored by the given profile.
	// No (author, time) index is assumed; callers sort in memory.
	FindByAuthor(ctx context.Context, authorID string) ([]*content.Post, error)

	// FindByCommentAuthor retrieves all posts carrying at least one
	// comment authored by the given profile, regardless of post author.
	FindByCommentAuthor(ctx context.Context, authorID string) ([]*content.Post, error)

	// Save persists a post (create or full update)
	Save(ctx context.Context, p *content.Post) error

	// BatchWrite applies the staged operations atomically. The caller
	// must send at most MaxWriteBatch operations per call.
	BatchWrite(ctx context.Context, ops []ContentWriteOp) error
}

// ProfileCache is the read-through cache over ProfileRepository.
type ProfileCache interface {
	// Get returns the cached profile if fresh, refetching from the store
	// otherwise. A profile that exists nowhere is (nil, nil).
	Get(ctx context.Context, id string) (*profile.Profile, error)

	// GetMany resolves the given IDs, serving fresh entries from memory
	// and batch-fetching the rest. The result covers exactly the IDs
	// that resolved to an existing profile.
	GetMany(ctx context.Context, ids []string) (map[string]*profile.Profile, error)

	// Set unconditionally inserts or refreshes an entry.
	Set(ctx context.Context, id string, p *profile.Profile)

	// Invalidate removes an entry; idempotent on missing keys.
	Invalidate(ctx context.Context, id string)

	// Clear removes all entries; called at session end.
	Clear(ctx context.Context)
}

// TaskRunner is the seam for detached background work. Submit returns
// immediately; the task runs with its own context and its error is reported
// to the runner's sink, never to the submitter.
type TaskRunner interface {
	Submit(name string, task func(ctx context.Context) error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
