// Package mocks provides mock implementations of the application ports for
// testing.
package mocks

import (
	"context"

	"github.com/jakubrachwalski/SocialNetwork/application/ports"
	"github.com/jakubrachwalski/SocialNetwork/domain/content"
	"github.com/jakubrachwalski/SocialNetwork/domain/events"
	"github.com/jakubrachwalski/SocialNetwork/domain/profile"

	"github.com/stretchr/testify/mock"
)

// MockProfileRepository is a testify mock of ports.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id string) (*profile.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindManyByIDs(ctx context.Context, ids []string) ([]*profile.Profile, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*profile.Profile), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, p *profile.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockPostRepository is a testify mock of ports.PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) FindByID(ctx context.Context, id string) (*content.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Post), args.Error(1)
}

func (m *MockPostRepository) FindByAuthor(ctx context.Context, authorID string) ([]*content.Post, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*content.Post), args.Error(1)
}

func (m *MockPostRepository) FindByCommentAuthor(ctx context.Context, authorID string) ([]*content.Post, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*content.Post), args.Error(1)
}

func (m *MockPostRepository) Save(ctx context.Context, p *content.Post) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPostRepository) BatchWrite(ctx context.Context, ops []ports.ContentWriteOp) error {
	args := m.Called(ctx, ops)
	return args.Error(0)
}

// MockEventPublisher is a testify mock of ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	args := m.Called(ctx, evts)
	return args.Error(0)
}

// FakeProfileCache is a map-backed ports.ProfileCache that records the order
// of operations, so tests can assert invalidation happens before repair.
type FakeProfileCache struct {
	Profiles map[string]*profile.Profile

	// Ops records each call as "get:<id>", "getMany", "set:<id>",
	// "invalidate:<id>" or "clear", in call order.
	Ops []string
}

func NewFakeProfileCache(profiles ...*profile.Profile) *FakeProfileCache {
	c := &FakeProfileCache{Profiles: make(map[string]*profile.Profile)}
	for _, p := range profiles {
		c.Profiles[p.ID()] = p
	}
	return c
}

func (c *FakeProfileCache) Get(ctx context.Context, id string) (*profile.Profile, error) {
	c.Ops = append(c.Ops, "get:"+id)
	return c.Profiles[id], nil
}

func (c *FakeProfileCache) GetMany(ctx context.Context, ids []string) (map[string]*profile.Profile, error) {
	c.Ops = append(c.Ops, "getMany")
	resolved := make(map[string]*profile.Profile)
	for _, id := range ids {
		if p, ok := c.Profiles[id]; ok {
			resolved[id] = p
		}
	}
	return resolved, nil
}

func (c *FakeProfileCache) Set(ctx context.Context, id string, p *profile.Profile) {
	c.Ops = append(c.Ops, "set:"+id)
	c.Profiles[id] = p
}

func (c *FakeProfileCache) Invalidate(ctx context.Context, id string) {
	c.Ops = append(c.Ops, "invalidate:"+id)
	delete(c.Profiles, id)
}

func (c *FakeProfileCache) Clear(ctx context.Context) {
	c.Ops = append(c.Ops, "clear")
	c.Profiles = make(map[string]*profile.Profile)
}

// SyncRunner runs submitted tasks inline, so tests observe their effects
// deterministically.
type SyncRunner struct {
	Errors []error
}

func (r *SyncRunner) Submit(name string, task func(ctx context.Context) error) {
	if err := task(context.Background()); err != nil {
		r.Errors = append(r.Errors, err)
	}
}
