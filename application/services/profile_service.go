package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jakubrachwalski/SocialNetwork/application/ports"
	"github.com/jakubrachwalski/SocialNetwork/domain/events"
	"github.com/jakubrachwalski/SocialNetwork/domain/profile"
	pkgerrors "github.com/jakubrachwalski/SocialNetwork/pkg/errors"
	"github.com/jakubrachwalski/SocialNetwork/pkg/observability"

	"go.uber.org/zap"
)

// UpdateProfileInput carries the editable profile fields.
type UpdateProfileInput struct {
	DisplayName string
	AvatarURL   string
	Bio         *string
}

// ProfileService owns the profile read and update paths. An update returns as
// soon as the profile document itself is written and the cache entry is
// invalidated; repairing the denormalized copies runs detached on the task
// runner and its failures never reach the caller.
type ProfileService struct {
	profiles  ports.ProfileRepository
	cache     ports.ProfileCache
	repairer  *ReferenceRepairer
	runner    ports.TaskRunner
	publisher ports.EventPublisher
	metrics   *observability.Metrics
	tracer    *observability.Tracer
	logger    *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	profiles ports.ProfileRepository,
	cache ports.ProfileCache,
	repairer *ReferenceRepairer,
	runner ports.TaskRunner,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		profiles:  profiles,
		cache:     cache,
		repairer:  repairer,
		runner:    runner,
		publisher: publisher,
		metrics:   metrics,
		tracer:    tracer,
		logger:    logger,
	}
}

// GetProfile serves a profile through the cache.
func (s *ProfileService) GetProfile(ctx context.Context, id string) (*profile.Profile, error) {
	p, err := s.cache.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, pkgerrors.NewNotFoundError("profile")
	}
	return p, nil
}

// CreateProfile registers a new profile and seeds the cache with it.
func (s *ProfileService) CreateProfile(ctx context.Context, id, displayName, avatarURL string) (*profile.Profile, error) {
	p, err := profile.NewProfile(id, displayName, avatarURL)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.cache.Set(ctx, id, p)
	s.publish(ctx, []events.DomainEvent{events.NewProfileCreated(id, displayName, p.CreatedAt())})

	s.logger.Info("Profile created",
		zap.String("profileID", id),
	)

	return p, nil
}

// UpdateProfile applies the edit, invalidates the cached entry, and submits
// detached reference repair when the display fields actually changed. The
// caller's latency is independent of how much content the profile authored.
func (s *ProfileService) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*profile.Profile, error) {
	start := time.Now()

	p, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	displayChanged, err := p.UpdateDisplay(input.DisplayName, input.AvatarURL)
	if err != nil {
		return nil, err
	}

	if input.Bio != nil {
		if err := p.UpdateBio(*input.Bio); err != nil {
			return nil, err
		}
	}

	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	// The stale entry must be gone before this call returns, regardless of
	// how long repair takes.
	s.cache.Invalidate(ctx, id)

	s.publish(ctx, p.GetUncommittedEvents())
	p.MarkEventsAsCommitted()

	if displayChanged {
		s.submitRepair(id, p.DisplayName(), p.AvatarURL())
	}

	s.metrics.RecordOperation(ctx, "UpdateProfile", time.Since(start), nil)

	s.logger.Info("Profile updated",
		zap.String("profileID", id),
		zap.Bool("displayChanged", displayChanged),
	)

	return p, nil
}

// SignOut drops all cached profiles so the next session in this process
// starts cold.
func (s *ProfileService) SignOut(ctx context.Context) {
	s.cache.Clear(ctx)
	s.logger.Debug("Profile cache cleared on sign-out")
}

// submitRepair hands the repair to the background runner. The task gets its
// own context: it must outlive the triggering HTTP request.
func (s *ProfileService) submitRepair(id, displayName, avatarURL string) {
	s.runner.Submit("profile-reference-repair", func(ctx context.Context) error {
		start := time.Now()

		run := func(ctx context.Context) error {
			return s.repairer.Repair(ctx, id, displayName, avatarURL)
		}

		var err error
		if s.tracer != nil {
			err = s.tracer.TraceFunction(ctx, "RepairReferences", run)
		} else {
			err = run(ctx)
		}

		s.metrics.RecordOperation(ctx, "RepairReferences", time.Since(start), err)
		return err
	})
}

// publish sends domain events best-effort: a bus outage must not fail the
// write that produced them.
func (s *ProfileService) publish(ctx context.Context, evts []events.DomainEvent) {
	if len(evts) == 0 {
		return
	}
	if err := s.publisher.PublishBatch(ctx, evts); err != nil {
		s.metrics.RecordError(ctx, "event_publish", evts[0].GetEventType())
		s.logger.Warn("Failed to publish profile events",
			zap.Int("eventCount", len(evts)),
			zap.Error(err),
		)
	}
}
