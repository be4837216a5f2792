package di

import (
	"context"

	"github.com/jakubrachwalski/SocialNetwork/application/ports"
	"github.com/jakubrachwalski/SocialNetwork/application/services"
	"github.com/jakubrachwalski/SocialNetwork/infrastructure/config"
	"github.com/jakubrachwalski/SocialNetwork/infrastructure/tasks"
	"github.com/jakubrachwalski/SocialNetwork/interfaces/http/rest"
	"github.com/jakubrachwalski/SocialNetwork/pkg/auth"
	"github.com/jakubrachwalski/SocialNetwork/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	ProfileRepo    ports.ProfileRepository
	PostRepo       ports.PostRepository
	ProfileCache   ports.ProfileCache
	TaskRunner     *tasks.GoRunner
	EventPublisher ports.EventPublisher
	Metrics        *observability.Metrics
	Tracer         *observability.Tracer
	JWTValidator   *auth.JWTValidator
	RateLimiter    *auth.DistributedRateLimiter
	Enricher       *services.ContentEnricher
	Repairer       *services.ReferenceRepairer
	ProfileService *services.ProfileService
	PostService    *services.PostService
	Router         *rest.Router
}

// Shutdown drains background work and flushes the logger
func (c *Container) Shutdown(ctx context.Context) error {
	err := c.TaskRunner.Shutdown(ctx)
	c.Logger.Sync()
	return err
}
