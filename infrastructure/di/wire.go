//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/jakubrachwalski/SocialNetwork/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideProfileRepository,
	ProvidePostRepository,
	ProvideProfileCache,
	ProvideTaskRunner,
	ProvideEventPublisher,
	ProvideMetrics,
	ProvideTracer,
	ProvideJWTValidator,
	ProvideDistributedRateLimiter,
	ProvideContentEnricher,
	ProvideReferenceRepairer,
	ProvideProfileService,
	ProvidePostService,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
