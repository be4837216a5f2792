package di

import (
	"context"
	"fmt"

	"github.com/jakubrachwalski/SocialNetwork/application/ports"
	"github.com/jakubrachwalski/SocialNetwork/application/services"
	"github.com/jakubrachwalski/SocialNetwork/infrastructure/cache"
	"github.com/jakubrachwalski/SocialNetwork/infrastructure/config"
	"github.com/jakubrachwalski/SocialNetwork/infrastructure/messaging/eventbridge"
	"github.com/jakubrachwalski/SocialNetwork/infrastructure/persistence/dynamodb"
	"github.com/jakubrachwalski/SocialNetwork/infrastructure/tasks"
	"github.com/jakubrachwalski/SocialNetwork/interfaces/http/rest"
	"github.com/jakubrachwalski/SocialNetwork/pkg/auth"
	"github.com/jakubrachwalski/SocialNetwork/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideProfileRepository creates a profile repository
func ProvideProfileRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ProfileRepository {
	return dynamodb.NewProfileRepository(
		client,
		cfg.DynamoDBTable,
		logger,
	)
}

// ProvidePostRepository creates a post repository
func ProvidePostRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.PostRepository {
	return dynamodb.NewPostRepository(
		client,
		cfg.DynamoDBTable,
		cfg.AuthorIndex,
		logger,
	)
}

// ProvideProfileCache creates the process-wide profile cache
func ProvideProfileCache(profiles ports.ProfileRepository, cfg *config.Config, metrics *observability.Metrics, logger *zap.Logger) ports.ProfileCache {
	return cache.NewProfileCacheWithBounds(
		profiles,
		cfg.CacheTTL,
		cfg.CacheMaxEntries,
		logger,
	).WithMetrics(metrics)
}

// ProvideTaskRunner creates the background task runner
func ProvideTaskRunner(logger *zap.Logger) *tasks.GoRunner {
	return tasks.NewGoRunner(logger)
}

// ProvideEventPublisher creates an event publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewEventBridgePublisher(
		client,
		cfg.EventBusName,
		logger,
	)
}

// ProvideMetrics creates metrics instance. Returns nil when metrics are
// disabled; services treat a nil receiver as a no-op.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	namespace := fmt.Sprintf("SocialNetwork/%s", cfg.Environment)
	return observability.NewMetrics(namespace, client)
}

// ProvideTracer creates a tracer instance, or nil when tracing is disabled
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	if !cfg.EnableTracing {
		return nil
	}
	return observability.NewTracer("socialnetwork")
}

// ProvideJWTValidator creates the JWT validator used by the auth middleware
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" && cfg.IsDevelopment() {
		secret = "development-secret-change-in-production"
	}

	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     secret,
		Issuer:        cfg.JWTIssuer,
	})
}

// ProvideDistributedRateLimiter creates a DynamoDB-backed rate limiter for
// Lambda deployments, where in-memory limiter state does not survive
// invocations
func ProvideDistributedRateLimiter(client *awsdynamodb.Client, cfg *config.Config) *auth.DistributedRateLimiter {
	return auth.NewDistributedUserRateLimiter(
		client,
		cfg.DynamoDBTable,
		cfg.UserRequestsPerMinute,
	)
}

// ProvideContentEnricher creates the content enricher
func ProvideContentEnricher(profileCache ports.ProfileCache, logger *zap.Logger) *services.ContentEnricher {
	return services.NewContentEnricher(profileCache, logger)
}

// ProvideReferenceRepairer creates the reference repairer
func ProvideReferenceRepairer(posts ports.PostRepository, logger *zap.Logger) *services.ReferenceRepairer {
	return services.NewReferenceRepairer(posts, logger)
}

// ProvideProfileService creates the profile service
func ProvideProfileService(
	profiles ports.ProfileRepository,
	profileCache ports.ProfileCache,
	repairer *services.ReferenceRepairer,
	runner *tasks.GoRunner,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *services.ProfileService {
	return services.NewProfileService(profiles, profileCache, repairer, runner, publisher, metrics, tracer, logger)
}

// ProvidePostService creates the post service
func ProvidePostService(
	posts ports.PostRepository,
	profileCache ports.ProfileCache,
	enricher *services.ContentEnricher,
	logger *zap.Logger,
) *services.PostService {
	return services.NewPostService(posts, profileCache, enricher, logger)
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	cfg *config.Config,
	profiles *services.ProfileService,
	posts *services.PostService,
	validator *auth.JWTValidator,
	userLimiter *auth.DistributedRateLimiter,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(cfg, profiles, posts, validator, userLimiter, logger)
}
