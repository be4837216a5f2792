package dynamodb

import (
	"context"
	"fmt"

	"github.com/jakubrachwalski/SocialNetwork/application/ports"
	"github.com/jakubrachwalski/SocialNetwork/domain/profile"
	pkgerrors "github.com/jakubrachwalski/SocialNetwork/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// ProfileRepository implements the ProfileRepository interface using DynamoDB
type ProfileRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.ProfileRepository {
	return &ProfileRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// profileItem represents the DynamoDB item structure for a profile
type profileItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	EntityType  string `dynamodbav:"EntityType"`
	ProfileID   string `dynamodbav:"ProfileID"`
	DisplayName string `dynamodbav:"DisplayName"`
	AvatarURL   string `dynamodbav:"AvatarURL"`
	Bio         string `dynamodbav:"Bio,omitempty"`
	CreatedAt   string `dynamodbav:"CreatedAt"`
	UpdatedAt   string `dynamodbav:"UpdatedAt"`
}

func profileKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("PROFILE#%s", id)},
		"SK": &types.AttributeValueMemberS{Value: "METADATA"},
	}
}

// FindByID retrieves a profile by its ID
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*profile.Profile, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       profileKey(id),
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get profile", err)
	}

	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("profile")
	}

	var item profileItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return r.itemToProfile(item), nil
}

// FindManyByIDs retrieves the profiles that exist among the given IDs in a
// single batch round-trip. The call silently caps at ports.MaxLookupBatch
// identifiers; the cache layer chunks larger requests.
func (r *ProfileRepository) FindManyByIDs(ctx context.Context, ids []string) ([]*profile.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > ports.MaxLookupBatch {
		r.logger.Warn("Profile batch lookup capped",
			zap.Int("requested", len(ids)),
			zap.Int("limit", ports.MaxLookupBatch),
		)
		ids = ids[:ports.MaxLookupBatch]
	}

	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, profileKey(id))
	}

	profiles := make([]*profile.Profile, 0, len(ids))

	// BatchGetItem may return unprocessed keys under throttling; loop until
	// everything is resolved.
	for len(keys) > 0 {
		input := &dynamodb.BatchGetItemInput{
			RequestItems: map[string]types.KeysAndAttributes{
				r.tableName: {Keys: keys},
			},
		}

		result, err := r.client.BatchGetItem(ctx, input)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("batch get profiles", err)
		}

		for _, raw := range result.Responses[r.tableName] {
			var item profileItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal profile item", zap.Error(err))
				continue
			}
			profiles = append(profiles, r.itemToProfile(item))
		}

		keys = result.UnprocessedKeys[r.tableName].Keys
	}

	return profiles, nil
}

// Save persists a profile to DynamoDB
func (r *ProfileRepository) Save(ctx context.Context, p *profile.Profile) error {
	item := profileItem{
		PK:          fmt.Sprintf("PROFILE#%s", p.ID()),
		SK:          "METADATA",
		EntityType:  "PROFILE",
		ProfileID:   p.ID(),
		DisplayName: p.DisplayName(),
		AvatarURL:   p.AvatarURL(),
		Bio:         p.Bio(),
		CreatedAt:   formatTimestamp(p.CreatedAt()),
		UpdatedAt:   formatTimestamp(p.UpdatedAt()),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to save profile to DynamoDB",
			zap.Error(err),
			zap.String("profileID", p.ID()),
		)
		return pkgerrors.NewDatabaseError("save profile", err)
	}

	r.logger.Debug("Saved profile",
		zap.String("profileID", p.ID()),
	)

	return nil
}

func (r *ProfileRepository) itemToProfile(item profileItem) *profile.Profile {
	createdAt, err := parseTimestamp(item.CreatedAt)
	if err != nil {
		r.logger.Warn("Unparseable CreatedAt on profile item",
			zap.String("profileID", item.ProfileID),
			zap.Error(err),
		)
	}
	updatedAt, err := parseTimestamp(item.UpdatedAt)
	if err != nil {
		r.logger.Warn("Unparseable UpdatedAt on profile item",
			zap.String("profileID", item.ProfileID),
			zap.Error(err),
		)
	}

	return profile.Reconstruct(
		item.ProfileID,
		item.DisplayName,
		item.AvatarURL,
		item.Bio,
		createdAt,
		updatedAt,
	)
}
