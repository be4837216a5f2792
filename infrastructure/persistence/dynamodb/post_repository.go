package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/jakubrachwalski/SocialNetwork/application/ports"
	"github.com/jakubrachwalski/SocialNetwork/domain/content"
	pkgerrors "github.com/jakubrachwalski/SocialNetwork/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// transactLimit is DynamoDB's cap on actions per TransactWriteItems call.
// A staged batch of up to ports.MaxWriteBatch operations is applied as
// consecutive transactions in staging order.
const transactLimit = 100

// PostRepository implements the PostRepository interface using DynamoDB
type PostRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.PostRepository {
	return &PostRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// postItem represents the DynamoDB item structure for a post with its
// comments embedded
type postItem struct {
	PK             string        `dynamodbav:"PK"`
	SK             string        `dynamodbav:"SK"`
	GSI1PK         string        `dynamodbav:"GSI1PK"` // AUTHOR#<id> for author feed queries
	GSI1SK         string        `dynamodbav:"GSI1SK"`
	EntityType     string        `dynamodbav:"EntityType"`
	PostID         string        `dynamodbav:"PostID"`
	AuthorID       string        `dynamodbav:"AuthorID"`
	AuthorName     string        `dynamodbav:"AuthorName"`
	AuthorAvatar   string        `dynamodbav:"AuthorAvatar,omitempty"`
	Body           string        `dynamodbav:"Body"`
	Comments       []commentItem `dynamodbav:"Comments"`
	CommentAuthors []string      `dynamodbav:"CommentAuthors,omitempty"`
	CreatedAt      string        `dynamodbav:"CreatedAt"`
	UpdatedAt      string        `dynamodbav:"UpdatedAt"`
}

type commentItem struct {
	CommentID    string `dynamodbav:"CommentID"`
	AuthorID     string `dynamodbav:"AuthorID"`
	AuthorName   string `dynamodbav:"AuthorName"`
	AuthorAvatar string `dynamodbav:"AuthorAvatar,omitempty"`
	Text         string `dynamodbav:"Text"`
	CreatedAt    string `dynamodbav:"CreatedAt"`
}

func postKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("POST#%s", id)},
		"SK": &types.AttributeValueMemberS{Value: "METADATA"},
	}
}

// FindByID retrieves a post by its ID
func (r *PostRepository) FindByID(ctx context.Context, id string) (*content.Post, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       postKey(id),
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get post", err)
	}

	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("post")
	}

	var item postItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal post: %w", err)
	}

	return r.itemToPost(item), nil
}

// FindByAuthor retrieves all posts authored by the given profile using the
// author GSI, following pagination.
func (r *PostRepository) FindByAuthor(ctx context.Context, authorID string) ([]*content.Post, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(fmt.Sprintf("AUTHOR#%s", authorID)))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build author query: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var posts []*content.Post
	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query posts by author", err)
		}

		posts = append(posts, r.unmarshalPosts(result.Items)...)

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return posts, nil
}

// FindByCommentAuthor retrieves every post carrying at least one comment by
// the given profile. Comment authorship has no index, so this scans with a
// filter on the CommentAuthors set maintained at write time.
func (r *PostRepository) FindByCommentAuthor(ctx context.Context, authorID string) ([]*content.Post, error) {
	filter := expression.Name("EntityType").Equal(expression.Value("POST")).
		And(expression.Contains(expression.Name("CommentAuthors"), authorID))

	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build comment-author scan: %w", err)
	}

	input := &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var posts []*content.Post
	for {
		result, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("scan posts by comment author", err)
		}

		posts = append(posts, r.unmarshalPosts(result.Items)...)

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return posts, nil
}

// Save persists a post and its embedded comments
func (r *PostRepository) Save(ctx context.Context, p *content.Post) error {
	item := r.postToItem(p)

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to save post to DynamoDB",
			zap.Error(err),
			zap.String("postID", p.ID),
		)
		return pkgerrors.NewDatabaseError("save post", err)
	}

	return nil
}

// BatchWrite applies staged content operations in order. Each chunk of up to
// transactLimit actions is written atomically; chunks are issued sequentially
// rather than in parallel to bound concurrent load on the store.
func (r *PostRepository) BatchWrite(ctx context.Context, ops []ports.ContentWriteOp) error {
	if len(ops) == 0 {
		return nil
	}
	if len(ops) > ports.MaxWriteBatch {
		return pkgerrors.NewValidationError(
			fmt.Sprintf("batch of %d operations exceeds limit of %d", len(ops), ports.MaxWriteBatch))
	}

	items := make([]types.TransactWriteItem, 0, len(ops))
	for _, op := range ops {
		item, err := r.opToTransactItem(op)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	for start := 0; start < len(items); start += transactLimit {
		end := start + transactLimit
		if end > len(items) {
			end = len(items)
		}

		input := &dynamodb.TransactWriteItemsInput{
			TransactItems: items[start:end],
		}

		if _, err := r.client.TransactWriteItems(ctx, input); err != nil {
			return pkgerrors.NewDatabaseError("batch write posts", err)
		}
	}

	r.logger.Debug("Applied content write batch",
		zap.Int("operations", len(ops)),
	)

	return nil
}

// opToTransactItem translates one staged operation into an update action.
func (r *PostRepository) opToTransactItem(op ports.ContentWriteOp) (types.TransactWriteItem, error) {
	now := formatTimestamp(time.Now())

	var update expression.UpdateBuilder
	switch {
	case op.SetAuthor != nil:
		update = expression.
			Set(expression.Name("AuthorName"), expression.Value(op.SetAuthor.DisplayName)).
			Set(expression.Name("AuthorAvatar"), expression.Value(op.SetAuthor.AvatarURL)).
			Set(expression.Name("UpdatedAt"), expression.Value(now))

	case op.SetComments != nil:
		comments, authors := commentsToItems(op.SetComments)
		update = expression.
			Set(expression.Name("Comments"), expression.Value(comments)).
			Set(expression.Name("CommentAuthors"), expression.Value(authors)).
			Set(expression.Name("UpdatedAt"), expression.Value(now))

	default:
		return types.TransactWriteItem{}, pkgerrors.NewValidationError("content write op has no operation set")
	}

	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("failed to build update expression: %w", err)
	}

	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:                 aws.String(r.tableName),
			Key:                       postKey(op.PostID),
			UpdateExpression:          expr.Update(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		},
	}, nil
}

func (r *PostRepository) postToItem(p *content.Post) postItem {
	comments, authors := commentsToItems(p.Comments)

	return postItem{
		PK:             fmt.Sprintf("POST#%s", p.ID),
		SK:             "METADATA",
		GSI1PK:         fmt.Sprintf("AUTHOR#%s", p.AuthorID),
		GSI1SK:         fmt.Sprintf("POST#%s", formatTimestamp(p.CreatedAt)),
		EntityType:     "POST",
		PostID:         p.ID,
		AuthorID:       p.AuthorID,
		AuthorName:     p.Author.DisplayName,
		AuthorAvatar:   p.Author.AvatarURL,
		Body:           p.Body,
		Comments:       comments,
		CommentAuthors: authors,
		CreatedAt:      formatTimestamp(p.CreatedAt),
		UpdatedAt:      formatTimestamp(p.UpdatedAt),
	}
}

func (r *PostRepository) unmarshalPosts(items []map[string]types.AttributeValue) []*content.Post {
	posts := make([]*content.Post, 0, len(items))
	for _, raw := range items {
		var item postItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("Failed to unmarshal post item", zap.Error(err))
			continue
		}
		posts = append(posts, r.itemToPost(item))
	}
	return posts
}

func (r *PostRepository) itemToPost(item postItem) *content.Post {
	comments := make([]content.Comment, 0, len(item.Comments))
	for _, c := range item.Comments {
		createdAt, err := parseTimestamp(c.CreatedAt)
		if err != nil {
			r.logger.Warn("Unparseable CreatedAt on comment item",
				zap.String("commentID", c.CommentID),
				zap.Error(err),
			)
		}
		comments = append(comments, content.Comment{
			ID:       c.CommentID,
			AuthorID: c.AuthorID,
			Author: content.AuthorSnapshot{
				DisplayName: c.AuthorName,
				AvatarURL:   c.AuthorAvatar,
			},
			Text:      c.Text,
			CreatedAt: createdAt,
		})
	}

	createdAt, err := parseTimestamp(item.CreatedAt)
	if err != nil {
		r.logger.Warn("Unparseable CreatedAt on post item",
			zap.String("postID", item.PostID),
			zap.Error(err),
		)
	}
	updatedAt, err := parseTimestamp(item.UpdatedAt)
	if err != nil {
		r.logger.Warn("Unparseable UpdatedAt on post item",
			zap.String("postID", item.PostID),
			zap.Error(err),
		)
	}

	return &content.Post{
		ID:       item.PostID,
		AuthorID: item.AuthorID,
		Author: content.AuthorSnapshot{
			DisplayName: item.AuthorName,
			AvatarURL:   item.AuthorAvatar,
		},
		Body:      item.Body,
		Comments:  comments,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// commentsToItems converts domain comments into store items plus the distinct
// comment-author set the comment-author scan filters on.
func commentsToItems(comments []content.Comment) ([]commentItem, []string) {
	items := make([]commentItem, 0, len(comments))
	seen := make(map[string]struct{})
	var authors []string

	for _, c := range comments {
		items = append(items, commentItem{
			CommentID:    c.ID,
			AuthorID:     c.AuthorID,
			AuthorName:   c.Author.DisplayName,
			AuthorAvatar: c.Author.AvatarURL,
			Text:         c.Text,
			CreatedAt:    formatTimestamp(c.CreatedAt),
		})

		if _, ok := seen[c.AuthorID]; !ok {
			seen[c.AuthorID] = struct{}{}
			authors = append(authors, c.AuthorID)
		}
	}

	return items, authors
}
