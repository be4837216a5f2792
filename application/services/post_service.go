package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/jakubrachwalski/SocialNetwork/application/ports"
	"github.com/jakubrachwalski/SocialNetwork/domain/content"
	pkgerrors "github.com/jakubrachwalski/SocialNetwork/pkg/errors"

	"go.uber.org/zap"
)

// PostService handles the content write path. Author display fields are
// denormalized into each record at write time; that copy is what the
// ReferenceRepairer later keeps consistent.
type PostService struct {
	posts    ports.PostRepository
	cache    ports.ProfileCache
	enricher *ContentEnricher
	logger   *zap.Logger
}

// NewPostService creates a new post service
func NewPostService(
	posts ports.PostRepository,
	cache ports.ProfileCache,
	enricher *ContentEnricher,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		posts:    posts,
		cache:    cache,
		enricher: enricher,
		logger:   logger,
	}
}

// CreatePost persists a post carrying a snapshot of the author's current
// display fields.
func (s *PostService) CreatePost(ctx context.Context, postID, authorID, body string) (*content.Post, error) {
	author, err := s.authorSnapshot(ctx, authorID)
	if err != nil {
		return nil, err
	}

	post, err := content.NewPost(postID, authorID, body, author)
	if err != nil {
		return nil, err
	}

	if err := s.posts.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save post: %w", err)
	}

	s.logger.Info("Post created",
		zap.String("postID", post.ID),
		zap.String("authorID", authorID),
	)

	return post, nil
}

// AddComment appends a comment, with its own author snapshot, to an existing
// post.
func (s *PostService) AddComment(ctx context.Context, postID, commentID, authorID, text string) (*content.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	author, err := s.authorSnapshot(ctx, authorID)
	if err != nil {
		return nil, err
	}

	comment, err := content.NewComment(commentID, authorID, text, author)
	if err != nil {
		return nil, err
	}

	post.AddComment(comment)

	if err := s.posts.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	return post, nil
}

// GetFeed returns a profile's posts, newest first, with denormalized author
// fields refreshed through the enricher. The store has no (author, time)
// index, so ordering happens here.
func (s *PostService) GetFeed(ctx context.Context, authorID string) ([]*content.Post, error) {
	posts, err := s.posts.FindByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	return s.enricher.Enrich(ctx, posts)
}

// GetPost returns a single post with refreshed author fields.
func (s *PostService) GetPost(ctx context.Context, postID string) (*content.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	enriched, err := s.enricher.Enrich(ctx, []*content.Post{post})
	if err != nil {
		return nil, err
	}
	return enriched[0], nil
}

// authorSnapshot resolves the author's current display fields through the
// cache. Posting requires an existing profile.
func (s *PostService) authorSnapshot(ctx context.Context, authorID string) (content.AuthorSnapshot, error) {
	p, err := s.cache.Get(ctx, authorID)
	if err != nil {
		return content.AuthorSnapshot{}, err
	}
	if p == nil {
		return content.AuthorSnapshot{}, pkgerrors.NewNotFoundError("author profile")
	}
	return content.AuthorSnapshot{
		DisplayName: p.DisplayName(),
		AvatarURL:   p.AvatarURL(),
	}, nil
}
