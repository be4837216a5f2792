package services

import (
	"context"
	"fmt"

	"github.com/jakubrachwalski/SocialNetwork/application/ports"
	"github.com/jakubrachwalski/SocialNetwork/domain/content"

	"go.uber.org/zap"
)

// ReferenceRepairer rewrites every denormalized copy of a profile's display
// fields after the profile changes: the author fields of posts the profile
// authored, and its comments nested inside any post. Writes are staged and
// flushed in order, chunked to the store's atomic batch limit, sequentially
// rather than in parallel to bound load on the store.
type ReferenceRepairer struct {
	posts  ports.PostRepository
	logger *zap.Logger
}

// NewReferenceRepairer creates a new reference repairer
func NewReferenceRepairer(posts ports.PostRepository, logger *zap.Logger) *ReferenceRepairer {
	return &ReferenceRepairer{
		posts:  posts,
		logger: logger,
	}
}

// Repair brings every content record referencing authorID up to the given
// display values. Batches are flushed strictly in staging order, so a post's
// author update and its own comment rewrite land in the same or consecutive
// batch and are never reordered.
func (r *ReferenceRepairer) Repair(ctx context.Context, authorID, displayName, avatarURL string) error {
	author := content.AuthorSnapshot{
		DisplayName: displayName,
		AvatarURL:   avatarURL,
	}

	authored, err := r.posts.FindByAuthor(ctx, authorID)
	if err != nil {
		return fmt.Errorf("failed to find authored posts: %w", err)
	}

	commented, err := r.posts.FindByCommentAuthor(ctx, authorID)
	if err != nil {
		return fmt.Errorf("failed to find commented posts: %w", err)
	}

	staged := make([]ports.ContentWriteOp, 0, ports.MaxWriteBatch)
	flushed := 0

	flush := func() error {
		if len(staged) == 0 {
			return nil
		}
		if err := r.posts.BatchWrite(ctx, staged); err != nil {
			return fmt.Errorf("failed to flush repair batch: %w", err)
		}
		flushed += len(staged)
		staged = staged[:0]
		return nil
	}

	stage := func(op ports.ContentWriteOp) error {
		staged = append(staged, op)
		if len(staged) >= ports.MaxWriteBatch {
			return flush()
		}
		return nil
	}

	authoredIDs := make(map[string]struct{}, len(authored))

	for _, post := range authored {
		authoredIDs[post.ID] = struct{}{}

		snapshot := author
		if err := stage(ports.ContentWriteOp{PostID: post.ID, SetAuthor: &snapshot}); err != nil {
			return err
		}

		if post.HasCommentsBy(authorID) {
			op := ports.ContentWriteOp{
				PostID:      post.ID,
				SetComments: post.CommentsWithAuthor(authorID, author),
			}
			if err := stage(op); err != nil {
				return err
			}
		}
	}

	for _, post := range commented {
		if _, dup := authoredIDs[post.ID]; dup {
			continue
		}

		op := ports.ContentWriteOp{
			PostID:      post.ID,
			SetComments: post.CommentsWithAuthor(authorID, author),
		}
		if err := stage(op); err != nil {
			return err
		}
	}

	if err := flush(); err != nil {
		return err
	}

	r.logger.Info("Repaired denormalized profile references",
		zap.String("profileID", authorID),
		zap.Int("authoredPosts", len(authored)),
		zap.Int("commentedPosts", len(commented)),
		zap.Int("operations", flushed),
	)

	return nil
}
