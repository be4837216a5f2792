package services

import (
	"context"

	"github.com/jakubrachwalski/SocialNetwork/application/ports"
	"github.com/jakubrachwalski/SocialNetwork/domain/content"

	"go.uber.org/zap"
)

// ContentEnricher refreshes the denormalized author fields of content records
// from the freshest available profile data at read time. It never writes to
// the store: stale on-disk denormalization is masked until reference repair
// catches up. Cache misses incurred here populate the cache as a side effect.
type ContentEnricher struct {
	cache  ports.ProfileCache
	logger *zap.Logger
}

// NewContentEnricher creates a new content enricher
func NewContentEnricher(cache ports.ProfileCache, logger *zap.Logger) *ContentEnricher {
	return &ContentEnricher{
		cache:  cache,
		logger: logger,
	}
}

// Enrich returns a new slice of posts whose author fields (top-level and
// nested comments) reflect the resolved profiles. Records whose author has no
// resolvable profile keep their persisted fields unchanged, e.g. a deleted
// account. Input posts are not mutated.
func (e *ContentEnricher) Enrich(ctx context.Context, posts []*content.Post) ([]*content.Post, error) {
	if len(posts) == 0 {
		return []*content.Post{}, nil
	}

	ids := collectAuthorIDs(posts)

	profiles, err := e.cache.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	enriched := make([]*content.Post, len(posts))
	for i, post := range posts {
		clone := post.Clone()

		if p, ok := profiles[clone.AuthorID]; ok {
			clone.Author = content.AuthorSnapshot{
				DisplayName: p.DisplayName(),
				AvatarURL:   p.AvatarURL(),
			}
		}

		for j := range clone.Comments {
			if p, ok := profiles[clone.Comments[j].AuthorID]; ok {
				clone.Comments[j].Author = content.AuthorSnapshot{
					DisplayName: p.DisplayName(),
					AvatarURL:   p.AvatarURL(),
				}
			}
		}

		enriched[i] = clone
	}

	e.logger.Debug("Enriched content records",
		zap.Int("posts", len(posts)),
		zap.Int("authors", len(ids)),
		zap.Int("resolved", len(profiles)),
	)

	return enriched, nil
}

// collectAuthorIDs gathers the distinct author identifiers across posts and
// their nested comments, in first-seen order.
func collectAuthorIDs(posts []*content.Post) []string {
	seen := make(map[string]struct{})
	var ids []string

	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, post := range posts {
		add(post.AuthorID)
		for _, c := range post.Comments {
			add(c.AuthorID)
		}
	}

	return ids
}
