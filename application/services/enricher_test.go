package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/jakubrachwalski/SocialNetwork/application/services"
	"github.com/jakubrachwalski/SocialNetwork/domain/content"
	"github.com/jakubrachwalski/SocialNetwork/domain/profile"
	"github.com/jakubrachwalski/SocialNetwork/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fixtureProfile(id, displayName, avatarURL string) *profile.Profile {
	now := time.Now()
	return profile.Reconstruct(id, displayName, avatarURL, "", now, now)
}

func fixturePost(id, authorID, authorName string, comments ...content.Comment) *content.Post {
	return &content.Post{
		ID:        id,
		AuthorID:  authorID,
		Author:    content.AuthorSnapshot{DisplayName: authorName, AvatarURL: "https://old.example/avatar.png"},
		Body:      "body of " + id,
		Comments:  comments,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func fixtureComment(id, authorID, authorName string) content.Comment {
	return content.Comment{
		ID:        id,
		AuthorID:  authorID,
		Author:    content.AuthorSnapshot{DisplayName: authorName},
		Text:      "comment " + id,
		CreatedAt: time.Now(),
	}
}

func TestEnrich_RefreshesAuthorFields(t *testing.T) {
	// Arrange
	cache := mocks.NewFakeProfileCache(
		fixtureProfile("alice", "Alice Renamed", "https://cdn.example/alice.png"),
	)
	enricher := services.NewContentEnricher(cache, zap.NewNop())
	posts := []*content.Post{fixturePost("p1", "alice", "Alice Old")}

	// Act
	enriched, err := enricher.Enrich(context.Background(), posts)

	// Assert
	require.NoError(t, err)
	require.Len(t, enriched, 1)
	assert.Equal(t, "Alice Renamed", enriched[0].Author.DisplayName)
	assert.Equal(t, "https://cdn.example/alice.png", enriched[0].Author.AvatarURL)
}

func TestEnrich_DoesNotMutateInput(t *testing.T) {
	// Arrange
	cache := mocks.NewFakeProfileCache(
		fixtureProfile("alice", "Alice Renamed", ""),
		fixtureProfile("bob", "Bob Renamed", ""),
	)
	enricher := services.NewContentEnricher(cache, zap.NewNop())
	post := fixturePost("p1", "alice", "Alice Old", fixtureComment("c1", "bob", "Bob Old"))

	// Act
	_, err := enricher.Enrich(context.Background(), []*content.Post{post})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Alice Old", post.Author.DisplayName)
	assert.Equal(t, "Bob Old", post.Comments[0].Author.DisplayName)
}

func TestEnrich_EnrichesNestedCommentAuthors(t *testing.T) {
	// Arrange
	cache := mocks.NewFakeProfileCache(
		fixtureProfile("alice", "Alice", ""),
		fixtureProfile("bob", "Bob Renamed", "https://cdn.example/bob.png"),
	)
	enricher := services.NewContentEnricher(cache, zap.NewNop())
	posts := []*content.Post{
		fixturePost("p1", "alice", "Alice",
			fixtureComment("c1", "bob", "Bob Old"),
			fixtureComment("c2", "alice", "Alice"),
		),
	}

	// Act
	enriched, err := enricher.Enrich(context.Background(), posts)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Bob Renamed", enriched[0].Comments[0].Author.DisplayName)
	assert.Equal(t, "https://cdn.example/bob.png", enriched[0].Comments[0].Author.AvatarURL)
	assert.Equal(t, "Alice", enriched[0].Comments[1].Author.DisplayName)
}

func TestEnrich_UnresolvedAuthorKeepsPersistedFields(t *testing.T) {
	// Arrange: no profile for the deleted account
	cache := mocks.NewFakeProfileCache()
	enricher := services.NewContentEnricher(cache, zap.NewNop())
	posts := []*content.Post{
		fixturePost("p1", "deleted-user", "Ghost", fixtureComment("c1", "deleted-user", "Ghost")),
	}

	// Act
	enriched, err := enricher.Enrich(context.Background(), posts)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Ghost", enriched[0].Author.DisplayName)
	assert.Equal(t, "Ghost", enriched[0].Comments[0].Author.DisplayName)
}

func TestEnrich_EmptyInput(t *testing.T) {
	// Arrange
	cache := mocks.NewFakeProfileCache()
	enricher := services.NewContentEnricher(cache, zap.NewNop())

	// Act
	enriched, err := enricher.Enrich(context.Background(), nil)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, enriched)
	assert.Empty(t, cache.Ops, "no lookup for empty input")
}
