package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/jakubrachwalski/SocialNetwork/application/services"
	"github.com/jakubrachwalski/SocialNetwork/domain/content"
	pkgerrors "github.com/jakubrachwalski/SocialNetwork/pkg/errors"
	"github.com/jakubrachwalski/SocialNetwork/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type postServiceFixture struct {
	posts   *mocks.MockPostRepository
	cache   *mocks.FakeProfileCache
	service *services.PostService
}

func newPostServiceFixture(t *testing.T) *postServiceFixture {
	t.Helper()
	logger := zap.NewNop()
	f := &postServiceFixture{
		posts: new(mocks.MockPostRepository),
		cache: mocks.NewFakeProfileCache(),
	}
	enricher := services.NewContentEnricher(f.cache, logger)
	f.service = services.NewPostService(f.posts, f.cache, enricher, logger)
	return f
}

func TestCreatePost_SnapshotsAuthorFields(t *testing.T) {
	// Arrange
	f := newPostServiceFixture(t)
	f.cache.Set(context.Background(), "alice", fixtureProfile("alice", "Alice", "https://cdn.example/alice.png"))

	var saved *content.Post
	f.posts.On("Save", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*content.Post) }).
		Return(nil)

	// Act
	post, err := f.service.CreatePost(context.Background(), "p1", "alice", "hello world")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "p1", post.ID)
	assert.Equal(t, "alice", post.AuthorID)
	assert.Equal(t, "Alice", post.Author.DisplayName)
	assert.Equal(t, "https://cdn.example/alice.png", post.Author.AvatarURL)
	require.NotNil(t, saved)
	assert.Equal(t, "Alice", saved.Author.DisplayName, "snapshot persisted with the record")
}

func TestCreatePost_UnknownAuthorRejected(t *testing.T) {
	// Arrange
	f := newPostServiceFixture(t)

	// Act
	_, err := f.service.CreatePost(context.Background(), "p1", "ghost", "hello")

	// Assert
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
	f.posts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreatePost_EmptyBodyRejected(t *testing.T) {
	// Arrange
	f := newPostServiceFixture(t)
	f.cache.Set(context.Background(), "alice", fixtureProfile("alice", "Alice", ""))

	// Act
	_, err := f.service.CreatePost(context.Background(), "p1", "alice", "")

	// Assert
	require.Error(t, err)
	f.posts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAddComment_SnapshotsCommentAuthor(t *testing.T) {
	// Arrange
	f := newPostServiceFixture(t)
	f.cache.Set(context.Background(), "bob", fixtureProfile("bob", "Bob", ""))

	existing := fixturePost("p1", "alice", "Alice")
	f.posts.On("FindByID", mock.Anything, "p1").Return(existing, nil)
	f.posts.On("Save", mock.Anything, mock.Anything).Return(nil)

	// Act
	post, err := f.service.AddComment(context.Background(), "p1", "c1", "bob", "nice post")

	// Assert
	require.NoError(t, err)
	require.Len(t, post.Comments, 1)
	assert.Equal(t, "bob", post.Comments[0].AuthorID)
	assert.Equal(t, "Bob", post.Comments[0].Author.DisplayName)
	f.posts.AssertCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAddComment_MissingPostFails(t *testing.T) {
	// Arrange
	f := newPostServiceFixture(t)
	f.posts.On("FindByID", mock.Anything, "missing").Return(nil, pkgerrors.NewNotFoundError("post"))

	// Act
	_, err := f.service.AddComment(context.Background(), "missing", "c1", "bob", "hi")

	// Assert
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestGetFeed_SortsNewestFirstAndEnriches(t *testing.T) {
	// Arrange
	f := newPostServiceFixture(t)
	f.cache.Set(context.Background(), "alice", fixtureProfile("alice", "Alice Renamed", ""))

	older := fixturePost("p1", "alice", "Alice Old")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := fixturePost("p2", "alice", "Alice Old")
	newer.CreatedAt = time.Now()

	f.posts.On("FindByAuthor", mock.Anything, "alice").Return([]*content.Post{older, newer}, nil)

	// Act
	feed, err := f.service.GetFeed(context.Background(), "alice")

	// Assert
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "p2", feed[0].ID)
	assert.Equal(t, "p1", feed[1].ID)
	assert.Equal(t, "Alice Renamed", feed[0].Author.DisplayName)
	assert.Equal(t, "Alice Renamed", feed[1].Author.DisplayName)
}

func TestGetPost_EnrichesAuthorFields(t *testing.T) {
	// Arrange
	f := newPostServiceFixture(t)
	f.cache.Set(context.Background(), "alice", fixtureProfile("alice", "Alice Renamed", ""))
	f.posts.On("FindByID", mock.Anything, "p1").Return(fixturePost("p1", "alice", "Alice Old"), nil)

	// Act
	post, err := f.service.GetPost(context.Background(), "p1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Alice Renamed", post.Author.DisplayName)
}
