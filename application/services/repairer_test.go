package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jakubrachwalski/SocialNetwork/application/ports"
	"github.com/jakubrachwalski/SocialNetwork/application/services"
	"github.com/jakubrachwalski/SocialNetwork/domain/content"
	"github.com/jakubrachwalski/SocialNetwork/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// captureBatches wires BatchWrite to copy each flushed batch. The repairer
// reuses its staging slice between flushes, so the ops must be copied at call
// time.
func captureBatches(posts *mocks.MockPostRepository, batches *[][]ports.ContentWriteOp) {
	posts.On("BatchWrite", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ops := args.Get(1).([]ports.ContentWriteOp)
			batch := make([]ports.ContentWriteOp, len(ops))
			copy(batch, ops)
			*batches = append(*batches, batch)
		}).
		Return(nil)
}

func flatten(batches [][]ports.ContentWriteOp) []ports.ContentWriteOp {
	var ops []ports.ContentWriteOp
	for _, b := range batches {
		ops = append(ops, b...)
	}
	return ops
}

func TestRepair_RewritesAuthoredPostsAndOwnComments(t *testing.T) {
	// Arrange
	authored := []*content.Post{
		fixturePost("p1", "alice", "Alice Old"),
		fixturePost("p2", "alice", "Alice Old",
			fixtureComment("c1", "alice", "Alice Old"),
			fixtureComment("c2", "bob", "Bob"),
		),
	}

	posts := new(mocks.MockPostRepository)
	posts.On("FindByAuthor", mock.Anything, "alice").Return(authored, nil)
	posts.On("FindByCommentAuthor", mock.Anything, "alice").Return([]*content.Post{authored[1]}, nil)

	var batches [][]ports.ContentWriteOp
	captureBatches(posts, &batches)

	repairer := services.NewReferenceRepairer(posts, zap.NewNop())

	// Act
	err := repairer.Repair(context.Background(), "alice", "Alice New", "https://cdn.example/alice.png")

	// Assert
	require.NoError(t, err)
	ops := flatten(batches)
	require.Len(t, ops, 3)

	// p1: author rewrite only
	assert.Equal(t, "p1", ops[0].PostID)
	require.NotNil(t, ops[0].SetAuthor)
	assert.Equal(t, "Alice New", ops[0].SetAuthor.DisplayName)
	assert.Equal(t, "https://cdn.example/alice.png", ops[0].SetAuthor.AvatarURL)
	assert.Nil(t, ops[0].SetComments)

	// p2: author rewrite plus comment rewrite
	assert.Equal(t, "p2", ops[1].PostID)
	require.NotNil(t, ops[1].SetAuthor)

	assert.Equal(t, "p2", ops[2].PostID)
	assert.Nil(t, ops[2].SetAuthor)
	require.Len(t, ops[2].SetComments, 2)
	assert.Equal(t, "Alice New", ops[2].SetComments[0].Author.DisplayName)
	assert.Equal(t, "Bob", ops[2].SetComments[1].Author.DisplayName, "other authors' comments untouched")
}

func TestRepair_ForeignPostGetsCommentRewriteOnly(t *testing.T) {
	// Arrange: alice commented on bob's post but authored nothing
	foreign := fixturePost("p9", "bob", "Bob",
		fixtureComment("c1", "alice", "Alice Old"),
		fixtureComment("c2", "carol", "Carol"),
	)

	posts := new(mocks.MockPostRepository)
	posts.On("FindByAuthor", mock.Anything, "alice").Return([]*content.Post{}, nil)
	posts.On("FindByCommentAuthor", mock.Anything, "alice").Return([]*content.Post{foreign}, nil)

	var batches [][]ports.ContentWriteOp
	captureBatches(posts, &batches)

	repairer := services.NewReferenceRepairer(posts, zap.NewNop())

	// Act
	err := repairer.Repair(context.Background(), "alice", "Alice New", "")

	// Assert
	require.NoError(t, err)
	ops := flatten(batches)
	require.Len(t, ops, 1)
	assert.Equal(t, "p9", ops[0].PostID)
	assert.Nil(t, ops[0].SetAuthor, "foreign post's own author fields untouched")
	require.Len(t, ops[0].SetComments, 2)
	assert.Equal(t, "Alice New", ops[0].SetComments[0].Author.DisplayName)
	assert.Equal(t, "Carol", ops[0].SetComments[1].Author.DisplayName)
}

func TestRepair_NoDuplicateOpsForPostsInBothQueries(t *testing.T) {
	// Arrange: self-commented authored post surfaces in both queries
	p := fixturePost("p1", "alice", "Alice Old", fixtureComment("c1", "alice", "Alice Old"))

	posts := new(mocks.MockPostRepository)
	posts.On("FindByAuthor", mock.Anything, "alice").Return([]*content.Post{p}, nil)
	posts.On("FindByCommentAuthor", mock.Anything, "alice").Return([]*content.Post{p}, nil)

	var batches [][]ports.ContentWriteOp
	captureBatches(posts, &batches)

	repairer := services.NewReferenceRepairer(posts, zap.NewNop())

	// Act
	err := repairer.Repair(context.Background(), "alice", "Alice New", "")

	// Assert
	require.NoError(t, err)
	ops := flatten(batches)
	require.Len(t, ops, 2, "one author op and one comments op, not doubled")
	assert.NotNil(t, ops[0].SetAuthor)
	assert.NotNil(t, ops[1].SetComments)
}

func TestRepair_FlushesAtWriteBatchLimit(t *testing.T) {
	// Arrange: one more staged op than fits in a single batch
	var authored []*content.Post
	for i := 0; i < ports.MaxWriteBatch+1; i++ {
		authored = append(authored, fixturePost(fmt.Sprintf("p%04d", i), "alice", "Alice Old"))
	}

	posts := new(mocks.MockPostRepository)
	posts.On("FindByAuthor", mock.Anything, "alice").Return(authored, nil)
	posts.On("FindByCommentAuthor", mock.Anything, "alice").Return([]*content.Post{}, nil)

	var batches [][]ports.ContentWriteOp
	captureBatches(posts, &batches)

	repairer := services.NewReferenceRepairer(posts, zap.NewNop())

	// Act
	err := repairer.Repair(context.Background(), "alice", "Alice New", "")

	// Assert
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], ports.MaxWriteBatch)
	assert.Len(t, batches[1], 1)
}

func TestRepair_PropagatesLookupFailure(t *testing.T) {
	// Arrange
	posts := new(mocks.MockPostRepository)
	posts.On("FindByAuthor", mock.Anything, "alice").Return(nil, errors.New("store down"))

	repairer := services.NewReferenceRepairer(posts, zap.NewNop())

	// Act
	err := repairer.Repair(context.Background(), "alice", "Alice New", "")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authored posts")
	posts.AssertNotCalled(t, "BatchWrite", mock.Anything, mock.Anything)
}
