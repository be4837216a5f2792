package dynamodb

import (
	"testing"
	"time"

	"github.com/jakubrachwalski/SocialNetwork/domain/content"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attrString(t *testing.T, attrs map[string]types.AttributeValue, name string) string {
	t.Helper()
	s, ok := attrs[name].(*types.AttributeValueMemberS)
	require.True(t, ok, "attribute %s is not a string", name)
	return s.Value
}

func TestCommentsToItems_CollectsDistinctAuthors(t *testing.T) {
	// Arrange
	comments := []content.Comment{
		{ID: "c1", AuthorID: "bob", Author: content.AuthorSnapshot{DisplayName: "Bob"}, Text: "a", CreatedAt: time.Now()},
		{ID: "c2", AuthorID: "carol", Author: content.AuthorSnapshot{DisplayName: "Carol"}, Text: "b", CreatedAt: time.Now()},
		{ID: "c3", AuthorID: "bob", Author: content.AuthorSnapshot{DisplayName: "Bob"}, Text: "c", CreatedAt: time.Now()},
	}

	// Act
	items, authors := commentsToItems(comments)

	// Assert
	require.Len(t, items, 3)
	assert.Equal(t, "c1", items[0].CommentID)
	assert.Equal(t, "Bob", items[0].AuthorName)
	assert.Equal(t, []string{"bob", "carol"}, authors, "distinct, first-seen order")
}

func TestCommentsToItems_Empty(t *testing.T) {
	// Act
	items, authors := commentsToItems(nil)

	// Assert
	assert.Empty(t, items)
	assert.Empty(t, authors)
}

func TestPostKey(t *testing.T) {
	key := postKey("p1")

	assert.Equal(t, "POST#p1", attrString(t, key, "PK"))
	assert.Equal(t, "METADATA", attrString(t, key, "SK"))
}
