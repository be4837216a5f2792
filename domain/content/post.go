package content

import (
	"time"

	pkgerrors "github.com/jakubrachwalski/SocialNetwork/pkg/errors"
)

// AuthorSnapshot is the denormalized projection of a profile's display fields
// copied into content at write time. It is allowed to lag behind the profile
// between an update and the completion of reference repair.
type AuthorSnapshot struct {
	DisplayName string
	AvatarURL   string
}

// Comment is a value object nested inside a post document.
type Comment struct {
	ID        string
	AuthorID  string
	Author    AuthorSnapshot
	Text      string
	CreatedAt time.Time
}

// Post is a content record with its comments embedded, matching the store's
// document layout.
type Post struct {
	ID        string
	AuthorID  string
	Author    AuthorSnapshot
	Body      string
	Comments  []Comment
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPost creates a post carrying a snapshot of the author's current display
// fields.
func NewPost(id, authorID, body string, author AuthorSnapshot) (*Post, error) {
	if id == "" || authorID == "" {
		return nil, pkgerrors.NewValidationError("post id and author id are required")
	}
	if body == "" {
		return nil, pkgerrors.NewValidationError("post body cannot be empty")
	}

	now := time.Now()
	return &Post{
		ID:        id,
		AuthorID:  authorID,
		Author:    author,
		Body:      body,
		Comments:  []Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewComment creates a comment carrying a snapshot of its author's current
// display fields.
func NewComment(id, authorID, text string, author AuthorSnapshot) (Comment, error) {
	if id == "" || authorID == "" {
		return Comment{}, pkgerrors.NewValidationError("comment id and author id are required")
	}
	if text == "" {
		return Comment{}, pkgerrors.NewValidationError("comment text cannot be empty")
	}

	return Comment{
		ID:        id,
		AuthorID:  authorID,
		Author:    author,
		Text:      text,
		CreatedAt: time.Now(),
	}, nil
}

// AddComment appends a comment to the post.
func (p *Post) AddComment(c Comment) {
	p.Comments = append(p.Comments, c)
	p.UpdatedAt = time.Now()
}

// HasCommentsBy reports whether the post carries at least one comment
// authored by the given profile.
func (p *Post) HasCommentsBy(authorID string) bool {
	for _, c := range p.Comments {
		if c.AuthorID == authorID {
			return true
		}
	}
	return false
}

// CommentsWithAuthor returns a copy of the comment list where every comment
// authored by authorID carries the given snapshot. Comments by other authors
// are copied unchanged.
func (p *Post) CommentsWithAuthor(authorID string, author AuthorSnapshot) []Comment {
	comments := make([]Comment, len(p.Comments))
	copy(comments, p.Comments)
	for i := range comments {
		if comments[i].AuthorID == authorID {
			comments[i].Author = author
		}
	}
	return comments
}

// Clone returns a deep copy of the post. Enrichment works on clones so the
// persisted input records are never mutated.
func (p *Post) Clone() *Post {
	clone := *p
	clone.Comments = make([]Comment, len(p.Comments))
	copy(clone.Comments, p.Comments)
	return &clone
}
