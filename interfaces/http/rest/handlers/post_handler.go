package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jakubrachwalski/SocialNetwork/application/services"
	"github.com/jakubrachwalski/SocialNetwork/domain/content"
	"github.com/jakubrachwalski/SocialNetwork/pkg/auth"
	"github.com/jakubrachwalski/SocialNetwork/pkg/common"
	pkgerrors "github.com/jakubrachwalski/SocialNetwork/pkg/errors"
	"github.com/jakubrachwalski/SocialNetwork/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostHandler handles post and comment HTTP requests
type PostHandler struct {
	posts  *services.PostService
	errs   *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(posts *services.PostService, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		posts:  posts,
		errs:   errs,
		logger: logger,
	}
}

// CreatePostRequest represents the request body for creating a post
type CreatePostRequest struct {
	Body string `json:"body" validate:"required,min=1,max=10000"`
}

// AddCommentRequest represents the request body for adding a comment
type AddCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

// AuthorResponse is the denormalized author block in API responses
type AuthorResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// CommentResponse represents a comment in API responses
type CommentResponse struct {
	ID        string         `json:"id"`
	Author    AuthorResponse `json:"author"`
	Text      string         `json:"text"`
	CreatedAt string         `json:"createdAt"`
}

// PostResponse represents a post in API responses
type PostResponse struct {
	ID        string            `json:"id"`
	Author    AuthorResponse    `json:"author"`
	Body      string            `json:"body"`
	Comments  []CommentResponse `json:"comments"`
	CreatedAt string            `json:"createdAt"`
	UpdatedAt string            `json:"updatedAt"`
}

// CreatePost handles POST /posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		h.errs.HandleStatus(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errs.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	postID := uuid.New().String()

	post, err := h.posts.CreatePost(r.Context(), postID, userCtx.UserID, req.Body)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			h.errs.HandleStatus(w, r, http.StatusNotFound, "Author profile not found")
			return
		}
		h.errs.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toPostResponse(post))
}

// GetPost handles GET /posts/{postID}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	if postID == "" {
		h.errs.HandleStatus(w, r, http.StatusBadRequest, "Post ID is required")
		return
	}

	post, err := h.posts.GetPost(r.Context(), postID)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toPostResponse(post))
}

// AddComment handles POST /posts/{postID}/comments
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	if postID == "" {
		h.errs.HandleStatus(w, r, http.StatusBadRequest, "Post ID is required")
		return
	}

	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		h.errs.HandleStatus(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errs.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	commentID := uuid.New().String()

	post, err := h.posts.AddComment(r.Context(), postID, commentID, userCtx.UserID, req.Text)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toPostResponse(post))
}

// GetFeed handles GET /feed?author={profileID}. Defaults to the authenticated
// user's own posts. Results are enriched with current profile data and paged
// in memory.
func (h *PostHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errs.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	authorID := r.URL.Query().Get("author")
	if authorID == "" {
		authorID = userCtx.UserID
	}

	posts, err := h.posts.GetFeed(r.Context(), authorID)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	params := common.ExtractPaginationParams(r)
	total := len(posts)

	start := params.CalculateOffset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}

	page := make([]PostResponse, 0, end-start)
	for _, post := range posts[start:end] {
		page = append(page, toPostResponse(post))
	}

	h.respondJSON(w, http.StatusOK, common.NewPaginatedResult(page, params.Page, params.PageSize, total))
}

func toPostResponse(p *content.Post) PostResponse {
	comments := make([]CommentResponse, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, CommentResponse{
			ID: c.ID,
			Author: AuthorResponse{
				ID:          c.AuthorID,
				DisplayName: c.Author.DisplayName,
				AvatarURL:   c.Author.AvatarURL,
			},
			Text:      c.Text,
			CreatedAt: utils.FormatRFC3339(c.CreatedAt),
		})
	}

	return PostResponse{
		ID: p.ID,
		Author: AuthorResponse{
			ID:          p.AuthorID,
			DisplayName: p.Author.DisplayName,
			AvatarURL:   p.Author.AvatarURL,
		},
		Body:      p.Body,
		Comments:  comments,
		CreatedAt: utils.FormatRFC3339(p.CreatedAt),
		UpdatedAt: utils.FormatRFC3339(p.UpdatedAt),
	}
}

func (h *PostHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
