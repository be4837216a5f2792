package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jakubrachwalski/SocialNetwork/application/services"
	"github.com/jakubrachwalski/SocialNetwork/domain/profile"
	"github.com/jakubrachwalski/SocialNetwork/pkg/auth"
	pkgerrors "github.com/jakubrachwalski/SocialNetwork/pkg/errors"
	"github.com/jakubrachwalski/SocialNetwork/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profiles *services.ProfileService
	errs     *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *services.ProfileService, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		errs:     errs,
		logger:   logger,
	}
}

// CreateProfileRequest represents the request body for creating a profile
type CreateProfileRequest struct {
	DisplayName string `json:"displayName" validate:"required,min=1,max=100"`
	AvatarURL   string `json:"avatarUrl,omitempty" validate:"omitempty,url,max=2048"`
}

// UpdateProfileRequest represents the request body for updating a profile
type UpdateProfileRequest struct {
	DisplayName string  `json:"displayName" validate:"required,min=1,max=100"`
	AvatarURL   string  `json:"avatarUrl,omitempty" validate:"omitempty,url,max=2048"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
}

// ProfileResponse represents a profile in API responses
type ProfileResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Bio         string `json:"bio,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// GetProfile handles GET /profiles/{profileID}
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profileID")
	if profileID == "" {
		h.errs.HandleStatus(w, r, http.StatusBadRequest, "Profile ID is required")
		return
	}

	p, err := h.profiles.GetProfile(r.Context(), profileID)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toProfileResponse(p))
}

// CreateProfile handles POST /profiles. The authenticated user's ID becomes
// the profile ID.
func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req CreateProfileRequest
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

	p, err := h.profiles.CreateProfile(r.Context(), userCtx.UserID, req.DisplayName, req.AvatarURL)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toProfileResponse(p))
}

// UpdateProfile handles PUT /profiles/{profileID}. Only the owner may update
// their profile.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profileID")
	if profileID == "" {
		h.errs.HandleStatus(w, r, http.StatusBadRequest, "Profile ID is required")
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errs.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if userCtx.UserID != profileID {
		h.errs.HandleStatus(w, r, http.StatusForbidden, "Cannot update another user's profile")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		h.errs.HandleStatus(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	p, err := h.profiles.UpdateProfile(r.Context(), profileID, services.UpdateProfileInput{
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		Bio:         req.Bio,
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toProfileResponse(p))
}

// SignOut handles POST /auth/signout
func (h *ProfileHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.profiles.SignOut(r.Context())
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Signed out",
	})
}

func toProfileResponse(p *profile.Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID(),
		DisplayName: p.DisplayName(),
		AvatarURL:   p.AvatarURL(),
		Bio:         p.Bio(),
		CreatedAt:   utils.FormatRFC3339(p.CreatedAt()),
		UpdatedAt:   utils.FormatRFC3339(p.UpdatedAt()),
	}
}

func (h *ProfileHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
