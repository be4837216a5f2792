// Package v1 serves the legacy read-only API surface for clients that have
// not migrated to /api/v2. It reuses the v2 handlers behind a gorilla/mux
// router, the framework the original v1 deployment shipped with.
package v1

import (
	"context"
	"net/http"

	"github.com/jakubrachwalski/SocialNetwork/interfaces/http/rest/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/mux"
)

// NewRouter creates the v1 API router
func NewRouter(
	profileHandler *handlers.ProfileHandler,
	postHandler *handlers.PostHandler,
	authenticate func(http.Handler) http.Handler,
) *mux.Router {
	router := mux.NewRouter()
	v1 := router.PathPrefix("/api/v1").Subrouter()

	v1.Use(versionHeaders)
	v1.Use(mux.MiddlewareFunc(authenticate))

	// Profile endpoints
	v1.HandleFunc("/profiles/{profileID}", bridgeParam("profileID", profileHandler.GetProfile)).Methods("GET")
	v1.HandleFunc("/profiles/{profileID}", bridgeParam("profileID", profileHandler.UpdateProfile)).Methods("PUT")

	// Post endpoints
	v1.HandleFunc("/posts/{postID}", bridgeParam("postID", postHandler.GetPost)).Methods("GET")
	v1.HandleFunc("/feed", postHandler.GetFeed).Methods("GET")

	// Health check
	router.HandleFunc("/api/v1/health", healthCheck).Methods("GET")

	return router
}

// bridgeParam copies a gorilla/mux path variable into the chi route context
// so handlers written against chi.URLParam serve both routers.
func bridgeParam(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add(name, mux.Vars(r)[name])
		ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
		h(w, r.WithContext(ctx))
	}
}

// versionHeaders adds API version headers to responses
func versionHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-API-Version", "v1")
		w.Header().Set("X-API-Deprecated", "true")
		next.ServeHTTP(w, r)
	})
}

// healthCheck provides a health check endpoint
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","version":"v1"}`))
}
