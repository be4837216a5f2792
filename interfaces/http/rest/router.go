package rest

import (
	"net/http"

	"github.com/jakubrachwalski/SocialNetwork/application/services"
	"github.com/jakubrachwalski/SocialNetwork/infrastructure/config"
	"github.com/jakubrachwalski/SocialNetwork/interfaces/http/rest/handlers"
	"github.com/jakubrachwalski/SocialNetwork/interfaces/http/rest/middleware"
	v1 "github.com/jakubrachwalski/SocialNetwork/interfaces/http/rest/v1"
	"github.com/jakubrachwalski/SocialNetwork/pkg/auth"
	pkgerrors "github.com/jakubrachwalski/SocialNetwork/pkg/errors"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg         *config.Config
	profiles    *services.ProfileService
	posts       *services.PostService
	validator   *auth.JWTValidator
	userLimiter *auth.DistributedRateLimiter
	logger      *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	profiles *services.ProfileService,
	posts *services.PostService,
	validator *auth.JWTValidator,
	userLimiter *auth.DistributedRateLimiter,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:         cfg,
		profiles:    profiles,
		posts:       posts,
		validator:   validator,
		userLimiter: userLimiter,
		logger:      logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	errs := pkgerrors.NewErrorHandler(rt.logger, rt.cfg.IsDevelopment())

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(errs.Middleware)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	ipLimiter := auth.NewIPRateLimiter(rt.cfg.IPRequestsPerMinute)

	var authenticate func(http.Handler) http.Handler
	if rt.cfg.IsLambda {
		// Per-user limits shared across Lambda instances
		authenticate = middleware.AuthenticateForLambda(rt.userLimiter, errs)
	} else {
		userLimiter := auth.NewUserRateLimiter(rt.cfg.UserRequestsPerMinute)
		authenticate = middleware.Authenticate(rt.validator, ipLimiter, userLimiter, errs, rt.logger)
	}

	profileHandler := handlers.NewProfileHandler(rt.profiles, errs, rt.logger)
	postHandler := handlers.NewPostHandler(rt.posts, errs, rt.logger)

	// API v1 routes (legacy, read-mostly, served by the old mux router)
	router.Mount("/api/v1", v1.NewRouter(profileHandler, postHandler, authenticate))

	// API v2 routes (current)
	router.Route("/api/v2", func(r chi.Router) {
		r.Use(authenticate)

		r.Route("/profiles", func(r chi.Router) {
			r.Post("/", profileHandler.CreateProfile)
			r.Get("/{profileID}", profileHandler.GetProfile)
			r.Put("/{profileID}", profileHandler.UpdateProfile)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Post("/", postHandler.CreatePost)
			r.Get("/{postID}", postHandler.GetPost)
			r.Post("/{postID}/comments", postHandler.AddComment)
		})

		r.Get("/feed", postHandler.GetFeed)

		r.Post("/auth/signout", profileHandler.SignOut)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
