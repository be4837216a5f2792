package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jakubrachwalski/SocialNetwork/pkg/auth"
	pkgerrors "github.com/jakubrachwalski/SocialNetwork/pkg/errors"

	"go.uber.org/zap"
)

// RequestLimiter is the rate-limit check both the in-memory and the
// DynamoDB-backed limiters satisfy.
type RequestLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Authenticate creates an authentication middleware around the given JWT
// validator. Requests pass through IP rate limiting, token validation, then
// user rate limiting before the user context is attached.
func Authenticate(
	validator *auth.JWTValidator,
	ipLimiter RequestLimiter,
	userLimiter RequestLimiter,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)

			allowed, err := ipLimiter.Allow(r.Context(), clientIP)
			if err != nil {
				logger.Error("Rate limiter error", zap.Error(err))
				errs.HandleStatus(w, r, http.StatusInternalServerError, "Internal server error")
				return
			}
			if !allowed {
				errs.HandleStatus(w, r, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			token := extractToken(r)
			if token == "" {
				errs.HandleStatus(w, r, http.StatusUnauthorized, "Missing authentication token")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.Warn("Invalid token",
					zap.Error(err),
					zap.String("ip", clientIP),
					zap.String("path", r.URL.Path),
				)

				switch {
				case errors.Is(err, auth.ErrExpiredToken):
					errs.HandleStatus(w, r, http.StatusUnauthorized, "Token has expired")
				case errors.Is(err, auth.ErrInvalidSignature):
					errs.HandleStatus(w, r, http.StatusUnauthorized, "Invalid token signature")
				default:
					errs.HandleStatus(w, r, http.StatusUnauthorized, "Invalid token")
				}
				return
			}

			allowed, err = userLimiter.Allow(r.Context(), claims.UserID)
			if err != nil {
				logger.Error("User rate limiter error", zap.Error(err))
				errs.HandleStatus(w, r, http.StatusInternalServerError, "Internal server error")
				return
			}
			if !allowed {
				errs.HandleStatus(w, r, http.StatusTooManyRequests, "User rate limit exceeded")
				return
			}

			userCtx := &auth.UserContext{
				UserID: claims.UserID,
				Email:  claims.Email,
			}

			ctx := auth.SetUserInContext(r.Context(), userCtx)

			logger.Debug("Request authenticated",
				zap.String("user_id", claims.UserID),
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthenticateForLambda creates authentication middleware for the Lambda
// environment, where the API Gateway JWT authorizer has already validated the
// token and the adapter propagates the user identity via headers. Rate
// limiting must be distributed there: each Lambda instance has its own memory.
func AuthenticateForLambda(userLimiter *auth.DistributedRateLimiter, errs *pkgerrors.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-API-Gateway-Authorized") != "true" {
				errs.HandleStatus(w, r, http.StatusUnauthorized, "Request not authorized by API Gateway")
				return
			}

			userID := r.Header.Get("X-User-ID")
			if userID == "" {
				errs.HandleStatus(w, r, http.StatusUnauthorized, "Missing user context from API Gateway")
				return
			}

			allowed, _ := userLimiter.Allow(r.Context(), userID)

			headers := make(map[string]string)
			if err := userLimiter.SetHeaders(r.Context(), userID, headers); err == nil {
				for name, value := range headers {
					w.Header().Set(name, value)
				}
			}

			if !allowed {
				errs.HandleStatus(w, r, http.StatusTooManyRequests, "User rate limit exceeded")
				return
			}

			userCtx := &auth.UserContext{
				UserID: userID,
				Email:  r.Header.Get("X-User-Email"),
			}

			ctx := auth.SetUserInContext(r.Context(), userCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the JWT token from multiple sources
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
		return authHeader
	}

	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}

	return ""
}

// getClientIP extracts the client IP address
func getClientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return xri
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
