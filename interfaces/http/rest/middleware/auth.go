package middleware

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"fraudgraph-backend/pkg/auth"
	"fraudgraph-backend/pkg/common"
	apperrors "fraudgraph-backend/pkg/errors"
)

// Authenticate validates the bearer token on every request and attaches the
// operator to the context. An IP rate limit applies before token validation,
// a per-operator limit after it; pass nil to skip the operator limit.
func Authenticate(validator *auth.JWTValidator, ipLimiter *auth.IPRateLimiter, userLimiter *auth.UserRateLimiter, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, _ := ipLimiter.Allow(r.Context(), clientIP(r))
			if !allowed {
				common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded")
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				common.RespondAppError(w, apperrors.NewUnauthorizedError("missing or malformed authorization header"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.Debug("token rejected", zap.Error(err))
				switch {
				case errors.Is(err, auth.ErrExpiredToken):
					common.RespondAppError(w, apperrors.NewUnauthorizedError("token has expired"))
				default:
					common.RespondAppError(w, apperrors.NewUnauthorizedError("invalid token"))
				}
				return
			}

			if userLimiter != nil {
				allowed, _ := userLimiter.Allow(r.Context(), claims.UserID)
				if !allowed {
					common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded")
					return
				}
			}

			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
				UserID: claims.UserID,
				Email:  claims.Email,
				Roles:  claims.Roles,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
