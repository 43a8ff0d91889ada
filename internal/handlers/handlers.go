package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rentnest/visits/internal/domain"
	"github.com/rentnest/visits/internal/http/response"
	"github.com/rentnest/visits/internal/service"
	"github.com/rentnest/visits/pkg/auth"
	"github.com/rentnest/visits/pkg/logger"
)

type contextKey string

const claimsKey contextKey = "claims"

type Handlers struct {
	visits        *service.VisitService
	matches       *service.MatchService
	preferences   *service.PreferenceService
	subscriptions *service.SubscriptionService
	jwtSecret     string
}

func New(
	visits *service.VisitService,
	matches *service.MatchService,
	preferences *service.PreferenceService,
	subscriptions *service.SubscriptionService,
	jwtSecret string,
) *Handlers {
	return &Handlers{
		visits:        visits,
		matches:       matches,
		preferences:   preferences,
		subscriptions: subscriptions,
		jwtSecret:     jwtSecret,
	}
}

// RequireAuth extracts the verified principal from the bearer token. When a
// role is given, the caller must hold it.
func (h *Handlers) RequireAuth(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				response.Unauthorized(w, "Missing or invalid authorization header")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := auth.Parse(token, h.jwtSecret)
			if err != nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			if requiredRole != "" && claims.Role != requiredRole {
				response.Forbidden(w, "Insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			ctx = context.WithValue(ctx, logger.UserIDKey, claims.Sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func getClaims(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(claimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

func urlID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func isValidationError(err error) bool {
	var ve *service.ValidationError
	return errors.As(err, &ve)
}

// writeServiceError maps the domain error taxonomy onto HTTP statuses.
// Every branch carries a human-readable message naming the failed
// precondition so the caller can render distinct remediation actions.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var quotaErr *domain.QuotaExceededError

	switch {
	case errors.As(err, &quotaErr):
		response.QuotaExceeded(w, "Daily schedule limit ("+strconv.Itoa(quotaErr.Limit)+") reached")
	case errors.Is(err, domain.ErrTenantNotFound):
		response.NotFound(w, "Tenant not found")
	case errors.Is(err, domain.ErrPropertyNotFound):
		response.NotFound(w, "Property not found")
	case errors.Is(err, domain.ErrVisitNotFound):
		response.NotFound(w, "Schedule not found")
	case errors.Is(err, domain.ErrPlanNotFound):
		response.NotFound(w, "Subscription plan not found")
	case errors.Is(err, domain.ErrPreferencesNotSet):
		response.NotFound(w, "Preferred tenant rules not set for this property")
	case errors.Is(err, domain.ErrNoActiveGrant):
		response.NotFound(w, "No active subscription")
	case errors.Is(err, domain.ErrPreferenceExists):
		response.Conflict(w, "Preferred tenant rules already set for this property")
	case errors.Is(err, domain.ErrInvalidStatus):
		response.BadRequest(w, "Invalid status value")
	case errors.Is(err, domain.ErrNotAuthorized):
		response.Forbidden(w, "You are not authorized to modify this schedule")
	default:
		logger.ErrorContext(r.Context(), "Unhandled service error", "error", err,
			"method", r.Method, "path", r.URL.Path)
		response.InternalError(w, "Server error")
	}
}
