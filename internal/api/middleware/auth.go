package middleware

import (
	"context"
	"k12_reviser_v2/internal/app/service"
	"k12_reviser_v2/internal/common"
	"k12_reviser_v2/internal/common/security"
	"k12_reviser_v2/internal/domain/model"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const CallerCtxKey contextKey = "caller"

// CallerResolver resolves the acting user for the request and stores it in
// the context. A verified bearer token wins; otherwise the legacy X-User-ID
// header is honored for compatibility with existing clients. An anonymous or
// unresolvable caller is not an error: the access policy decides downstream.
func CallerResolver(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var userID string
			if token, claims, err := jwtauth.FromContext(r.Context()); err == nil && token != nil {
				userID, _ = security.GetUserIDFromClaims(claims)
			}
			if userID == "" {
				userID = r.Header.Get("X-User-ID")
			}

			caller, err := authService.ResolveCaller(r.Context(), userID)
			if err != nil {
				common.RespondWithDomainError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), CallerCtxKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetCallerFromContext returns the resolved caller, nil when anonymous.
func GetCallerFromContext(ctx context.Context) *model.User {
	caller, _ := ctx.Value(CallerCtxKey).(*model.User)
	return caller
}
