package middleware

import (
	"net/http"
	"strings"

	"github.com/biddergod/users-service/api/responses"
	"github.com/biddergod/users-service/internal/identity"
	pkgAuth "github.com/biddergod/users-service/pkg/auth"
	pkgerrors "github.com/biddergod/users-service/pkg/errors"
	"github.com/biddergod/users-service/pkg/logger"
)

// Auth validates a bearer token, resolves the caller to an internal user,
// and seeds the request context with both the claims profile and user id.
func Auth(verifier pkgAuth.ClaimsVerifier, resolver *identity.Resolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			profile, err := identity.ExtractProfile(claims)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			user, err := resolver.Resolve(r.Context(), profile)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving user"))
				return
			}

			ctx := WithUserID(r.Context(), user.ID)
			ctx = WithProfile(ctx, profile)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":     user.ID,
					"cognito_sub": profile.Subject,
					"token_use":   string(profile.TokenUse),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireGroup gates a route on Cognito group membership. It must run after
// Auth, which seeds the claims profile.
func RequireGroup(group string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, ok := ProfileFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			if !profile.InGroup(group) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
