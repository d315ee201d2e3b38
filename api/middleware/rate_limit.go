package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/biddergod/users-service/api/responses"
	pkgerrors "github.com/biddergod/users-service/pkg/errors"
	"github.com/biddergod/users-service/pkg/logger"
	"github.com/biddergod/users-service/pkg/redis"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// SubmitRateLimitPolicy throttles feedback submissions per authenticated user.
type SubmitRateLimitPolicy struct {
	Window time.Duration
	Limit  int
}

func (p SubmitRateLimitPolicy) enabled() bool {
	return p.Window > 0 && p.Limit > 0
}

// SubmitRateLimit counts submissions per user in a rolling window. It must
// run after Auth, which seeds the user id.
func SubmitRateLimit(policy SubmitRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID := UserIDFromContext(ctx)
			if userID == 0 {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			key := redis.RateLimitKey("feedback_submit", strconv.FormatInt(userID, 10))
			count, err := store.IncrWithTTL(ctx, key, policy.Window)
			if err != nil {
				responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}
			if count > int64(policy.Limit) {
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"attempts":       count,
						"limit":          policy.Limit,
						"window_seconds": int(policy.Window.Seconds()),
					})
					logg.Warn(logCtx, "feedback.rate_limit.blocked")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many submissions, try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
