package middleware

import (
	"context"

	"github.com/biddergod/users-service/internal/identity"
)

type contextKey string

const (
	ctxUserID  contextKey = "user_id"
	ctxProfile contextKey = "claims_profile"
)

func UserIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxUserID).(int64); ok {
		return v
	}
	return 0
}

func ProfileFromContext(ctx context.Context) (identity.ClaimsProfile, bool) {
	if ctx == nil {
		return identity.ClaimsProfile{}, false
	}
	if v, ok := ctx.Value(ctxProfile).(identity.ClaimsProfile); ok {
		return v, true
	}
	return identity.ClaimsProfile{}, false
}

// WithUserID injects the internal user identifier into the context.
func WithUserID(ctx context.Context, userID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithProfile injects the verified claims profile into the context.
func WithProfile(ctx context.Context, profile identity.ClaimsProfile) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxProfile, profile)
}
