package controllers

import (
	"net/http"

	"github.com/biddergod/users-service/api/middleware"
	"github.com/biddergod/users-service/api/responses"
	"github.com/biddergod/users-service/api/validators"
	"github.com/biddergod/users-service/internal/identity"
	"github.com/biddergod/users-service/internal/users"
	pkgerrors "github.com/biddergod/users-service/pkg/errors"
	"github.com/biddergod/users-service/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// CurrentUser returns the authenticated user's record. Identity tokens carry
// profile claims that access tokens lack; when they arrive and the record is
// still missing names, the record is filled in on the way out.
func CurrentUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		dto, err := svc.GetByID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if profile, ok := middleware.ProfileFromContext(r.Context()); ok {
			if input, enrich := enrichmentFromProfile(dto, profile); enrich {
				dto, err = svc.UpdateProfile(r.Context(), userID, input)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
			}
		}

		responses.WriteSuccess(w, dto)
	}
}

// enrichmentFromProfile fills name gaps from identity-token claims. Existing
// values are never overwritten; the user owns them once set.
func enrichmentFromProfile(dto *users.UserDTO, profile identity.ClaimsProfile) (users.UpdateProfileInput, bool) {
	input := users.UpdateProfileInput{}
	if !profile.IsIDToken() {
		return input, false
	}
	enrich := false
	if dto.FirstName == nil && profile.GivenName != "" {
		given := profile.GivenName
		input.FirstName = &given
		enrich = true
	}
	if dto.LastName == nil && profile.FamilyName != "" {
		family := profile.FamilyName
		input.LastName = &family
		enrich = true
	}
	return input, enrich
}

// UserProfile returns the authenticated user's record without enrichment.
func UserProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		dto, err := svc.GetByID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

type updateProfileRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
}

// UpdateProfile applies the caller's mutable profile fields.
func UpdateProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var req updateProfileRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateProfile(r.Context(), userID, users.UpdateProfileInput{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// UserGroups lists the Cognito groups carried by the caller's token.
func UserGroups(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := middleware.ProfileFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}
		groups := profile.Groups
		if groups == nil {
			groups = []string{}
		}
		responses.WriteSuccess(w, map[string]any{"groups": groups})
	}
}

// TokenInfo echoes the verified claims a client most often needs to debug
// auth issues. Nothing here is secret; it all came from the client's token.
func TokenInfo(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := middleware.ProfileFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		payload := map[string]any{
			"sub":       profile.Subject,
			"token_use": string(profile.TokenUse),
			"username":  profile.Username,
		}
		if profile.Email != "" {
			payload["email"] = profile.Email
		}
		if profile.EmailVerified != nil {
			payload["email_verified"] = *profile.EmailVerified
		}
		if profile.ClientID != "" {
			payload["client_id"] = profile.ClientID
		}
		if len(profile.Groups) > 0 {
			payload["groups"] = profile.Groups
		}
		if userID := middleware.UserIDFromContext(r.Context()); userID != 0 {
			payload["user_id"] = userID
		}
		responses.WriteSuccess(w, payload)
	}
}

// UsersByIDs looks up users in bulk via a comma-separated id parameter.
func UsersByIDs(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		ids, err := validators.ParseIDList(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetByIDs(r.Context(), ids)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// UserByID returns any user's public record by path id.
func UserByID(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "userID"), "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
