package controllers

import (
	"net/http"

	"github.com/biddergod/users-service/api/responses"
	"github.com/biddergod/users-service/api/validators"
	"github.com/biddergod/users-service/internal/reputation"
	pkgerrors "github.com/biddergod/users-service/pkg/errors"
	"github.com/biddergod/users-service/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// UserReputation returns a user's full reputation readout.
func UserReputation(svc reputation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reputation service unavailable"))
			return
		}

		userID, err := validators.ParsePathID(chi.URLParam(r, "userID"), "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// TopUsers lists users at or above a score floor, best first.
func TopUsers(svc reputation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reputation service unavailable"))
			return
		}

		minScore, err := validators.ParseQueryInt(r, "min_score", 500, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		users, err := svc.TopUsers(r.Context(), minScore)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, users)
	}
}

// PremiumEligible reports whether a user clears the premium gates.
func PremiumEligible(svc reputation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reputation service unavailable"))
			return
		}

		userID, err := validators.ParsePathID(chi.URLParam(r, "userID"), "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		eligible, err := svc.IsPremiumEligible(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"user_id": userID, "premium_eligible": eligible})
	}
}

// RecalculateUser rebuilds one user's cached aggregates. Admin only.
func RecalculateUser(svc reputation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reputation service unavailable"))
			return
		}

		userID, err := validators.ParsePathID(chi.URLParam(r, "userID"), "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Recompute(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// RecalculateAll sweeps every user's aggregates. Admin only.
func RecalculateAll(svc reputation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reputation service unavailable"))
			return
		}

		summary, err := svc.RecomputeAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
