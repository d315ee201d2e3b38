package controllers

import (
	"net/http"

	"github.com/biddergod/users-service/api/middleware"
	"github.com/biddergod/users-service/api/responses"
	"github.com/biddergod/users-service/api/validators"
	"github.com/biddergod/users-service/internal/feedback"
	pkgerrors "github.com/biddergod/users-service/pkg/errors"
	"github.com/biddergod/users-service/pkg/logger"
	"github.com/biddergod/users-service/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

// SubmitFeedback records a feedback entry authored by the caller.
func SubmitFeedback(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feedback service unavailable"))
			return
		}

		reviewerID := middleware.UserIDFromContext(r.Context())
		if reviewerID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var input feedback.SubmitInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Submit(r.Context(), reviewerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// UserFeedback lists feedback received by a user, newest first.
func UserFeedback(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feedback service unavailable"))
			return
		}

		userID, err := validators.ParsePathID(chi.URLParam(r, "userID"), "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		size, err := validators.ParseQueryInt(r, "size", pagination.DefaultSize, 1, pagination.MaxSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListReceived(r.Context(), userID, pagination.Params{Page: page, Size: size})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// FeedbackGiven lists every entry the caller has authored.
func FeedbackGiven(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feedback service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		entries, err := svc.ListGiven(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// CanSubmitFeedback checks whether the caller may still review the target
// user for a given transaction.
func CanSubmitFeedback(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feedback service unavailable"))
			return
		}

		reviewerID := middleware.UserIDFromContext(r.Context())
		if reviewerID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		revieweeID, err := validators.ParsePathID(r.URL.Query().Get("revieweeId"), "revieweeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		transactionID := r.URL.Query().Get("transactionId")

		result, err := svc.CanSubmit(r.Context(), reviewerID, revieweeID, transactionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type verifyFeedbackRequest struct {
	Verified *bool `json:"verified" validate:"required"`
}

// VerifyFeedback flips an entry's verified flag. Admin only.
func VerifyFeedback(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feedback service unavailable"))
			return
		}

		feedbackID, err := validators.ParsePathID(chi.URLParam(r, "feedbackID"), "feedbackID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req verifyFeedbackRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Verify(r.Context(), feedbackID, *req.Verified)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
