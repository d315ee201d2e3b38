package feedback

import (
	"context"
	"strings"

	"github.com/biddergod/users-service/internal/users"
	"github.com/biddergod/users-service/pkg/db"
	"github.com/biddergod/users-service/pkg/db/models"
	"github.com/biddergod/users-service/pkg/enums"
	pkgerrors "github.com/biddergod/users-service/pkg/errors"
	"github.com/biddergod/users-service/pkg/pagination"
)

// MaxCommentLength caps the free-text comment on a submission.
const MaxCommentLength = 1000

// Recomputer recalculates a user's cached reputation aggregates.
type Recomputer interface {
	Recompute(ctx context.Context, userID int64) error
}

// Service exposes the feedback ledger operations.
type Service interface {
	Submit(ctx context.Context, reviewerID int64, input SubmitInput) (*FeedbackDTO, error)
	CanSubmit(ctx context.Context, reviewerID, revieweeID int64, transactionID string) (*CanSubmitDTO, error)
	Verify(ctx context.Context, feedbackID int64, verified bool) (*FeedbackDTO, error)
	ListReceived(ctx context.Context, userID int64, params pagination.Params) (*pagination.Page[FeedbackDTO], error)
	ListGiven(ctx context.Context, userID int64) ([]FeedbackDTO, error)
}

type service struct {
	feedbackRepo *Repository
	userRepo     *users.Repository
	recomputer   Recomputer
}

// NewService wires the feedback service with its dependencies.
func NewService(feedbackRepo *Repository, userRepo *users.Repository, recomputer Recomputer) (Service, error) {
	if feedbackRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "feedback repo is required")
	}
	if userRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users repo is required")
	}
	if recomputer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "recomputer is required")
	}
	return &service{
		feedbackRepo: feedbackRepo,
		userRepo:     userRepo,
		recomputer:   recomputer,
	}, nil
}

// Submit validates and records a feedback entry, then refreshes the
// reviewee's cached reputation. All input checks run before any write.
func (s *service) Submit(ctx context.Context, reviewerID int64, input SubmitInput) (*FeedbackDTO, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if strings.TrimSpace(input.TransactionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	if input.Comment != nil && len(*input.Comment) > MaxCommentLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment exceeds 1000 characters")
	}
	feedbackType, err := enums.ParseFeedbackType(input.FeedbackType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if reviewerID == input.RevieweeID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users cannot review themselves")
	}

	if _, err := s.userRepo.FindByID(ctx, reviewerID); err != nil {
		return nil, s.mapUserLookupErr(err, "reviewer not found")
	}
	if _, err := s.userRepo.FindByID(ctx, input.RevieweeID); err != nil {
		return nil, s.mapUserLookupErr(err, "reviewee not found")
	}

	exists, err := s.feedbackRepo.ExistsForTransaction(ctx, reviewerID, input.RevieweeID, input.TransactionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking for existing feedback")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "feedback already submitted for this transaction")
	}

	entry := &models.Feedback{
		ReviewerID:    reviewerID,
		RevieweeID:    input.RevieweeID,
		Rating:        input.Rating,
		Comment:       input.Comment,
		TransactionID: input.TransactionID,
		FeedbackType:  feedbackType,
		Verified:      true,
	}
	created, err := s.feedbackRepo.Create(ctx, entry)
	if err != nil {
		// The unique index backstops the pre-check when two submissions race.
		if db.IsUniqueViolation(err, models.UniqueFeedbackPerTransaction) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "feedback already submitted for this transaction")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating feedback")
	}

	if err := s.recomputer.Recompute(ctx, created.RevieweeID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recomputing reviewee reputation")
	}

	dto := FromModel(created)
	return &dto, nil
}

// CanSubmit reports whether the (reviewer, reviewee, transaction) triple is
// still free. It is an existence check only; party validation happens at
// submission time.
func (s *service) CanSubmit(ctx context.Context, reviewerID, revieweeID int64, transactionID string) (*CanSubmitDTO, error) {
	if revieweeID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reviewee_id must be positive")
	}
	if strings.TrimSpace(transactionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction_id must not be blank")
	}

	exists, err := s.feedbackRepo.ExistsForTransaction(ctx, reviewerID, revieweeID, transactionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking existing feedback")
	}

	result := &CanSubmitDTO{CanSubmit: !exists, RevieweeID: revieweeID, TransactionID: transactionID}
	if exists {
		reason := "feedback already submitted for this transaction"
		result.Reason = &reason
	}
	return result, nil
}

// Verify sets an entry's verified flag and refreshes the reviewee's
// reputation. The recompute runs even for a no-op flag write because
// decay factors shift with time.
func (s *service) Verify(ctx context.Context, feedbackID int64, verified bool) (*FeedbackDTO, error) {
	entry, err := s.feedbackRepo.FindByID(ctx, feedbackID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "feedback not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading feedback")
	}

	if err := s.feedbackRepo.SetVerified(ctx, feedbackID, verified); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating verified flag")
	}
	entry.Verified = verified

	// Recompute even when the flag is unchanged so decay is re-evaluated.
	if err := s.recomputer.Recompute(ctx, entry.RevieweeID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recomputing reviewee reputation")
	}

	dto := FromModel(entry)
	return &dto, nil
}

// ListReceived returns one page of feedback about the user, newest first.
func (s *service) ListReceived(ctx context.Context, userID int64, params pagination.Params) (*pagination.Page[FeedbackDTO], error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, s.mapUserLookupErr(err, "user not found")
	}
	entries, total, err := s.feedbackRepo.ListReceived(ctx, userID, params.Normalize())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing feedback")
	}
	page := pagination.NewPage(FromModels(entries), params, total)
	return &page, nil
}

// ListGiven returns every entry the user has authored, newest first.
func (s *service) ListGiven(ctx context.Context, userID int64) ([]FeedbackDTO, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, s.mapUserLookupErr(err, "user not found")
	}
	entries, err := s.feedbackRepo.ListGiven(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing feedback")
	}
	return FromModels(entries), nil
}

func (s *service) mapUserLookupErr(err error, notFoundMsg string) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
}
