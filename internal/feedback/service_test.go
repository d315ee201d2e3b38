package feedback

import (
	"context"
	"fmt"
	"testing"

	"github.com/biddergod/users-service/internal/users"
	"github.com/biddergod/users-service/pkg/db/models"
	"github.com/biddergod/users-service/pkg/enums"
	pkgerrors "github.com/biddergod/users-service/pkg/errors"
	"github.com/biddergod/users-service/pkg/pagination"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupFeedbackTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	usersDDL := `
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  cognito_sub TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  first_name TEXT,
  last_name TEXT,
  reputation_score INTEGER NOT NULL DEFAULT 0,
  average_rating REAL NOT NULL DEFAULT 0,
  total_reviews INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	feedbackDDL := `
CREATE TABLE IF NOT EXISTS feedback (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  reviewer_id INTEGER NOT NULL,
  reviewee_id INTEGER NOT NULL,
  rating INTEGER NOT NULL,
  comment TEXT,
  transaction_id TEXT NOT NULL,
  feedback_type TEXT NOT NULL,
  verified INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  UNIQUE (reviewer_id, reviewee_id, transaction_id)
);`
	require.NoError(t, db.Exec(usersDDL).Error)
	require.NoError(t, db.Exec(feedbackDDL).Error)
	return db
}

type stubRecomputer struct {
	calls []int64
	err   error
}

func (s *stubRecomputer) Recompute(_ context.Context, userID int64) error {
	s.calls = append(s.calls, userID)
	return s.err
}

type feedbackFixture struct {
	svc      Service
	userRepo *users.Repository
	recomp   *stubRecomputer
	reviewer *models.User
	reviewee *models.User
}

func newFeedbackFixture(t *testing.T) feedbackFixture {
	t.Helper()

	db := setupFeedbackTestDB(t)
	userRepo := users.NewRepository(db)
	recomp := &stubRecomputer{}

	svc, err := NewService(NewRepository(db), userRepo, recomp)
	require.NoError(t, err)

	reviewer, err := userRepo.Create(context.Background(), &models.User{CognitoSub: "sub-reviewer", Email: "reviewer@example.com"})
	require.NoError(t, err)
	reviewee, err := userRepo.Create(context.Background(), &models.User{CognitoSub: "sub-reviewee", Email: "reviewee@example.com"})
	require.NoError(t, err)

	return feedbackFixture{svc: svc, userRepo: userRepo, recomp: recomp, reviewer: reviewer, reviewee: reviewee}
}

func validInput(revieweeID int64, txn string) SubmitInput {
	return SubmitInput{
		RevieweeID:    revieweeID,
		Rating:        5,
		TransactionID: txn,
		FeedbackType:  string(enums.FeedbackTypeBuyerToSeller),
	}
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected code %s, got %v", code, err)
	}
}

func TestSubmitCreatesVerifiedEntryAndRecomputes(t *testing.T) {
	fx := newFeedbackFixture(t)

	dto, err := fx.svc.Submit(context.Background(), fx.reviewer.ID, validInput(fx.reviewee.ID, "txn-1"))
	require.NoError(t, err)
	require.True(t, dto.Verified)
	require.Equal(t, fx.reviewer.ID, dto.ReviewerID)
	require.Equal(t, fx.reviewee.ID, dto.RevieweeID)
	require.Equal(t, enums.FeedbackTypeBuyerToSeller, dto.FeedbackType)
	require.Equal(t, []int64{fx.reviewee.ID}, fx.recomp.calls)
}

func TestSubmitRejectsBadRating(t *testing.T) {
	fx := newFeedbackFixture(t)

	for _, rating := range []int{0, -1, 6} {
		input := validInput(fx.reviewee.ID, "txn-rating")
		input.Rating = rating
		_, err := fx.svc.Submit(context.Background(), fx.reviewer.ID, input)
		requireCode(t, err, pkgerrors.CodeValidation)
	}
	require.Empty(t, fx.recomp.calls)
}

func TestSubmitRejectsBlankTransaction(t *testing.T) {
	fx := newFeedbackFixture(t)

	input := validInput(fx.reviewee.ID, "   ")
	_, err := fx.svc.Submit(context.Background(), fx.reviewer.ID, input)
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestSubmitRejectsLongComment(t *testing.T) {
	fx := newFeedbackFixture(t)

	long := make([]byte, MaxCommentLength+1)
	for i := range long {
		long[i] = 'x'
	}
	comment := string(long)
	input := validInput(fx.reviewee.ID, "txn-long")
	input.Comment = &comment
	_, err := fx.svc.Submit(context.Background(), fx.reviewer.ID, input)
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestSubmitRejectsUnknownType(t *testing.T) {
	fx := newFeedbackFixture(t)

	input := validInput(fx.reviewee.ID, "txn-type")
	input.FeedbackType = "SIDEWAYS"
	_, err := fx.svc.Submit(context.Background(), fx.reviewer.ID, input)
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestSubmitRejectsSelfReview(t *testing.T) {
	fx := newFeedbackFixture(t)

	_, err := fx.svc.Submit(context.Background(), fx.reviewer.ID, validInput(fx.reviewer.ID, "txn-self"))
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestSubmitRejectsUnknownReviewee(t *testing.T) {
	fx := newFeedbackFixture(t)

	_, err := fx.svc.Submit(context.Background(), fx.reviewer.ID, validInput(9999, "txn-ghost"))
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestSubmitRejectsDuplicateTransaction(t *testing.T) {
	fx := newFeedbackFixture(t)

	_, err := fx.svc.Submit(context.Background(), fx.reviewer.ID, validInput(fx.reviewee.ID, "txn-dupe"))
	require.NoError(t, err)

	_, err = fx.svc.Submit(context.Background(), fx.reviewer.ID, validInput(fx.reviewee.ID, "txn-dupe"))
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestSubmitAllowsSamePairNewTransaction(t *testing.T) {
	fx := newFeedbackFixture(t)

	_, err := fx.svc.Submit(context.Background(), fx.reviewer.ID, validInput(fx.reviewee.ID, "txn-a"))
	require.NoError(t, err)
	_, err = fx.svc.Submit(context.Background(), fx.reviewer.ID, validInput(fx.reviewee.ID, "txn-b"))
	require.NoError(t, err)
}

func TestCanSubmit(t *testing.T) {
	fx := newFeedbackFixture(t)

	result, err := fx.svc.CanSubmit(context.Background(), fx.reviewer.ID, fx.reviewee.ID, "txn-open")
	require.NoError(t, err)
	require.True(t, result.CanSubmit)
	require.Equal(t, "txn-open", result.TransactionID)

	_, err = fx.svc.Submit(context.Background(), fx.reviewer.ID, validInput(fx.reviewee.ID, "txn-open"))
	require.NoError(t, err)

	result, err = fx.svc.CanSubmit(context.Background(), fx.reviewer.ID, fx.reviewee.ID, "txn-open")
	require.NoError(t, err)
	require.False(t, result.CanSubmit)
	require.NotNil(t, result.Reason)

	// Same pair, fresh transaction.
	result, err = fx.svc.CanSubmit(context.Background(), fx.reviewer.ID, fx.reviewee.ID, "txn-next")
	require.NoError(t, err)
	require.True(t, result.CanSubmit)

	// Existence check only; an unknown reviewee is still submittable.
	result, err = fx.svc.CanSubmit(context.Background(), fx.reviewer.ID, 9999, "txn-open")
	require.NoError(t, err)
	require.True(t, result.CanSubmit)
}

func TestCanSubmitRejectsBlankTransaction(t *testing.T) {
	fx := newFeedbackFixture(t)

	_, err := fx.svc.CanSubmit(context.Background(), fx.reviewer.ID, fx.reviewee.ID, "   ")
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestVerifyTogglesAndRecomputes(t *testing.T) {
	fx := newFeedbackFixture(t)

	created, err := fx.svc.Submit(context.Background(), fx.reviewer.ID, validInput(fx.reviewee.ID, "txn-verify"))
	require.NoError(t, err)
	fx.recomp.calls = nil

	dto, err := fx.svc.Verify(context.Background(), created.ID, false)
	require.NoError(t, err)
	require.False(t, dto.Verified)
	require.Equal(t, []int64{fx.reviewee.ID}, fx.recomp.calls)
}

func TestVerifyUnchangedFlagStillRecomputes(t *testing.T) {
	fx := newFeedbackFixture(t)

	created, err := fx.svc.Submit(context.Background(), fx.reviewer.ID, validInput(fx.reviewee.ID, "txn-refresh"))
	require.NoError(t, err)
	fx.recomp.calls = nil

	dto, err := fx.svc.Verify(context.Background(), created.ID, true)
	require.NoError(t, err)
	require.True(t, dto.Verified)
	require.Equal(t, []int64{fx.reviewee.ID}, fx.recomp.calls)
}

func TestVerifyUnknownFeedback(t *testing.T) {
	fx := newFeedbackFixture(t)

	_, err := fx.svc.Verify(context.Background(), 9999, true)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestListReceivedPaginates(t *testing.T) {
	fx := newFeedbackFixture(t)

	for i := 0; i < 5; i++ {
		_, err := fx.svc.Submit(context.Background(), fx.reviewer.ID, validInput(fx.reviewee.ID, fmt.Sprintf("txn-%d", i)))
		require.NoError(t, err)
	}

	page, err := fx.svc.ListReceived(context.Background(), fx.reviewee.ID, pagination.Params{Page: 0, Size: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.EqualValues(t, 5, page.TotalItems)
	require.EqualValues(t, 3, page.TotalPages)

	last, err := fx.svc.ListReceived(context.Background(), fx.reviewee.ID, pagination.Params{Page: 2, Size: 2})
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
}

func TestListReceivedUnknownUser(t *testing.T) {
	fx := newFeedbackFixture(t)

	_, err := fx.svc.ListReceived(context.Background(), 9999, pagination.Params{})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestListGiven(t *testing.T) {
	fx := newFeedbackFixture(t)

	_, err := fx.svc.Submit(context.Background(), fx.reviewer.ID, validInput(fx.reviewee.ID, "txn-given"))
	require.NoError(t, err)

	entries, err := fx.svc.ListGiven(context.Background(), fx.reviewer.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = fx.svc.ListGiven(context.Background(), fx.reviewee.ID)
	require.NoError(t, err)
	require.Empty(t, entries)
}
