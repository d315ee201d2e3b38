package reputation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/biddergod/users-service/internal/feedback"
	"github.com/biddergod/users-service/internal/users"
	"github.com/biddergod/users-service/pkg/db"
	"github.com/biddergod/users-service/pkg/db/models"
	"github.com/biddergod/users-service/pkg/enums"
	pkgerrors "github.com/biddergod/users-service/pkg/errors"
	"github.com/biddergod/users-service/pkg/logger"
	"github.com/biddergod/users-service/pkg/metrics"
	"go.uber.org/multierr"
)

// Scoring parameters. A five-star review younger than a month is worth 100
// points before the verification bonus.
const (
	pointsPerStar     = 20
	verifiedBonus     = 10
	premiumMinScore   = 500
	premiumMinRating  = 4.0
	premiumMinReviews = 10
)

// Service exposes the reputation engine.
type Service interface {
	// Recompute rebuilds one user's cached aggregates from the feedback
	// ledger.
	Recompute(ctx context.Context, userID int64) error
	Summary(ctx context.Context, userID int64) (*SummaryDTO, error)
	Percentile(ctx context.Context, userID int64) (float64, error)
	IsPremiumEligible(ctx context.Context, userID int64) (bool, error)
	TopUsers(ctx context.Context, minScore int) ([]TopUserDTO, error)
	RecomputeAll(ctx context.Context) (*RecomputeSummaryDTO, error)
}

type service struct {
	userRepo     *users.Repository
	feedbackRepo *feedback.Repository
	logg         *logger.Logger
	mets         *metrics.ReputationMetrics

	// now is swapped out in tests to pin decay windows.
	now func() time.Time
}

// NewService wires the reputation engine. Metrics may be nil.
func NewService(userRepo *users.Repository, feedbackRepo *feedback.Repository, logg *logger.Logger, mets *metrics.ReputationMetrics) (Service, error) {
	if userRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users repo is required")
	}
	if feedbackRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "feedback repo is required")
	}
	return &service{
		userRepo:     userRepo,
		feedbackRepo: feedbackRepo,
		logg:         logg,
		mets:         mets,
		now:          time.Now,
	}, nil
}

// Recompute walks the user's full feedback history and writes the three
// cached aggregate columns in one statement.
func (s *service) Recompute(ctx context.Context, userID int64) error {
	start := s.now()

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		s.mets.IncFailure("recompute")
		return s.mapUserLookupErr(err)
	}
	entries, err := s.feedbackRepo.ListForReviewee(ctx, userID)
	if err != nil {
		s.mets.IncFailure("recompute")
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading feedback history")
	}

	score := s.score(entries)
	avg := averageRating(entries)
	if err := s.userRepo.UpdateAggregates(ctx, userID, score, avg, len(entries)); err != nil {
		s.mets.IncFailure("recompute")
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing aggregates")
	}

	s.mets.ObserveDuration("recompute", s.now().Sub(start))
	s.mets.IncSuccess("recompute")
	return nil
}

// score totals per-entry contributions, applies the volume multiplier, and
// floors the result at zero.
func (s *service) score(entries []models.Feedback) int {
	now := s.now()
	total := 0.0
	verifiedCount := 0
	for i := range entries {
		total += contribution(&entries[i], now)
		if entries[i].Verified {
			verifiedCount++
		}
	}

	switch {
	case verifiedCount > 10:
		total *= 1.2
	case verifiedCount > 5:
		total *= 1.1
	}

	score := int(total)
	if score < 0 {
		score = 0
	}
	return score
}

// contribution values one entry: star points scaled by age decay, truncated,
// plus a flat bonus when verified.
func contribution(entry *models.Feedback, now time.Time) float64 {
	points := math.Floor(float64(entry.Rating) * pointsPerStar * decayFactor(now.Sub(entry.CreatedAt)))
	if entry.Verified {
		points += verifiedBonus
	}
	return points
}

// decayFactor discounts older feedback in fixed steps rather than a smooth
// curve, so a single entry never changes value day to day within a band.
func decayFactor(age time.Duration) float64 {
	days := age.Hours() / 24
	switch {
	case days <= 30:
		return 1.0
	case days <= 90:
		return 0.9
	case days <= 180:
		return 0.8
	case days <= 365:
		return 0.7
	default:
		return 0.5
	}
}

func averageRating(entries []models.Feedback) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0
	for i := range entries {
		sum += entries[i].Rating
	}
	return float64(sum) / float64(len(entries))
}

// Summary assembles the full reputation readout from the cached aggregates.
func (s *service) Summary(ctx context.Context, userID int64) (*SummaryDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.mapUserLookupErr(err)
	}
	percentile, err := s.percentileFor(ctx, user)
	if err != nil {
		return nil, err
	}
	return &SummaryDTO{
		UserID:          user.ID,
		ReputationScore: user.ReputationScore,
		AverageRating:   user.AverageRating,
		TotalReviews:    user.TotalReviews,
		TrustLevel:      enums.TrustLevelFor(user.ReputationScore),
		Classification:  classify(user),
		Percentile:      percentile,
		PremiumEligible: premiumEligible(user),
	}, nil
}

// Percentile reports the share of users the given user scores at or above.
func (s *service) Percentile(ctx context.Context, userID int64) (float64, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return 0, s.mapUserLookupErr(err)
	}
	return s.percentileFor(ctx, user)
}

func (s *service) percentileFor(ctx context.Context, user *models.User) (float64, error) {
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting users")
	}
	if total == 0 {
		return 0, nil
	}
	higher, err := s.userRepo.CountWithScoreAbove(ctx, user.ReputationScore)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting higher scores")
	}
	return float64(total-higher) / float64(total) * 100, nil
}

// IsPremiumEligible checks the three premium gates against cached aggregates.
func (s *service) IsPremiumEligible(ctx context.Context, userID int64) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return false, s.mapUserLookupErr(err)
	}
	return premiumEligible(user), nil
}

func premiumEligible(user *models.User) bool {
	return user.ReputationScore >= premiumMinScore &&
		user.AverageRating >= premiumMinRating &&
		user.TotalReviews >= premiumMinReviews
}

// classify is the advisory tier that also weighs volume and quality, unlike
// the score-only trust level.
func classify(user *models.User) enums.TrustLevel {
	switch {
	case user.ReputationScore >= 1000 && user.TotalReviews >= 20 && user.AverageRating >= 4.5:
		return enums.TrustLevelExcellent
	case user.ReputationScore >= 500 && user.TotalReviews >= 10 && user.AverageRating >= 4.0:
		return enums.TrustLevelGood
	case user.ReputationScore >= 100 && user.TotalReviews >= 5 && user.AverageRating >= 3.5:
		return enums.TrustLevelFair
	case user.TotalReviews >= 2:
		return enums.TrustLevelBasic
	default:
		return enums.TrustLevelNew
	}
}

// TopUsers lists everyone at or above the score floor, best first.
func (s *service) TopUsers(ctx context.Context, minScore int) ([]TopUserDTO, error) {
	if minScore < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min score must not be negative")
	}
	models, err := s.userRepo.ListWithMinScore(ctx, minScore)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing top users")
	}
	dtos := make([]TopUserDTO, 0, len(models))
	for i := range models {
		dtos = append(dtos, topUserFromModel(&models[i]))
	}
	return dtos, nil
}

// RecomputeAll sweeps every user. One user's failure does not stop the
// sweep; failures are aggregated and logged, and the summary reports both
// counts so operators can rerun the sweep after fixing the cause.
func (s *service) RecomputeAll(ctx context.Context) (*RecomputeSummaryDTO, error) {
	start := s.now()

	ids, err := s.userRepo.ListIDs(ctx)
	if err != nil {
		s.mets.IncFailure("recompute_all")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing user ids")
	}

	summary := &RecomputeSummaryDTO{}
	var sweepErr error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			s.mets.IncFailure("recompute_all")
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sweep cancelled")
		}
		if err := s.Recompute(ctx, id); err != nil {
			summary.Failed++
			sweepErr = multierr.Append(sweepErr, fmt.Errorf("user %d: %w", id, err))
			continue
		}
		summary.Processed++
	}

	if sweepErr != nil && s.logg != nil {
		s.logg.Error(ctx, "reputation sweep finished with failures", sweepErr)
	}

	s.mets.ObserveDuration("recompute_all", s.now().Sub(start))
	if summary.Failed == 0 {
		s.mets.IncSuccess("recompute_all")
	} else {
		s.mets.IncFailure("recompute_all")
	}
	return summary, nil
}

func (s *service) mapUserLookupErr(err error) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
}
