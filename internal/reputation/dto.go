package reputation

import (
	"github.com/biddergod/users-service/pkg/db/models"
	"github.com/biddergod/users-service/pkg/enums"
)

// SummaryDTO is the full reputation readout for one user.
type SummaryDTO struct {
	UserID          int64            `json:"user_id"`
	ReputationScore int              `json:"reputation_score"`
	AverageRating   float64          `json:"average_rating"`
	TotalReviews    int              `json:"total_reviews"`
	TrustLevel      enums.TrustLevel `json:"trust_level"`
	Classification  enums.TrustLevel `json:"classification"`
	Percentile      float64          `json:"percentile"`
	PremiumEligible bool             `json:"premium_eligible"`
}

// TopUserDTO is one row of the high-score listing.
type TopUserDTO struct {
	UserID          int64            `json:"user_id"`
	Email           string           `json:"email"`
	ReputationScore int              `json:"reputation_score"`
	AverageRating   float64          `json:"average_rating"`
	TotalReviews    int              `json:"total_reviews"`
	TrustLevel      enums.TrustLevel `json:"trust_level"`
}

// RecomputeSummaryDTO reports the outcome of a full recompute sweep.
type RecomputeSummaryDTO struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

func topUserFromModel(user *models.User) TopUserDTO {
	return TopUserDTO{
		UserID:          user.ID,
		Email:           user.Email,
		ReputationScore: user.ReputationScore,
		AverageRating:   user.AverageRating,
		TotalReviews:    user.TotalReviews,
		TrustLevel:      enums.TrustLevelFor(user.ReputationScore),
	}
}
