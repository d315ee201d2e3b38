package users

import (
	"time"

	"github.com/biddergod/users-service/pkg/db/models"
	"github.com/biddergod/users-service/pkg/enums"
)

// UserDTO is the transport shape for a user profile.
type UserDTO struct {
	ID              int64            `json:"id"`
	CognitoSub      string           `json:"cognito_sub"`
	Email           string           `json:"email"`
	FirstName       *string          `json:"first_name,omitempty"`
	LastName        *string          `json:"last_name,omitempty"`
	ReputationScore int              `json:"reputation_score"`
	AverageRating   float64          `json:"average_rating"`
	TotalReviews    int              `json:"total_reviews"`
	TrustLevel      enums.TrustLevel `json:"trust_level"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// BulkUsersDTO carries a bulk lookup result plus hit counts so callers can
// tell how many requested ids were unknown.
type BulkUsersDTO struct {
	Users     []UserDTO `json:"users"`
	Found     int       `json:"found"`
	Requested int       `json:"requested"`
}

// UpdateProfileInput holds the mutable profile fields; nil means unchanged.
type UpdateProfileInput struct {
	Email     *string
	FirstName *string
	LastName  *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:              u.ID,
		CognitoSub:      u.CognitoSub,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ReputationScore: u.ReputationScore,
		AverageRating:   u.AverageRating,
		TotalReviews:    u.TotalReviews,
		TrustLevel:      enums.TrustLevelFor(u.ReputationScore),
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
