package models

import (
	"strings"
	"time"
)

// PlaceholderEmailDomain is appended to the subject when a token carries no
// email claim at provisioning time.
const PlaceholderEmailDomain = "@cognito.local"

// User is the internal record a Cognito identity resolves to. The Cognito
// subject is the primary correlation key once established; the numeric id is
// what every other service references.
type User struct {
	ID         int64   `gorm:"primaryKey;autoIncrement"`
	CognitoSub string  `gorm:"column:cognito_sub;type:text;not null;uniqueIndex"`
	Email      string  `gorm:"type:text;not null;uniqueIndex"`
	FirstName  *string `gorm:"column:first_name"`
	LastName   *string `gorm:"column:last_name"`

	// Aggregates are a cache owned by the reputation engine. The feedback
	// table is the source of truth; nothing else writes these columns.
	ReputationScore int     `gorm:"column:reputation_score;not null;default:0"`
	AverageRating   float64 `gorm:"column:average_rating;not null;default:0"`
	TotalReviews    int     `gorm:"column:total_reviews;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// HasPlaceholderEmail reports whether the stored email was synthesized at
// provisioning time rather than taken from a token claim.
func (u *User) HasPlaceholderEmail() bool {
	if u == nil {
		return false
	}
	return u.Email == "" || strings.HasSuffix(u.Email, PlaceholderEmailDomain)
}
