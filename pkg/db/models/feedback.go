package models

import (
	"time"

	"github.com/biddergod/users-service/pkg/enums"
)

// UniqueFeedbackPerTransaction names the constraint enforcing one feedback
// entry per reviewer/reviewee/transaction triple.
const UniqueFeedbackPerTransaction = "idx_feedback_reviewer_reviewee_txn"

// Feedback is a single peer review tied to an external transaction. Entries
// are append-mostly: only the verified flag changes after creation.
type Feedback struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	ReviewerID int64 `gorm:"column:reviewer_id;not null;index;uniqueIndex:idx_feedback_reviewer_reviewee_txn"`
	RevieweeID int64 `gorm:"column:reviewee_id;not null;index;uniqueIndex:idx_feedback_reviewer_reviewee_txn"`

	Rating        int                `gorm:"not null"`
	Comment       *string            `gorm:"type:text"`
	TransactionID string             `gorm:"column:transaction_id;type:text;not null;uniqueIndex:idx_feedback_reviewer_reviewee_txn"`
	FeedbackType  enums.FeedbackType `gorm:"column:feedback_type;type:text;not null"`
	Verified      bool               `gorm:"column:verified;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the singular table name from the schema.
func (Feedback) TableName() string {
	return "feedback"
}
