package feedback

import (
	"time"

	"github.com/biddergod/users-service/pkg/db/models"
	"github.com/biddergod/users-service/pkg/enums"
)

// SubmitInput carries a new feedback submission from the API layer.
type SubmitInput struct {
	RevieweeID    int64   `json:"reviewee_id" validate:"required,gt=0"`
	Rating        int     `json:"rating" validate:"required,min=1,max=5"`
	Comment       *string `json:"comment" validate:"omitempty,max=1000"`
	TransactionID string  `json:"transaction_id" validate:"required"`
	FeedbackType  string  `json:"feedback_type" validate:"required"`
}

// FeedbackDTO is the wire shape of a feedback entry.
type FeedbackDTO struct {
	ID            int64              `json:"id"`
	ReviewerID    int64              `json:"reviewer_id"`
	RevieweeID    int64              `json:"reviewee_id"`
	Rating        int                `json:"rating"`
	Comment       *string            `json:"comment,omitempty"`
	TransactionID string             `json:"transaction_id"`
	FeedbackType  enums.FeedbackType `json:"feedback_type"`
	Verified      bool               `json:"verified"`
	CreatedAt     time.Time          `json:"created_at"`
}

// CanSubmitDTO reports whether a reviewer may still file feedback for a
// transaction.
type CanSubmitDTO struct {
	CanSubmit     bool    `json:"can_submit"`
	RevieweeID    int64   `json:"reviewee_id"`
	TransactionID string  `json:"transaction_id"`
	Reason        *string `json:"reason,omitempty"`
}

// FromModel converts a stored entry into its DTO.
func FromModel(entry *models.Feedback) FeedbackDTO {
	return FeedbackDTO{
		ID:            entry.ID,
		ReviewerID:    entry.ReviewerID,
		RevieweeID:    entry.RevieweeID,
		Rating:        entry.Rating,
		Comment:       entry.Comment,
		TransactionID: entry.TransactionID,
		FeedbackType:  entry.FeedbackType,
		Verified:      entry.Verified,
		CreatedAt:     entry.CreatedAt,
	}
}

// FromModels maps a slice of stored entries to DTOs.
func FromModels(entries []models.Feedback) []FeedbackDTO {
	dtos := make([]FeedbackDTO, 0, len(entries))
	for i := range entries {
		dtos = append(dtos, FromModel(&entries[i]))
	}
	return dtos
}
