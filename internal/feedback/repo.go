package feedback

import (
	"context"

	"github.com/biddergod/users-service/internal/repo"
	"github.com/biddergod/users-service/pkg/db/models"
	"github.com/biddergod/users-service/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes feedback persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a feedback repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new feedback entry and returns the persisted model.
func (r *Repository) Create(ctx context.Context, entry *models.Feedback) (*models.Feedback, error) {
	if err := r.DB(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// FindByID loads a single feedback entry.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Feedback, error) {
	var entry models.Feedback
	if err := r.DB(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ExistsForTransaction reports whether the reviewer already reviewed the
// reviewee for the given transaction.
func (r *Repository) ExistsForTransaction(ctx context.Context, reviewerID, revieweeID int64, transactionID string) (bool, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Feedback{}).
		Where("reviewer_id = ? AND reviewee_id = ? AND transaction_id = ?", reviewerID, revieweeID, transactionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListReceived returns one page of feedback about the user, newest first.
func (r *Repository) ListReceived(ctx context.Context, userID int64, params pagination.Params) ([]models.Feedback, int64, error) {
	var total int64
	if err := r.DB(ctx).
		Model(&models.Feedback{}).
		Where("reviewee_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	entries := []models.Feedback{}
	err := r.DB(ctx).
		Where("reviewee_id = ?", userID).
		Order("created_at DESC, id DESC").
		Scopes(r.Paginated(params)).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ListGiven returns every feedback entry the user has authored, newest first.
func (r *Repository) ListGiven(ctx context.Context, userID int64) ([]models.Feedback, error) {
	entries := []models.Feedback{}
	err := r.DB(ctx).
		Where("reviewer_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListForReviewee returns every entry about the user, no paging. The
// reputation engine walks the full history when recomputing.
func (r *Repository) ListForReviewee(ctx context.Context, userID int64) ([]models.Feedback, error) {
	entries := []models.Feedback{}
	err := r.DB(ctx).
		Where("reviewee_id = ?", userID).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// SetVerified flips the verified flag on an entry.
func (r *Repository) SetVerified(ctx context.Context, id int64, verified bool) error {
	return r.DB(ctx).
		Model(&models.Feedback{}).
		Where("id = ?", id).
		UpdateColumn("verified", verified).Error
}
