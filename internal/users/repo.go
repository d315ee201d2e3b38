package users

import (
	"context"

	"github.com/biddergod/users-service/internal/repo"
	"github.com/biddergod/users-service/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes user persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.DB(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID loads a user by internal id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs loads every user whose id appears in ids; unknown ids are
// silently omitted.
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.DB(ctx).Where("id IN ?", ids).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindByCognitoSub retrieves the user holding the given subject.
func (r *Repository) FindByCognitoSub(ctx context.Context, sub string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("cognito_sub = ?", sub).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateEmail overwrites the user's email column.
func (r *Repository) UpdateEmail(ctx context.Context, id int64, email string) error {
	return r.DB(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("email", email).Error
}

// UpdateCognitoSub claims an email-matched record for subject-based lookups.
func (r *Repository) UpdateCognitoSub(ctx context.Context, id int64, sub string) error {
	return r.DB(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("cognito_sub", sub).Error
}

// UpdateProfile applies the non-nil profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, id int64, email, firstName, lastName *string) error {
	updates := map[string]any{}
	if email != nil {
		updates["email"] = *email
	}
	if firstName != nil {
		updates["first_name"] = *firstName
	}
	if lastName != nil {
		updates["last_name"] = *lastName
	}
	if len(updates) == 0 {
		return nil
	}
	return r.DB(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// UpdateAggregates writes the reputation cache columns in one statement.
func (r *Repository) UpdateAggregates(ctx context.Context, id int64, score int, avgRating float64, totalReviews int) error {
	return r.DB(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reputation_score": score,
			"average_rating":   avgRating,
			"total_reviews":    totalReviews,
		}).Error
}

// ListIDs returns every user id ordered ascending.
func (r *Repository) ListIDs(ctx context.Context) ([]int64, error) {
	ids := []int64{}
	if err := r.DB(ctx).
		Model(&models.User{}).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Count returns the total user population.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountWithScoreAbove counts users whose score strictly exceeds the given one.
func (r *Repository) CountWithScoreAbove(ctx context.Context, score int) (int64, error) {
	var count int64
	if err := r.DB(ctx).
		Model(&models.User{}).
		Where("reputation_score > ?", score).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListWithMinScore returns users at or above the score, best first.
func (r *Repository) ListWithMinScore(ctx context.Context, minScore int) ([]models.User, error) {
	users := []models.User{}
	if err := r.DB(ctx).
		Where("reputation_score >= ?", minScore).
		Order("reputation_score DESC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
