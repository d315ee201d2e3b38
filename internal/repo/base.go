package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/biddergod/users-service/pkg/pagination"
)

// Base is the shared foundation embedded by the users and feedback
// repositories.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM handle bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Paginated is a query scope applying offset pagination from normalized
// page/size params.
func (b Base) Paginated(params pagination.Params) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Offset(params.Offset()).Limit(params.Limit())
	}
}
