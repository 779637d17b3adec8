package repositories

import (
	"context"
	"errors"

	"github.com/daybook/daybook/internal/apperr"
	"github.com/daybook/daybook/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts u. The unique index on username backs the duplicate check,
// so two racing registrations cannot both succeed.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.ErrDuplicateUsername
	default:
		return apperr.Internal("Database insert failed", err)
	}
}

// FindByUsername returns apperr.ErrNotFound when no user has exactly this name.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.ErrNotFound
	default:
		return nil, apperr.Internal("Database query failed", err)
	}
}

func (r *UserRepository) Exists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, apperr.Internal("Database query failed", err)
	}
	return count > 0, nil
}
