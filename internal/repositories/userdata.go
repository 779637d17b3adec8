package repositories

import (
	"context"

	"github.com/daybook/daybook/internal/apperr"
	"github.com/daybook/daybook/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserDataRepository persists one UserData document per user.
type UserDataRepository struct {
	db *gorm.DB
}

func NewUserDataRepository(db *gorm.DB) *UserDataRepository {
	return &UserDataRepository{db: db}
}

// GetOrCreate returns the user's document, creating an empty one first if absent.
// The insert is ON CONFLICT DO NOTHING on user_id, so concurrent first reads
// still leave exactly one document.
func (r *UserDataRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.UserData, error) {
	var doc models.UserData
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		empty := models.UserData{UserID: userID}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(&empty).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).First(&doc).Error
	})
	if err != nil {
		return nil, apperr.Internal("Failed to load data", err)
	}
	return &doc, nil
}

// ReplaceAll overwrites both mappings in a single upsert statement. Nothing
// is merged: whatever the caller sends becomes the whole document.
func (r *UserDataRepository) ReplaceAll(ctx context.Context, userID uuid.UUID, snap models.Snapshot) (*models.UserData, error) {
	var doc models.UserData
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next := models.UserData{
			UserID:         userID,
			TodosByDate:    snap.TodosByDate,
			MessagesByDate: snap.MessagesByDate,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"todos_by_date", "messages_by_date", "updated_at"}),
		}).Create(&next).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).First(&doc).Error
	})
	if err != nil {
		return nil, apperr.Internal("Failed to save data", err)
	}
	return &doc, nil
}

// Count returns how many documents exist for userID. Used to check uniqueness.
func (r *UserDataRepository) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.UserData{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
