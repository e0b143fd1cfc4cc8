package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mangabook/internal/http-api/models"
)

// ListRepository defines the interface for manga list persistence. One
// document per user.
type ListRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.MangaList, error)
	Save(ctx context.Context, list *models.MangaList) error
}

type listRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) ListRepository {
	return &listRepository{db: db}
}

func (r *listRepository) FindByUserID(ctx context.Context, userID string) (*models.MangaList, error) {
	var list models.MangaList
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// Save upserts the whole document keyed by user id. The caller is expected to
// have called Touch() so derived fields are current.
func (r *listRepository) Save(ctx context.Context, list *models.MangaList) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"categories", "total_entries", "is_public", "last_activity", "updated_at",
			}),
		}).
		Create(list).Error
	if err != nil {
		return fmt.Errorf("save list: %w", err)
	}
	return nil
}
