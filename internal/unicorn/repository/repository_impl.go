package repository

import (
	"context"

	"github.com/pixelpasture/unicornshop/internal/unicorn/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertBatch(ctx context.Context, db *gorm.DB, unicorns []domain.Unicorn) error {
	if len(unicorns) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&unicorns).Error
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(`SELECT COUNT(1) FROM unicorns`).Scan(&count).Error
	return count, err
}

func (r *repo) CountByIntentID(ctx context.Context, db *gorm.DB, intentID string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM unicorns WHERE intent_id = ?`,
		intentID,
	).Scan(&count).Error
	return count, err
}

func (r *repo) ListAll(ctx context.Context, db *gorm.DB) ([]domain.Unicorn, error) {
	var items []domain.Unicorn
	err := db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (r *repo) ListBySession(ctx context.Context, db *gorm.DB, sessionID string) ([]domain.Unicorn, error) {
	var items []domain.Unicorn
	err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}
