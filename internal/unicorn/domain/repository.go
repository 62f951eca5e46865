package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	InsertBatch(ctx context.Context, db *gorm.DB, unicorns []Unicorn) error
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	CountByIntentID(ctx context.Context, db *gorm.DB, intentID string) (int64, error)
	ListAll(ctx context.Context, db *gorm.DB) ([]Unicorn, error)
	ListBySession(ctx context.Context, db *gorm.DB, sessionID string) ([]Unicorn, error)
}
