package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pixelpasture/unicornshop/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payments (
			id, intent_id, base_name, total_unicorns, amount, currency,
			status, line_items, session_id, created_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID,
		payment.IntentID,
		payment.BaseName,
		payment.TotalUnicorns,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.LineItems,
		payment.SessionID,
		payment.CreatedAt,
		payment.CompletedAt,
	).Error
}

func (r *repo) SetIntentID(ctx context.Context, db *gorm.DB, id snowflake.ID, intentID string) error {
	return db.WithContext(ctx).Exec(
		`UPDATE payments
		 SET intent_id = ?
		 WHERE id = ?`,
		intentID,
		id,
	).Error
}

func (r *repo) FindByIntentID(ctx context.Context, db *gorm.DB, intentID string) (*domain.Payment, error) {
	var item domain.Payment
	err := db.WithContext(ctx).Raw(
		`SELECT id, intent_id, base_name, total_unicorns, amount, currency,
			status, line_items, session_id, created_at, completed_at
		 FROM payments
		 WHERE intent_id = ?
		 LIMIT 1`,
		intentID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) TransitionFromPending(ctx context.Context, db *gorm.DB, intentID string, to domain.Status, completedAt time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE payments
		 SET status = ?, completed_at = ?
		 WHERE intent_id = ? AND status = ?`,
		to,
		completedAt,
		intentID,
		domain.StatusPending,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
