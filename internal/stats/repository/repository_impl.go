package repository

import (
	"context"

	"github.com/pixelpasture/unicornshop/internal/stats/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Totals(ctx context.Context, db *gorm.DB) (domain.Totals, error) {
	var totals domain.Totals

	if err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM unicorns`,
	).Scan(&totals.TotalUnicorns).Error; err != nil {
		return domain.Totals{}, err
	}

	if err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0)
		 FROM payments
		 WHERE status = 'succeeded'`,
	).Scan(&totals.TotalRevenue).Error; err != nil {
		return domain.Totals{}, err
	}

	if err := db.WithContext(ctx).Raw(
		`SELECT COUNT(DISTINCT session_id) FROM unicorns`,
	).Scan(&totals.UniqueCustomers).Error; err != nil {
		return domain.Totals{}, err
	}

	return totals, nil
}

func (r *repo) Append(ctx context.Context, db *gorm.DB, snapshot *domain.Snapshot) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO stats_snapshots (
			id, total_unicorns, total_revenue, unique_customers, spatial_extent, created_at
		) VALUES (?, ?, ?, ?, ?, ?)`,
		snapshot.ID,
		snapshot.TotalUnicorns,
		snapshot.TotalRevenue,
		snapshot.UniqueCustomers,
		snapshot.SpatialExtent,
		snapshot.CreatedAt,
	).Error
}

func (r *repo) Latest(ctx context.Context, db *gorm.DB) (*domain.Snapshot, error) {
	var item domain.Snapshot
	err := db.WithContext(ctx).Raw(
		`SELECT id, total_unicorns, total_revenue, unique_customers, spatial_extent, created_at
		 FROM stats_snapshots
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}
