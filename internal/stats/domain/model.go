package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Snapshot is a point-in-time aggregate appended after each fulfillment
// batch. Totals are recomputed from storage, never carried forward, so
// snapshots are monotonically non-decreasing and self-healing.
type Snapshot struct {
	ID              snowflake.ID `json:"id" gorm:"primaryKey"`
	TotalUnicorns   int64        `json:"total_unicorns" gorm:"not null"`
	TotalRevenue    int64        `json:"total_revenue" gorm:"not null"`
	UniqueCustomers int64        `json:"unique_customers" gorm:"not null"`
	// SpatialExtent is the herd's derived radius, 20 + cbrt(total)*15.
	SpatialExtent float64   `json:"spatial_extent" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"not null"`
}

func (Snapshot) TableName() string { return "stats_snapshots" }

// Totals are the live aggregates over units and succeeded payments.
type Totals struct {
	TotalUnicorns   int64 `json:"total_units"`
	TotalRevenue    int64 `json:"total_revenue"`
	UniqueCustomers int64 `json:"unique_customers"`
}

type Repository interface {
	Totals(ctx context.Context, db *gorm.DB) (Totals, error)
	Append(ctx context.Context, db *gorm.DB, snapshot *Snapshot) error
	Latest(ctx context.Context, db *gorm.DB) (*Snapshot, error)
}
