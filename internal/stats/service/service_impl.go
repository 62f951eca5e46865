package service

import (
	"context"
	"math"

	"github.com/bwmarrin/snowflake"
	"github.com/pixelpasture/unicornshop/internal/clock"
	obsmetrics "github.com/pixelpasture/unicornshop/internal/observability/metrics"
	"github.com/pixelpasture/unicornshop/internal/stats/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	obsMetrics *obsmetrics.Metrics
}

func NewService(p Params) *Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("stats.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		obsMetrics: p.ObsMetrics,
	}
}

// Totals recomputes the live aggregates from storage.
func (s *Service) Totals(ctx context.Context) (domain.Totals, error) {
	return s.repo.Totals(ctx, s.db)
}

// Record recomputes aggregates and appends one snapshot. Called after each
// committed fulfillment batch; read-only over unicorns and payments.
func (s *Service) Record(ctx context.Context) (*domain.Snapshot, error) {
	totals, err := s.repo.Totals(ctx, s.db)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.Snapshot{
		ID:              s.genID.Generate(),
		TotalUnicorns:   totals.TotalUnicorns,
		TotalRevenue:    totals.TotalRevenue,
		UniqueCustomers: totals.UniqueCustomers,
		SpatialExtent:   20 + math.Cbrt(float64(totals.TotalUnicorns))*15,
		CreatedAt:       s.clock.Now(),
	}

	if err := s.repo.Append(ctx, s.db, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// RecordBestEffort logs and counts a failed snapshot instead of failing the
// caller; totals are recomputed from storage so the next snapshot heals.
func (s *Service) RecordBestEffort(ctx context.Context) {
	if _, err := s.Record(ctx); err != nil {
		s.log.Error("stats snapshot failed", zap.Error(err))
		if s.obsMetrics != nil {
			s.obsMetrics.SnapshotFailures.Inc()
		}
	}
}

// Latest returns the most recent snapshot, nil when none exists yet.
func (s *Service) Latest(ctx context.Context) (*domain.Snapshot, error) {
	return s.repo.Latest(ctx, s.db)
}
