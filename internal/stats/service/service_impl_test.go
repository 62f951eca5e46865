package service_test

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pixelpasture/unicornshop/internal/clock"
	statsrepo "github.com/pixelpasture/unicornshop/internal/stats/repository"
	statsservice "github.com/pixelpasture/unicornshop/internal/stats/service"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	schema := []string{
		`CREATE TABLE payments (
			id BIGINT PRIMARY KEY,
			intent_id TEXT,
			base_name TEXT NOT NULL,
			total_unicorns INTEGER NOT NULL,
			amount BIGINT NOT NULL,
			currency TEXT NOT NULL,
			status TEXT NOT NULL,
			line_items TEXT NOT NULL,
			session_id TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			completed_at DATETIME
		)`,
		`CREATE TABLE unicorns (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			color TEXT NOT NULL,
			color_code TEXT,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL,
			rotation REAL NOT NULL,
			intent_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE stats_snapshots (
			id BIGINT PRIMARY KEY,
			total_unicorns BIGINT NOT NULL,
			total_revenue BIGINT NOT NULL,
			unique_customers BIGINT NOT NULL,
			spatial_extent REAL NOT NULL,
			created_at DATETIME NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("schema exec failed: %v", err)
		}
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) (*statsservice.Service, *clock.FakeClock) {
	t.Helper()

	node, err := snowflake.NewNode(3)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))

	svc := statsservice.NewService(statsservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fakeClock,
		Repo:  statsrepo.Provide(),
	})
	return svc, fakeClock
}

func seedFulfilledPayment(t *testing.T, db *gorm.DB, id int64, intentID, sessionID string, amount int64, units int) {
	t.Helper()

	now := time.Now().UTC()
	if err := db.Exec(
		`INSERT INTO payments (id, intent_id, base_name, total_unicorns, amount, currency, status, line_items, session_id, created_at, completed_at)
		 VALUES (?, ?, 'Sparkle', ?, ?, 'usd', 'succeeded', '[]', ?, ?, ?)`,
		id, intentID, units, amount, sessionID, now, now,
	).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	for i := 0; i < units; i++ {
		if err := db.Exec(
			`INSERT INTO unicorns (id, name, color, color_code, x, y, z, rotation, intent_id, session_id, created_at)
			 VALUES (?, 'Sparkle', 'Pink', '#ff69b4', 0, 0, 0, 0, ?, ?, ?)`,
			id*100+int64(i), intentID, sessionID, now,
		).Error; err != nil {
			t.Fatalf("seed unicorn: %v", err)
		}
	}
}

func TestTotalsAggregateAcrossSessions(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)

	seedFulfilledPayment(t, db, 1, "pi_1", "sess-1", 50, 2)
	seedFulfilledPayment(t, db, 2, "pi_2", "sess-2", 25, 1)
	// Pending payments do not count toward revenue.
	now := time.Now().UTC()
	if err := db.Exec(
		`INSERT INTO payments (id, intent_id, base_name, total_unicorns, amount, currency, status, line_items, session_id, created_at)
		 VALUES (3, 'pi_3', 'Sparkle', 4, 100, 'usd', 'pending', '[]', 'sess-3', ?)`,
		now,
	).Error; err != nil {
		t.Fatalf("seed pending payment: %v", err)
	}

	totals, err := svc.Totals(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.TotalUnicorns != 3 {
		t.Errorf("total unicorns = %d, want 3", totals.TotalUnicorns)
	}
	if totals.TotalRevenue != 75 {
		t.Errorf("total revenue = %d, want 75", totals.TotalRevenue)
	}
	if totals.UniqueCustomers != 2 {
		t.Errorf("unique customers = %d, want 2", totals.UniqueCustomers)
	}
}

func TestRecordAppendsSnapshotWithDerivedExtent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)

	seedFulfilledPayment(t, db, 1, "pi_1", "sess-1", 50, 2)

	snapshot, err := svc.Record(ctx)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if snapshot.TotalUnicorns != 2 {
		t.Errorf("snapshot total = %d, want 2", snapshot.TotalUnicorns)
	}
	wantExtent := 20 + math.Cbrt(2)*15
	if math.Abs(snapshot.SpatialExtent-wantExtent) > 1e-9 {
		t.Errorf("spatial extent = %.6f, want %.6f", snapshot.SpatialExtent, wantExtent)
	}

	var count int64
	if err := db.Raw(`SELECT COUNT(1) FROM stats_snapshots`).Scan(&count).Error; err != nil {
		t.Fatalf("count snapshots: %v", err)
	}
	if count != 1 {
		t.Errorf("snapshot rows = %d, want 1", count)
	}
}

func TestSnapshotsAreMonotonic(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc, fakeClock := newTestService(t, db)

	seedFulfilledPayment(t, db, 1, "pi_1", "sess-1", 50, 2)
	first, err := svc.Record(ctx)
	if err != nil {
		t.Fatalf("first record: %v", err)
	}

	fakeClock.Advance(time.Minute)
	seedFulfilledPayment(t, db, 2, "pi_2", "sess-2", 75, 3)
	second, err := svc.Record(ctx)
	if err != nil {
		t.Fatalf("second record: %v", err)
	}

	if second.TotalUnicorns < first.TotalUnicorns {
		t.Errorf("total unicorns regressed: %d then %d", first.TotalUnicorns, second.TotalUnicorns)
	}
	if second.TotalRevenue < first.TotalRevenue {
		t.Errorf("total revenue regressed: %d then %d", first.TotalRevenue, second.TotalRevenue)
	}
	if second.SpatialExtent < first.SpatialExtent {
		t.Errorf("spatial extent regressed: %.2f then %.2f", first.SpatialExtent, second.SpatialExtent)
	}

	latest, err := svc.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.ID != second.ID {
		t.Errorf("latest snapshot = %+v, want id %v", latest, second.ID)
	}
}

func TestRecordBestEffortSwallowsFailure(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)

	if err := db.Exec(`DROP TABLE stats_snapshots`).Error; err != nil {
		t.Fatalf("drop table: %v", err)
	}

	// Must not panic or propagate the storage error.
	svc.RecordBestEffort(ctx)
}
