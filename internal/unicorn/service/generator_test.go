package service

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pixelpasture/unicornshop/internal/config"
	paymentdomain "github.com/pixelpasture/unicornshop/internal/payment/domain"
	"go.uber.org/zap"
)

func newTestGenerator(t *testing.T, randFn func() float64) *Generator {
	t.Helper()

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	catalog, err := config.NewCatalogHolder()
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	return &Generator{
		log:     zap.NewNop(),
		genID:   node,
		catalog: catalog,
		randFn:  randFn,
	}
}

func TestBatchProducesOneUnicornPerOrderedUnit(t *testing.T) {
	g := newTestGenerator(t, func() float64 { return 0.5 })
	now := time.Now().UTC()

	items := []paymentdomain.LineItem{
		{Color: "Pink", Quantity: 2},
		{Color: "Blue", Quantity: 1},
	}
	batch := g.Batch("Sparkle", items, "pi_1", "sess-1", 0, now)

	if len(batch) != 3 {
		t.Fatalf("batch size = %d, want 3", len(batch))
	}

	wantNames := []string{"Sparkle 1", "Sparkle 2", "Sparkle"}
	wantColors := []string{"Pink", "Pink", "Blue"}
	for i, u := range batch {
		if u.Name != wantNames[i] {
			t.Errorf("unicorn %d name = %q, want %q", i, u.Name, wantNames[i])
		}
		if u.Color != wantColors[i] {
			t.Errorf("unicorn %d color = %q, want %q", i, u.Color, wantColors[i])
		}
		if u.ColorCode == "" {
			t.Errorf("unicorn %d has empty color code for %q", i, u.Color)
		}
		if u.IntentID != "pi_1" || u.SessionID != "sess-1" {
			t.Errorf("unicorn %d linkage = (%q, %q), want (pi_1, sess-1)", i, u.IntentID, u.SessionID)
		}
		if !u.CreatedAt.Equal(now) {
			t.Errorf("unicorn %d created at = %v, want %v", i, u.CreatedAt, now)
		}
	}

	seen := map[int64]bool{}
	for _, u := range batch {
		if seen[int64(u.ID)] {
			t.Fatalf("duplicate id %v in batch", u.ID)
		}
		seen[int64(u.ID)] = true
	}
}

func TestBatchSingleQuantityKeepsVerbatimName(t *testing.T) {
	g := newTestGenerator(t, func() float64 { return 0.5 })

	batch := g.Batch("Twilight", []paymentdomain.LineItem{{Color: "Gold", Quantity: 1}}, "pi_1", "sess-1", 0, time.Now().UTC())
	if len(batch) != 1 {
		t.Fatalf("batch size = %d, want 1", len(batch))
	}
	if batch[0].Name != "Twilight" {
		t.Errorf("name = %q, want Twilight", batch[0].Name)
	}
}

func TestBatchUnknownColorGetsEmptyCode(t *testing.T) {
	g := newTestGenerator(t, func() float64 { return 0.5 })

	batch := g.Batch("Sparkle", []paymentdomain.LineItem{{Color: "Chartreuse", Quantity: 1}}, "pi_1", "sess-1", 0, time.Now().UTC())
	if len(batch) != 1 {
		t.Fatalf("batch size = %d, want 1", len(batch))
	}
	if batch[0].Color != "Chartreuse" {
		t.Errorf("color = %q, want Chartreuse", batch[0].Color)
	}
	if batch[0].ColorCode != "" {
		t.Errorf("color code = %q, want empty for unknown color", batch[0].ColorCode)
	}
}

func TestPlacementStaysWithinExpandingBounds(t *testing.T) {
	for _, population := range []int64{0, 10, 1000} {
		t.Run(fmt.Sprintf("population_%d", population), func(t *testing.T) {
			g := newTestGenerator(t, nil)
			g.randFn = func() float64 { return 0.999 }

			x, y, z, rotation := g.placement(population)

			maxRadius := 20 + math.Cbrt(float64(population+1))*15
			limit := 20 + maxRadius
			distance := math.Sqrt(x*x + z*z)
			if distance > limit+1e-9 {
				t.Errorf("horizontal distance %.2f exceeds limit %.2f", distance, limit)
			}
			if y < -limit-25 || y > limit+25 {
				t.Errorf("y = %.2f outside [%.2f, %.2f]", y, -limit-25, limit+25)
			}
			if rotation < 0 || rotation >= 2*math.Pi {
				t.Errorf("rotation = %.4f outside [0, 2pi)", rotation)
			}
		})
	}
}

func TestPlacementSpreadGrowsWithPopulation(t *testing.T) {
	g := newTestGenerator(t, func() float64 { return 0.5 })

	smallX, _, smallZ, _ := g.placement(0)
	largeX, _, largeZ, _ := g.placement(100000)

	small := math.Sqrt(smallX*smallX + smallZ*smallZ)
	large := math.Sqrt(largeX*largeX + largeZ*largeZ)
	if large <= small {
		t.Errorf("spread did not grow: population 0 reach %.2f, population 100000 reach %.2f", small, large)
	}
}
