package service

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pixelpasture/unicornshop/internal/config"
	paymentdomain "github.com/pixelpasture/unicornshop/internal/payment/domain"
	"github.com/pixelpasture/unicornshop/internal/unicorn/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	GenID   *snowflake.Node
	Catalog *config.CatalogHolder
}

// Generator turns a validated order into concrete unicorn records. It is
// pure with respect to storage; callers persist the batch.
type Generator struct {
	log     *zap.Logger
	genID   *snowflake.Node
	catalog *config.CatalogHolder
	randFn  func() float64
}

func NewGenerator(p Params) *Generator {
	return &Generator{
		log:     p.Log.Named("unicorn.generator"),
		genID:   p.GenID,
		catalog: p.Catalog,
		randFn:  rand.Float64,
	}
}

// Batch produces one unicorn per ordered item. startCount is the number of
// units already persisted; the herd's spatial spread grows with its cube
// root so new arrivals land near the edge of the existing population.
func (g *Generator) Batch(
	baseName string,
	items []paymentdomain.LineItem,
	intentID string,
	sessionID string,
	startCount int64,
	now time.Time,
) []domain.Unicorn {
	var out []domain.Unicorn
	index := startCount

	for _, item := range items {
		code, known := g.catalog.ColorCode(item.Color)
		if !known {
			// Left empty on purpose: an out-of-palette name is a client
			// defect we want visible, not silently repainted.
			g.log.Warn("unrecognized color name",
				zap.String("color", item.Color),
				zap.String("intent_id", intentID),
			)
		}

		for i := 1; i <= item.Quantity; i++ {
			name := baseName
			if item.Quantity > 1 {
				name = fmt.Sprintf("%s %d", baseName, i)
			}

			x, y, z, rotation := g.placement(index)
			index++

			out = append(out, domain.Unicorn{
				ID:        g.genID.Generate(),
				Name:      name,
				Color:     item.Color,
				ColorCode: code,
				X:         x,
				Y:         y,
				Z:         z,
				Rotation:  rotation,
				IntentID:  intentID,
				SessionID: sessionID,
				CreatedAt: now,
			})
		}
	}

	return out
}

func (g *Generator) placement(n int64) (x, y, z, rotation float64) {
	expansion := math.Cbrt(float64(n + 1))
	maxRadius := 20 + expansion*15
	radius := 20 + g.randFn()*maxRadius
	theta := g.randFn() * 2 * math.Pi
	phi := g.randFn() * math.Pi

	x = radius * math.Sin(phi) * math.Cos(theta)
	y = radius*math.Cos(phi) + g.randFn()*50 - 25
	z = radius * math.Sin(phi) * math.Sin(theta)
	rotation = g.randFn() * 2 * math.Pi
	return x, y, z, rotation
}
