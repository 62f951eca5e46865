package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Intent is the gateway's view of an authorized-but-unpaid charge.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
}

type CreateIntentParams struct {
	Amount         int64
	Currency       string
	IdempotencyKey string
	Metadata       map[string]string
}

// Gateway is the outbound payment-processor client. The processor owns
// payment state; this side only creates intents and consumes events.
type Gateway interface {
	CreateIntent(ctx context.Context, params CreateIntentParams) (Intent, error)
}

// Verifier authenticates and parses inbound gateway notifications.
type Verifier interface {
	VerifyAndParse(payload []byte, sigHeader string, now time.Time) (*Event, error)
}

// Repository persists payments. Implementations take the storage handle
// per call so services can run them inside a transaction.
type Repository interface {
	Create(ctx context.Context, db *gorm.DB, payment *Payment) error
	SetIntentID(ctx context.Context, db *gorm.DB, id snowflake.ID, intentID string) error
	FindByIntentID(ctx context.Context, db *gorm.DB, intentID string) (*Payment, error)
	// TransitionFromPending flips status for the given intent id only when
	// it is still pending, reporting whether a row changed. The guard is a
	// storage-level conditional update so concurrent deliveries serialize
	// even across server instances.
	TransitionFromPending(ctx context.Context, db *gorm.DB, intentID string, to Status, completedAt time.Time) (bool, error)
}
