package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Status is the lifecycle state of a purchase attempt. Transitions are
// monotonic: pending may move to exactly one of the terminal states, and
// terminal states are absorbing.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

func (s Status) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	default:
		return false
	}
}

// Payment is a record of one purchase attempt. Created as pending by order
// intake, transitioned exactly once by event ingestion, never deleted.
type Payment struct {
	ID snowflake.ID `json:"id" gorm:"primaryKey"`
	// IntentID is the gateway payment identifier. It stays NULL until the
	// gateway accepts the intent, and is globally unique once assigned.
	IntentID      *string        `json:"intent_id" gorm:"type:text;uniqueIndex"`
	BaseName      string         `json:"base_name" gorm:"type:text;not null"`
	TotalUnicorns int            `json:"total_unicorns" gorm:"not null"`
	Amount        int64          `json:"amount" gorm:"not null"`
	Currency      string         `json:"currency" gorm:"type:text;not null"`
	Status        Status         `json:"status" gorm:"type:text;not null;index"`
	LineItems     datatypes.JSON `json:"line_items" gorm:"not null"`
	SessionID     string         `json:"session_id" gorm:"type:text;not null;index"`
	CreatedAt     time.Time      `json:"created_at" gorm:"not null"`
	CompletedAt   *time.Time     `json:"completed_at"`
}

func (Payment) TableName() string { return "payments" }

// LineItem is one (color, quantity) entry of an order.
type LineItem struct {
	Color    string `json:"color"`
	Quantity int    `json:"quantity"`
}

// EventKind is the closed set of gateway notification kinds the pipeline
// dispatches on. Anything the gateway may add later maps to KindUnhandled.
type EventKind string

const (
	KindPaymentSucceeded EventKind = "payment_succeeded"
	KindPaymentFailed    EventKind = "payment_failed"
	KindPaymentCanceled  EventKind = "payment_canceled"
	KindPaymentCreated   EventKind = "payment_created"
	KindUnhandled        EventKind = "unhandled"
)

// KindFromGatewayType maps the gateway's string event types onto the
// closed enumeration.
func KindFromGatewayType(raw string) EventKind {
	switch strings.TrimSpace(raw) {
	case "payment_intent.succeeded":
		return KindPaymentSucceeded
	case "payment_intent.payment_failed":
		return KindPaymentFailed
	case "payment_intent.canceled":
		return KindPaymentCanceled
	case "payment_intent.created":
		return KindPaymentCreated
	default:
		return KindUnhandled
	}
}

// Event is a verified, parsed gateway notification.
type Event struct {
	ID   string
	Kind EventKind
	// GatewayType is the raw event type string, echoed back in the ack.
	GatewayType string
	IntentID    string
	Amount      int64
	Currency    string
	// Order metadata attached at intent creation, so ingestion can
	// reconstruct the order without a second gateway lookup.
	BaseName   string
	SessionID  string
	Items      []LineItem
	OccurredAt time.Time
	RawPayload []byte
}
