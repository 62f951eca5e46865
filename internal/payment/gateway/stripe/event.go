package stripe

import (
	"encoding/json"
	"strings"
	"time"

	paymentdomain "github.com/pixelpasture/unicornshop/internal/payment/domain"
)

type stripeEvent struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Created int64           `json:"created"`
	Data    stripeEventData `json:"data"`
}

type stripeEventData struct {
	Object json.RawMessage `json:"object"`
}

type stripePaymentIntent struct {
	ID             string            `json:"id"`
	Amount         int64             `json:"amount"`
	AmountReceived int64             `json:"amount_received"`
	Currency       string            `json:"currency"`
	Created        int64             `json:"created"`
	Metadata       map[string]string `json:"metadata"`
}

func parseEvent(payload []byte) (*paymentdomain.Event, error) {
	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, paymentdomain.ErrInvalidPayload
	}
	if strings.TrimSpace(event.ID) == "" {
		return nil, paymentdomain.ErrInvalidPayload
	}

	var intent stripePaymentIntent
	if len(event.Data.Object) > 0 {
		if err := json.Unmarshal(event.Data.Object, &intent); err != nil {
			return nil, paymentdomain.ErrInvalidPayload
		}
	}

	amount := intent.AmountReceived
	if amount <= 0 {
		amount = intent.Amount
	}

	parsed := &paymentdomain.Event{
		ID:          event.ID,
		Kind:        paymentdomain.KindFromGatewayType(event.Type),
		GatewayType: strings.TrimSpace(event.Type),
		IntentID:    strings.TrimSpace(intent.ID),
		Amount:      amount,
		Currency:    strings.ToLower(strings.TrimSpace(intent.Currency)),
		BaseName:    strings.TrimSpace(intent.Metadata["base_name"]),
		SessionID:   strings.TrimSpace(intent.Metadata["session_id"]),
		OccurredAt:  timestamp(intent.Created, event.Created),
		RawPayload:  payload,
	}

	if raw := strings.TrimSpace(intent.Metadata["order"]); raw != "" {
		var items []paymentdomain.LineItem
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			parsed.Items = items
		}
	}

	return parsed, nil
}

func timestamp(primary int64, fallback int64) time.Time {
	value := primary
	if value == 0 {
		value = fallback
	}
	if value == 0 {
		return time.Now().UTC()
	}
	return time.Unix(value, 0).UTC()
}
