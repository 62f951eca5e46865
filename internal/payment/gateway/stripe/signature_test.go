package stripe_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	paymentdomain "github.com/pixelpasture/unicornshop/internal/payment/domain"
	"github.com/pixelpasture/unicornshop/internal/payment/gateway/stripe"
)

const testSecret = "whsec_test"

func succeededPayload(now time.Time) []byte {
	return []byte(fmt.Sprintf(
		`{"id":"evt_1","type":"payment_intent.succeeded","created":%d,"data":{"object":{"id":"pi_1","amount":50,"amount_received":50,"currency":"usd","created":%d,"metadata":{"base_name":"Sparkle","session_id":"sess-1","order":"[{\"color\":\"Pink\",\"quantity\":2}]"}}}}`,
		now.Unix(), now.Unix(),
	))
}

func TestVerifyAndParseValidSignature(t *testing.T) {
	now := time.Now().UTC()
	payload := succeededPayload(now)
	header := stripe.SignatureHeader(testSecret, payload, now.Unix())

	webhook := stripe.NewWebhook(testSecret, 5*time.Minute)
	event, err := webhook.VerifyAndParse(payload, header, now)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if event.ID != "evt_1" {
		t.Errorf("event id = %q, want evt_1", event.ID)
	}
	if event.Kind != paymentdomain.KindPaymentSucceeded {
		t.Errorf("kind = %q, want %q", event.Kind, paymentdomain.KindPaymentSucceeded)
	}
	if event.IntentID != "pi_1" {
		t.Errorf("intent id = %q, want pi_1", event.IntentID)
	}
	if event.Amount != 50 {
		t.Errorf("amount = %d, want 50", event.Amount)
	}
	if event.BaseName != "Sparkle" {
		t.Errorf("base name = %q, want Sparkle", event.BaseName)
	}
	if event.SessionID != "sess-1" {
		t.Errorf("session id = %q, want sess-1", event.SessionID)
	}
	if len(event.Items) != 1 || event.Items[0].Color != "Pink" || event.Items[0].Quantity != 2 {
		t.Errorf("items = %+v, want one Pink x2", event.Items)
	}
}

func TestVerifyAndParseRejectsTamperedPayload(t *testing.T) {
	now := time.Now().UTC()
	payload := succeededPayload(now)
	header := stripe.SignatureHeader(testSecret, payload, now.Unix())

	tampered := []byte(fmt.Sprintf(
		`{"id":"evt_1","type":"payment_intent.succeeded","created":%d,"data":{"object":{"id":"pi_1","amount":999999,"amount_received":999999,"currency":"usd","created":%d}}}`,
		now.Unix(), now.Unix(),
	))

	webhook := stripe.NewWebhook(testSecret, 5*time.Minute)
	if _, err := webhook.VerifyAndParse(tampered, header, now); !errors.Is(err, paymentdomain.ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyAndParseRejectsWrongSecret(t *testing.T) {
	now := time.Now().UTC()
	payload := succeededPayload(now)
	header := stripe.SignatureHeader("whsec_other", payload, now.Unix())

	webhook := stripe.NewWebhook(testSecret, 5*time.Minute)
	if _, err := webhook.VerifyAndParse(payload, header, now); !errors.Is(err, paymentdomain.ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyAndParseRejectsStaleTimestamp(t *testing.T) {
	now := time.Now().UTC()
	stale := now.Add(-10 * time.Minute)
	payload := succeededPayload(stale)
	header := stripe.SignatureHeader(testSecret, payload, stale.Unix())

	webhook := stripe.NewWebhook(testSecret, 5*time.Minute)
	if _, err := webhook.VerifyAndParse(payload, header, now); !errors.Is(err, paymentdomain.ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyAndParseRejectsMissingHeader(t *testing.T) {
	now := time.Now().UTC()
	payload := succeededPayload(now)

	webhook := stripe.NewWebhook(testSecret, 5*time.Minute)
	if _, err := webhook.VerifyAndParse(payload, "", now); !errors.Is(err, paymentdomain.ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyAndParseRejectsMalformedBody(t *testing.T) {
	now := time.Now().UTC()
	payload := []byte(`{"not valid json`)
	header := stripe.SignatureHeader(testSecret, payload, now.Unix())

	webhook := stripe.NewWebhook(testSecret, 5*time.Minute)
	if _, err := webhook.VerifyAndParse(payload, header, now); !errors.Is(err, paymentdomain.ErrInvalidPayload) {
		t.Fatalf("err = %v, want ErrInvalidPayload", err)
	}
}

func TestVerifyAndParseUnknownEventType(t *testing.T) {
	now := time.Now().UTC()
	payload := []byte(fmt.Sprintf(
		`{"id":"evt_2","type":"charge.refunded","created":%d,"data":{"object":{"id":"ch_1"}}}`,
		now.Unix(),
	))
	header := stripe.SignatureHeader(testSecret, payload, now.Unix())

	webhook := stripe.NewWebhook(testSecret, 5*time.Minute)
	event, err := webhook.VerifyAndParse(payload, header, now)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if event.Kind != paymentdomain.KindUnhandled {
		t.Errorf("kind = %q, want %q", event.Kind, paymentdomain.KindUnhandled)
	}
	if event.GatewayType != "charge.refunded" {
		t.Errorf("gateway type = %q, want charge.refunded", event.GatewayType)
	}
}
