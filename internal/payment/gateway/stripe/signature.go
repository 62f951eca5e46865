package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	paymentdomain "github.com/pixelpasture/unicornshop/internal/payment/domain"
)

// Webhook verifies Stripe-Signature headers and parses event payloads.
type Webhook struct {
	secret    string
	tolerance time.Duration
}

func NewWebhook(secret string, tolerance time.Duration) *Webhook {
	return &Webhook{
		secret:    strings.TrimSpace(secret),
		tolerance: tolerance,
	}
}

// VerifyAndParse authenticates the payload against the signing secret and
// the timestamp tolerance window, then parses it into a domain event.
// Verification failure is final: no event is returned and nothing is
// dispatched.
func (w *Webhook) VerifyAndParse(payload []byte, sigHeader string, now time.Time) (*paymentdomain.Event, error) {
	if err := w.verify(payload, sigHeader, now); err != nil {
		return nil, err
	}
	return parseEvent(payload)
}

func (w *Webhook) verify(payload []byte, sigHeader string, now time.Time) error {
	if w.secret == "" {
		return paymentdomain.ErrInvalidSignature
	}
	sigHeader = strings.TrimSpace(sigHeader)
	if sigHeader == "" {
		return paymentdomain.ErrInvalidSignature
	}

	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return paymentdomain.ErrInvalidSignature
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return paymentdomain.ErrInvalidSignature
	}
	if w.tolerance > 0 {
		drift := now.Sub(time.Unix(ts, 0))
		if drift < 0 {
			drift = -drift
		}
		if drift > w.tolerance {
			return paymentdomain.ErrInvalidSignature
		}
	}

	signedPayload := fmt.Sprintf("%s.%s", timestamp, string(payload))
	mac := hmac.New(sha256.New, []byte(w.secret))
	_, _ = mac.Write([]byte(signedPayload))
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, signature := range signatures {
		if hmac.Equal([]byte(signature), []byte(expected)) {
			return nil
		}
	}

	return paymentdomain.ErrInvalidSignature
}

func parseSignatureHeader(header string) (string, []string, error) {
	parts := strings.Split(header, ",")
	var timestamp string
	signatures := []string{}
	for _, part := range parts {
		piece := strings.TrimSpace(part)
		if piece == "" {
			continue
		}
		keyValue := strings.SplitN(piece, "=", 2)
		if len(keyValue) != 2 {
			continue
		}
		key := strings.TrimSpace(keyValue[0])
		value := strings.TrimSpace(keyValue[1])
		if key == "t" {
			timestamp = value
		}
		if key == "v1" {
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return "", nil, errors.New("invalid_signature")
	}
	return timestamp, signatures, nil
}

// SignatureHeader builds a header the verifier accepts. Exported for tests
// and local tooling that feed the webhook endpoint directly.
func SignatureHeader(secret string, payload []byte, ts int64) string {
	signedPayload := fmt.Sprintf("%d.%s", ts, string(payload))
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(signedPayload))
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}
