package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/pixelpasture/unicornshop/internal/payment/domain"
	"go.uber.org/zap"
)

// HandleWebhook ingests gateway notifications. Once the signature checks
// out the gateway always gets a 200: the delivery contract is at-least-once
// and the idempotency guard makes redeliveries harmless, so a negative ack
// would only buy retry storms on a poison event. Internal failures are
// logged and counted for reconciliation instead.
func (s *Server) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	event, err := s.verifier.VerifyAndParse(payload, c.GetHeader("Stripe-Signature"), time.Now().UTC())
	if err != nil {
		if errors.Is(err, paymentdomain.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	outcome := "ok"
	if err := s.paymentSvc.HandleEvent(c.Request.Context(), event); err != nil {
		switch {
		case errors.Is(err, paymentdomain.ErrAlreadyProcessed):
			outcome = "duplicate"
		case errors.Is(err, paymentdomain.ErrUnknownPayment):
			outcome = "unknown_payment"
			s.log.Warn("event for unknown payment",
				zap.String("event_id", event.ID),
				zap.String("intent_id", event.IntentID),
			)
		default:
			outcome = "error"
			s.log.Error("event handling failed",
				zap.String("event_id", event.ID),
				zap.String("kind", string(event.Kind)),
				zap.Error(err),
			)
			if s.obsMetrics != nil && event.Kind == paymentdomain.KindPaymentSucceeded {
				s.obsMetrics.FulfillmentFailures.Inc()
			}
		}
	}

	if s.obsMetrics != nil {
		s.obsMetrics.WebhookEvents.WithLabelValues(string(event.Kind), outcome).Inc()
	}

	if event.Kind == paymentdomain.KindPaymentSucceeded && outcome == "ok" {
		s.statsSvc.RecordBestEffort(c.Request.Context())
	}

	c.JSON(http.StatusOK, gin.H{
		"received":   true,
		"event_type": event.GatewayType,
		"event_id":   event.ID,
	})
}
