package payment

import (
	"time"

	"github.com/pixelpasture/unicornshop/internal/config"
	"github.com/pixelpasture/unicornshop/internal/payment/domain"
	"github.com/pixelpasture/unicornshop/internal/payment/gateway/stripe"
	"github.com/pixelpasture/unicornshop/internal/payment/repository"
	paymentservice "github.com/pixelpasture/unicornshop/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment",
	fx.Provide(repository.Provide),
	fx.Provide(NewGateway),
	fx.Provide(NewVerifier),
	fx.Provide(paymentservice.NewService),
)

// NewGateway returns nil when no API key is configured; order intake then
// rejects purchases with a gateway-unavailable error instead of panicking
// at startup.
func NewGateway(cfg config.Config) domain.Gateway {
	if !cfg.GatewayConfigured() {
		return nil
	}
	return stripe.NewClient(cfg.StripeSecretKey)
}

func NewVerifier(cfg config.Config) domain.Verifier {
	return stripe.NewWebhook(
		cfg.StripeWebhookSecret,
		time.Duration(cfg.WebhookToleranceSec)*time.Second,
	)
}
