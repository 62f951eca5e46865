package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/pixelpasture/unicornshop/internal/clock"
	"github.com/pixelpasture/unicornshop/internal/config"
	obsmetrics "github.com/pixelpasture/unicornshop/internal/observability/metrics"
	"github.com/pixelpasture/unicornshop/internal/payment/domain"
	unicorndomain "github.com/pixelpasture/unicornshop/internal/unicorn/domain"
	unicornservice "github.com/pixelpasture/unicornshop/internal/unicorn/service"
	pkgdb "github.com/pixelpasture/unicornshop/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Cfg         config.Config
	GenID       *snowflake.Node
	Clock       clock.Clock
	Gateway     domain.Gateway `optional:"true"`
	Repo        domain.Repository
	UnicornRepo unicorndomain.Repository
	Generator   *unicornservice.Generator
	ObsMetrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	cfg         config.Config
	genID       *snowflake.Node
	clock       clock.Clock
	gateway     domain.Gateway
	repo        domain.Repository
	unicornRepo unicorndomain.Repository
	generator   *unicornservice.Generator
	obsMetrics  *obsmetrics.Metrics
}

func NewService(p Params) *Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("payment.service"),
		cfg:         p.Cfg,
		genID:       p.GenID,
		clock:       p.Clock,
		gateway:     p.Gateway,
		repo:        p.Repo,
		unicornRepo: p.UnicornRepo,
		generator:   p.Generator,
		obsMetrics:  p.ObsMetrics,
	}
}

type CreateOrderRequest struct {
	BaseName      string
	Items         []domain.LineItem
	TotalUnicorns int
	TotalAmount   int64
	SessionID     string
}

type CreateOrderResult struct {
	ClientSecret string
	SessionID    string
}

// CreateOrder validates a purchase request against server-side pricing,
// persists the payment as pending, then asks the gateway for an intent.
// The pending row is committed before the gateway call: a gateway failure
// leaves a reconcilable pending record instead of losing the attempt.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	baseName := strings.TrimSpace(req.BaseName)
	if baseName == "" {
		baseName = "Unicorn"
	}
	if len(req.Items) == 0 {
		return nil, domain.ErrInvalidOrder
	}

	var count int
	for _, item := range req.Items {
		if item.Quantity <= 0 || strings.TrimSpace(item.Color) == "" {
			return nil, domain.ErrInvalidOrder
		}
		count += item.Quantity
	}
	if count != req.TotalUnicorns {
		return nil, domain.ErrAmountMismatch
	}
	if int64(count)*s.cfg.UnitPrice != req.TotalAmount {
		return nil, domain.ErrAmountMismatch
	}

	if s.gateway == nil {
		return nil, domain.ErrGatewayUnavailable
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	itemsJSON, err := json.Marshal(req.Items)
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ID:            s.genID.Generate(),
		BaseName:      baseName,
		TotalUnicorns: count,
		Amount:        req.TotalAmount,
		Currency:      s.cfg.Currency,
		Status:        domain.StatusPending,
		LineItems:     datatypes.JSON(itemsJSON),
		SessionID:     sessionID,
		CreatedAt:     s.clock.Now(),
	}
	if err := s.repo.Create(ctx, s.db, payment); err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreateIntent(ctx, domain.CreateIntentParams{
		Amount:         req.TotalAmount,
		Currency:       s.cfg.Currency,
		IdempotencyKey: "payment:" + payment.ID.String(),
		Metadata: map[string]string{
			"payment_id": payment.ID.String(),
			"base_name":  baseName,
			"session_id": sessionID,
			"order":      string(itemsJSON),
		},
	})
	if err != nil {
		s.log.Error("gateway intent creation failed",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
		return nil, domain.ErrGatewayUnavailable
	}

	if err := s.repo.SetIntentID(ctx, s.db, payment.ID, intent.ID); err != nil {
		// intent_id is unique; the gateway handing back an intent that is
		// already bound to another attempt means this order was processed.
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, domain.ErrAlreadyProcessed
		}
		return nil, err
	}

	if s.obsMetrics != nil {
		s.obsMetrics.PaymentsCreated.Inc()
	}
	s.log.Info("payment created",
		zap.String("payment_id", payment.ID.String()),
		zap.String("intent_id", intent.ID),
		zap.Int("total_unicorns", count),
		zap.Int64("amount", req.TotalAmount),
	)

	return &CreateOrderResult{
		ClientSecret: intent.ClientSecret,
		SessionID:    sessionID,
	}, nil
}

// HandleEvent dispatches a verified gateway event. Succeeded events run the
// idempotency guard and fulfillment in one transaction; failed and canceled
// events perform the guarded status flip only; created and unhandled kinds
// are no-ops.
func (s *Service) HandleEvent(ctx context.Context, event *domain.Event) error {
	if event == nil {
		return domain.ErrInvalidPayload
	}

	switch event.Kind {
	case domain.KindPaymentSucceeded:
		return s.fulfill(ctx, event)
	case domain.KindPaymentFailed:
		return s.markTerminal(ctx, event, domain.StatusFailed)
	case domain.KindPaymentCanceled:
		return s.markTerminal(ctx, event, domain.StatusCanceled)
	case domain.KindPaymentCreated, domain.KindUnhandled:
		s.log.Debug("ignoring event", zap.String("event_id", event.ID), zap.String("kind", string(event.Kind)))
		return nil
	default:
		return nil
	}
}

// fulfill flips the payment to succeeded and inserts the unicorn batch in
// a single transaction, so a crash between the two leaves neither. The
// conditional update serializes concurrent deliveries of the same event:
// whichever transaction wins the row flips it, every other one sees zero
// rows affected and backs off as already processed.
func (s *Service) fulfill(ctx context.Context, event *domain.Event) error {
	if strings.TrimSpace(event.IntentID) == "" {
		return domain.ErrInvalidPayload
	}

	now := s.clock.Now()
	var fulfilled int

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err := s.repo.FindByIntentID(ctx, tx, event.IntentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return domain.ErrUnknownPayment
		}

		flipped, err := s.repo.TransitionFromPending(ctx, tx, event.IntentID, domain.StatusSucceeded, now)
		if err != nil {
			return err
		}
		if !flipped {
			return domain.ErrAlreadyProcessed
		}

		items := event.Items
		if len(items) == 0 {
			// Metadata can be absent when the intent was created out of
			// band; the stored line items are the fallback source.
			if err := json.Unmarshal(payment.LineItems, &items); err != nil {
				return domain.ErrInvalidPayload
			}
		}
		baseName := event.BaseName
		if baseName == "" {
			baseName = payment.BaseName
		}

		startCount, err := s.unicornRepo.Count(ctx, tx)
		if err != nil {
			return err
		}

		batch := s.generator.Batch(baseName, items, event.IntentID, payment.SessionID, startCount, now)
		if err := s.unicornRepo.InsertBatch(ctx, tx, batch); err != nil {
			return err
		}
		fulfilled = len(batch)
		return nil
	})
	if err != nil {
		return err
	}

	if s.obsMetrics != nil {
		s.obsMetrics.UnicornsFulfilled.Add(float64(fulfilled))
	}
	s.log.Info("payment fulfilled",
		zap.String("intent_id", event.IntentID),
		zap.Int("unicorns", fulfilled),
	)
	return nil
}

func (s *Service) markTerminal(ctx context.Context, event *domain.Event, to domain.Status) error {
	if strings.TrimSpace(event.IntentID) == "" {
		return domain.ErrInvalidPayload
	}

	payment, err := s.repo.FindByIntentID(ctx, s.db, event.IntentID)
	if err != nil {
		return err
	}
	if payment == nil {
		return domain.ErrUnknownPayment
	}

	flipped, err := s.repo.TransitionFromPending(ctx, s.db, event.IntentID, to, s.clock.Now())
	if err != nil {
		return err
	}
	if !flipped {
		return domain.ErrAlreadyProcessed
	}

	s.log.Info("payment closed",
		zap.String("intent_id", event.IntentID),
		zap.String("status", string(to)),
	)
	return nil
}
