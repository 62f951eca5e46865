package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pixelpasture/unicornshop/internal/config"
	obsmetrics "github.com/pixelpasture/unicornshop/internal/observability/metrics"
	obstracing "github.com/pixelpasture/unicornshop/internal/observability/tracing"
	paymentdomain "github.com/pixelpasture/unicornshop/internal/payment/domain"
	paymentservice "github.com/pixelpasture/unicornshop/internal/payment/service"
	"github.com/pixelpasture/unicornshop/internal/ratelimit"
	statsservice "github.com/pixelpasture/unicornshop/internal/stats/service"
	unicorndomain "github.com/pixelpasture/unicornshop/internal/unicorn/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, obsMetrics *obsmetrics.Metrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(obsMetrics.Registry(), promhttp.HandlerOpts{})))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	log         *zap.Logger
	catalog     *config.CatalogHolder
	paymentSvc  *paymentservice.Service
	statsSvc    *statsservice.Service
	unicornRepo unicorndomain.Repository
	verifier    paymentdomain.Verifier
	limiter     *ratelimit.TokenBucket
	obsMetrics  *obsmetrics.Metrics
}

type Params struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	Log         *zap.Logger
	Catalog     *config.CatalogHolder
	PaymentSvc  *paymentservice.Service
	StatsSvc    *statsservice.Service
	UnicornRepo unicorndomain.Repository
	Verifier    paymentdomain.Verifier
	Limiter     *ratelimit.TokenBucket `optional:"true"`
	ObsMetrics  *obsmetrics.Metrics    `optional:"true"`
}

func NewServer(p Params) *Server {
	return &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		log:         p.Log.Named("http.server"),
		catalog:     p.Catalog,
		paymentSvc:  p.PaymentSvc,
		statsSvc:    p.StatsSvc,
		unicornRepo: p.UnicornRepo,
		verifier:    p.Verifier,
		limiter:     p.Limiter,
		obsMetrics:  p.ObsMetrics,
	}
}

func (s *Server) RegisterRoutes() {
	s.engine.GET("/units", s.ListUnits)
	s.engine.GET("/units/:session", s.ListUnitsBySession)
	s.engine.GET("/stats", s.GetStats)
	s.engine.GET("/config", s.GetPublicConfig)

	s.engine.POST("/create-payment-intent", s.CreatePaymentIntent)
	s.engine.POST("/webhook", s.HandleWebhook)
}
