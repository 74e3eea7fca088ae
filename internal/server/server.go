package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stocktrail/stocktrail/internal/access"
	"github.com/stocktrail/stocktrail/internal/audit"
	auditdomain "github.com/stocktrail/stocktrail/internal/audit/domain"
	"github.com/stocktrail/stocktrail/internal/config"
	"github.com/stocktrail/stocktrail/internal/lookup"
	lookupdomain "github.com/stocktrail/stocktrail/internal/lookup/domain"
	"github.com/stocktrail/stocktrail/internal/order"
	orderdomain "github.com/stocktrail/stocktrail/internal/order/domain"
	"github.com/stocktrail/stocktrail/internal/ratelimit"
	"github.com/stocktrail/stocktrail/internal/token"
	tokendomain "github.com/stocktrail/stocktrail/internal/token/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	ratelimit.Module,
	lookup.Module,
	token.Module,
	access.Module,
	audit.Module,
	order.Module,
	fx.Provide(newHTTPMetrics),
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func newHTTPMetrics() *HTTPMetrics {
	return NewHTTPMetrics(prometheus.DefaultRegisterer)
}

func NewEngine(httpMetrics *HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(MetricsMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(httpMetrics *HTTPMetrics) *gin.Engine {
	return NewEngine(httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.ListenAddr))
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
	engine       *gin.Engine
	cfg          config.Config
	log          *zap.Logger
	resolver     *access.Resolver
	orderSvc     orderdomain.Service
	tokenSvc     tokendomain.Service
	auditSvc     auditdomain.Service
	vocabulary   lookupdomain.Vocabulary
	tokenLimiter *rateLimiter
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	Resolver   *access.Resolver
	OrderSvc   orderdomain.Service
	TokenSvc   tokendomain.Service
	AuditSvc   auditdomain.Service
	Vocabulary lookupdomain.Vocabulary
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("http.server"),
		resolver:     p.Resolver,
		orderSvc:     p.OrderSvc,
		tokenSvc:     p.TokenSvc,
		auditSvc:     p.AuditSvc,
		vocabulary:   p.Vocabulary,
		tokenLimiter: newRateLimiter(5, 10*time.Minute),
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AccessRequired())

	// -------- Orders --------
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/kpis", s.GetOrderKPIs)
	api.POST("/orders/:order_id", s.RequireWrite(), s.UpdateOrder)

	// -------- Reference data --------
	api.GET("/warehouses", s.ListWarehouses)
	api.GET("/statuses", s.ListStatuses)

	// -------- Tokens --------
	api.POST("/tokens", s.RequireOwner(), s.IssueToken)

	// -------- Audit log --------
	api.GET("/audit-logs", s.RequireWrite(), s.ListAuditLogs)
}
