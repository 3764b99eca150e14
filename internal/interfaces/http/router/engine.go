package router

import (
	"github.com/dms/backend/internal/domain/ledger"
	"github.com/dms/backend/internal/infrastructure/auth"
	"github.com/dms/backend/internal/infrastructure/config"
	"github.com/dms/backend/internal/infrastructure/logger"
	"github.com/dms/backend/internal/infrastructure/telemetry"
	"github.com/dms/backend/internal/interfaces/http/handler"
	"github.com/dms/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers are the endpoint handlers mounted by NewEngine
type Handlers struct {
	Payment     *handler.PaymentHandler
	Document    *handler.DocumentHandler
	Ledger      *handler.LedgerHandler
	BankProfile *handler.BankProfileHandler
	System      *handler.SystemHandler
}

// EngineConfig carries what NewEngine needs besides the handlers
type EngineConfig struct {
	HTTP        config.HTTPConfig
	JWT         *auth.JWTService
	Logger      *zap.Logger
	ServiceName string
	// Tracing enables otelgin spans
	Tracing bool
	// Meter records HTTP metrics when enabled
	Meter *telemetry.MeterProvider
	// RateLimiter is applied after authentication when non-nil
	RateLimiter *middleware.RateLimiter
}

// NewEngine builds the gin engine with the full middleware stack and every
// route of the dealership API
func NewEngine(cfg EngineConfig, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Recovery stays outermost
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.ServiceName, cfg.Tracing))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS(cfg.HTTP.CORSOrigins))
	engine.Use(middleware.Secure())
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	engine.Use(middleware.HTTPMetrics(cfg.Meter))
	engine.Use(middleware.Timeout(cfg.HTTP.WriteTimeout))

	if h.System != nil {
		engine.GET("/health", h.System.Health)
		engine.GET("/health/ready", h.System.Ready)
	}

	jwtConfig := middleware.DefaultJWTConfig(cfg.JWT)
	jwtConfig.Logger = log
	api := NewAPI("v1").Use(
		middleware.JWTAuthMiddlewareWithConfig(jwtConfig),
		middleware.TraceCaller(),
		middleware.SpanErrorMarker(),
	)
	if cfg.RateLimiter != nil {
		api.Use(middleware.RateLimit(cfg.RateLimiter))
	}

	health := NewResource("/health")
	orders := NewResource("/orders")
	documents := NewResource("/documents")
	quotes := NewResource("/quotes")
	debts := NewResource("/debts")
	bankProfiles := NewResource("/bank-profiles")

	if h.System != nil {
		health.GET("", h.System.Health)
	}
	if h.Payment != nil {
		orders.GET("/:id/payment-summary", h.Payment.Summary).
			POST("/:id/deposit", h.Payment.SubmitDeposit).
			POST("/:id/final-payment", h.Payment.SubmitFinalPayment)
	}
	if h.Ledger != nil {
		orders.GET("/:id/payments", h.Ledger.ListPayments).
			GET("/:id/history", h.Ledger.History)
		// static export paths sit beside /:id
		debts.GET("/customers", h.Ledger.ListCustomerDebts).
			GET("/customers/export", h.Ledger.ExportDebts(ledger.DebtorCustomer)).
			GET("/manufacturers", h.Ledger.ListManufacturerDebts).
			GET("/manufacturers/export", h.Ledger.ExportDebts(ledger.DebtorManufacturer)).
			GET("/:id", h.Ledger.GetDebt)
	}
	if h.Document != nil {
		orders.GET("/:id/contract.pdf", h.Document.ContractPDF).
			GET("/:id/documents", h.Document.ListDocuments)
		documents.GET("/:id/download", h.Document.Download).
			GET("/:id/link", h.Document.DownloadLink)
		quotes.POST("/pdf", h.Document.QuotePDF)
	}
	if h.BankProfile != nil {
		bankProfiles.POST("", h.BankProfile.Create).
			GET("/:id", h.BankProfile.Get).
			PUT("/:id/status", h.BankProfile.UpdateStatus)
	}

	api.Add(health, orders, documents, quotes, debts, bankProfiles).Mount(engine)
	return engine
}
