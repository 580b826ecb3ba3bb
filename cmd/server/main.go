package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/tradeyard/backend/internal/application/billing"
	cashflowapp "github.com/tradeyard/backend/internal/application/cashflow"
	entryapp "github.com/tradeyard/backend/internal/application/entry"
	financeapp "github.com/tradeyard/backend/internal/application/finance"
	partnerapp "github.com/tradeyard/backend/internal/application/partner"
	"github.com/tradeyard/backend/internal/infrastructure/auth"
	"github.com/tradeyard/backend/internal/infrastructure/config"
	"github.com/tradeyard/backend/internal/infrastructure/logger"
	"github.com/tradeyard/backend/internal/infrastructure/persistence"
	"github.com/tradeyard/backend/internal/interfaces/http/handler"
	"github.com/tradeyard/backend/internal/interfaces/http/middleware"
	"github.com/tradeyard/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Tradeyard Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	entryRepo := persistence.NewGormEntryRepository(db.DB)
	buyerRepo := persistence.NewGormBuyerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	buyerInvoiceRepo := persistence.NewGormBuyerInvoiceRepository(db.DB)
	supplierInvoiceRepo := persistence.NewGormSupplierInvoiceRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB, log)

	// Initialize application services
	entryService := entryapp.NewService(entryRepo, auditRepo)
	auctionService := entryapp.NewAuctionService(entryRepo, auditRepo)
	buyerService := partnerapp.NewBuyerService(buyerRepo, auditRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo, auditRepo)
	buyerInvoiceService := billingapp.NewBuyerInvoiceService(buyerInvoiceRepo, entryRepo, buyerRepo, transactionRepo, auditRepo)
	supplierInvoiceService := billingapp.NewSupplierInvoiceService(supplierInvoiceRepo, entryRepo, supplierRepo, transactionRepo, auditRepo)
	cashFlowService := cashflowapp.NewService(transactionRepo, buyerRepo, supplierRepo, buyerInvoiceRepo, supplierInvoiceRepo, auditRepo)
	reconciliationService := financeapp.NewReconciliationService(buyerRepo, supplierRepo, buyerInvoiceRepo, supplierInvoiceRepo, transactionRepo)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	entryHandler := handler.NewEntryHandler(entryService, auctionService)
	buyerHandler := handler.NewBuyerHandler(buyerService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	buyerInvoiceHandler := handler.NewBuyerInvoiceHandler(buyerInvoiceService)
	supplierInvoiceHandler := handler.NewSupplierInvoiceHandler(supplierInvoiceService)
	cashFlowHandler := handler.NewCashFlowHandler(cashFlowService)
	financeHandler := handler.NewFinanceHandler(reconciliationService)
	auditHandler := handler.NewAuditHandler(auditRepo)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check outside API versioning, never authenticated
	engine.GET("/healthz", systemHandler.Healthz)

	// Versioned API surface, authenticated end to end
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthWithConfig(middleware.JWTConfig{
		JWTService: jwtService,
		Logger:     log,
	}))

	r.Register(entryHandler).
		Register(buyerHandler).
		Register(supplierHandler).
		Register(buyerInvoiceHandler).
		Register(supplierInvoiceHandler).
		Register(cashFlowHandler).
		Register(financeHandler).
		Register(auditHandler).
		Register(systemHandler)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
