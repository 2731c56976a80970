// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"municipal-benefits/internal/config"
	pg "municipal-benefits/internal/infra/db/postgres"
	"municipal-benefits/internal/infra/logging"
	"municipal-benefits/internal/infra/metrics"
	red "municipal-benefits/internal/infra/redis"
	"municipal-benefits/internal/infra/sched"
	"municipal-benefits/internal/infra/web"
	"municipal-benefits/internal/infra/worker"
	"municipal-benefits/internal/usecase"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, insecure cookies)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	go pg.CollectPoolStats(ctx, pool, 15*time.Second)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	tenantRepo := pg.NewTenantRepo(pool)
	supplierRepo := pg.NewSupplierRepo(pool)
	groupRepo := pg.NewCitizenGroupRepo(pool)
	citizenRepo := pg.NewCitizenRepo(pool)
	offerRepo := pg.NewOfferRepoCacheDecorator(pg.NewOfferRepo(pool), redisClient)
	codeRepo := pg.NewDiscountCodeRepo(pool)
	txnRepo := pg.NewOfferTransactionRepo(pool)
	benefitRepo := pg.NewBenefitRepo(pool)
	grantRepo := pg.NewGrantRepo(pool)
	invoiceRepo := pg.NewInvoiceRepo(pool)
	tm := pg.NewTxManager(pool)

	// ---- Use cases ----
	redemptionUC := usecase.NewRedemptionUseCase(codeRepo, txnRepo, tm, logger)
	codeUC := usecase.NewCodeUseCase(codeRepo, offerRepo, citizenRepo, logger)
	offerUC := usecase.NewOfferUseCase(offerRepo, logger)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo, logger)
	tenantUC := usecase.NewTenantUseCase(tenantRepo)
	citizenUC := usecase.NewCitizenUseCase(groupRepo, citizenRepo)
	benefitUC := usecase.NewBenefitUseCase(benefitRepo, grantRepo, logger)
	invoiceUC := usecase.NewInvoiceUseCase(invoiceRepo, supplierRepo, txnRepo, logger)
	statsUC := usecase.NewStatsUseCase(citizenRepo, offerRepo, txnRepo)

	// ---- HTTP ----
	auth := web.NewAuthManager(cfg.Auth.JWTSecret, !cfg.Runtime.Dev, "", cfg.Auth.TokenTTL)
	srv := web.NewServer(web.UseCases{
		Redemption: redemptionUC,
		Offer:      offerUC,
		Code:       codeUC,
		Supplier:   supplierUC,
		Tenant:     tenantUC,
		Citizen:    citizenUC,
		Benefit:    benefitUC,
		Invoice:    invoiceUC,
		Stats:      statsUC,
	}, auth, rateLimiter, locker, cfg, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      srv.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Background workers ----
	workerPool := worker.NewPool(cfg.Worker.InvoicePoolSize, logger)
	workerPool.Start(ctx)

	expiryWorker := sched.NewOfferExpiryWorker(cfg.Worker.OfferExpiryInterval, offerUC, logger)
	go func() { _ = expiryWorker.Run(ctx) }()

	retireWorker := sched.NewCodeRetireWorker(cfg.Worker.CodeRetireInterval, codeRepo, logger)
	go func() { _ = retireWorker.Run(ctx) }()

	invoiceWorker := sched.NewInvoiceWorker(cfg.Worker.InvoiceInterval, tenantRepo, supplierRepo, invoiceUC, workerPool, logger)
	go func() { _ = invoiceWorker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	workerPool.Stop()
}
