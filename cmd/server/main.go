package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appaccess "github.com/crm/backend/internal/application/access"
	"github.com/crm/backend/internal/application/catalog"
	"github.com/crm/backend/internal/application/finance"
	"github.com/crm/backend/internal/application/identity"
	"github.com/crm/backend/internal/application/lead"
	"github.com/crm/backend/internal/application/partner"
	approute "github.com/crm/backend/internal/application/route"
	"github.com/crm/backend/internal/application/trade"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/oracle"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/crm/backend/internal/interfaces/http/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := oracle.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect oracle: %w", err)
	}
	defer db.Close()
	log.Info("oracle connected",
		zap.String("host", cfg.Database.Host),
		zap.String("service", cfg.Database.Service))

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	log.Info("redis connected", zap.String("host", cfg.Redis.Host))

	// Infrastructure.
	tokens := auth.NewJWTService(cfg.JWT)
	blacklist := auth.NewTokenBlacklist(rdb)

	bindingRepo := persistence.NewBindingRepository(db)
	permRepo := persistence.NewPermissionRepository(db)
	leadRepo := persistence.NewLeadRepository(db)
	activityRepo := persistence.NewActivityRepository(db)
	partnerRepo := persistence.NewPartnerRepository(db)
	orderRepo := persistence.NewOrderRepository(db)
	receivableRepo := persistence.NewReceivableRepository(db)
	routeRepo := persistence.NewRouteRepository(db)
	visitRepo := persistence.NewVisitRepository(db)
	catalogRepo := persistence.NewCatalogRepository(db)
	userRepo := persistence.NewUserRepository(db)

	// Application.
	resolver := appaccess.NewResolver(bindingRepo, log)
	permCatalog := appaccess.NewPermissionCatalog(permRepo, log)
	identitySvc := identity.NewService(userRepo, bindingRepo, tokens, blacklist, log)
	leadSvc := lead.NewService(leadRepo, activityRepo, log)
	partnerSvc := partner.NewService(partnerRepo)
	tradeSvc := trade.NewService(orderRepo)
	financeSvc := finance.NewService(receivableRepo)
	routeSvc := approute.NewService(routeRepo, visitRepo, log)
	catalogSvc := catalog.NewService(catalogRepo)

	// Interface.
	base := handler.NewBaseHandler(log)
	engine := router.New(
		router.Deps{
			Config:    cfg,
			Log:       log,
			Tokens:    tokens,
			Blacklist: blacklist,
			Resolver:  resolver,
			Catalog:   permCatalog,
		},
		router.Handlers{
			Auth:    handler.NewAuthHandler(base, identitySvc, permCatalog),
			Lead:    handler.NewLeadHandler(base, leadSvc),
			Partner: handler.NewPartnerHandler(base, partnerSvc),
			Trade:   handler.NewTradeHandler(base, tradeSvc, financeSvc),
			Route:   handler.NewRouteHandler(base, routeSvc),
			Catalog: handler.NewCatalogHandler(base, catalogSvc),
		},
	)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
