package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/crm-service/internal/api/http"
	"github.com/spec-kit/crm-service/internal/api/http/handlers"
	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/config"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/observability"
	"github.com/spec-kit/crm-service/internal/persistence"
	"github.com/spec-kit/crm-service/internal/realtime"
	"github.com/spec-kit/crm-service/internal/repository"
	"github.com/spec-kit/crm-service/internal/service"
	"github.com/spec-kit/crm-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var feed realtime.Feed
	if cfg.Realtime.Enabled {
		feed = realtime.NewRedisFeed(redis.ClientHandle(), cfg.Realtime.ChannelPrefix, logger)
	} else {
		feed = realtime.NewRedisFeed(nil, cfg.Realtime.ChannelPrefix, logger)
	}
	defer feed.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	referralRepo := repository.NewReferralRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	contractRepo := repository.NewContractRepository(pool)
	introductionRepo := repository.NewIntroductionRepository(pool)
	introReferralRepo := repository.NewIntroductionReferralRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL())
	sessions := auth.NewSessionStore(cfg.Auth.SessionTTL(), nil)
	defer sessions.Close()
	authMiddleware := auth.NewAuthMiddleware(tokens, sessions, userRepo)

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo: userRepo,
		Tokens:   tokens,
		Sessions: sessions,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		ReferralRepo: referralRepo,
		CustomerRepo: customerRepo,
		ContractRepo: contractRepo,
		Dispatcher:   dispatcher,
	})
	referralService := service.NewReferralService(service.ReferralDependencies{
		TicketRepo:       ticketRepo,
		ReferralRepo:     referralRepo,
		UserRepo:         userRepo,
		IntroductionRepo: introductionRepo,
		IntroReferrals:   introReferralRepo,
		Dispatcher:       dispatcher,
		Logger:           logger,
	})
	introductionService := service.NewIntroductionService(service.IntroductionDependencies{
		IntroductionRepo: introductionRepo,
		CustomerRepo:     customerRepo,
		Dispatcher:       dispatcher,
	})
	customerService := service.NewCustomerService(service.CustomerDependencies{
		CustomerRepo: customerRepo,
		ContractRepo: contractRepo,
		Dispatcher:   dispatcher,
	})
	userService := service.NewUserService(service.UserDependencies{
		UserRepo:   userRepo,
		BcryptCost: cfg.Auth.BcryptCost,
	})

	service.NewNotificationService(logger).Register(dispatcher)
	worker.NewRealtimeWorker(feed, logger).Register(dispatcher)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, feed),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, referralService),
		Introductions:  handlers.NewIntroductionsHandler(introductionService, referralService),
		Customers:      handlers.NewCustomersHandler(customerService),
		Users:          handlers.NewUsersHandler(userService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
