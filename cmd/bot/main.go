package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gatebot/internal/config"
	"gatebot/internal/gate"
	"gatebot/internal/handler"
	"gatebot/internal/metrics"
	"gatebot/internal/middleware"
	"gatebot/internal/repository"
	"gatebot/internal/repository/postgres"
	"gatebot/internal/server"
	"gatebot/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	tele "gopkg.in/telebot.v3"
)

// statsInterval is how often the users gauge is refreshed
const statsInterval = time.Minute

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting gatebot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully",
		zap.String("store", cfg.StoreBackend),
		zap.Bool("password", cfg.BotPassword != ""),
		zap.Duration("start_ttl", cfg.StartTTL),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open persistence and run migrations
	store, err := repository.Open(ctx, cfg, repository.OpenOptions{
		Migrate: true,
		Connect: postgres.DefaultConnectOptions,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer store.Close()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Load the oracle before the gate can see it
	oracleOpts := []service.OracleOption{service.WithStartTTL(cfg.StartTTL)}
	if store.Repo != nil {
		oracleOpts = append(oracleOpts, service.WithRepository(store.Repo))
	}
	oracle := service.NewOracle(logger, oracleOpts...)
	if err := oracle.Load(ctx); err != nil {
		logger.Fatal("Failed to load users", zap.Error(err))
	}
	gate.Install(oracle)
	defer gate.Install(nil)

	logger.Info("Gate installed")

	// Initialize services
	startService := service.NewStartService(oracle, cfg.BotPassword, logger)
	statsService := service.NewStatsService(oracle, m, logger)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("Handler failed", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized", zap.String("username", bot.Me.Username))

	// Initialize handler
	g := middleware.NewGate(gate.Default(), logger,
		middleware.WithMetrics(m),
		middleware.WithCallbackEdit(cfg.CallbackEdit),
	)
	h := handler.NewHandler(bot, startService, oracle, g, cfg.AdminIDs, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		runStatsJob(ctx, statsService, logger)
		return nil
	})

	if cfg.MetricsAddr != "" {
		group.Go(func() error {
			return server.Run(ctx, cfg.MetricsAddr, server.NewRouter(gate.Default(), reg), logger)
		})
	}

	group.Go(func() error {
		logger.Info("Bot started successfully")
		bot.Start()
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received, stopping bot...")
		bot.Stop()
		return nil
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Bot exited with error", zap.Error(err))
		return
	}

	logger.Info("Bot stopped gracefully")
}

// runStatsJob refreshes the users gauge periodically
func runStatsJob(ctx context.Context, statsService *service.StatsService, logger *zap.Logger) {
	// Collect once at startup
	statsService.Collect()

	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stats job stopped")
			return
		case <-ticker.C:
			statsService.Collect()
		}
	}
}
