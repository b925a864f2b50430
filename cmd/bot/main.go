package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/trivia-quiz-bot/internal/config"
	"github.com/aliskhannn/trivia-quiz-bot/internal/delivery/rest"
	"github.com/aliskhannn/trivia-quiz-bot/internal/delivery/telegram"
	"github.com/aliskhannn/trivia-quiz-bot/internal/infra/opentdb"
	"github.com/aliskhannn/trivia-quiz-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/trivia-quiz-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/trivia-quiz-bot/internal/logger"
	"github.com/aliskhannn/trivia-quiz-bot/internal/random"
	"github.com/aliskhannn/trivia-quiz-bot/internal/repository"
	"github.com/aliskhannn/trivia-quiz-bot/internal/service"
	"github.com/aliskhannn/trivia-quiz-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn, err := cfg.DB.DSN()
	if err != nil {
		lg.Fatal("database url", zap.Error(err))
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
		PingTimeout:     cfg.DB.PingTimeout,
	})
	if err != nil {
		lg.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// Initialize repositories.
	userRepo := pgrepo.NewUserRepository(pool)
	resultRepo := pgrepo.NewResultRepository(pool)
	categoryRepo := repository.NewCategoryRepository()

	fallbackRepo, err := loadFallback(cfg.FallbackPath)
	if err != nil {
		lg.Fatal("failed to load fallback questions", zap.Error(err))
	}

	rng := random.NewSeeded()

	var remote service.RemoteQuestionClient
	if cfg.Trivia.BaseURL != "" {
		remote = opentdb.NewClient(cfg.Trivia.BaseURL, cfg.Trivia.Timeout,
			opentdb.WithEncoding(opentdb.Encoding(cfg.Trivia.Encoding)),
			opentdb.WithRand(rng),
		)
	} else {
		lg.Info("trivia api disabled, serving the fallback bank only")
	}

	// Initialize services.
	gameStorage := storage.NewGameStorage()

	userService := service.NewUserService(userRepo)
	gameService := service.NewGameService(
		gameStorage,
		service.NewQuestionSource(remote, fallbackRepo, categoryRepo, rng, lg),
		categoryRepo,
		service.NewLifelineSimulator(rng),
		resultRepo,
		cfg.Game.Rules(),
		lg,
	)
	leaderboardService := service.NewLeaderboardService(resultRepo, cfg.LeaderboardSize)
	resetService := service.NewResetService(postgres.NewTransactor(pool), gameStorage, lg)
	janitor := service.NewJanitor(gameStorage, cfg.Janitor.Schedule, cfg.Janitor.IdleTTL, lg)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.TelegramAPIToken != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
		if err != nil {
			lg.Fatal("failed to create telegram bot", zap.Error(err))
		}
		bot.Debug = cfg.BotDebug
		lg.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

		if _, err := bot.Request(tgbotapi.NewSetMyCommands(telegram.Commands...)); err != nil {
			lg.Warn("failed to set bot commands", zap.Error(err))
		}

		handler := telegram.NewHandler(
			bot,
			lg,
			userService,
			gameService,
			leaderboardService,
			resetService,
			cfg.LeaderboardSize,
		)
		gameService.SetNotifier(handler)

		g.Go(func() error {
			defer bot.StopReceivingUpdates()
			return handler.Run(ctx)
		})
	} else {
		lg.Info("TELEGRAM_API_TOKEN is empty, telegram bot disabled")
	}

	if cfg.HTTPAddr != "" {
		router := rest.NewRouter(
			rest.NewGameController(gameService, lg),
			rest.NewLeaderboardController(leaderboardService, lg),
			lg,
		)
		server := rest.NewServer(cfg.HTTPAddr, router, cfg.Shutdown.Timeout, lg)
		g.Go(func() error {
			return server.Run(ctx)
		})
	}

	g.Go(func() error {
		return gameService.Run(ctx)
	})
	g.Go(func() error {
		return janitor.Start(ctx)
	})

	if err := g.Wait(); err != nil {
		lg.Error("stopped with error", zap.Error(err))
		return
	}
	lg.Info("shutdown complete")
}

func loadFallback(path string) (*repository.QuestionRepository, error) {
	if path == "" {
		return repository.NewQuestionRepository()
	}
	return repository.NewQuestionRepositoryFromFile(path)
}
