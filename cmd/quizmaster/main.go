package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-master/internal/chart"
	"github.com/aliskhannn/quiz-master/internal/config"
	"github.com/aliskhannn/quiz-master/internal/delivery/telegram"
	"github.com/aliskhannn/quiz-master/internal/delivery/web"
	"github.com/aliskhannn/quiz-master/internal/event"
	"github.com/aliskhannn/quiz-master/internal/infra/postgres"
	"github.com/aliskhannn/quiz-master/internal/infra/postgres/repository"
	"github.com/aliskhannn/quiz-master/internal/infra/redis"
	"github.com/aliskhannn/quiz-master/internal/logger"
	"github.com/aliskhannn/quiz-master/internal/service"
	"github.com/aliskhannn/quiz-master/internal/storage"
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
	})
	if err != nil {
		lg.Fatal("connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		lg.Fatal("migrate database", zap.Error(err))
	}

	// Initialize repositories.
	userRepo := repository.NewUserRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	chapterRepo := repository.NewChapterRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)
	transactor := postgres.NewTransactor(pool)

	sessions, err := newSessionStore(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("session store", zap.Error(err))
	}

	var observers []service.AttemptObserver
	if cfg.Events.URL != "" {
		publisher, err := event.NewPublisher(cfg.Events.URL, cfg.Events.Exchange, lg)
		if err != nil {
			lg.Fatal("connect to message broker", zap.Error(err))
		}
		defer publisher.Close()
		observers = append(observers, publisher)
	}
	if cfg.Telegram.Token != "" {
		bot, err := telegram.NewBot(cfg.Telegram.Token)
		if err != nil {
			lg.Fatal("telegram bot", zap.Error(err))
		}
		lg.Info("telegram notifications enabled", zap.String("bot", bot.Self.UserName))
		observers = append(observers, telegram.NewNotifier(bot, cfg.Telegram.AdminChatID, lg))
	}

	charts := chart.NewRenderer()

	// Initialize services.
	userService := service.NewUserService(userRepo, lg)
	if err := userService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Passkey); err != nil {
		lg.Fatal("seed administrator", zap.Error(err))
	}

	recorder := service.NewResultRecorder(transactor, attemptRepo, subjectRepo, chapterRepo, charts, lg, observers...)
	quizService := service.NewQuizService(
		service.NewQuestionSampler(questionRepo, chapterRepo),
		recorder,
		sessions,
		service.QuizSettings{
			DefaultQuestions:     cfg.Quiz.DefaultQuestions,
			MaxQuestions:         cfg.Quiz.MaxQuestions,
			TimeLimitPerQuestion: cfg.Quiz.TimeLimitPerQuestion,
		},
		lg,
	)

	handler := web.NewHandler(web.Services{
		Auth:     service.NewAuthService(userRepo, sessions, lg),
		Quiz:     quizService,
		Users:    userService,
		Catalog:  service.NewCatalogService(subjectRepo, chapterRepo, questionRepo),
		Import:   service.NewImportService(subjectRepo, chapterRepo, questionRepo, lg),
		Progress: service.NewProgressService(userRepo, subjectRepo, chapterRepo, questionRepo, attemptRepo, statsRepo, charts, lg),
	}, web.CookieConfig{
		Name:   cfg.HTTP.CookieName,
		Secure: cfg.HTTP.CookieSecure,
		TTL:    cfg.HTTP.SessionTTL,
	}, lg)

	router, err := web.NewRouter(handler, cfg.HTTP.AllowedOrigins, lg)
	if err != nil {
		lg.Fatal("build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Info("http server started", zap.String("addr", cfg.HTTP.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("http server", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	lg.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("http server shutdown", zap.Error(err))
	}
}

// newSessionStore uses Redis when it is configured and an in-memory store
// swept in the background otherwise.
func newSessionStore(ctx context.Context, cfg *config.Config, lg *zap.Logger) (service.SessionStore, error) {
	if cfg.Redis.URL != "" {
		client, err := redis.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		context.AfterFunc(ctx, func() { _ = client.Close() })
		lg.Info("sessions stored in redis")
		return redis.NewSessionStore(client, cfg.HTTP.SessionTTL), nil
	}

	sessions := storage.NewSessionStorage(cfg.HTTP.SessionTTL, lg)
	if err := sessions.StartSweeper(ctx, "@every 10m"); err != nil {
		return nil, err
	}
	lg.Info("sessions stored in memory")
	return sessions, nil
}
