package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/mentors_bot/internal/app"
	"github.com/Freeeeeet/mentors_bot/internal/config"
	"github.com/Freeeeeet/mentors_bot/internal/controller"
	"github.com/Freeeeeet/mentors_bot/internal/controller/httpapi"
	"github.com/Freeeeeet/mentors_bot/internal/controller/render"
	"github.com/Freeeeeet/mentors_bot/internal/directory"
	"github.com/Freeeeeet/mentors_bot/internal/events"
	"github.com/Freeeeeet/mentors_bot/internal/repository"
	"github.com/Freeeeeet/mentors_bot/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Starting mentors bot",
		zap.Bool("telegram", cfg.TelegramToken != ""),
		zap.Bool("http", cfg.HTTP.Enabled),
		zap.Bool("history", cfg.HistoryEnabled()),
		zap.Bool("rabbitmq", cfg.RabbitMQ.Enabled))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Mentors bot stopped with error", zap.Error(err))
	}

	logger.Info("Mentors bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var opts []service.Option
	if cfg.Spreadsheet.Path != "" {
		opts = append(opts, service.WithSpreadsheetPath(cfg.Spreadsheet.Path))
	}

	// История загрузок в PostgreSQL
	if cfg.HistoryEnabled() {
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			return err
		}

		migrator, err := app.NewMigrator(pool, logger)
		if err != nil {
			return err
		}
		err = migrator.Run(ctx)
		migrator.Close()
		if err != nil {
			return err
		}

		opts = append(opts, service.WithHistory(repository.NewIngestionRepository(pool)))
		logger.Info("✅ Ingestion history enabled")
	}

	// События о загрузках в RabbitMQ
	if cfg.RabbitMQ.Enabled {
		publisher, err := events.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, logger)
		if err != nil {
			return err
		}
		defer publisher.Close()

		opts = append(opts, service.WithPublisher(publisher))
	}

	dir := directory.New(logger, directory.WithWorkers(cfg.Spreadsheet.Workers))
	mentorService := service.NewMentorService(dir, service.NewMetrics(registry), logger, opts...)

	scheduler := app.NewScheduler(mentorService, cfg.Spreadsheet.Path, cfg.Spreadsheet.ReloadInterval, logger)

	// Первичная загрузка; ошибка не мешает старту, справочник просто пуст
	if cfg.Spreadsheet.Path != "" {
		if _, err := mentorService.ReloadConfigured(ctx); err != nil {
			logger.Error("Initial spreadsheet import failed",
				zap.String("path", cfg.Spreadsheet.Path),
				zap.Error(err))
		} else {
			scheduler.MarkLoaded()
		}
	}

	scheduler.Start(ctx)
	defer scheduler.Stop()

	if cfg.HTTP.Enabled {
		if cfg.Environment == config.EnvProduction {
			gin.SetMode(gin.ReleaseMode)
		}

		router := httpapi.NewRouter(
			httpapi.NewMentorsController(mentorService, cfg.HTTP.APIToken, logger),
			registry,
			logger,
		)
		server := httpapi.NewServer(cfg.HTTP.Addr, router, logger)

		go func() {
			if err := server.Run(); err != nil {
				logger.Error("HTTP API failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP API shutdown failed", zap.Error(err))
			}
		}()
	}

	if cfg.TelegramToken == "" {
		logger.Info("Telegram token is empty, running HTTP API only")
		<-ctx.Done()
		return nil
	}

	renderer, err := render.NewAvailabilityRenderer(cfg.ImageCacheSize)
	if err != nil {
		return err
	}

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	botController := controller.NewBotController(b, mentorService, renderer, cfg.IsAdmin, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		// Меню команд не критично для работы
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	return botController.Start(ctx)
}
