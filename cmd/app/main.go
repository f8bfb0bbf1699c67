package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/asquebay/meal-ticket-service/internal/config"
	"github.com/asquebay/meal-ticket-service/internal/eligibility"
	"github.com/asquebay/meal-ticket-service/internal/lib/logger"
	"github.com/asquebay/meal-ticket-service/internal/repository/cache"
	"github.com/asquebay/meal-ticket-service/internal/repository/postgres"
	"github.com/asquebay/meal-ticket-service/internal/service"
	httptransport "github.com/asquebay/meal-ticket-service/internal/transport/http"
	"github.com/asquebay/meal-ticket-service/internal/transport/kafka"
)

func main() {
	// 1. Инициализация конфигурации
	cfg := config.MustLoad(config.Path())

	// 2. Инициализация логгера
	log := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	log.Info("starting meal-ticket-service", slog.String("log_level", cfg.Logger.Level))

	// 3. Движок правил заказа
	categoryKey, err := eligibility.ParseCategoryKey(cfg.Eligibility.CategoryMatch)
	if err != nil {
		log.Error("invalid eligibility config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	engine := eligibility.New(categoryKey)
	log.Info("eligibility engine initialized", slog.String("category_match", cfg.Eligibility.CategoryMatch))

	// 4. Инициализация репозиториев (БД)
	initCtx := context.Background()
	dbpool, err := postgres.New(initCtx, cfg.Postgres)
	if err != nil {
		log.Error("failed to connect to postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbpool.Close()
	log.Info("successfully connected to postgres")

	menuRepo := postgres.NewMenuRepository(dbpool)
	orderRepo := postgres.NewOrderRepository(dbpool)

	// 5. Кафка: продюсер принятых заказов
	publisher := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.AcceptedTopic, log)

	// 6. Сервисный слой
	menuSvc := service.NewMenuService(menuRepo, cache.NewMenuCache(), engine, log)
	orderSvc := service.NewOrderService(menuSvc, orderRepo, cache.NewOrderCache(), publisher, engine, log)

	// 7. Прогрев кэша меню при старте
	if err := menuSvc.RestoreCache(initCtx); err != nil {
		// не фатальная ошибка, меню догрузится по первому запросу
		log.Error("failed to restore menu cache", slog.String("error", err.Error()))
	}

	// 8. Консьюмер заявок с кухонных терминалов
	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.SubmissionsTopic, cfg.Kafka.GroupID, orderSvc, log)
	ctx, cancel := context.WithCancel(context.Background())
	go consumer.Run(ctx)

	// 9. HTTP-сервер
	handler := httptransport.NewHandler(menuSvc, orderSvc, engine, log)
	httpServer := httptransport.NewServer(cfg.HTTPServer, handler)
	log.Info("starting http server", slog.String("addr", httpServer.Addr()))

	go func() {
		if err := httpServer.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed to start", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// 10. Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down application")
	cancel() // сигнал для консьюмера на завершение

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), httptransport.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", slog.String("error", err.Error()))
	}

	if err := consumer.Close(); err != nil {
		log.Error("error closing kafka consumer", slog.String("error", err.Error()))
	}

	if err := publisher.Close(); err != nil {
		log.Error("error closing kafka publisher", slog.String("error", err.Error()))
	}

	log.Info("application stopped")
}
