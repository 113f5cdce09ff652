package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/ignatzorin/services-marketplace/internal/config"
	httpHandlers "github.com/ignatzorin/services-marketplace/internal/http/handlers"
	httpRouter "github.com/ignatzorin/services-marketplace/internal/http/router"
	"github.com/ignatzorin/services-marketplace/internal/logger"
	"github.com/ignatzorin/services-marketplace/internal/metrics"
	"github.com/ignatzorin/services-marketplace/internal/repository"
	"github.com/ignatzorin/services-marketplace/internal/service"
	"github.com/ignatzorin/services-marketplace/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Хранилища агрегатов.
	jobRepo := repository.NewJobRepository()
	disputeRepo := repository.NewDisputeRepository()

	// Метрики жизненного цикла.
	lifecycleMetrics := metrics.NewLifecycleMetrics()

	// Вебсокеты.
	hub := ws.NewHub(ctx)
	go hub.Run()

	// Сервисы.
	jobService := service.NewJobService(jobRepo, lifecycleMetrics)
	quoteService := service.NewQuoteService(jobRepo, hub, lifecycleMetrics)
	awardService := service.NewAwardService(jobRepo, hub, lifecycleMetrics)
	milestoneService := service.NewMilestoneService(jobRepo, hub, lifecycleMetrics)
	disputeService := service.NewDisputeService(jobRepo, disputeRepo, hub, lifecycleMetrics, cfg.TeamInterventionDelay)

	// HTTP хэндлеры.
	jobHandler := httpHandlers.NewJobHandler(jobService)
	quoteHandler := httpHandlers.NewQuoteHandler(quoteService)
	awardHandler := httpHandlers.NewAwardHandler(awardService)
	milestoneHandler := httpHandlers.NewMilestoneHandler(milestoneService)
	disputeHandler := httpHandlers.NewDisputeHandler(disputeService)
	wsHandler := httpHandlers.NewWSHandler(hub)
	healthHandler := httpHandlers.NewHealthHandler()

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, jobHandler, quoteHandler, awardHandler, milestoneHandler, disputeHandler, wsHandler, healthHandler)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}
