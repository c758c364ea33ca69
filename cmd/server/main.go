package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/taskhub/taskhub/internal/config"
	"github.com/taskhub/taskhub/internal/events"
	"github.com/taskhub/taskhub/internal/handlers"
	"github.com/taskhub/taskhub/internal/logging"
	"github.com/taskhub/taskhub/internal/repo"
	"github.com/taskhub/taskhub/internal/search"
	"github.com/taskhub/taskhub/internal/service"
	"github.com/taskhub/taskhub/internal/tokens"
	httpserver "github.com/taskhub/taskhub/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	var producer *events.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = events.NewProducer(configuration.KAFKA_ADDRESS)
	}

	var taskIndex *search.TaskIndex
	if configuration.ES_URL != "" {
		esClient, err := search.NewClient(configuration.ES_URL, configuration.ES_USER, configuration.ES_PASSWORD)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		taskIndex = &search.TaskIndex{ES: esClient, Index: "tasks"}
	}

	issuer := &tokens.Issuer{
		Secret:     []byte(configuration.JWT_SECRET),
		AccessTTL:  configuration.AccessTTL,
		RefreshTTL: configuration.RefreshTTL,
	}

	userRepo := repo.NewUserRepository(db)
	taskRepo := repo.NewTaskRepository(db)
	categoryRepo := repo.NewCategoryRepository(db)

	authService := &service.AuthService{Users: userRepo, Issuer: issuer, Producer: producer}
	taskService := &service.TaskService{Tasks: taskRepo, Categories: categoryRepo, Producer: producer, Index: taskIndex}
	categoryService := &service.CategoryService{Categories: categoryRepo}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())

	deps := httpserver.Deps{
		AuthService:     authService,
		AuthHandler:     &handlers.AuthHandler{Auth: authService},
		UserHandler:     &handlers.UserHandler{Auth: authService},
		TaskHandler:     &handlers.TaskHandler{Service: taskService},
		CategoryHandler: &handlers.CategoryHandler{Service: categoryService},
		SearchHandler:   &handlers.SearchHandler{Index: taskIndex},
		HealthHandler:   &handlers.HealthHandler{DB: db},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", configuration.PORT)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
