package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/Portfolio-Dashboard/internal/api"
	"github.com/ndewijer/Portfolio-Dashboard/internal/backend"
	"github.com/ndewijer/Portfolio-Dashboard/internal/config"
	"github.com/ndewijer/Portfolio-Dashboard/internal/database"
	"github.com/ndewijer/Portfolio-Dashboard/internal/logging"
	"github.com/ndewijer/Portfolio-Dashboard/internal/market"
	"github.com/ndewijer/Portfolio-Dashboard/internal/pipeline"
	"github.com/ndewijer/Portfolio-Dashboard/internal/repository"
	"github.com/ndewijer/Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Portfolio-Dashboard/internal/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	// Open the session store
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db, logger); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}
	logger.WithField("path", cfg.Database.Path).Info("Connected to database")

	key, generated, err := session.LoadKey(cfg.Session.Key)
	if err != nil {
		logger.WithError(err).Fatal("Invalid SESSION_KEY")
	}
	if generated {
		logger.Warn("SESSION_KEY not set, persisted sessions will not survive a restart")
	}

	sess := session.NewManager(repository.NewSessionRepository(db), key, cfg.Session.TTL, logger)
	if err := sess.Init(context.Background()); err != nil {
		logger.WithError(err).Fatal("Failed to initialize session")
	}

	client := backend.NewClient(cfg.Backend.BaseURL, sess, &http.Client{Timeout: cfg.Backend.Timeout})

	// Start background refreshes
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pipe := pipeline.New(client, logger, cfg.Refresh.QuoteConcurrency)
	subscription := pipe.StartRefreshLoop(ctx, cfg.Refresh.Interval)

	feed := market.NewFeed(client, logger)
	scheduler, err := market.Schedule(ctx, feed, cfg.Refresh.MarketSchedule, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to schedule market feed")
	}

	// Create services
	searchService := service.NewSearchService(client, logger)
	typeahead := service.NewDebouncer(searchService, cfg.Refresh.SearchDebounce, nil)

	router := api.NewRouter(api.Services{
		System:    service.NewSystemService(db, sess, pipe),
		Auth:      service.NewAuthService(client, sess, subscription, logger),
		Trade:     service.NewTradeService(client, sess, subscription, logger),
		Watchlist: service.NewWatchlistService(client),
		Stock:     service.NewStockService(client, logger),
		Search:    searchService,
		Typeahead: typeahead,
		Pipeline:  pipe,
		Market:    feed,
		Session:   sess,
	}, cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.WithField("addr", cfg.Server.Addr).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	// No subscriber callbacks run after these return.
	subscription.Stop()
	scheduler.Stop()
	typeahead.Close()

	logger.Info("Server exited")
}
