// Package api assembles the local HTTP API served to dashboard subscribers.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Portfolio-Dashboard/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Portfolio-Dashboard/internal/api/middleware"
	"github.com/ndewijer/Portfolio-Dashboard/internal/config"
	"github.com/ndewijer/Portfolio-Dashboard/internal/market"
	"github.com/ndewijer/Portfolio-Dashboard/internal/pipeline"
	"github.com/ndewijer/Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Portfolio-Dashboard/internal/session"
)

// Services bundles everything the router serves.
type Services struct {
	System    *service.SystemService
	Auth      *service.AuthService
	Trade     *service.TradeService
	Watchlist *service.WatchlistService
	Stock     *service.StockService
	Search    *service.SearchService
	Typeahead *service.Debouncer
	Pipeline  *pipeline.Pipeline
	Market    *market.Feed
	Session   *session.Manager
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, logger *logrus.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	requireSession := custommiddleware.RequireSession(svc.Session)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
		})

		r.Route("/session", func(r chi.Router) {
			sessionHandler := handlers.NewSessionHandler(svc.Auth)
			r.Get("/", sessionHandler.Session)
			r.Post("/login", sessionHandler.Login)
			r.Post("/register", sessionHandler.Register)
			r.Post("/logout", sessionHandler.Logout)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(svc.Pipeline)
			r.Get("/", portfolioHandler.Portfolio)
			r.With(requireSession).Post("/refresh", portfolioHandler.Refresh)
		})

		r.Route("/stocks", func(r chi.Router) {
			stockHandler := handlers.NewStockHandler(svc.Stock, svc.Search, svc.Typeahead)
			r.Get("/search", stockHandler.Search)
			r.Get("/search/typeahead", stockHandler.Typeahead)
			r.Post("/search/typeahead", stockHandler.SubmitTypeahead)
			r.Get("/{symbol}", stockHandler.Details)
		})

		r.Get("/market", handlers.NewMarketHandler(svc.Market).Overview)

		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			transactionHandler := handlers.NewTransactionHandler(svc.Trade)
			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", transactionHandler.Transactions)
				r.Post("/buy", transactionHandler.Buy)
				r.Post("/sell", transactionHandler.Sell)
			})
			r.Post("/users/topup", transactionHandler.TopUp)

			r.Route("/watchlists", func(r chi.Router) {
				watchlistHandler := handlers.NewWatchlistHandler(svc.Watchlist)
				r.Get("/", watchlistHandler.Watchlists)
				r.Post("/", watchlistHandler.CreateWatchlist)

				r.Route("/{id}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateWatchlistIDMiddleware)
					r.Delete("/", watchlistHandler.DeleteWatchlist)
					r.Post("/stocks/{symbol}", watchlistHandler.AddStock)
					r.Delete("/stocks/{symbol}", watchlistHandler.RemoveStock)
				})
			})
		})
	})

	return r
}
