package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/fintracore/corebank/internal/adapter/http/handler"
	"github.com/fintracore/corebank/internal/adapter/http/middleware"
	"github.com/fintracore/corebank/internal/infrastructure/auth"
	"github.com/fintracore/corebank/internal/infrastructure/metrics"
	"github.com/fintracore/corebank/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	PostingHandler   *handler.PostingHandler
	AccountHandler   *handler.AccountHandler
	EntryHandler     *handler.EntryHandler
	ReportHandler    *handler.ReportHandler
	LedgerHandler    *handler.LedgerHandler
	AuthHandler      *handler.AuthHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	JWTManager       *auth.JWTManager
	AuthEnabled      bool
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	if cfg.AuthHandler != nil {
		r.Post("/auth/login", cfg.AuthHandler.Login)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			if cfg.AuthEnabled {
				r.Use(middleware.AuthMiddleware(cfg.JWTManager))
			} else {
				r.Use(middleware.OptionalAuth(cfg.JWTManager))
			}
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore).WithMetrics(cfg.Metrics)
			r.Use(idempotencyMiddleware.Wrap)
		}

		if cfg.AuthHandler != nil {
			r.Get("/auth/me", cfg.AuthHandler.GetCurrentTeller)
		}

		// Postings
		r.Route("/postings", func(r chi.Router) {
			if cfg.AuthEnabled {
				r.Use(middleware.RequireRole(auth.RoleTeller))
			}
			r.Post("/", cfg.PostingHandler.PostEvent)
			r.Post("/transfer", cfg.PostingHandler.PostTransfer)

			r.Group(func(r chi.Router) {
				if cfg.AuthEnabled {
					r.Use(middleware.RequireRole(auth.RoleSupervisor))
				}
				r.Post("/manual", cfg.PostingHandler.PostManual)
			})
		})

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/entries", cfg.EntryHandler.ListByAccount)
		})

		// Entries
		r.Get("/entries/{referenceID}", cfg.EntryHandler.ListByReference)

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/trial-balance", cfg.ReportHandler.TrialBalance)
			r.Get("/trial-balance-6", cfg.ReportHandler.TrialBalance6)
			r.Get("/balance-sheet", cfg.ReportHandler.BalanceSheet)
			r.Get("/income-expense", cfg.ReportHandler.IncomeExpense)
		})

		// Ledger verification
		r.Route("/ledger", func(r chi.Router) {
			r.Get("/references/{referenceID}/validation", cfg.LedgerHandler.ValidateReference)
			r.Get("/consistency", cfg.LedgerHandler.CheckConsistency)
		})
	})

	return r
}
