package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fintracore/corebank/internal/adapter/http/handler"
	"github.com/fintracore/corebank/internal/adapter/http/middleware"
	"github.com/fintracore/corebank/internal/infrastructure/auth"
	"github.com/fintracore/corebank/internal/usecase"
	"github.com/fintracore/corebank/internal/usecase/mocks"
)

func newTestRouter(t *testing.T, authEnabled bool) http.Handler {
	return NewRouter(newTestRouterConfig(t, authEnabled))
}

func newTestRouterConfig(t *testing.T, authEnabled bool) RouterConfig {
	t.Helper()

	accountRepo := mocks.NewMockAccountRepository()
	entryRepo := mocks.NewMockEntryRepository()
	logger := zerolog.Nop()

	resolver := usecase.NewResolverUseCase(
		mocks.NewMockRuleRepository(),
		mocks.NewMockChartRepository(),
		accountRepo,
		mocks.NewMockBranchService(),
		mocks.NewMockAccountCreator(accountRepo),
		mocks.NewMockIDGenerator(),
		logger,
		"br-1",
	)
	postingUC := usecase.NewPostingUseCase(
		mocks.NewMockTransactionManager(),
		accountRepo,
		entryRepo,
		mocks.NewMockOutboxRepository(),
		mocks.NewMockAuditRepository(),
		resolver,
		mocks.NewMockIDGenerator(),
		logger,
	)

	jwtManager := auth.NewJWTManager("test-secret", time.Minute)

	return RouterConfig{
		PostingHandler: handler.NewPostingHandler(postingUC),
		AccountHandler: handler.NewAccountHandler(usecase.NewAccountUseCase(accountRepo)),
		EntryHandler:   handler.NewEntryHandler(usecase.NewEntryUseCase(entryRepo)),
		ReportHandler:  handler.NewReportHandler(usecase.NewReportingUseCase(accountRepo, entryRepo, logger)),
		LedgerHandler:  handler.NewLedgerHandler(usecase.NewLedgerUseCase(mocks.NewMockLedgerRepository(), entryRepo)),
		AuthHandler:    handler.NewAuthHandler(jwtManager),
		HealthHandler:  handler.NewHealthHandler(nil, nil),
		JWTManager:     jwtManager,
		AuthEnabled:    authEnabled,
		Logger:         logger,
	}
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter(t, false)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"liveness", http.MethodGet, "/health", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"posting with bad body", http.MethodPost, "/api/v1/postings", "{not-json", http.StatusBadRequest},
		{"report without period", http.MethodGet, "/api/v1/reports/trial-balance", "", http.StatusBadRequest},
		{"ledger consistency", http.MethodGet, "/api/v1/ledger/consistency", "", http.StatusOK},
		{"accounts list", http.MethodGet, "/api/v1/accounts", "", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/v1/nothing", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("%s %s = %d, want %d: %s", tt.method, tt.path, rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRouterRateLimiterThrottles(t *testing.T) {
	cfg := newTestRouterConfig(t, false)
	cfg.RateLimiter = middleware.NewRateLimiter(1, 1)
	router := NewRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "1.2.3.4:1234"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "1.2.3.4:1234"
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec.Code)
	}
}

func TestRouterRequiresAuthWhenEnabled(t *testing.T) {
	router := newTestRouter(t, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	// Login is outside the protected subtree.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"teller_id":"teller-1","password":"teller123"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from login, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterManualPostingNeedsSupervisor(t *testing.T) {
	router := newTestRouter(t, true)
	jwtManager := auth.NewJWTManager("test-secret", time.Minute)

	tellerToken, err := jwtManager.Generate("teller-1", "br-1", auth.RoleTeller)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/postings/manual", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer "+tellerToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for teller on manual posting, got %d", rec.Code)
	}
}
