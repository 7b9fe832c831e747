package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fintracore/corebank/internal/adapter/http/dto"
	"github.com/fintracore/corebank/internal/adapter/http/handler"
	"github.com/fintracore/corebank/internal/domain"
	"github.com/fintracore/corebank/internal/usecase"
	"github.com/fintracore/corebank/internal/usecase/mocks"
)

func newReportRouter(t *testing.T) *chi.Mux {
	t.Helper()

	accountRepo := mocks.NewMockAccountRepository()
	entryRepo := mocks.NewMockEntryRepository()

	accountRepo.Put(&domain.Account{
		ID:               "acc-cash",
		AccountNumber:    "571000",
		AccountNumberCU:  "571000001001",
		Description:      "Cash in vault",
		BranchID:         "br-1",
		BeginningBalance: decimal.RequireFromString("200"),
	})
	accountRepo.Put(&domain.Account{
		ID:              "acc-fund",
		AccountNumber:   "101000",
		AccountNumberCU: "101000001001",
		Description:     "Branch fund",
		BranchID:        "br-1",
	})

	valueDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	_ = entryRepo.Create(nil, nil, &domain.AccountingEntry{
		ID:                  "e-1",
		ReferenceID:         "ref-1",
		DebitAccountNumber:  "571000001001",
		CreditAccountNumber: "101000001001",
		DrAmount:            decimal.RequireFromString("1000"),
		ValueDate:           valueDate,
	})
	_ = entryRepo.Create(nil, nil, &domain.AccountingEntry{
		ID:                  "e-2",
		ReferenceID:         "ref-1",
		DebitAccountNumber:  "571000001001",
		CreditAccountNumber: "101000001001",
		CrAmount:            decimal.RequireFromString("1000"),
		ValueDate:           valueDate,
	})

	h := handler.NewReportHandler(usecase.NewReportingUseCase(accountRepo, entryRepo, zerolog.Nop()))

	router := chi.NewRouter()
	router.Get("/reports/trial-balance", h.TrialBalance)
	router.Get("/reports/trial-balance-6", h.TrialBalance6)
	router.Get("/reports/balance-sheet", h.BalanceSheet)
	router.Get("/reports/income-expense", h.IncomeExpense)
	return router
}

func TestReportHandler_TrialBalance(t *testing.T) {
	router := newReportRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/reports/trial-balance?from=2026-03-01&to=2026-03-31&entity_type=BRANCH&entity_id=br-1", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.TrialBalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(resp.Rows))
	}
	if !resp.TotalDebit.Equal(resp.TotalCredit) {
		t.Errorf("trial balance must balance: %s vs %s", resp.TotalDebit, resp.TotalCredit)
	}
	if !resp.TotalDebit.Equal(decimal.RequireFromString("1000")) {
		t.Errorf("expected total 1000, got %s", resp.TotalDebit)
	}
}

func TestReportHandler_BalanceSheet(t *testing.T) {
	router := newReportRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/reports/balance-sheet?from=2026-03-01&to=2026-03-31", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.BalanceSheetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Assets) == 0 {
		t.Errorf("expected asset lines, got none")
	}
}

func TestReportHandler_RejectsBadPeriods(t *testing.T) {
	router := newReportRouter(t)

	tests := []struct {
		name string
		url  string
	}{
		{"missing from", "/reports/trial-balance?to=2026-03-31"},
		{"missing to", "/reports/trial-balance?from=2026-03-01"},
		{"unparsable date", "/reports/trial-balance?from=bad&to=2026-03-31"},
		{"inverted period", "/reports/trial-balance?from=2026-03-31&to=2026-03-01"},
		{"branch scope without entity", "/reports/trial-balance?from=2026-03-01&to=2026-03-31&entity_type=BRANCH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}
