package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fintracore/corebank/internal/adapter/http/dto"
	"github.com/fintracore/corebank/internal/usecase"
)

// LedgerHandler handles ledger verification HTTP requests.
type LedgerHandler struct {
	ledgerUC *usecase.LedgerUseCase
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC *usecase.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// ValidateReference checks that one posting reference is balanced.
func (h *LedgerHandler) ValidateReference(w http.ResponseWriter, r *http.Request) {
	referenceID := chi.URLParam(r, "referenceID")
	if referenceID == "" {
		writeError(w, http.StatusBadRequest, "missing reference ID", "")
		return
	}

	balanced, err := h.ledgerUC.ValidateReference(r.Context(), referenceID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to validate reference", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerCheckResponse{Balanced: balanced})
}

// CheckConsistency compares the ledger-wide debit and credit column totals.
// An inconsistent ledger is a valid check outcome, not a server error.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	balanced, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil && !errors.Is(err, usecase.ErrInconsistentLedger) {
		writeError(w, mapDomainError(err), "failed to check ledger consistency", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerCheckResponse{Balanced: balanced})
}
