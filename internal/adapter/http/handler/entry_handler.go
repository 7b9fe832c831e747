package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fintracore/corebank/internal/adapter/http/dto"
	"github.com/fintracore/corebank/internal/usecase"
)

// EntryHandler handles accounting-entry HTTP requests.
type EntryHandler struct {
	entryUC *usecase.EntryUseCase
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC *usecase.EntryUseCase) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// ListByReference lists the entries generated under one posting reference.
func (h *EntryHandler) ListByReference(w http.ResponseWriter, r *http.Request) {
	referenceID := chi.URLParam(r, "referenceID")
	if referenceID == "" {
		writeError(w, http.StatusBadRequest, "missing reference ID", "")
		return
	}

	entries, err := h.entryUC.GetEntriesByReference(r.Context(), referenceID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// ListByAccount lists the entries touching one account, newest first. The
// path parameter is the account's composite unique number.
func (h *EntryHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "id")
	if number == "" {
		writeError(w, http.StatusBadRequest, "missing account number", "")
		return
	}

	entries, err := h.entryUC.GetEntriesByAccount(r.Context(), usecase.GetEntriesByAccountInput{
		AccountNumberCU: number,
		Limit:           parseIntQuery(r, "limit", 0),
		Offset:          parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}
