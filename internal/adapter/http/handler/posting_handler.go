package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fintracore/corebank/internal/adapter/http/dto"
	"github.com/fintracore/corebank/internal/adapter/http/middleware"
	"github.com/fintracore/corebank/internal/usecase"
)

// PostingHandler handles posting-related HTTP requests.
type PostingHandler struct {
	postingUC *usecase.PostingUseCase
}

// NewPostingHandler creates a new PostingHandler.
func NewPostingHandler(postingUC *usecase.PostingUseCase) *PostingHandler {
	return &PostingHandler{postingUC: postingUC}
}

// PostEvent posts a business event through the accounting rule table.
func (h *PostingHandler) PostEvent(w http.ResponseWriter, r *http.Request) {
	var req dto.PostEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid posting request", err.Error())
		return
	}

	input := req.ToUseCaseInput(actorFromRequest(r))
	input.Context.Token = tokenFromRequest(r)

	entries, err := h.postingUC.PostEvent(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to post event", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.PostingFromEntries(req.ReferenceID, entries))
}

// PostTransfer posts an inter-branch transfer.
func (h *PostingHandler) PostTransfer(w http.ResponseWriter, r *http.Request) {
	var req dto.PostTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid transfer request", err.Error())
		return
	}

	input := req.ToUseCaseInput(actorFromRequest(r))
	input.Token = tokenFromRequest(r)

	entries, err := h.postingUC.PostTransfer(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to post transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.PostingFromEntries(req.ReferenceID, entries))
}

// PostManual applies a single manual adjustment leg.
func (h *PostingHandler) PostManual(w http.ResponseWriter, r *http.Request) {
	var req dto.PostManualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid manual posting request", err.Error())
		return
	}

	input := req.ToUseCaseInput(actorFromRequest(r))
	input.Token = tokenFromRequest(r)

	entry, err := h.postingUC.PostManual(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to post manual entry", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// actorFromRequest prefers the authenticated teller over any initiator named
// in the body.
func actorFromRequest(r *http.Request) string {
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		return claims.TellerID
	}
	return ""
}

// tokenFromRequest extracts the raw bearer token so audit rows record which
// credential authorized the posting.
func tokenFromRequest(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
