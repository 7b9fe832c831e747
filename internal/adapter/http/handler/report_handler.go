package handler

import (
	"net/http"

	"github.com/fintracore/corebank/internal/adapter/http/dto"
	"github.com/fintracore/corebank/internal/usecase"
)

// ReportHandler handles reporting HTTP requests. All reports share the same
// query parameters: from, to (YYYY-MM-DD, inclusive), entity_id and
// entity_type (BRANCH or BANK).
type ReportHandler struct {
	reportingUC *usecase.ReportingUseCase
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportingUC *usecase.ReportingUseCase) *ReportHandler {
	return &ReportHandler{reportingUC: reportingUC}
}

// TrialBalance generates the 4-column trial balance.
func (h *ReportHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	input, ok := reportInput(w, r)
	if !ok {
		return
	}

	report, err := h.reportingUC.TrialBalance(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to generate trial balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TrialBalanceFromDomain(report))
}

// TrialBalance6 generates the 6-column trial balance.
func (h *ReportHandler) TrialBalance6(w http.ResponseWriter, r *http.Request) {
	input, ok := reportInput(w, r)
	if !ok {
		return
	}

	report, err := h.reportingUC.TrialBalance6(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to generate trial balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TrialBalance6FromDomain(report))
}

// BalanceSheet generates the balance sheet.
func (h *ReportHandler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	input, ok := reportInput(w, r)
	if !ok {
		return
	}

	report, err := h.reportingUC.BalanceSheet(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to generate balance sheet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceSheetFromDomain(report))
}

// IncomeExpense generates the income/expense statement.
func (h *ReportHandler) IncomeExpense(w http.ResponseWriter, r *http.Request) {
	input, ok := reportInput(w, r)
	if !ok {
		return
	}

	report, err := h.reportingUC.IncomeExpense(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to generate income/expense statement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.IncomeExpenseFromDomain(report))
}

func reportInput(w http.ResponseWriter, r *http.Request) (usecase.ReportInput, bool) {
	from, err := parseDateQuery(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report period", err.Error())
		return usecase.ReportInput{}, false
	}

	to, err := parseDateQuery(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report period", err.Error())
		return usecase.ReportInput{}, false
	}

	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "invalid report period", "to must not precede from")
		return usecase.ReportInput{}, false
	}

	entityType := usecase.EntityType(r.URL.Query().Get("entity_type"))
	if entityType == "" {
		entityType = usecase.EntityBank
	}

	entityID := r.URL.Query().Get("entity_id")
	if entityType == usecase.EntityBranch && entityID == "" {
		writeError(w, http.StatusBadRequest, "invalid report scope", "entity_id is required for BRANCH reports")
		return usecase.ReportInput{}, false
	}

	return usecase.ReportInput{
		From:       from,
		To:         to,
		EntityID:   entityID,
		EntityType: entityType,
	}, true
}
