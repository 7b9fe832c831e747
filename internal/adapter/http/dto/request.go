package dto

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/fintracore/corebank/internal/domain"
	"github.com/fintracore/corebank/internal/usecase"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrAmbiguousRuleSelector is returned when a posting request names both an
// event code and a product, or neither.
var ErrAmbiguousRuleSelector = errors.New("exactly one of event_code or product_id must be set")

// PostEventRequest posts a business event. Exactly one of EventCode or
// ProductID selects the accounting rule.
type PostEventRequest struct {
	EventCode       string          `json:"event_code,omitempty"`
	ProductID       string          `json:"product_id,omitempty"`
	BranchID        string          `json:"branch_id"         validate:"required"`
	LiaisonBranchID string          `json:"liaison_branch_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"            validate:"required"`
	ValueDate       *time.Time      `json:"value_date,omitempty"`
	Narration       string          `json:"narration"         validate:"required,max=500"`
	MemberReference string          `json:"member_reference,omitempty"`
	ReferenceID     string          `json:"reference_id"      validate:"required"`
	Initiator       string          `json:"initiator,omitempty"`
}

// Validate checks field constraints and the rule-selector exclusivity.
func (r *PostEventRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if (r.EventCode == "") == (r.ProductID == "") {
		return ErrAmbiguousRuleSelector
	}
	return nil
}

// ToUseCaseInput converts to use case input. actor wins over the request's
// initiator field when the caller is authenticated.
func (r *PostEventRequest) ToUseCaseInput(actor string) usecase.EventPostingInput {
	if actor == "" {
		actor = r.Initiator
	}
	valueDate := time.Now().UTC()
	if r.ValueDate != nil {
		valueDate = *r.ValueDate
	}
	return usecase.EventPostingInput{
		ValueDate: valueDate,
		Context: usecase.PostingContext{
			EventCode:       r.EventCode,
			ProductID:       r.ProductID,
			BranchID:        r.BranchID,
			LiaisonBranchID: r.LiaisonBranchID,
			Actor:           actor,
		},
		Narration:       r.Narration,
		MemberReference: r.MemberReference,
		ReferenceID:     r.ReferenceID,
		Amount:          r.Amount,
	}
}

// PostTransferRequest posts an inter-branch transfer: two chained postings
// routed through the liaison accounts of the two branches.
type PostTransferRequest struct {
	EventCode           string          `json:"event_code"            validate:"required"`
	SourceBranchID      string          `json:"source_branch_id"      validate:"required"`
	DestinationBranchID string          `json:"destination_branch_id" validate:"required,nefield=SourceBranchID"`
	Amount              decimal.Decimal `json:"amount"                validate:"required"`
	ValueDate           *time.Time      `json:"value_date,omitempty"`
	Narration           string          `json:"narration"             validate:"required,max=500"`
	MemberReference     string          `json:"member_reference,omitempty"`
	ReferenceID         string          `json:"reference_id"          validate:"required"`
	Initiator           string          `json:"initiator,omitempty"`
}

// Validate checks field constraints.
func (r *PostTransferRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *PostTransferRequest) ToUseCaseInput(actor string) usecase.TransferInput {
	if actor == "" {
		actor = r.Initiator
	}
	valueDate := time.Now().UTC()
	if r.ValueDate != nil {
		valueDate = *r.ValueDate
	}
	return usecase.TransferInput{
		ValueDate:           valueDate,
		EventCode:           r.EventCode,
		Narration:           r.Narration,
		MemberReference:     r.MemberReference,
		ReferenceID:         r.ReferenceID,
		SourceBranchID:      r.SourceBranchID,
		DestinationBranchID: r.DestinationBranchID,
		Actor:               actor,
		Amount:              r.Amount,
	}
}

// PostManualRequest applies a single adjustment leg to one account.
type PostManualRequest struct {
	AccountID   string          `json:"account_id"   validate:"required"`
	Operation   string          `json:"operation"    validate:"required,oneof=DEBIT CREDIT"`
	Amount      decimal.Decimal `json:"amount"       validate:"required"`
	ValueDate   *time.Time      `json:"value_date,omitempty"`
	Narration   string          `json:"narration"    validate:"required,max=500"`
	ReferenceID string          `json:"reference_id" validate:"required"`
	Initiator   string          `json:"initiator,omitempty"`
}

// Validate checks field constraints.
func (r *PostManualRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *PostManualRequest) ToUseCaseInput(actor string) usecase.ManualPostingInput {
	if actor == "" {
		actor = r.Initiator
	}
	valueDate := time.Now().UTC()
	if r.ValueDate != nil {
		valueDate = *r.ValueDate
	}
	return usecase.ManualPostingInput{
		ValueDate:   valueDate,
		AccountID:   r.AccountID,
		Narration:   r.Narration,
		ReferenceID: r.ReferenceID,
		Initiator:   actor,
		Amount:      r.Amount,
		Operation:   domain.OperationType(r.Operation),
	}
}
