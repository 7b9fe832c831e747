package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintracore/corebank/internal/domain"
	"github.com/fintracore/corebank/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID                   string          `json:"id"`
	AccountNumber        string          `json:"account_number"`
	AccountNumberCU      string          `json:"account_number_cu"`
	AccountNumberNetwork string          `json:"account_number_network"`
	Description          string          `json:"description"`
	BranchID             string          `json:"branch_id"`
	LiaisonBranchID      *string         `json:"liaison_branch_id,omitempty"`
	DebitBalance         decimal.Decimal `json:"debit_balance"`
	CreditBalance        decimal.Decimal `json:"credit_balance"`
	CurrentBalance       decimal.Decimal `json:"current_balance"`
	BeginningBalance     decimal.Decimal `json:"beginning_balance"`
	Version              int64           `json:"version"`
	CreatedAt            time.Time       `json:"created_at"`
	ModifiedAt           time.Time       `json:"modified_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:                   a.ID,
		AccountNumber:        a.AccountNumber,
		AccountNumberCU:      a.AccountNumberCU,
		AccountNumberNetwork: a.AccountNumberNetwork,
		Description:          a.Description,
		BranchID:             a.BranchID,
		LiaisonBranchID:      a.LiaisonBranchID,
		DebitBalance:         a.DebitBalance,
		CreditBalance:        a.CreditBalance,
		CurrentBalance:       a.CurrentBalance,
		BeginningBalance:     a.BeginningBalance,
		Version:              a.Version,
		CreatedAt:            a.CreatedAt,
		ModifiedAt:           a.ModifiedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// EntryResponse represents an accounting entry in API responses.
type EntryResponse struct {
	ID                  string          `json:"id"`
	ReferenceID         string          `json:"reference_id"`
	EntryType           string          `json:"entry_type"`
	Status              string          `json:"status"`
	DebitAccountNumber  string          `json:"debit_account_number"`
	CreditAccountNumber string          `json:"credit_account_number"`
	Narration           string          `json:"narration"`
	MemberReference     string          `json:"member_reference,omitempty"`
	BranchID            string          `json:"branch_id"`
	Initiator           string          `json:"initiator"`
	DrAmount            decimal.Decimal `json:"dr_amount"`
	CrAmount            decimal.Decimal `json:"cr_amount"`
	Amount              decimal.Decimal `json:"amount"`
	EntryDate           time.Time       `json:"entry_date"`
	ValueDate           time.Time       `json:"value_date"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.AccountingEntry) *EntryResponse {
	return &EntryResponse{
		ID:                  e.ID,
		ReferenceID:         e.ReferenceID,
		EntryType:           string(e.EntryType),
		Status:              string(e.Status),
		DebitAccountNumber:  e.DebitAccountNumber,
		CreditAccountNumber: e.CreditAccountNumber,
		Narration:           e.Narration,
		MemberReference:     e.MemberReference,
		BranchID:            e.BranchID,
		Initiator:           e.Initiator,
		DrAmount:            e.DrAmount,
		CrAmount:            e.CrAmount,
		Amount:              e.Amount,
		EntryDate:           e.EntryDate,
		ValueDate:           e.ValueDate,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.AccountingEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// PostingResponse is the outcome of a posting call.
type PostingResponse struct {
	ReferenceID string           `json:"reference_id"`
	Entries     []*EntryResponse `json:"entries"`
}

// PostingFromEntries builds a posting response from generated entries.
func PostingFromEntries(referenceID string, entries []*domain.AccountingEntry) *PostingResponse {
	return &PostingResponse{
		ReferenceID: referenceID,
		Entries:     EntriesFromDomain(entries),
	}
}

// TrialBalanceRowResponse is one line of a 4-column trial balance.
type TrialBalanceRowResponse struct {
	AccountNumber    string          `json:"account_number"`
	Description      string          `json:"description"`
	BeginningBalance decimal.Decimal `json:"beginning_balance"`
	Debit            decimal.Decimal `json:"debit"`
	Credit           decimal.Decimal `json:"credit"`
	EndingBalance    decimal.Decimal `json:"ending_balance"`
}

// TrialBalanceResponse is the 4-column trial balance.
type TrialBalanceResponse struct {
	Rows        []TrialBalanceRowResponse `json:"rows"`
	TotalDebit  decimal.Decimal           `json:"total_debit"`
	TotalCredit decimal.Decimal           `json:"total_credit"`
}

// TrialBalanceFromDomain converts the use case report to a response.
func TrialBalanceFromDomain(tb *usecase.TrialBalance) *TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, row := range tb.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountNumber:    row.AccountNumber,
			Description:      row.Description,
			BeginningBalance: row.BeginningBalance,
			Debit:            row.Debit,
			Credit:           row.Credit,
			EndingBalance:    row.EndingBalance,
		}
	}
	return &TrialBalanceResponse{
		Rows:        rows,
		TotalDebit:  tb.TotalDebit,
		TotalCredit: tb.TotalCredit,
	}
}

// TrialBalance6RowResponse is one line of a 6-column trial balance.
type TrialBalance6RowResponse struct {
	AccountNumber   string          `json:"account_number"`
	Description     string          `json:"description"`
	BeginningDebit  decimal.Decimal `json:"beginning_debit"`
	BeginningCredit decimal.Decimal `json:"beginning_credit"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	EndingDebit     decimal.Decimal `json:"ending_debit"`
	EndingCredit    decimal.Decimal `json:"ending_credit"`
}

// TrialBalance6Response is the 6-column trial balance.
type TrialBalance6Response struct {
	Rows        []TrialBalance6RowResponse `json:"rows"`
	TotalDebit  decimal.Decimal            `json:"total_debit"`
	TotalCredit decimal.Decimal            `json:"total_credit"`
}

// TrialBalance6FromDomain converts the use case report to a response.
func TrialBalance6FromDomain(tb *usecase.TrialBalance6) *TrialBalance6Response {
	rows := make([]TrialBalance6RowResponse, len(tb.Rows))
	for i, row := range tb.Rows {
		rows[i] = TrialBalance6RowResponse{
			AccountNumber:   row.AccountNumber,
			Description:     row.Description,
			BeginningDebit:  row.BeginningDebit,
			BeginningCredit: row.BeginningCredit,
			Debit:           row.Debit,
			Credit:          row.Credit,
			EndingDebit:     row.EndingDebit,
			EndingCredit:    row.EndingCredit,
		}
	}
	return &TrialBalance6Response{
		Rows:        rows,
		TotalDebit:  tb.TotalDebit,
		TotalCredit: tb.TotalCredit,
	}
}

// BalanceSheetLineResponse is one account line of a balance-sheet section.
type BalanceSheetLineResponse struct {
	AccountNumber string          `json:"account_number"`
	Description   string          `json:"description"`
	Balance       decimal.Decimal `json:"balance"`
}

// BalanceSheetResponse is the balance sheet report.
type BalanceSheetResponse struct {
	Assets           []BalanceSheetLineResponse `json:"assets"`
	Liabilities      []BalanceSheetLineResponse `json:"liabilities"`
	TotalAssets      decimal.Decimal            `json:"total_assets"`
	TotalLiabilities decimal.Decimal            `json:"total_liabilities"`
	Equity           decimal.Decimal            `json:"equity"`
}

// BalanceSheetFromDomain converts the use case report to a response.
func BalanceSheetFromDomain(bs *usecase.BalanceSheet) *BalanceSheetResponse {
	return &BalanceSheetResponse{
		Assets:           balanceSheetLines(bs.Assets),
		Liabilities:      balanceSheetLines(bs.Liabilities),
		TotalAssets:      bs.TotalAssets,
		TotalLiabilities: bs.TotalLiabilities,
		Equity:           bs.Equity,
	}
}

func balanceSheetLines(lines []usecase.BalanceSheetLine) []BalanceSheetLineResponse {
	result := make([]BalanceSheetLineResponse, len(lines))
	for i, line := range lines {
		result[i] = BalanceSheetLineResponse{
			AccountNumber: line.AccountNumber,
			Description:   line.Description,
			Balance:       line.Balance,
		}
	}
	return result
}

// IncomeExpenseLineResponse is one account line of the income/expense report.
type IncomeExpenseLineResponse struct {
	AccountNumber string          `json:"account_number"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
}

// IncomeExpenseResponse is the income/expense statement.
type IncomeExpenseResponse struct {
	Revenue       []IncomeExpenseLineResponse `json:"revenue"`
	Expenses      []IncomeExpenseLineResponse `json:"expenses"`
	TotalRevenue  decimal.Decimal             `json:"total_revenue"`
	TotalExpenses decimal.Decimal             `json:"total_expenses"`
	NetResult     decimal.Decimal             `json:"net_result"`
}

// IncomeExpenseFromDomain converts the use case report to a response.
func IncomeExpenseFromDomain(st *usecase.IncomeExpenseStatement) *IncomeExpenseResponse {
	return &IncomeExpenseResponse{
		Revenue:       incomeExpenseLines(st.Revenue),
		Expenses:      incomeExpenseLines(st.Expenses),
		TotalRevenue:  st.TotalRevenue,
		TotalExpenses: st.TotalExpenses,
		NetResult:     st.NetResult,
	}
}

func incomeExpenseLines(lines []usecase.IncomeExpenseLine) []IncomeExpenseLineResponse {
	result := make([]IncomeExpenseLineResponse, len(lines))
	for i, line := range lines {
		result[i] = IncomeExpenseLineResponse{
			AccountNumber: line.AccountNumber,
			Description:   line.Description,
			Amount:        line.Amount,
		}
	}
	return result
}

// LedgerCheckResponse reports the outcome of a ledger verification.
type LedgerCheckResponse struct {
	Balanced bool `json:"balanced"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
