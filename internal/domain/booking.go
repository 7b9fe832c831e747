package domain

import "github.com/shopspring/decimal"

// Booking describes one monetary movement between two resolved accounts.
// It lives only for the duration of a single posting call and is never
// persisted itself; the pair of AccountingEntry records is.
type Booking struct {
	Amount          decimal.Decimal
	Narration       string
	MemberReference string
	ReferenceID     string
	Operation       OperationType
	DebitAccountID  string
	CreditAccountID string
	InterBranch     bool
}
