package domain

// ChartOfAccount is a static chart template owned by the master-data service.
type ChartOfAccount struct {
	ID                  string
	AccountNumber       string
	Description         string
	ParentAccountNumber string
	CategoryID          string
}

// ChartPosition is a per-branch instantiation template (management position)
// from which concrete accounts are created on demand. AccountNumber is the
// parent chart account's code, denormalized here because every account-number
// construction needs it.
type ChartPosition struct {
	ID             string
	PositionNumber string
	AccountNumber  string
	Description    string
	CategoryID     string
}

// Branch is master data owned by an external service, fetched over the
// network and cached.
type Branch struct {
	ID       string
	Code     string
	BankCode string
	Name     string
}
