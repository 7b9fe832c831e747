package domain

// AccountingRuleEntry maps a business-event code (or a product book) to the
// chart positions of the two posting legs. Read-only configuration owned by
// the back-office parameterization module.
type AccountingRuleEntry struct {
	ID                     string
	EventCode              string
	ProductID              string
	DeterminationAccountID string        // chart management-position id of the determination leg
	BalancingAccountID     string        // chart management-position id of the balancing leg
	BookingDirection       OperationType // normal direction of the determination leg
	IsLiaisonRule          bool          // the balancing leg routes through a liaison account
}
