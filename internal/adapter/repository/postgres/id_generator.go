package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator issues IDs for postings, entries and audit records. ULIDs
// sort lexicographically by creation time, which keeps btree index locality
// when rows arrive in order.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate returns a new ULID string.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
