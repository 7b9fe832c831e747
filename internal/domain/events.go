package domain

import "time"

// Event types
const (
	EventTypeEntryPosted    = "entry.posted"
	EventTypeAccountCreated = "account.created"
)

// Aggregate types
const (
	AggregateTypePosting = "posting"
	AggregateTypeAccount = "account"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
}
