package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is one record in the audit trail. Every posting error and every
// business-significant posting is audited with its offending payload.
type AuditLog struct {
	CreatedAt  time.Time
	Payload    JSON
	ID         string
	Actor      string
	Context    string // operation label, e.g. "posting.post", "resolver.resolve"
	Message    string
	Severity   string
	Token      string
	StatusCode int
}

// JSON is a type alias for JSON data
type JSON map[string]any

// Audit context labels.
const (
	AuditContextPosting  = "posting.post"
	AuditContextTransfer = "posting.transfer"
	AuditContextResolver = "resolver.resolve"
	AuditContextReport   = "report.generate"
)

// Audit severities.
const (
	AuditSeverityInfo  = "info"
	AuditSeverityError = "error"
)

// MarshalState converts a domain object to JSON for audit logging. Non-object
// payloads, such as entry slices, are wrapped so the audit row still carries
// the full state.
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err == nil {
		return result
	}

	var items []any
	if err := json.Unmarshal(data, &items); err == nil {
		return JSON{"items": items}
	}

	return JSON{"value": string(data)}
}
