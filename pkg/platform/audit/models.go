package audit

import "time"

// Event is emitted from domain logic to capture filing lifecycle actions. Keep
// it transport-agnostic so sinks can fan out.
type Event struct {
	Timestamp     time.Time
	Action        string
	FilingID      string
	TransactionID string
	PscType       string
	Etag          string
	RequestID     string
}

type AuditEvent string

const (
	EventFilingCreated     AuditEvent = "psc_filing_created"
	EventFilingUpdated     AuditEvent = "psc_filing_updated"
	EventFilingValidated   AuditEvent = "psc_filing_validated"
	EventTransactionLinked AuditEvent = "transaction_resource_linked"
)

// Published reports whether the event leaves the process. Validation checks
// are logged only.
func (e AuditEvent) Published() bool {
	switch e {
	case EventFilingCreated, EventFilingUpdated:
		return true
	default:
		return false
	}
}
