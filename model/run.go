package model

import "time"

// RunOutcome is how a pipeline run ended
type RunOutcome string

const (
	// RunEmpty means no employees were loaded
	RunEmpty RunOutcome = "empty"
	// RunSuppressed means the report buckets were empty and nothing was sent
	RunSuppressed RunOutcome = "suppressed"
	// RunSent means the report was delivered
	RunSent RunOutcome = "sent"
	// RunAlive means the diagnostic message was delivered instead of a report
	RunAlive RunOutcome = "alive"
	// RunDeliveryFailed means the sink rejected the message
	RunDeliveryFailed RunOutcome = "delivery_failed"
)

// Run is the result of one pipeline execution
type Run struct {
	AsOf      time.Time
	Kind      ReportKind
	Employees []Employee
	Reported  []Employee
	Summary   Summary
	Report    Report
	Generated bool
	Outcome   RunOutcome
	// DeliveryErr is set when Outcome is RunDeliveryFailed
	DeliveryErr error
}
