// Package submission implements the Submission Engine (C10): the
// fill -> locate-button -> consent -> click -> await-result state machine
// that drives a Browser Driver Interface page through to a Verdict.
package submission

import "time"

// Budgets holds the time budget matrix named in SPEC_FULL.md §5. Every
// suspension point in Engine.Run is bounded by one of these.
type Budgets struct {
	PageLoad           time.Duration
	ElementWait        time.Duration
	Click              time.Duration
	PreProcessing      time.Duration
	DynamicMessageWait time.Duration
	DOMMonitoring      time.Duration
	JSExecution        time.Duration
}

// DefaultBudgets matches the matrix in SPEC_FULL.md §5.
func DefaultBudgets() Budgets {
	return Budgets{
		PageLoad:           15 * time.Second,
		ElementWait:        15 * time.Second,
		Click:              5 * time.Second,
		PreProcessing:      30 * time.Second,
		DynamicMessageWait: 15 * time.Second,
		DOMMonitoring:      10 * time.Second,
		JSExecution:        8 * time.Second,
	}
}

const maxConsentAttempts = 3
const maxConfirmationHops = 3
