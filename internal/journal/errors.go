package journal

import "fmt"

// ValidationKind discriminates validation failures so callers can map them
// to exit codes and machine-readable output without parsing messages.
type ValidationKind string

const (
	KindUnbalanced        ValidationKind = "unbalanced"
	KindUnknownAccount    ValidationKind = "unknown_account"
	KindNonPositiveAmount ValidationKind = "non_positive_amount"
	KindDuplicateEntry    ValidationKind = "duplicate_entry"
	KindFiscalYearClosed  ValidationKind = "fiscal_year_closed"
	KindInvalidEntry      ValidationKind = "invalid_entry"
)

// ValidationError reports rejected input. The ledger state is unchanged
// whenever one is returned.
type ValidationError struct {
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(kind ValidationKind, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a lookup for an entry or fiscal year that does not exist.
type NotFoundError struct {
	What string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.What, e.ID)
}

// ConsistencyKind labels an internal bookkeeping identity that failed to hold.
type ConsistencyKind string

const (
	KindTrialBalanceMismatch ConsistencyKind = "trial_balance_mismatch"
	KindBalanceSheetMismatch ConsistencyKind = "balance_sheet_mismatch"
)

// ConsistencyError reports stored data that violates a double-entry identity.
// It is diagnostic only; nothing attempts to repair the data.
type ConsistencyError struct {
	Kind    ConsistencyKind
	Message string
}

func (e *ConsistencyError) Error() string {
	return e.Message
}
