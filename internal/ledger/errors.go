package ledger

import "fmt"

// ValidationError reports a malformed entity or an illegal mutation. The
// mutation is rejected before any state change; callers may retry with
// corrected input.
type ValidationError struct {
	// Field names the offending field or rule.
	Field string
	// Reason describes what was wrong with it.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an operation referencing an unknown entity ID.
type NotFoundError struct {
	// Kind is the entity kind, e.g. "settlement" or "group".
	Kind string
	// ID is the identifier that did not match anything.
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ImbalancedSplitError reports an unequal split whose participant shares do
// not sum to the expense amount within the 0.01 tolerance.
type ImbalancedSplitError struct {
	// Amount is the expense amount.
	Amount float64
	// ShareSum is what the participant shares actually add up to.
	ShareSum float64
}

func (e *ImbalancedSplitError) Error() string {
	return fmt.Sprintf("participant shares sum to %.2f, expense amount is %.2f", e.ShareSum, e.Amount)
}
