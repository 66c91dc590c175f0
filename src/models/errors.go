package models

import (
	"fmt"
)

// UnitsEpsilon absorbs float rounding when comparing unit balances. A
// withdrawal of "everything" computed as amount/nav may differ from the
// stored balance in the last bits; anything inside this band is equal.
const UnitsEpsilon = 1e-9

// ExceedsAvailable reports whether requested is over available by more than
// the rounding tolerance.
func ExceedsAvailable(requested, available float64) bool {
	return requested > available+UnitsEpsilon
}

// ValidationError rejects malformed input: non-positive amounts, units or
// prices, or a missing required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// InsufficientUnitsError rejects a withdraw or sell that exceeds the
// available balance. Amounts are never clamped; the caller gets both sides
// of the comparison.
type InsufficientUnitsError struct {
	Requested float64
	Available float64
}

func (e *InsufficientUnitsError) Error() string {
	return fmt.Sprintf("insufficient units: have %g, want %g", e.Available, e.Requested)
}

// NotFoundError reports an unknown user, position or NAV record id.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError reports a concurrent update detected by the optimistic
// version check. Callers may retry.
type ConflictError struct {
	Entity string
	ID     string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s was modified concurrently", e.Entity, e.ID)
}

// DependencyUnavailableError reports that a required collaborator cannot
// serve the operation, e.g. an empty NAV ledger when a conversion is needed.
type DependencyUnavailableError struct {
	Dependency string
	Reason     string
}

func (e *DependencyUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %s", e.Dependency, e.Reason)
}
