// Package guard holds the cross-cutting validation rules shared by the
// relay, stream, and legacy flows. Every guard runs before any store write
// and returns a *ValidationError describing the rejected input.
package guard

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/youvandra/aegis-protocol/internal/models"
)

// ValidationError is a synchronously detected input problem, surfaced to the
// caller before any network call happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

var fullAllocation = decimal.NewFromInt(100)

// NormalizeAddress lower-cases and trims a wallet address for storage and
// comparison.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// SameAddress compares two addresses case-insensitively.
func SameAddress(a, b string) bool {
	return NormalizeAddress(a) == NormalizeAddress(b)
}

// SelfTransfer rejects a target address equal to the acting wallet. Applies
// identically to relay creation and stream member addition.
func SelfTransfer(actor, target string) error {
	if SameAddress(actor, target) {
		return invalid("address", "cannot target your own wallet address")
	}
	return nil
}

// RequiredAddress rejects an empty address.
func RequiredAddress(field, addr string) error {
	if NormalizeAddress(addr) == "" {
		return invalid(field, "address is required")
	}
	return nil
}

// PositiveAmount rejects zero and negative amounts.
func PositiveAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return invalid("amount", "must be greater than zero, got %s", amount.String())
	}
	return nil
}

// FutureInstant rejects any user-supplied instant not strictly later than
// now. The comparison is a plain instant comparison; one microsecond in the
// future is enough.
func FutureInstant(field string, t, now time.Time) error {
	if !t.After(now) {
		return invalid(field, "must be in the future")
	}
	return nil
}

// PercentageInRange rejects percentages outside (0, 100].
func PercentageInRange(p decimal.Decimal) error {
	if !p.IsPositive() || p.GreaterThan(fullAllocation) {
		return invalid("percentage", "must be between 0 and 100, got %s", p.String())
	}
	return nil
}

// Headroom returns how much percentage remains allocatable on a plan,
// excluding the beneficiary being edited (pass excludeId == "" when adding).
// Can be negative if the plan is already over-allocated.
func Headroom(existing []models.Beneficiary, excludeId string) decimal.Decimal {
	others := decimal.Zero
	for _, b := range existing {
		if excludeId != "" && b.Id == excludeId {
			continue
		}
		others = others.Add(b.Percentage)
	}
	return fullAllocation.Sub(others)
}

// PercentageAllocation rejects a percentage that would push the plan's total
// above 100. When editing, the edited beneficiary's own prior share is
// excluded from the other total before computing headroom.
func PercentageAllocation(existing []models.Beneficiary, excludeId string, p decimal.Decimal) error {
	if err := PercentageInRange(p); err != nil {
		return err
	}
	headroom := Headroom(existing, excludeId)
	if p.GreaterThan(headroom) {
		return invalid("percentage",
			"total allocation cannot exceed 100%%; up to %s%% is available", headroom.String())
	}
	return nil
}

// DuplicateBeneficiary rejects an address already present among a plan's
// beneficiaries, case-insensitively, excluding the record being edited.
func DuplicateBeneficiary(existing []models.Beneficiary, excludeId, address string) error {
	for _, b := range existing {
		if excludeId != "" && b.Id == excludeId {
			continue
		}
		if SameAddress(b.Address, address) {
			return invalid("address", "this wallet address is already a beneficiary")
		}
	}
	return nil
}
