package guard

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/youvandra/aegis-protocol/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNormalizeAddress(t *testing.T) {
	if got := NormalizeAddress("  0xABCdef  "); got != "0xabcdef" {
		t.Errorf("NormalizeAddress = %q, want %q", got, "0xabcdef")
	}
}

func TestSelfTransfer_CaseInsensitive(t *testing.T) {
	if err := SelfTransfer("0xAbC123", "0xabc123"); err == nil {
		t.Error("expected self-transfer rejection for same address with different casing")
	}
	if err := SelfTransfer("0xAbC123", "0xABC123 "); err == nil {
		t.Error("expected self-transfer rejection despite trailing whitespace")
	}
	if err := SelfTransfer("0xabc123", "0xdef456"); err != nil {
		t.Errorf("distinct addresses rejected: %v", err)
	}
}

func TestPositiveAmount(t *testing.T) {
	if err := PositiveAmount(decimal.Zero); err == nil {
		t.Error("expected rejection of zero amount")
	}
	if err := PositiveAmount(dec("-5")); err == nil {
		t.Error("expected rejection of negative amount")
	}
	if err := PositiveAmount(dec("0.0001")); err != nil {
		t.Errorf("small positive amount rejected: %v", err)
	}
}

func TestFutureInstant(t *testing.T) {
	now := time.Now()

	if err := FutureInstant("expires_at", now, now); err == nil {
		t.Error("expected rejection of exactly-now instant")
	}
	if err := FutureInstant("expires_at", now.Add(-time.Second), now); err == nil {
		t.Error("expected rejection of past instant")
	}
	if err := FutureInstant("expires_at", now.Add(time.Microsecond), now); err != nil {
		t.Errorf("slightly future instant rejected: %v", err)
	}
}

func beneficiaries(shares map[string]string) []models.Beneficiary {
	var out []models.Beneficiary
	for id, pct := range shares {
		out = append(out, models.Beneficiary{
			Id:         id,
			Address:    "0x" + id,
			Percentage: dec(pct),
		})
	}
	return out
}

func TestPercentageAllocation_Add(t *testing.T) {
	existing := beneficiaries(map[string]string{"b1": "60", "b2": "30"})

	if err := PercentageAllocation(existing, "", dec("10")); err != nil {
		t.Errorf("exact fit rejected: %v", err)
	}
	if err := PercentageAllocation(existing, "", dec("10.01")); err == nil {
		t.Error("expected rejection above headroom")
	}
	if err := PercentageAllocation(existing, "", dec("0")); err == nil {
		t.Error("expected rejection of zero percentage")
	}
	if err := PercentageAllocation(nil, "", dec("100")); err != nil {
		t.Errorf("full allocation on empty plan rejected: %v", err)
	}
	if err := PercentageAllocation(nil, "", dec("100.5")); err == nil {
		t.Error("expected rejection above 100 on empty plan")
	}
}

func TestPercentageAllocation_EditExcludesOwnPriorShare(t *testing.T) {
	// b1 holds 60, b2 holds 30. Editing b1 leaves 70 of headroom.
	existing := beneficiaries(map[string]string{"b1": "60", "b2": "30"})

	if err := PercentageAllocation(existing, "b1", dec("70")); err != nil {
		t.Errorf("edit within headroom rejected: %v", err)
	}
	if err := PercentageAllocation(existing, "b1", dec("71")); err == nil {
		t.Error("expected rejection of edit above headroom")
	}
	// Without the exclusion only 10 would remain.
	if err := PercentageAllocation(existing, "", dec("70")); err == nil {
		t.Error("expected rejection when no beneficiary is excluded")
	}
}

func TestHeadroom(t *testing.T) {
	existing := beneficiaries(map[string]string{"b1": "60", "b2": "30"})

	if got := Headroom(existing, ""); !got.Equal(dec("10")) {
		t.Errorf("Headroom = %s, want 10", got)
	}
	if got := Headroom(existing, "b2"); !got.Equal(dec("40")) {
		t.Errorf("Headroom excluding b2 = %s, want 40", got)
	}
	if got := Headroom(nil, ""); !got.Equal(dec("100")) {
		t.Errorf("Headroom of empty plan = %s, want 100", got)
	}
}

func TestDuplicateBeneficiary(t *testing.T) {
	existing := []models.Beneficiary{
		{Id: "b1", Address: "0xAAA"},
		{Id: "b2", Address: "0xBBB"},
	}

	if err := DuplicateBeneficiary(existing, "", "0xaaa"); err == nil {
		t.Error("expected case-insensitive duplicate rejection")
	}
	if err := DuplicateBeneficiary(existing, "b1", "0xAAA"); err != nil {
		t.Errorf("editing a row back to its own address rejected: %v", err)
	}
	if err := DuplicateBeneficiary(existing, "b1", "0xBBB"); err == nil {
		t.Error("expected rejection of edit onto another row's address")
	}
	if err := DuplicateBeneficiary(existing, "", "0xCCC"); err != nil {
		t.Errorf("fresh address rejected: %v", err)
	}
}
