package database

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/youvandra/aegis-protocol/internal/models"
	"github.com/youvandra/aegis-protocol/internal/store"
)

func TestUpsertLegacyPlan_ReplacesMoment(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	plan, err := service.UpsertLegacyPlan(ctx, store.UpsertPlanParams{
		WalletAddress: "0xOwner",
		MomentType:    models.MomentIfImGone,
		MomentValue:   "1year",
	})
	if err != nil {
		t.Fatalf("UpsertLegacyPlan failed: %v", err)
	}
	if plan.WalletAddress != "0xowner" {
		t.Errorf("wallet = %q, want lower-cased", plan.WalletAddress)
	}
	if plan.Activated {
		t.Error("new plan should not be activated")
	}

	// Replacing the moment keeps the same row.
	replaced, err := service.UpsertLegacyPlan(ctx, store.UpsertPlanParams{
		WalletAddress: "0xowner",
		MomentType:    models.MomentSpecificDate,
		MomentValue:   "2030-01-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("second UpsertLegacyPlan failed: %v", err)
	}
	if replaced.Id != plan.Id {
		t.Errorf("upsert created a new row: %s vs %s", replaced.Id, plan.Id)
	}
	if replaced.MomentType != models.MomentSpecificDate || replaced.MomentValue != "2030-01-01T00:00:00Z" {
		t.Errorf("moment not replaced: %s %s", replaced.MomentType, replaced.MomentValue)
	}
}

func TestGetLegacyPlan_NotFound(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := service.GetLegacyPlan(context.Background(), "0xnobody"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestBeneficiaryLifecycle(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	owner := "0xowner"

	created, err := service.CreateBeneficiary(ctx, store.CreateBeneficiaryParams{
		WalletAddress: owner,
		Name:          "Alice",
		Address:       "0xAlice",
		Percentage:    decimal.NewFromInt(60),
	})
	if err != nil {
		t.Fatalf("CreateBeneficiary failed: %v", err)
	}
	if created.Address != "0xalice" {
		t.Errorf("beneficiary address = %q, want lower-cased", created.Address)
	}

	updated, err := service.UpdateBeneficiary(ctx, store.UpdateBeneficiaryParams{
		Id:            created.Id,
		WalletAddress: owner,
		Name:          "Alice B",
		Address:       "0xalice",
		Percentage:    decimal.NewFromInt(80),
	})
	if err != nil {
		t.Fatalf("UpdateBeneficiary failed: %v", err)
	}
	if updated.Name != "Alice B" || !updated.Percentage.Equal(decimal.NewFromInt(80)) {
		t.Errorf("update not applied: %s %s", updated.Name, updated.Percentage)
	}

	list, err := service.ListBeneficiaries(ctx, owner)
	if err != nil {
		t.Fatalf("ListBeneficiaries failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("beneficiary count = %d, want 1", len(list))
	}

	if err := service.DeleteBeneficiary(ctx, created.Id, owner); err != nil {
		t.Fatalf("DeleteBeneficiary failed: %v", err)
	}

	list, err = service.ListBeneficiaries(ctx, owner)
	if err != nil {
		t.Fatalf("ListBeneficiaries after delete failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("beneficiary count after delete = %d, want 0", len(list))
	}
}

func TestBeneficiaryOwnerScoping(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	created, err := service.CreateBeneficiary(ctx, store.CreateBeneficiaryParams{
		WalletAddress: "0xowner",
		Name:          "Alice",
		Address:       "0xalice",
		Percentage:    decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("CreateBeneficiary failed: %v", err)
	}

	// Another wallet cannot update or delete someone else's beneficiary.
	_, err = service.UpdateBeneficiary(ctx, store.UpdateBeneficiaryParams{
		Id:            created.Id,
		WalletAddress: "0xintruder",
		Name:          "Hijacked",
		Address:       "0xalice",
		Percentage:    decimal.NewFromInt(1),
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("cross-owner update error = %v, want ErrNotFound", err)
	}

	if err := service.DeleteBeneficiary(ctx, created.Id, "0xintruder"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("cross-owner delete error = %v, want ErrNotFound", err)
	}
}
