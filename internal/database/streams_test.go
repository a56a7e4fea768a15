package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/youvandra/aegis-protocol/internal/models"
	"github.com/youvandra/aegis-protocol/internal/store"
)

func createTestGroup(t *testing.T, service *Service, owner string) *models.Group {
	t.Helper()

	releaseDate := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	group, err := service.CreateGroup(context.Background(), store.CreateGroupParams{
		GroupNumber:   "GRP-TEST1",
		GroupName:     "Payroll",
		WalletAddress: owner,
		ReleaseType:   models.ReleaseTypeOneTime,
		ReleaseDate:   &releaseDate,
	})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return group
}

func TestCreateGroup_Defaults(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	group := createTestGroup(t, service, "0xOwner")

	if group.WalletAddress != "0xowner" {
		t.Errorf("owner = %q, want lower-cased", group.WalletAddress)
	}
	if group.TotalMembers != 0 {
		t.Errorf("total members = %d, want 0", group.TotalMembers)
	}
	if !group.TotalAmount.Equal(decimal.Zero) {
		t.Errorf("total amount = %s, want 0", group.TotalAmount)
	}
	if group.Status != models.GroupStatusUpcoming {
		t.Errorf("status = %q, want upcoming", group.Status)
	}
}

func TestAddMember_BumpsGroupTotals(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	group := createTestGroup(t, service, "0xowner")

	first, err := service.AddMember(ctx, store.AddMemberParams{
		GroupId:       group.Id,
		Name:          "Alice",
		WalletAddress: "0xAlice",
		Amount:        decimal.RequireFromString("10.5"),
	})
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if first.WalletAddress != "0xalice" {
		t.Errorf("member address = %q, want lower-cased", first.WalletAddress)
	}

	_, err = service.AddMember(ctx, store.AddMemberParams{
		GroupId:       group.Id,
		Name:          "Bob",
		WalletAddress: "0xbob",
		Amount:        decimal.RequireFromString("4.5"),
	})
	if err != nil {
		t.Fatalf("second AddMember failed: %v", err)
	}

	got, err := service.GetGroup(ctx, group.Id)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if got.TotalMembers != 2 {
		t.Errorf("total members = %d, want 2", got.TotalMembers)
	}
	if !got.TotalAmount.Equal(decimal.NewFromInt(15)) {
		t.Errorf("total amount = %s, want 15", got.TotalAmount)
	}

	members, err := service.ListMembers(ctx, group.Id)
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("member count = %d, want 2", len(members))
	}
}

func TestAddMember_UnknownGroup(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := service.AddMember(context.Background(), store.AddMemberParams{
		GroupId:       "missing",
		Name:          "Alice",
		WalletAddress: "0xalice",
		Amount:        decimal.NewFromInt(1),
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestListGroupsByOwner_ScopedToOwner(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	createTestGroup(t, service, "0xowner")

	groups, err := service.ListGroupsByOwner(ctx, "0xOWNER")
	if err != nil {
		t.Fatalf("ListGroupsByOwner failed: %v", err)
	}
	if len(groups) != 1 {
		t.Errorf("group count for owner = %d, want 1", len(groups))
	}

	other, err := service.ListGroupsByOwner(ctx, "0xsomeoneelse")
	if err != nil {
		t.Fatalf("ListGroupsByOwner (other) failed: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("group count for stranger = %d, want 0", len(other))
	}
	if other == nil {
		t.Error("expected empty slice, got nil")
	}
}
