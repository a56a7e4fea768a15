package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/youvandra/aegis-protocol/internal/models"
	"github.com/youvandra/aegis-protocol/internal/store"
)

// setupTestDB opens a fresh in-memory database. A single connection keeps
// every query on the same in-memory instance.
func setupTestDB(t *testing.T) (*Service, func()) {
	t.Helper()

	service, err := NewService(context.Background(), testStoreConfig())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	cleanup := func() {
		service.Close()
	}

	return service, cleanup
}

func testStoreConfig() models.StoreConfig {
	return models.StoreConfig{
		DatabasePath: ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  5 * time.Second,
	}
}

func TestUpsertWalletAccount_InsertThenTouch(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	account, err := service.UpsertWalletAccount(ctx, "0xABCDEF0123", 296)
	if err != nil {
		t.Fatalf("UpsertWalletAccount failed: %v", err)
	}
	if account.WalletAddress != "0xabcdef0123" {
		t.Errorf("wallet address = %q, want lower-cased", account.WalletAddress)
	}
	if account.ConnectionCount != 1 {
		t.Errorf("connection count = %d, want 1", account.ConnectionCount)
	}
	if !account.IsActive {
		t.Error("new account should be active")
	}

	// Same wallet, different casing: same row, bumped counter.
	again, err := service.UpsertWalletAccount(ctx, "0xabcdef0123", 296)
	if err != nil {
		t.Fatalf("second UpsertWalletAccount failed: %v", err)
	}
	if again.Id != account.Id {
		t.Errorf("second upsert created a new row: %s vs %s", again.Id, account.Id)
	}
	if again.ConnectionCount != 2 {
		t.Errorf("connection count after reconnect = %d, want 2", again.ConnectionCount)
	}
}

func TestSetAccountInactive(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	if _, err := service.UpsertWalletAccount(ctx, "0xaaa", 296); err != nil {
		t.Fatalf("UpsertWalletAccount failed: %v", err)
	}
	if err := service.SetAccountInactive(ctx, "0xAAA"); err != nil {
		t.Fatalf("SetAccountInactive failed: %v", err)
	}

	account, err := service.GetWalletAccount(ctx, "0xaaa")
	if err != nil {
		t.Fatalf("GetWalletAccount failed: %v", err)
	}
	if account.IsActive {
		t.Error("account should be inactive after disconnect")
	}

	if err := service.SetAccountInactive(ctx, "0xmissing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("deactivating unknown wallet error = %v, want ErrNotFound", err)
	}
}

func TestGetWalletAccount_NotFound(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := service.GetWalletAccount(context.Background(), "0xnobody"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestListWalletAccounts_EmptyIsNotNil(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	accounts, err := service.ListWalletAccounts(context.Background())
	if err != nil {
		t.Fatalf("ListWalletAccounts failed: %v", err)
	}
	if accounts == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(accounts) != 0 {
		t.Errorf("expected no accounts, got %d", len(accounts))
	}
}
