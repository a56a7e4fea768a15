package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/youvandra/aegis-protocol/internal/relay"
	"github.com/youvandra/aegis-protocol/internal/store"
)

func createTestRelay(t *testing.T, service *Service, sender, receiver string) string {
	t.Helper()

	created, err := service.CreateRelay(context.Background(), store.CreateRelayParams{
		RelayNumber:     "RLY-TEST1",
		SenderAddress:   sender,
		ReceiverAddress: receiver,
		Amount:          decimal.NewFromInt(25),
		Status:          string(relay.StatusAwaitingApproval),
	})
	if err != nil {
		t.Fatalf("CreateRelay failed: %v", err)
	}
	return created.Id
}

func TestCreateAndGetRelay(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	expiresAt := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	created, err := service.CreateRelay(ctx, store.CreateRelayParams{
		RelayNumber:     "RLY-ABC123",
		TopicId:         "0.0.4242",
		SenderAddress:   "0xSender",
		ReceiverAddress: "0xReceiver",
		Amount:          decimal.RequireFromString("12.5"),
		Status:          string(relay.StatusAwaitingApproval),
		ExpiresAt:       &expiresAt,
	})
	if err != nil {
		t.Fatalf("CreateRelay failed: %v", err)
	}

	got, err := service.GetRelay(ctx, created.Id)
	if err != nil {
		t.Fatalf("GetRelay failed: %v", err)
	}
	if got.SenderAddress != "0xsender" || got.ReceiverAddress != "0xreceiver" {
		t.Errorf("addresses not normalized: %s / %s", got.SenderAddress, got.ReceiverAddress)
	}
	if !got.Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("amount = %s, want 12.5", got.Amount)
	}
	if got.TopicId != "0.0.4242" {
		t.Errorf("topic id = %q, want 0.0.4242", got.TopicId)
	}
	if got.ExpiresAt == nil || !got.ExpiresAt.Equal(expiresAt) {
		t.Errorf("expires_at = %v, want %v", got.ExpiresAt, expiresAt)
	}
}

func TestGetRelay_NotFound(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := service.GetRelay(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestListRelaysByWallet_BothDirections(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	// One relay sent by the wallet, one received by it, one unrelated.
	for i, pair := range [][2]string{
		{"0xme", "0xother"},
		{"0xother", "0xme"},
		{"0xother", "0xthird"},
	} {
		_, err := service.CreateRelay(ctx, store.CreateRelayParams{
			RelayNumber:     "RLY-LIST" + string(rune('A'+i)),
			SenderAddress:   pair[0],
			ReceiverAddress: pair[1],
			Amount:          decimal.NewFromInt(1),
			Status:          string(relay.StatusAwaitingApproval),
		})
		if err != nil {
			t.Fatalf("CreateRelay failed: %v", err)
		}
	}

	relays, err := service.ListRelaysByWallet(ctx, "0xME")
	if err != nil {
		t.Fatalf("ListRelaysByWallet failed: %v", err)
	}
	if len(relays) != 2 {
		t.Errorf("relay count = %d, want 2", len(relays))
	}
}

func TestUpdateRelayStatus(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	id := createTestRelay(t, service, "0xsender", "0xreceiver")

	// Approve keeps the transaction hash empty.
	updated, err := service.UpdateRelayStatus(ctx, store.UpdateRelayStatusParams{
		Id:     id,
		Status: string(relay.StatusAwaitingExecution),
	})
	if err != nil {
		t.Fatalf("UpdateRelayStatus (approve) failed: %v", err)
	}
	if updated.Status != string(relay.StatusAwaitingExecution) {
		t.Errorf("status = %q, want awaiting execution", updated.Status)
	}
	if updated.TransactionHash != "" {
		t.Errorf("transaction hash = %q, want empty", updated.TransactionHash)
	}

	// Execute records the hash.
	updated, err = service.UpdateRelayStatus(ctx, store.UpdateRelayStatusParams{
		Id:              id,
		Status:          string(relay.StatusComplete),
		TransactionHash: "0xhash123",
	})
	if err != nil {
		t.Fatalf("UpdateRelayStatus (execute) failed: %v", err)
	}
	if updated.TransactionHash != "0xhash123" {
		t.Errorf("transaction hash = %q, want 0xhash123", updated.TransactionHash)
	}

	// A later status write without a hash must not clear the stored one.
	updated, err = service.UpdateRelayStatus(ctx, store.UpdateRelayStatusParams{
		Id:     id,
		Status: string(relay.StatusComplete),
	})
	if err != nil {
		t.Fatalf("UpdateRelayStatus (no hash) failed: %v", err)
	}
	if updated.TransactionHash != "0xhash123" {
		t.Errorf("transaction hash after hashless update = %q, want 0xhash123", updated.TransactionHash)
	}
}

func TestUpdateRelayStatus_NotFound(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := service.UpdateRelayStatus(context.Background(), store.UpdateRelayStatusParams{
		Id:     "missing",
		Status: string(relay.StatusRejected),
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
