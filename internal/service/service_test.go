package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/youvandra/aegis-protocol/internal/database"
	"github.com/youvandra/aegis-protocol/internal/ledger"
	"github.com/youvandra/aegis-protocol/internal/models"
	"github.com/youvandra/aegis-protocol/internal/store"
)

// newTestStore opens an in-memory SQLite backend on a single connection.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	svc, err := database.NewService(context.Background(), models.StoreConfig{
		DatabasePath: ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(svc.Close)
	return svc
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestRelayService(t *testing.T) (*RelayService, store.Store) {
	st := newTestStore(t)
	return NewRelayService(st, ledger.Disabled{}), st
}

func newTestStreamService(t *testing.T) *StreamService {
	return NewStreamService(newTestStore(t), ledger.Disabled{})
}

func newTestLegacyService(t *testing.T) *LegacyService {
	return NewLegacyService(newTestStore(t))
}
