package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/youvandra/aegis-protocol/internal/common"
	"github.com/youvandra/aegis-protocol/internal/database"
	"github.com/youvandra/aegis-protocol/internal/ledger"
	"github.com/youvandra/aegis-protocol/internal/models"
	"github.com/youvandra/aegis-protocol/internal/store"
	"github.com/youvandra/aegis-protocol/internal/supabase"
)

// Services bundles everything a command needs: the persistence backend, the
// ledger submitter, and the domain services wired on top of them.
type Services struct {
	Store    store.Store
	Ledger   ledger.Submitter
	Relays   *RelayService
	Streams  *StreamService
	Legacy   *LegacyService
	Accounts *AccountService
}

func Initialize(ctx context.Context, cfg *models.Config) (*Services, error) {
	st, err := InitializeStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	submitter, err := initializeLedger(cfg)
	if err != nil {
		st.Close()
		return nil, err
	}

	networks, err := loadNetworkRegistry(cfg.Store.NetworksFile)
	if err != nil {
		st.Close()
		submitter.Close()
		return nil, err
	}

	return &Services{
		Store:    st,
		Ledger:   submitter,
		Relays:   NewRelayService(st, submitter),
		Streams:  NewStreamService(st, submitter),
		Legacy:   NewLegacyService(st),
		Accounts: NewAccountService(st, networks),
	}, nil
}

// InitializeStore initializes just the persistence backend without the
// ledger client. Useful for read-only commands.
func InitializeStore(ctx context.Context, cfg *models.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case models.StoreBackendSupabase:
		zap.L().Info("Using Supabase persistence backend")
		svc, err := supabase.NewService(cfg.Supabase)
		if err != nil {
			return nil, err
		}
		if err := svc.HealthCheck(ctx); err != nil {
			return nil, fmt.Errorf("supabase health check failed: %w", err)
		}
		return svc, nil
	case models.StoreBackendSqlite:
		zap.L().Info("Using SQLite persistence backend",
			zap.String("path", cfg.Store.DatabasePath))
		return database.NewService(ctx, cfg.Store)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}

func (cs *Services) Close() {
	if cs.Store != nil {
		cs.Store.Close()
	}
	if cs.Ledger != nil {
		cs.Ledger.Close()
	}
}

func initializeLedger(cfg *models.Config) (ledger.Submitter, error) {
	if !cfg.Ledger.Enabled() {
		zap.L().Info("Ledger operator not configured, topic submission disabled")
		return ledger.Disabled{}, nil
	}
	return ledger.NewService(cfg.Ledger)
}

func loadNetworkRegistry(networksFile string) (*common.NetworkRegistry, error) {
	if networksFile == "" {
		return common.NewNetworkRegistry(nil), nil
	}
	networks, err := common.LoadNetworkConfig(networksFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			zap.L().Warn("Network registry file not found, accounts will be unlabeled",
				zap.String("path", networksFile))
			return common.NewNetworkRegistry(nil), nil
		}
		return nil, err
	}
	return common.NewNetworkRegistry(networks), nil
}
