package supabase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/youvandra/aegis-protocol/internal/guard"
	"github.com/youvandra/aegis-protocol/internal/models"
	"github.com/youvandra/aegis-protocol/internal/store"
)

type accountInsert struct {
	WalletAddress    string    `json:"wallet_address"`
	ChainId          int64     `json:"chain_id,omitempty"`
	FirstConnectedAt time.Time `json:"first_connected_at"`
	LastConnectedAt  time.Time `json:"last_connected_at"`
	ConnectionCount  int       `json:"connection_count"`
	IsActive         bool      `json:"is_active"`
}

type accountTouch struct {
	LastConnectedAt time.Time `json:"last_connected_at"`
	ConnectionCount int       `json:"connection_count"`
	ChainId         int64     `json:"chain_id,omitempty"`
	IsActive        bool      `json:"is_active"`
}

func (s *Service) UpsertWalletAccount(ctx context.Context, walletAddress string, chainId int64) (*models.WalletAccount, error) {
	addr := guard.NormalizeAddress(walletAddress)
	now := time.Now().UTC()

	existing, err := s.GetWalletAccount(ctx, addr)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if existing == nil {
		data, err := s.client.Request(ctx, "POST", "users", accountInsert{
			WalletAddress:    addr,
			ChainId:          chainId,
			FirstConnectedAt: now,
			LastConnectedAt:  now,
			ConnectionCount:  1,
			IsActive:         true,
		}, "")
		if err != nil {
			return nil, fmt.Errorf("create wallet account: %w", err)
		}
		zap.L().Info("Wallet account created", zap.String("wallet", addr), zap.Int64("chain_id", chainId))
		return one[models.WalletAccount](data, "users")
	}

	data, err := s.client.Request(ctx, "PATCH", "users", accountTouch{
		LastConnectedAt: now,
		ConnectionCount: existing.ConnectionCount + 1,
		ChainId:         chainId,
		IsActive:        true,
	}, eq("wallet_address", addr))
	if err != nil {
		return nil, fmt.Errorf("update wallet account: %w", err)
	}
	return one[models.WalletAccount](data, "users")
}

func (s *Service) GetWalletAccount(ctx context.Context, walletAddress string) (*models.WalletAccount, error) {
	addr := guard.NormalizeAddress(walletAddress)

	data, err := s.client.Request(ctx, "GET", "users", nil, eq("wallet_address", addr)+"&limit=1")
	if err != nil {
		return nil, fmt.Errorf("get wallet account: %w", err)
	}
	account, err := one[models.WalletAccount](data, "users")
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("wallet account %s: %w", addr, store.ErrNotFound)
		}
		return nil, err
	}
	return account, nil
}

func (s *Service) ListWalletAccounts(ctx context.Context) ([]models.WalletAccount, error) {
	data, err := s.client.Request(ctx, "GET", "users", nil, "order=last_connected_at.desc")
	if err != nil {
		return nil, fmt.Errorf("list wallet accounts: %w", err)
	}
	accounts, err := rows[models.WalletAccount](data)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []models.WalletAccount{}
	}
	return accounts, nil
}

func (s *Service) SetAccountInactive(ctx context.Context, walletAddress string) error {
	addr := guard.NormalizeAddress(walletAddress)

	data, err := s.client.Request(ctx, "PATCH", "users",
		map[string]bool{"is_active": false}, eq("wallet_address", addr))
	if err != nil {
		return fmt.Errorf("deactivate wallet account: %w", err)
	}
	if _, err := one[models.WalletAccount](data, "users"); err != nil {
		return fmt.Errorf("wallet account %s: %w", addr, store.ErrNotFound)
	}
	return nil
}
