package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/youvandra/aegis-protocol/internal/guard"
	"github.com/youvandra/aegis-protocol/internal/models"
	"github.com/youvandra/aegis-protocol/internal/store"
)

func (s *Service) scanAccount(row *sql.Row) (*models.WalletAccount, error) {
	var a models.WalletAccount
	err := row.Scan(&a.Id, &a.WalletAddress, &a.ChainId, &a.FirstConnectedAt,
		&a.LastConnectedAt, &a.ConnectionCount, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpsertWalletAccount records a wallet connection: first connection inserts
// the row, every later one bumps connection_count and last_connected_at.
func (s *Service) UpsertWalletAccount(ctx context.Context, walletAddress string, chainId int64) (*models.WalletAccount, error) {
	addr := guard.NormalizeAddress(walletAddress)
	now := time.Now().UTC()

	existing, err := s.GetWalletAccount(ctx, addr)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if existing == nil {
		id := newId()
		if _, err := s.db.ExecContext(ctx, queryInsertAccount, id, addr, chainId, now, now, now, now); err != nil {
			zap.L().Error("Failed to insert wallet account", zap.String("wallet", addr), zap.Error(err))
			return nil, fmt.Errorf("unable to insert wallet account: %w", err)
		}
		zap.L().Info("Wallet account created", zap.String("wallet", addr), zap.Int64("chain_id", chainId))
	} else {
		if _, err := s.db.ExecContext(ctx, queryTouchAccount, now, chainId, now, addr); err != nil {
			zap.L().Error("Failed to update wallet account", zap.String("wallet", addr), zap.Error(err))
			return nil, fmt.Errorf("unable to update wallet account: %w", err)
		}
	}

	return s.GetWalletAccount(ctx, addr)
}

func (s *Service) GetWalletAccount(ctx context.Context, walletAddress string) (*models.WalletAccount, error) {
	addr := guard.NormalizeAddress(walletAddress)

	account, err := s.scanAccount(s.db.QueryRowContext(ctx, queryGetAccountByAddress, addr))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("wallet account %s: %w", addr, store.ErrNotFound)
		}
		zap.L().Error("Failed to query wallet account", zap.String("wallet", addr), zap.Error(err))
		return nil, fmt.Errorf("unable to query wallet account: %w", err)
	}
	return account, nil
}

func (s *Service) ListWalletAccounts(ctx context.Context) ([]models.WalletAccount, error) {
	rows, err := s.db.QueryContext(ctx, queryListAccounts)
	if err != nil {
		zap.L().Error("Failed to query wallet accounts", zap.Error(err))
		return nil, fmt.Errorf("unable to query wallet accounts: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	accounts := []models.WalletAccount{}
	for rows.Next() {
		var a models.WalletAccount
		err := rows.Scan(&a.Id, &a.WalletAddress, &a.ChainId, &a.FirstConnectedAt,
			&a.LastConnectedAt, &a.ConnectionCount, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan wallet account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallet account rows: %w", err)
	}

	return accounts, nil
}

func (s *Service) SetAccountInactive(ctx context.Context, walletAddress string) error {
	addr := guard.NormalizeAddress(walletAddress)

	result, err := s.db.ExecContext(ctx, querySetAccountInactive, time.Now().UTC(), addr)
	if err != nil {
		zap.L().Error("Failed to deactivate wallet account", zap.String("wallet", addr), zap.Error(err))
		return fmt.Errorf("unable to deactivate wallet account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("wallet account %s: %w", addr, store.ErrNotFound)
	}
	return nil
}
