package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/youvandra/aegis-protocol/internal/guard"
	"github.com/youvandra/aegis-protocol/internal/models"
	"github.com/youvandra/aegis-protocol/internal/store"
)

func scanRelay(scan func(dest ...any) error) (*models.Relay, error) {
	var r models.Relay
	var amountStr string
	var expiresAt sql.NullTime
	err := scan(&r.Id, &r.RelayNumber, &r.TopicId, &r.SenderAddress, &r.ReceiverAddress,
		&amountStr, &r.Status, &r.TransactionHash, &expiresAt, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}

	r.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse amount %q: %w", amountStr, err)
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		r.ExpiresAt = &t
	}
	return &r, nil
}

func (s *Service) CreateRelay(ctx context.Context, params store.CreateRelayParams) (*models.Relay, error) {
	id := newId()
	now := time.Now().UTC()

	var expiresAt any
	if params.ExpiresAt != nil {
		expiresAt = params.ExpiresAt.UTC()
	}

	_, err := s.db.ExecContext(ctx, queryInsertRelay,
		id, params.RelayNumber, params.TopicId,
		guard.NormalizeAddress(params.SenderAddress), guard.NormalizeAddress(params.ReceiverAddress),
		params.Amount.String(), params.Status, expiresAt, now, now)
	if err != nil {
		zap.L().Error("Failed to insert relay", zap.String("relay_number", params.RelayNumber), zap.Error(err))
		return nil, fmt.Errorf("unable to insert relay: %w", err)
	}

	zap.L().Info("Relay created",
		zap.String("relay_id", id),
		zap.String("relay_number", params.RelayNumber),
		zap.String("sender", params.SenderAddress),
		zap.String("receiver", params.ReceiverAddress),
		zap.String("amount", params.Amount.String()))

	return s.GetRelay(ctx, id)
}

func (s *Service) GetRelay(ctx context.Context, id string) (*models.Relay, error) {
	row := s.db.QueryRowContext(ctx, queryGetRelay, id)
	relay, err := scanRelay(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("relay %s: %w", id, store.ErrNotFound)
		}
		zap.L().Error("Failed to query relay", zap.String("relay_id", id), zap.Error(err))
		return nil, fmt.Errorf("unable to query relay: %w", err)
	}
	return relay, nil
}

func (s *Service) ListRelaysByWallet(ctx context.Context, walletAddress string) ([]models.Relay, error) {
	addr := guard.NormalizeAddress(walletAddress)

	rows, err := s.db.QueryContext(ctx, queryListRelaysByWallet, addr, addr)
	if err != nil {
		zap.L().Error("Failed to query relays", zap.String("wallet", addr), zap.Error(err))
		return nil, fmt.Errorf("unable to query relays: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	relays := []models.Relay{}
	for rows.Next() {
		relay, err := scanRelay(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("unable to scan relay row: %w", err)
		}
		relays = append(relays, *relay)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating relay rows: %w", err)
	}

	return relays, nil
}

func (s *Service) UpdateRelayStatus(ctx context.Context, params store.UpdateRelayStatusParams) (*models.Relay, error) {
	result, err := s.db.ExecContext(ctx, queryUpdateRelayStatus,
		params.Status, params.TransactionHash, params.TransactionHash, time.Now().UTC(), params.Id)
	if err != nil {
		zap.L().Error("Failed to update relay status",
			zap.String("relay_id", params.Id), zap.String("status", params.Status), zap.Error(err))
		return nil, fmt.Errorf("unable to update relay status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("unable to check rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("relay %s: %w", params.Id, store.ErrNotFound)
	}

	zap.L().Info("Relay status updated",
		zap.String("relay_id", params.Id),
		zap.String("status", params.Status))

	return s.GetRelay(ctx, params.Id)
}
