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

func (s *Service) UpsertLegacyPlan(ctx context.Context, params store.UpsertPlanParams) (*models.LegacyPlan, error) {
	addr := guard.NormalizeAddress(params.WalletAddress)
	now := time.Now().UTC()

	existing, err := s.GetLegacyPlan(ctx, addr)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if existing == nil {
		id := newId()
		_, err = s.db.ExecContext(ctx, queryInsertPlan, id, addr, params.MomentType, params.MomentValue, now, now)
		if err != nil {
			zap.L().Error("Failed to insert legacy plan", zap.String("wallet", addr), zap.Error(err))
			return nil, fmt.Errorf("unable to insert legacy plan: %w", err)
		}
		zap.L().Info("Legacy plan created",
			zap.String("wallet", addr),
			zap.String("moment_type", params.MomentType),
			zap.String("moment_value", params.MomentValue))
	} else {
		_, err = s.db.ExecContext(ctx, queryUpdatePlan, params.MomentType, params.MomentValue, now, addr)
		if err != nil {
			zap.L().Error("Failed to update legacy plan", zap.String("wallet", addr), zap.Error(err))
			return nil, fmt.Errorf("unable to update legacy plan: %w", err)
		}
	}

	return s.GetLegacyPlan(ctx, addr)
}

func (s *Service) GetLegacyPlan(ctx context.Context, walletAddress string) (*models.LegacyPlan, error) {
	addr := guard.NormalizeAddress(walletAddress)

	var p models.LegacyPlan
	err := s.db.QueryRowContext(ctx, queryGetPlanByOwner, addr).Scan(
		&p.Id, &p.WalletAddress, &p.MomentType, &p.MomentValue, &p.Activated, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("legacy plan for %s: %w", addr, store.ErrNotFound)
		}
		zap.L().Error("Failed to query legacy plan", zap.String("wallet", addr), zap.Error(err))
		return nil, fmt.Errorf("unable to query legacy plan: %w", err)
	}
	return &p, nil
}

func (s *Service) CreateBeneficiary(ctx context.Context, params store.CreateBeneficiaryParams) (*models.Beneficiary, error) {
	id := newId()
	addr := guard.NormalizeAddress(params.WalletAddress)
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, queryInsertBeneficiary,
		id, addr, params.Name, guard.NormalizeAddress(params.Address), params.Percentage.String(), now, now)
	if err != nil {
		zap.L().Error("Failed to insert beneficiary", zap.String("wallet", addr), zap.Error(err))
		return nil, fmt.Errorf("unable to insert beneficiary: %w", err)
	}

	zap.L().Info("Beneficiary added",
		zap.String("beneficiary_id", id),
		zap.String("wallet", addr),
		zap.String("percentage", params.Percentage.String()))

	return s.getBeneficiary(ctx, id, addr)
}

func (s *Service) UpdateBeneficiary(ctx context.Context, params store.UpdateBeneficiaryParams) (*models.Beneficiary, error) {
	addr := guard.NormalizeAddress(params.WalletAddress)

	result, err := s.db.ExecContext(ctx, queryUpdateBeneficiary,
		params.Name, guard.NormalizeAddress(params.Address), params.Percentage.String(),
		time.Now().UTC(), params.Id, addr)
	if err != nil {
		zap.L().Error("Failed to update beneficiary", zap.String("beneficiary_id", params.Id), zap.Error(err))
		return nil, fmt.Errorf("unable to update beneficiary: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("unable to check rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("beneficiary %s: %w", params.Id, store.ErrNotFound)
	}

	return s.getBeneficiary(ctx, params.Id, addr)
}

func (s *Service) DeleteBeneficiary(ctx context.Context, id, walletAddress string) error {
	addr := guard.NormalizeAddress(walletAddress)

	result, err := s.db.ExecContext(ctx, queryDeleteBeneficiary, id, addr)
	if err != nil {
		zap.L().Error("Failed to delete beneficiary", zap.String("beneficiary_id", id), zap.Error(err))
		return fmt.Errorf("unable to delete beneficiary: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("beneficiary %s: %w", id, store.ErrNotFound)
	}

	zap.L().Info("Beneficiary removed", zap.String("beneficiary_id", id), zap.String("wallet", addr))
	return nil
}

func (s *Service) ListBeneficiaries(ctx context.Context, walletAddress string) ([]models.Beneficiary, error) {
	addr := guard.NormalizeAddress(walletAddress)

	rows, err := s.db.QueryContext(ctx, queryListBeneficiaries, addr)
	if err != nil {
		zap.L().Error("Failed to query beneficiaries", zap.String("wallet", addr), zap.Error(err))
		return nil, fmt.Errorf("unable to query beneficiaries: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	beneficiaries := []models.Beneficiary{}
	for rows.Next() {
		b, err := scanBeneficiary(rows.Scan)
		if err != nil {
			return nil, err
		}
		beneficiaries = append(beneficiaries, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating beneficiary rows: %w", err)
	}

	return beneficiaries, nil
}

func (s *Service) getBeneficiary(ctx context.Context, id, ownerAddress string) (*models.Beneficiary, error) {
	row := s.db.QueryRowContext(ctx, queryGetBeneficiary, id, ownerAddress)
	b, err := scanBeneficiary(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("beneficiary %s: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("unable to query beneficiary: %w", err)
	}
	return b, nil
}

func scanBeneficiary(scan func(dest ...any) error) (*models.Beneficiary, error) {
	var b models.Beneficiary
	var percentageStr string
	err := scan(&b.Id, &b.WalletAddress, &b.Name, &b.Address, &percentageStr, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Percentage, err = decimal.NewFromString(percentageStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse percentage %q: %w", percentageStr, err)
	}
	return &b, nil
}
