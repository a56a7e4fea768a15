package supabase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/youvandra/aegis-protocol/internal/guard"
	"github.com/youvandra/aegis-protocol/internal/models"
	"github.com/youvandra/aegis-protocol/internal/store"
)

type planInsert struct {
	WalletAddress string `json:"wallet_address"`
	MomentType    string `json:"moment_type"`
	MomentValue   string `json:"moment_value"`
	Activated     bool   `json:"activated"`
}

type planPatch struct {
	MomentType  string `json:"moment_type"`
	MomentValue string `json:"moment_value"`
}

type beneficiaryInsert struct {
	WalletAddress string          `json:"wallet_address"`
	Name          string          `json:"name"`
	Address       string          `json:"address"`
	Percentage    decimal.Decimal `json:"percentage"`
}

type beneficiaryPatch struct {
	Name       string          `json:"name"`
	Address    string          `json:"address"`
	Percentage decimal.Decimal `json:"percentage"`
}

func (s *Service) UpsertLegacyPlan(ctx context.Context, params store.UpsertPlanParams) (*models.LegacyPlan, error) {
	addr := guard.NormalizeAddress(params.WalletAddress)

	existing, err := s.GetLegacyPlan(ctx, addr)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if existing == nil {
		data, err := s.client.Request(ctx, "POST", "legacy_plans", planInsert{
			WalletAddress: addr,
			MomentType:    params.MomentType,
			MomentValue:   params.MomentValue,
			Activated:     false,
		}, "")
		if err != nil {
			return nil, fmt.Errorf("create legacy plan: %w", err)
		}
		zap.L().Info("Legacy plan created",
			zap.String("wallet", addr),
			zap.String("moment_type", params.MomentType),
			zap.String("moment_value", params.MomentValue))
		return one[models.LegacyPlan](data, "legacy_plans")
	}

	data, err := s.client.Request(ctx, "PATCH", "legacy_plans", planPatch{
		MomentType:  params.MomentType,
		MomentValue: params.MomentValue,
	}, eq("wallet_address", addr))
	if err != nil {
		return nil, fmt.Errorf("update legacy plan: %w", err)
	}
	return one[models.LegacyPlan](data, "legacy_plans")
}

func (s *Service) GetLegacyPlan(ctx context.Context, walletAddress string) (*models.LegacyPlan, error) {
	addr := guard.NormalizeAddress(walletAddress)

	data, err := s.client.Request(ctx, "GET", "legacy_plans", nil, eq("wallet_address", addr)+"&limit=1")
	if err != nil {
		return nil, fmt.Errorf("get legacy plan: %w", err)
	}
	plan, err := one[models.LegacyPlan](data, "legacy_plans")
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("legacy plan for %s: %w", addr, store.ErrNotFound)
		}
		return nil, err
	}
	return plan, nil
}

func (s *Service) CreateBeneficiary(ctx context.Context, params store.CreateBeneficiaryParams) (*models.Beneficiary, error) {
	data, err := s.client.Request(ctx, "POST", "beneficiaries", beneficiaryInsert{
		WalletAddress: guard.NormalizeAddress(params.WalletAddress),
		Name:          params.Name,
		Address:       guard.NormalizeAddress(params.Address),
		Percentage:    params.Percentage,
	}, "")
	if err != nil {
		return nil, fmt.Errorf("create beneficiary: %w", err)
	}

	beneficiary, err := one[models.Beneficiary](data, "beneficiaries")
	if err != nil {
		return nil, err
	}

	zap.L().Info("Beneficiary added",
		zap.String("beneficiary_id", beneficiary.Id),
		zap.String("wallet", beneficiary.WalletAddress),
		zap.String("percentage", beneficiary.Percentage.String()))

	return beneficiary, nil
}

func (s *Service) UpdateBeneficiary(ctx context.Context, params store.UpdateBeneficiaryParams) (*models.Beneficiary, error) {
	addr := guard.NormalizeAddress(params.WalletAddress)

	data, err := s.client.Request(ctx, "PATCH", "beneficiaries", beneficiaryPatch{
		Name:       params.Name,
		Address:    guard.NormalizeAddress(params.Address),
		Percentage: params.Percentage,
	}, eq("id", params.Id)+"&"+eq("wallet_address", addr))
	if err != nil {
		return nil, fmt.Errorf("update beneficiary: %w", err)
	}
	beneficiary, err := one[models.Beneficiary](data, "beneficiaries")
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("beneficiary %s: %w", params.Id, store.ErrNotFound)
		}
		return nil, err
	}
	return beneficiary, nil
}

func (s *Service) DeleteBeneficiary(ctx context.Context, id, walletAddress string) error {
	addr := guard.NormalizeAddress(walletAddress)

	_, err := s.client.Request(ctx, "DELETE", "beneficiaries",
		nil, eq("id", id)+"&"+eq("wallet_address", addr))
	if err != nil {
		return fmt.Errorf("delete beneficiary: %w", err)
	}

	zap.L().Info("Beneficiary removed", zap.String("beneficiary_id", id), zap.String("wallet", addr))
	return nil
}

func (s *Service) ListBeneficiaries(ctx context.Context, walletAddress string) ([]models.Beneficiary, error) {
	addr := guard.NormalizeAddress(walletAddress)

	data, err := s.client.Request(ctx, "GET", "beneficiaries", nil,
		eq("wallet_address", addr)+"&order=created_at.asc")
	if err != nil {
		return nil, fmt.Errorf("list beneficiaries: %w", err)
	}
	beneficiaries, err := rows[models.Beneficiary](data)
	if err != nil {
		return nil, err
	}
	if beneficiaries == nil {
		beneficiaries = []models.Beneficiary{}
	}
	return beneficiaries, nil
}
