package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/youvandra/aegis-protocol/internal/common"
	"github.com/youvandra/aegis-protocol/internal/guard"
	"github.com/youvandra/aegis-protocol/internal/models"
	"github.com/youvandra/aegis-protocol/internal/store"
)

// InactivityIntervals are the accepted "If I'm Gone" moment values and their
// durations. The 10 minute entry exists for end-to-end testing on testnet.
var InactivityIntervals = map[string]time.Duration{
	"10min":   10 * time.Minute,
	"6months": 182 * 24 * time.Hour,
	"1year":   365 * 24 * time.Hour,
	"2years":  2 * 365 * 24 * time.Hour,
	"3years":  3 * 365 * 24 * time.Hour,
}

// LegacyService owns legacy plans: the activation moment and the
// beneficiary set with its allocation guards.
type LegacyService struct {
	store store.Store
}

func NewLegacyService(st store.Store) *LegacyService {
	return &LegacyService{store: st}
}

// BeneficiaryParams carries add/edit input for one beneficiary.
type BeneficiaryParams struct {
	Name       string
	Address    string
	Percentage decimal.Decimal
}

// PlanView is a plan with its beneficiaries and the remaining allocatable
// percentage, which the forms display live. MomentLabel is a human-readable
// countdown, e.g. "2 years, 3 months".
type PlanView struct {
	Plan          *models.LegacyPlan   `json:"plan,omitempty"`
	MomentLabel   string               `json:"moment_label,omitempty"`
	Beneficiaries []models.Beneficiary `json:"beneficiaries"`
	Headroom      decimal.Decimal      `json:"headroom"`
}

func momentLabel(plan *models.LegacyPlan, now time.Time) string {
	if plan == nil {
		return ""
	}
	switch plan.MomentType {
	case models.MomentSpecificDate:
		at, err := time.Parse(time.RFC3339, plan.MomentValue)
		if err != nil {
			return ""
		}
		return common.FormatUntil(at, now)
	case models.MomentIfImGone:
		if interval, ok := InactivityIntervals[plan.MomentValue]; ok {
			return common.FormatDuration(interval)
		}
	}
	return ""
}

// SetMoment sets or replaces the actor's activation moment. A specific date
// must be a strictly future RFC3339 instant; an inactivity moment must be
// one of the known interval keys.
func (s *LegacyService) SetMoment(ctx context.Context, actor, momentType, momentValue string) (*models.LegacyPlan, error) {
	switch momentType {
	case models.MomentSpecificDate:
		at, err := time.Parse(time.RFC3339, momentValue)
		if err != nil {
			return nil, &guard.ValidationError{Field: "moment_value", Message: "must be an RFC3339 date-time"}
		}
		if err := guard.FutureInstant("moment_value", at, time.Now()); err != nil {
			return nil, err
		}
	case models.MomentIfImGone:
		if _, ok := InactivityIntervals[momentValue]; !ok {
			return nil, &guard.ValidationError{Field: "moment_value", Message: "unknown inactivity interval"}
		}
	default:
		return nil, &guard.ValidationError{Field: "moment_type", Message: "must be specific_date or if_im_gone"}
	}

	return s.store.UpsertLegacyPlan(ctx, store.UpsertPlanParams{
		WalletAddress: actor,
		MomentType:    momentType,
		MomentValue:   momentValue,
	})
}

// GetPlan returns the actor's plan view. A wallet with beneficiaries but no
// moment yet still gets a view with a nil plan.
func (s *LegacyService) GetPlan(ctx context.Context, actor string) (*PlanView, error) {
	plan, err := s.store.GetLegacyPlan(ctx, actor)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	beneficiaries, err := s.store.ListBeneficiaries(ctx, actor)
	if err != nil {
		return nil, err
	}

	return &PlanView{
		Plan:          plan,
		MomentLabel:   momentLabel(plan, time.Now()),
		Beneficiaries: beneficiaries,
		Headroom:      guard.Headroom(beneficiaries, ""),
	}, nil
}

// AddBeneficiary appends a beneficiary after the allocation and duplicate
// guards pass against the actor's current set.
func (s *LegacyService) AddBeneficiary(ctx context.Context, actor string, params BeneficiaryParams) (*models.Beneficiary, error) {
	if params.Name == "" {
		return nil, &guard.ValidationError{Field: "name", Message: "is required"}
	}
	if err := guard.RequiredAddress("address", params.Address); err != nil {
		return nil, err
	}

	existing, err := s.store.ListBeneficiaries(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := guard.DuplicateBeneficiary(existing, "", params.Address); err != nil {
		return nil, err
	}
	if err := guard.PercentageAllocation(existing, "", params.Percentage); err != nil {
		return nil, err
	}

	return s.store.CreateBeneficiary(ctx, store.CreateBeneficiaryParams{
		WalletAddress: actor,
		Name:          params.Name,
		Address:       params.Address,
		Percentage:    params.Percentage,
	})
}

// UpdateBeneficiary edits one beneficiary. The edited record's own prior
// percentage and address are excluded before the guards run.
func (s *LegacyService) UpdateBeneficiary(ctx context.Context, actor, id string, params BeneficiaryParams) (*models.Beneficiary, error) {
	if params.Name == "" {
		return nil, &guard.ValidationError{Field: "name", Message: "is required"}
	}
	if err := guard.RequiredAddress("address", params.Address); err != nil {
		return nil, err
	}

	existing, err := s.store.ListBeneficiaries(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := guard.DuplicateBeneficiary(existing, id, params.Address); err != nil {
		return nil, err
	}
	if err := guard.PercentageAllocation(existing, id, params.Percentage); err != nil {
		return nil, err
	}

	return s.store.UpdateBeneficiary(ctx, store.UpdateBeneficiaryParams{
		Id:            id,
		WalletAddress: actor,
		Name:          params.Name,
		Address:       params.Address,
		Percentage:    params.Percentage,
	})
}

// RemoveBeneficiary deletes one beneficiary, scoped to the actor.
func (s *LegacyService) RemoveBeneficiary(ctx context.Context, actor, id string) error {
	return s.store.DeleteBeneficiary(ctx, id, actor)
}
