package supabase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/youvandra/aegis-protocol/internal/guard"
	"github.com/youvandra/aegis-protocol/internal/models"
	"github.com/youvandra/aegis-protocol/internal/store"
)

type groupInsert struct {
	GroupNumber   string          `json:"group_number"`
	GroupName     string          `json:"group_name"`
	TopicId       string          `json:"topic_id,omitempty"`
	ReleaseDate   *time.Time      `json:"release_date,omitempty"`
	ReleaseType   string          `json:"release_type"`
	TotalMembers  int             `json:"total_members"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	WalletAddress string          `json:"wallet_address"`
	Status        string          `json:"status"`
}

type memberInsert struct {
	GroupId       string          `json:"group_id"`
	Name          string          `json:"name"`
	WalletAddress string          `json:"wallet_address"`
	Amount        decimal.Decimal `json:"amount"`
}

type groupTotalsPatch struct {
	TotalMembers int             `json:"total_members"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

func (s *Service) CreateGroup(ctx context.Context, params store.CreateGroupParams) (*models.Group, error) {
	data, err := s.client.Request(ctx, "POST", "groups", groupInsert{
		GroupNumber:   params.GroupNumber,
		GroupName:     params.GroupName,
		TopicId:       params.TopicId,
		ReleaseDate:   params.ReleaseDate,
		ReleaseType:   params.ReleaseType,
		TotalMembers:  0,
		TotalAmount:   decimal.Zero,
		WalletAddress: guard.NormalizeAddress(params.WalletAddress),
		Status:        models.GroupStatusUpcoming,
	}, "")
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	group, err := one[models.Group](data, "groups")
	if err != nil {
		return nil, err
	}

	zap.L().Info("Group created",
		zap.String("group_id", group.Id),
		zap.String("group_number", group.GroupNumber),
		zap.String("owner", group.WalletAddress))

	return group, nil
}

func (s *Service) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	data, err := s.client.Request(ctx, "GET", "groups", nil, eq("id", id)+"&limit=1")
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return one[models.Group](data, "groups")
}

func (s *Service) ListGroupsByOwner(ctx context.Context, walletAddress string) ([]models.Group, error) {
	addr := guard.NormalizeAddress(walletAddress)

	data, err := s.client.Request(ctx, "GET", "groups", nil,
		eq("wallet_address", addr)+"&order=created_at.desc")
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	groups, err := rows[models.Group](data)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []models.Group{}
	}
	return groups, nil
}

// AddMember appends the member row, then bumps the group's totals. The two
// writes are not transactional across PostgREST calls; the group row is the
// authority for display totals only.
func (s *Service) AddMember(ctx context.Context, params store.AddMemberParams) (*models.Member, error) {
	group, err := s.GetGroup(ctx, params.GroupId)
	if err != nil {
		return nil, err
	}

	data, err := s.client.Request(ctx, "POST", "members", memberInsert{
		GroupId:       params.GroupId,
		Name:          params.Name,
		WalletAddress: guard.NormalizeAddress(params.WalletAddress),
		Amount:        params.Amount,
	}, "")
	if err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	member, err := one[models.Member](data, "members")
	if err != nil {
		return nil, err
	}

	_, err = s.client.Request(ctx, "PATCH", "groups", groupTotalsPatch{
		TotalMembers: group.TotalMembers + 1,
		TotalAmount:  group.TotalAmount.Add(params.Amount),
	}, eq("id", params.GroupId))
	if err != nil {
		return nil, fmt.Errorf("update group totals: %w", err)
	}

	zap.L().Info("Member added",
		zap.String("member_id", member.Id),
		zap.String("group_id", params.GroupId),
		zap.String("amount", params.Amount.String()))

	return member, nil
}

func (s *Service) ListMembers(ctx context.Context, groupId string) ([]models.Member, error) {
	data, err := s.client.Request(ctx, "GET", "members", nil,
		eq("group_id", groupId)+"&order=created_at.asc")
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	members, err := rows[models.Member](data)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []models.Member{}
	}
	return members, nil
}
