package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/youvandra/aegis-protocol/internal/guard"
	"github.com/youvandra/aegis-protocol/internal/ledger"
	"github.com/youvandra/aegis-protocol/internal/models"
	"github.com/youvandra/aegis-protocol/internal/store"
)

// StreamService owns stream groups: creation, member addition with the
// self-add guard, and release-status derivation.
type StreamService struct {
	store  store.Store
	ledger ledger.Submitter
}

func NewStreamService(st store.Store, sub ledger.Submitter) *StreamService {
	return &StreamService{store: st, ledger: sub}
}

// CreateGroupParams is the owner's group creation intent.
type CreateGroupParams struct {
	GroupName   string
	ReleaseType string
	ReleaseDate *time.Time
}

// AddMemberParams appends one member to an owned group.
type AddMemberParams struct {
	GroupId       string
	Name          string
	WalletAddress string
	Amount        decimal.Decimal
}

// GroupView is a group with its members and the derived release status.
type GroupView struct {
	models.Group
	Members []models.Member `json:"members"`
}

func (s *StreamService) CreateGroup(ctx context.Context, actor string, params CreateGroupParams) (*models.Group, error) {
	if params.GroupName == "" {
		return nil, &guard.ValidationError{Field: "group_name", Message: "is required"}
	}
	if params.ReleaseType != models.ReleaseTypeMonthly && params.ReleaseType != models.ReleaseTypeOneTime {
		return nil, &guard.ValidationError{Field: "release_type", Message: "must be monthly or one-time"}
	}
	if params.ReleaseDate != nil {
		if err := guard.FutureInstant("release_date", *params.ReleaseDate, time.Now()); err != nil {
			return nil, err
		}
	}

	groupNumber := newGroupNumber()
	topicId, err := s.ledger.CreateTopic(ctx, "aegis-group:"+groupNumber)
	if err != nil {
		return nil, fmt.Errorf("unable to create group topic: %w", err)
	}

	created, err := s.store.CreateGroup(ctx, store.CreateGroupParams{
		GroupNumber:   groupNumber,
		GroupName:     params.GroupName,
		TopicId:       topicId,
		WalletAddress: actor,
		ReleaseType:   params.ReleaseType,
		ReleaseDate:   params.ReleaseDate,
	})
	if err != nil {
		return nil, err
	}

	if topicId != "" {
		err = s.ledger.SubmitMessage(ctx, topicId, ledger.GroupCreatedMessage{
			Type:        ledger.MessageGroupCreated,
			GroupNumber: groupNumber,
			GroupName:   created.GroupName,
			Owner:       created.WalletAddress,
			ReleaseType: created.ReleaseType,
			ReleaseDate: created.ReleaseDate,
			Timestamp:   time.Now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("unable to record group creation: %w", err)
		}
	}

	return created, nil
}

// AddMember appends a member to a group the actor owns. The self-transfer
// guard applies to the owner's own address exactly as it does for relays.
func (s *StreamService) AddMember(ctx context.Context, actor string, params AddMemberParams) (*models.Member, error) {
	if params.Name == "" {
		return nil, &guard.ValidationError{Field: "name", Message: "is required"}
	}
	if err := guard.RequiredAddress("wallet_address", params.WalletAddress); err != nil {
		return nil, err
	}
	if err := guard.SelfTransfer(actor, params.WalletAddress); err != nil {
		return nil, err
	}
	if err := guard.PositiveAmount(params.Amount); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, params.GroupId)
	if err != nil {
		return nil, err
	}
	if !guard.SameAddress(group.WalletAddress, actor) {
		return nil, fmt.Errorf("group %s: %w", params.GroupId, store.ErrPermissionDenied)
	}

	member, err := s.store.AddMember(ctx, store.AddMemberParams{
		GroupId:       params.GroupId,
		Name:          params.Name,
		WalletAddress: params.WalletAddress,
		Amount:        params.Amount,
	})
	if err != nil {
		return nil, err
	}

	if group.TopicId != "" {
		err = s.ledger.SubmitMessage(ctx, group.TopicId, ledger.MemberAddedMessage{
			Type:          ledger.MessageMemberAdded,
			GroupNumber:   group.GroupNumber,
			MemberName:    member.Name,
			MemberAddress: member.WalletAddress,
			Amount:        member.Amount.String(),
			Timestamp:     time.Now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("unable to record member addition: %w", err)
		}
	}

	return member, nil
}

// ListGroups returns the actor's groups with members and release status
// derived against the current instant.
func (s *StreamService) ListGroups(ctx context.Context, actor string) ([]GroupView, error) {
	groups, err := s.store.ListGroupsByOwner(ctx, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	views := make([]GroupView, 0, len(groups))
	for _, g := range groups {
		members, err := s.store.ListMembers(ctx, g.Id)
		if err != nil {
			return nil, err
		}
		g.Status = ReleaseStatus(&g, now)
		views = append(views, GroupView{Group: g, Members: members})
	}
	return views, nil
}

// GetGroup returns one owned group with its members. Non-owners get a
// permission error rather than a not-found, matching the relay rule.
func (s *StreamService) GetGroup(ctx context.Context, actor, id string) (*GroupView, error) {
	group, err := s.store.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !guard.SameAddress(group.WalletAddress, actor) {
		return nil, fmt.Errorf("group %s: %w", id, store.ErrPermissionDenied)
	}

	members, err := s.store.ListMembers(ctx, group.Id)
	if err != nil {
		return nil, err
	}
	group.Status = ReleaseStatus(group, time.Now())
	return &GroupView{Group: *group, Members: members}, nil
}

// ReleaseStatus derives a one-time group's display status from the wall
// clock, mirroring the relay expiry rule: the stored status is never
// rewritten by a background job.
func ReleaseStatus(g *models.Group, now time.Time) string {
	if g.ReleaseType == models.ReleaseTypeOneTime && g.ReleaseDate != nil && !now.Before(*g.ReleaseDate) {
		return models.GroupStatusReleased
	}
	return g.Status
}
