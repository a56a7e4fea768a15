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

func scanGroup(scan func(dest ...any) error) (*models.Group, error) {
	var g models.Group
	var totalAmountStr string
	var releaseDate sql.NullTime
	err := scan(&g.Id, &g.GroupNumber, &g.GroupName, &g.TopicId, &releaseDate, &g.ReleaseType,
		&g.TotalMembers, &totalAmountStr, &g.WalletAddress, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}

	g.TotalAmount, err = decimal.NewFromString(totalAmountStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse total amount %q: %w", totalAmountStr, err)
	}
	if releaseDate.Valid {
		t := releaseDate.Time
		g.ReleaseDate = &t
	}
	return &g, nil
}

func (s *Service) CreateGroup(ctx context.Context, params store.CreateGroupParams) (*models.Group, error) {
	id := newId()
	now := time.Now().UTC()

	var releaseDate any
	if params.ReleaseDate != nil {
		releaseDate = params.ReleaseDate.UTC()
	}

	_, err := s.db.ExecContext(ctx, queryInsertGroup,
		id, params.GroupNumber, params.GroupName, params.TopicId, releaseDate,
		params.ReleaseType, guard.NormalizeAddress(params.WalletAddress), now, now)
	if err != nil {
		zap.L().Error("Failed to insert group", zap.String("group_number", params.GroupNumber), zap.Error(err))
		return nil, fmt.Errorf("unable to insert group: %w", err)
	}

	zap.L().Info("Group created",
		zap.String("group_id", id),
		zap.String("group_number", params.GroupNumber),
		zap.String("owner", params.WalletAddress))

	return s.GetGroup(ctx, id)
}

func (s *Service) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	row := s.db.QueryRowContext(ctx, queryGetGroup, id)
	group, err := scanGroup(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("group %s: %w", id, store.ErrNotFound)
		}
		zap.L().Error("Failed to query group", zap.String("group_id", id), zap.Error(err))
		return nil, fmt.Errorf("unable to query group: %w", err)
	}
	return group, nil
}

func (s *Service) ListGroupsByOwner(ctx context.Context, walletAddress string) ([]models.Group, error) {
	addr := guard.NormalizeAddress(walletAddress)

	rows, err := s.db.QueryContext(ctx, queryListGroupsByOwner, addr)
	if err != nil {
		zap.L().Error("Failed to query groups", zap.String("wallet", addr), zap.Error(err))
		return nil, fmt.Errorf("unable to query groups: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	groups := []models.Group{}
	for rows.Next() {
		group, err := scanGroup(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("unable to scan group row: %w", err)
		}
		groups = append(groups, *group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", err)
	}

	return groups, nil
}

// AddMember appends a member and bumps the owning group's totals in one
// database transaction.
func (s *Service) AddMember(ctx context.Context, params store.AddMemberParams) (*models.Member, error) {
	group, err := s.GetGroup(ctx, params.GroupId)
	if err != nil {
		return nil, err
	}

	id := newId()
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, queryInsertMember,
		id, params.GroupId, params.Name, guard.NormalizeAddress(params.WalletAddress),
		params.Amount.String(), now, now)
	if err != nil {
		zap.L().Error("Failed to insert member", zap.String("group_id", params.GroupId), zap.Error(err))
		return nil, fmt.Errorf("unable to insert member: %w", err)
	}

	newTotal := group.TotalAmount.Add(params.Amount)
	if _, err := tx.ExecContext(ctx, queryBumpGroupTotals, newTotal.String(), now, params.GroupId); err != nil {
		return nil, fmt.Errorf("unable to update group totals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("unable to commit member addition: %w", err)
	}

	zap.L().Info("Member added",
		zap.String("member_id", id),
		zap.String("group_id", params.GroupId),
		zap.String("amount", params.Amount.String()))

	members, err := s.ListMembers(ctx, params.GroupId)
	if err != nil {
		return nil, err
	}
	for i := range members {
		if members[i].Id == id {
			return &members[i], nil
		}
	}
	return nil, fmt.Errorf("member %s: %w", id, store.ErrNotFound)
}

func (s *Service) ListMembers(ctx context.Context, groupId string) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx, queryListMembers, groupId)
	if err != nil {
		zap.L().Error("Failed to query members", zap.String("group_id", groupId), zap.Error(err))
		return nil, fmt.Errorf("unable to query members: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		var amountStr string
		err := rows.Scan(&m.Id, &m.GroupId, &m.Name, &m.WalletAddress, &amountStr, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan member row: %w", err)
		}
		m.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("unable to parse member amount %q: %w", amountStr, err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	return members, nil
}
