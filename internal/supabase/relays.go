package supabase

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/youvandra/aegis-protocol/internal/guard"
	"github.com/youvandra/aegis-protocol/internal/models"
	"github.com/youvandra/aegis-protocol/internal/store"
)

type relayInsert struct {
	RelayNumber     string          `json:"relay_number"`
	TopicId         string          `json:"topic_id,omitempty"`
	SenderAddress   string          `json:"sender_address"`
	ReceiverAddress string          `json:"receiver_address"`
	Amount          decimal.Decimal `json:"amount"`
	Status          string          `json:"status"`
	ExpiresAt       *time.Time      `json:"expires_at,omitempty"`
}

type relayStatusPatch struct {
	Status          string `json:"status"`
	TransactionHash string `json:"transaction_hash,omitempty"`
}

func (s *Service) CreateRelay(ctx context.Context, params store.CreateRelayParams) (*models.Relay, error) {
	data, err := s.client.Request(ctx, "POST", "relays", relayInsert{
		RelayNumber:     params.RelayNumber,
		TopicId:         params.TopicId,
		SenderAddress:   guard.NormalizeAddress(params.SenderAddress),
		ReceiverAddress: guard.NormalizeAddress(params.ReceiverAddress),
		Amount:          params.Amount,
		Status:          params.Status,
		ExpiresAt:       params.ExpiresAt,
	}, "")
	if err != nil {
		return nil, fmt.Errorf("create relay: %w", err)
	}

	relay, err := one[models.Relay](data, "relays")
	if err != nil {
		return nil, err
	}

	zap.L().Info("Relay created",
		zap.String("relay_id", relay.Id),
		zap.String("relay_number", relay.RelayNumber),
		zap.String("sender", relay.SenderAddress),
		zap.String("receiver", relay.ReceiverAddress),
		zap.String("amount", relay.Amount.String()))

	return relay, nil
}

func (s *Service) GetRelay(ctx context.Context, id string) (*models.Relay, error) {
	data, err := s.client.Request(ctx, "GET", "relays", nil, eq("id", id)+"&limit=1")
	if err != nil {
		return nil, fmt.Errorf("get relay: %w", err)
	}
	return one[models.Relay](data, "relays")
}

func (s *Service) ListRelaysByWallet(ctx context.Context, walletAddress string) ([]models.Relay, error) {
	addr := guard.NormalizeAddress(walletAddress)
	filter := "or=" + url.QueryEscape(fmt.Sprintf("(sender_address.eq.%s,receiver_address.eq.%s)", addr, addr))

	data, err := s.client.Request(ctx, "GET", "relays", nil, filter+"&order=created_at.desc")
	if err != nil {
		return nil, fmt.Errorf("list relays: %w", err)
	}
	relays, err := rows[models.Relay](data)
	if err != nil {
		return nil, err
	}
	if relays == nil {
		relays = []models.Relay{}
	}
	return relays, nil
}

func (s *Service) UpdateRelayStatus(ctx context.Context, params store.UpdateRelayStatusParams) (*models.Relay, error) {
	data, err := s.client.Request(ctx, "PATCH", "relays", relayStatusPatch{
		Status:          params.Status,
		TransactionHash: params.TransactionHash,
	}, eq("id", params.Id))
	if err != nil {
		return nil, fmt.Errorf("update relay status: %w", err)
	}

	relay, err := one[models.Relay](data, "relays")
	if err != nil {
		return nil, err
	}

	zap.L().Info("Relay status updated",
		zap.String("relay_id", relay.Id),
		zap.String("status", relay.Status))

	return relay, nil
}
