package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/youvandra/aegis-protocol/internal/guard"
	"github.com/youvandra/aegis-protocol/internal/ledger"
	"github.com/youvandra/aegis-protocol/internal/models"
	"github.com/youvandra/aegis-protocol/internal/relay"
	"github.com/youvandra/aegis-protocol/internal/store"
)

// RelayService owns the relay workflow: creation guards, the role-gated
// status transitions, and topic recording.
type RelayService struct {
	store  store.Store
	ledger ledger.Submitter
}

func NewRelayService(st store.Store, sub ledger.Submitter) *RelayService {
	return &RelayService{store: st, ledger: sub}
}

// CreateRelayParams is the sender's creation intent.
type CreateRelayParams struct {
	ReceiverAddress string
	Amount          decimal.Decimal
	ExpiresAt       *time.Time
}

// RelayView is a relay as displayed to one party: status is the effective
// status at read time and Direction tells the caller which side they are on.
type RelayView struct {
	models.Relay
	Direction string `json:"direction"` // "send" or "receive"
}

func (s *RelayService) view(r models.Relay, wallet string, now time.Time) RelayView {
	direction := "receive"
	if relay.RoleOf(&r, wallet) == relay.RoleSender {
		direction = "send"
	}
	r.Status = string(relay.EffectiveStatus(&r, now))
	return RelayView{Relay: r, Direction: direction}
}

// Create validates the sender's intent, creates the relay's topic, persists
// the row in the initial status, and records the creation intent message.
// A topic or message failure fails the whole action; a row already written
// is not compensated.
func (s *RelayService) Create(ctx context.Context, actor string, params CreateRelayParams) (*models.Relay, error) {
	if err := guard.RequiredAddress("receiver_address", params.ReceiverAddress); err != nil {
		return nil, err
	}
	if err := guard.SelfTransfer(actor, params.ReceiverAddress); err != nil {
		return nil, err
	}
	if err := guard.PositiveAmount(params.Amount); err != nil {
		return nil, err
	}
	if params.ExpiresAt != nil {
		if err := guard.FutureInstant("expires_at", *params.ExpiresAt, time.Now()); err != nil {
			return nil, err
		}
	}

	relayNumber := newRelayNumber()
	topicId, err := s.ledger.CreateTopic(ctx, "aegis-relay:"+relayNumber)
	if err != nil {
		return nil, fmt.Errorf("unable to create relay topic: %w", err)
	}

	created, err := s.store.CreateRelay(ctx, store.CreateRelayParams{
		RelayNumber:     relayNumber,
		TopicId:         topicId,
		SenderAddress:   actor,
		ReceiverAddress: params.ReceiverAddress,
		Amount:          params.Amount,
		Status:          string(relay.StatusAwaitingApproval),
		ExpiresAt:       params.ExpiresAt,
	})
	if err != nil {
		return nil, err
	}

	if topicId != "" {
		err = s.ledger.SubmitMessage(ctx, topicId, ledger.RelayCreatedMessage{
			Type:            ledger.MessageRelayCreated,
			RelayNumber:     relayNumber,
			SenderAddress:   created.SenderAddress,
			ReceiverAddress: created.ReceiverAddress,
			Amount:          created.Amount.String(),
			ExpiresAt:       created.ExpiresAt,
			Timestamp:       time.Now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("unable to record relay creation: %w", err)
		}
	}

	return created, nil
}

// List returns every relay the wallet is a party to, with effective
// statuses and directions resolved for display.
func (s *RelayService) List(ctx context.Context, actor string) ([]RelayView, error) {
	relays, err := s.store.ListRelaysByWallet(ctx, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	views := make([]RelayView, 0, len(relays))
	for _, r := range relays {
		views = append(views, s.view(r, actor, now))
	}
	return views, nil
}

// Get returns one relay as seen by the acting wallet. Callers who are not a
// party to the relay get permission denied, not the row.
func (s *RelayService) Get(ctx context.Context, actor, id string) (*RelayView, error) {
	r, err := s.store.GetRelay(ctx, id)
	if err != nil {
		return nil, err
	}
	if relay.RoleOf(r, actor) == relay.RoleNone {
		return nil, fmt.Errorf("relay %s: %w", id, store.ErrPermissionDenied)
	}
	v := s.view(*r, actor, time.Now())
	return &v, nil
}

// Approve moves the relay to awaiting execution. Only the receiver may
// approve, and only while the relay awaits approval. The optional typed-data
// signature is recorded to the relay's topic, not verified here.
func (s *RelayService) Approve(ctx context.Context, actor, id, signature string) (*models.Relay, error) {
	updated, err := s.transition(ctx, actor, id, relay.ActionApprove, "")
	if err != nil {
		return nil, err
	}

	if updated.TopicId != "" {
		err = s.ledger.SubmitMessage(ctx, updated.TopicId, ledger.RelayApprovedMessage{
			Type:            ledger.MessageRelayApproved,
			RelayNumber:     updated.RelayNumber,
			ReceiverAddress: updated.ReceiverAddress,
			Signature:       signature,
			Timestamp:       time.Now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("unable to record relay approval: %w", err)
		}
	}

	return updated, nil
}

// Reject ends the relay by receiver refusal.
func (s *RelayService) Reject(ctx context.Context, actor, id string) (*models.Relay, error) {
	return s.transition(ctx, actor, id, relay.ActionReject, "")
}

// Cancel ends the relay by sender withdrawal, from either non-terminal
// status.
func (s *RelayService) Cancel(ctx context.Context, actor, id string) (*models.Relay, error) {
	return s.transition(ctx, actor, id, relay.ActionCancel, "")
}

// Execute completes the relay, recording the on-chain transaction hash the
// sender's client produced.
func (s *RelayService) Execute(ctx context.Context, actor, id, transactionHash string) (*models.Relay, error) {
	if transactionHash == "" {
		return nil, &guard.ValidationError{Field: "transaction_hash", Message: "is required"}
	}
	return s.transition(ctx, actor, id, relay.ActionExecute, transactionHash)
}

func (s *RelayService) transition(ctx context.Context, actor, id string, action relay.Action, transactionHash string) (*models.Relay, error) {
	current, err := s.store.GetRelay(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := relay.Apply(current, action, actor, time.Now())
	if err != nil {
		zap.L().Warn("Relay transition refused",
			zap.String("relay_id", id),
			zap.String("action", string(action)),
			zap.String("status", current.Status),
			zap.String("actor", guard.NormalizeAddress(actor)),
			zap.Error(err))
		return nil, err
	}

	return s.store.UpdateRelayStatus(ctx, store.UpdateRelayStatusParams{
		Id:              id,
		Status:          string(next),
		TransactionHash: transactionHash,
	})
}
