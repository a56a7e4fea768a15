// Package ledger records user intent to Hedera consensus topics. Each relay
// and each stream group gets its own topic as a correlation/audit channel;
// JSON messages record creation, the approval signature, and membership.
// Submission success is treated as durable recording; submission failure
// fails the surrounding user action without rolling back rows already
// written to the persistence gateway.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"go.uber.org/zap"

	"github.com/youvandra/aegis-protocol/internal/models"
)

// Submitter is the contract the domain services depend on. The real
// implementation talks to Hedera; Disabled stands in when no operator
// credentials are configured.
type Submitter interface {
	CreateTopic(ctx context.Context, memo string) (string, error)
	SubmitMessage(ctx context.Context, topicId string, message any) error
	Close()
}

type Service struct {
	client *hedera.Client
}

var _ Submitter = (*Service)(nil)

func NewService(cfg models.LedgerConfig) (*Service, error) {
	operatorId, err := hedera.AccountIDFromString(cfg.OperatorId)
	if err != nil {
		return nil, fmt.Errorf("invalid operator account id %q: %w", cfg.OperatorId, err)
	}
	operatorKey, err := hedera.PrivateKeyFromString(cfg.OperatorKey)
	if err != nil {
		return nil, fmt.Errorf("invalid operator key: %w", err)
	}

	var client *hedera.Client
	switch cfg.Network {
	case "mainnet":
		client = hedera.ClientForMainnet()
	case "previewnet":
		client = hedera.ClientForPreviewnet()
	default:
		client = hedera.ClientForTestnet()
	}
	client.SetOperator(operatorId, operatorKey)

	zap.L().Info("Ledger service initialized",
		zap.String("network", cfg.Network),
		zap.String("operator", cfg.OperatorId))

	return &Service{client: client}, nil
}

// CreateTopic creates one consensus topic and returns its id.
func (s *Service) CreateTopic(ctx context.Context, memo string) (string, error) {
	resp, err := hedera.NewTopicCreateTransaction().
		SetTopicMemo(memo).
		Execute(s.client)
	if err != nil {
		return "", fmt.Errorf("unable to create topic: %w", err)
	}

	receipt, err := resp.GetReceipt(s.client)
	if err != nil {
		return "", fmt.Errorf("unable to get topic receipt: %w", err)
	}
	if receipt.TopicID == nil {
		return "", fmt.Errorf("topic receipt carried no topic id")
	}

	topicId := receipt.TopicID.String()
	zap.L().Info("Consensus topic created",
		zap.String("topic_id", topicId),
		zap.String("memo", memo))
	return topicId, nil
}

// SubmitMessage marshals the message to JSON and submits it to the topic.
func (s *Service) SubmitMessage(ctx context.Context, topicId string, message any) error {
	tid, err := hedera.TopicIDFromString(topicId)
	if err != nil {
		return fmt.Errorf("invalid topic id %q: %w", topicId, err)
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("unable to marshal topic message: %w", err)
	}

	resp, err := hedera.NewTopicMessageSubmitTransaction().
		SetTopicID(tid).
		SetMessage(payload).
		Execute(s.client)
	if err != nil {
		return fmt.Errorf("unable to submit topic message: %w", err)
	}
	if _, err := resp.GetReceipt(s.client); err != nil {
		return fmt.Errorf("topic message not accepted: %w", err)
	}

	zap.L().Info("Topic message recorded",
		zap.String("topic_id", topicId),
		zap.Int("bytes", len(payload)))
	return nil
}

// Close releases the underlying network client.
func (s *Service) Close() {
	if err := s.client.Close(); err != nil {
		zap.L().Warn("Failed to close ledger client", zap.Error(err))
	}
}

// Disabled is the Submitter used when no operator is configured: topics are
// skipped and messages are dropped with a debug log, so every flow still
// works in local development.
type Disabled struct{}

var _ Submitter = Disabled{}

func (Disabled) CreateTopic(ctx context.Context, memo string) (string, error) {
	zap.L().Debug("Ledger disabled, skipping topic creation", zap.String("memo", memo))
	return "", nil
}

func (Disabled) SubmitMessage(ctx context.Context, topicId string, message any) error {
	zap.L().Debug("Ledger disabled, dropping topic message", zap.String("topic_id", topicId))
	return nil
}

func (Disabled) Close() {}
