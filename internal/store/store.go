package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/youvandra/aegis-protocol/internal/models"
)

// Sentinel errors shared across all backend implementations. Callers check
// them with errors.Is so the API layer can distinguish not-found from
// permission problems from a backend outage.
var (
	ErrNotFound         = errors.New("record not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrConflict         = errors.New("conflicting update")
	ErrUnavailable      = errors.New("persistence gateway unavailable")
)

// CreateRelayParams contains everything needed to persist a new relay.
// The caller has already run the creation guards and created the topic.
type CreateRelayParams struct {
	RelayNumber     string
	TopicId         string
	SenderAddress   string
	ReceiverAddress string
	Amount          decimal.Decimal
	Status          string
	ExpiresAt       *time.Time
}

// UpdateRelayStatusParams records a status transition. TransactionHash is
// only set for the execute transition and left untouched otherwise.
type UpdateRelayStatusParams struct {
	Id              string
	Status          string
	TransactionHash string
}

// CreateGroupParams contains everything needed to persist a stream group.
type CreateGroupParams struct {
	GroupNumber   string
	GroupName     string
	TopicId       string
	WalletAddress string
	ReleaseType   string
	ReleaseDate   *time.Time
}

// AddMemberParams appends one member to a group. Backends also bump the
// group's total_members and total_amount in the same write.
type AddMemberParams struct {
	GroupId       string
	Name          string
	WalletAddress string
	Amount        decimal.Decimal
}

// UpsertPlanParams sets or replaces a wallet's legacy plan moment.
type UpsertPlanParams struct {
	WalletAddress string
	MomentType    string
	MomentValue   string
}

// CreateBeneficiaryParams appends a beneficiary to a wallet's plan.
type CreateBeneficiaryParams struct {
	WalletAddress string
	Name          string
	Address       string
	Percentage    decimal.Decimal
}

// UpdateBeneficiaryParams edits one beneficiary, scoped to its owner.
type UpdateBeneficiaryParams struct {
	Id            string
	WalletAddress string
	Name          string
	Address       string
	Percentage    decimal.Decimal
}

// Store defines the persistence gateway contract every backend (Supabase,
// SQLite) must satisfy. Every operation takes the scoping wallet address
// explicitly; no backend carries ambient identity state. List reads return
// an empty slice, never a nil-is-error, when nothing matches.
type Store interface {
	// --- Wallet accounts ---
	UpsertWalletAccount(ctx context.Context, walletAddress string, chainId int64) (*models.WalletAccount, error)
	GetWalletAccount(ctx context.Context, walletAddress string) (*models.WalletAccount, error)
	ListWalletAccounts(ctx context.Context) ([]models.WalletAccount, error)
	SetAccountInactive(ctx context.Context, walletAddress string) error

	// --- Relays ---
	CreateRelay(ctx context.Context, params CreateRelayParams) (*models.Relay, error)
	GetRelay(ctx context.Context, id string) (*models.Relay, error)
	ListRelaysByWallet(ctx context.Context, walletAddress string) ([]models.Relay, error)
	UpdateRelayStatus(ctx context.Context, params UpdateRelayStatusParams) (*models.Relay, error)

	// --- Stream groups ---
	CreateGroup(ctx context.Context, params CreateGroupParams) (*models.Group, error)
	GetGroup(ctx context.Context, id string) (*models.Group, error)
	ListGroupsByOwner(ctx context.Context, walletAddress string) ([]models.Group, error)
	AddMember(ctx context.Context, params AddMemberParams) (*models.Member, error)
	ListMembers(ctx context.Context, groupId string) ([]models.Member, error)

	// --- Legacy plans ---
	UpsertLegacyPlan(ctx context.Context, params UpsertPlanParams) (*models.LegacyPlan, error)
	GetLegacyPlan(ctx context.Context, walletAddress string) (*models.LegacyPlan, error)
	CreateBeneficiary(ctx context.Context, params CreateBeneficiaryParams) (*models.Beneficiary, error)
	UpdateBeneficiary(ctx context.Context, params UpdateBeneficiaryParams) (*models.Beneficiary, error)
	DeleteBeneficiary(ctx context.Context, id, walletAddress string) error
	ListBeneficiaries(ctx context.Context, walletAddress string) ([]models.Beneficiary, error)

	// --- Lifecycle ---
	Close()
}
