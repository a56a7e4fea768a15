package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletAccount represents a connected wallet tracked in the users table.
// Addresses are stored lower-cased.
type WalletAccount struct {
	Id               string    `json:"id" db:"id"`
	WalletAddress    string    `json:"wallet_address" db:"wallet_address"`
	ChainId          int64     `json:"chain_id,omitempty" db:"chain_id"`
	FirstConnectedAt time.Time `json:"first_connected_at" db:"first_connected_at"`
	LastConnectedAt  time.Time `json:"last_connected_at" db:"last_connected_at"`
	ConnectionCount  int       `json:"connection_count" db:"connection_count"`
	IsActive         bool      `json:"is_active" db:"is_active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// Relay is a proposed one-way transfer requiring receiver approval before
// sender execution. Rows are never deleted; terminal relays remain as history.
type Relay struct {
	Id              string          `json:"id" db:"id"`
	RelayNumber     string          `json:"relay_number" db:"relay_number"`
	TopicId         string          `json:"topic_id,omitempty" db:"topic_id"`
	SenderAddress   string          `json:"sender_address" db:"sender_address"`
	ReceiverAddress string          `json:"receiver_address" db:"receiver_address"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Status          string          `json:"status" db:"status"`
	TransactionHash string          `json:"transaction_hash,omitempty" db:"transaction_hash"`
	ExpiresAt       *time.Time      `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// Group release types.
const (
	ReleaseTypeMonthly = "monthly"
	ReleaseTypeOneTime = "one-time"
)

// Group statuses.
const (
	GroupStatusUpcoming = "upcoming"
	GroupStatusReleased = "released"
)

// Group is a named collection of members whose amounts release together on a
// schedule.
type Group struct {
	Id            string          `json:"id" db:"id"`
	GroupNumber   string          `json:"group_number" db:"group_number"`
	GroupName     string          `json:"group_name" db:"group_name"`
	TopicId       string          `json:"topic_id,omitempty" db:"topic_id"`
	ReleaseDate   *time.Time      `json:"release_date,omitempty" db:"release_date"`
	ReleaseType   string          `json:"release_type" db:"release_type"`
	TotalMembers  int             `json:"total_members" db:"total_members"`
	TotalAmount   decimal.Decimal `json:"total_amount" db:"total_amount"`
	WalletAddress string          `json:"wallet_address" db:"wallet_address"`
	Status        string          `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// Member is one recipient inside a stream group.
type Member struct {
	Id            string          `json:"id" db:"id"`
	GroupId       string          `json:"group_id" db:"group_id"`
	Name          string          `json:"name" db:"name"`
	WalletAddress string          `json:"wallet_address" db:"wallet_address"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// Legacy plan activation moment types.
const (
	MomentSpecificDate = "specific_date"
	MomentIfImGone     = "if_im_gone"
)

// LegacyPlan holds one activation moment for a wallet's inheritance setup.
// MomentValue is an RFC3339 instant for specific_date, or an inactivity
// interval key (10min, 6months, 1year, 2years, 3years) for if_im_gone.
type LegacyPlan struct {
	Id            string    `json:"id" db:"id"`
	WalletAddress string    `json:"wallet_address" db:"wallet_address"`
	MomentType    string    `json:"moment_type" db:"moment_type"`
	MomentValue   string    `json:"moment_value" db:"moment_value"`
	Activated     bool      `json:"activated" db:"activated"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Beneficiary is one recipient of a wallet's legacy plan. Percentages across
// a plan must not exceed 100.
type Beneficiary struct {
	Id            string          `json:"id" db:"id"`
	WalletAddress string          `json:"wallet_address" db:"wallet_address"`
	Name          string          `json:"name" db:"name"`
	Address       string          `json:"address" db:"address"`
	Percentage    decimal.Decimal `json:"percentage" db:"percentage"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}
