package ledger

import "time"

// Message types written to topics. Payloads are human-readable JSON meant
// for mirror-node inspection, so field names stay snake_case and amounts are
// decimal strings.
const (
	MessageRelayCreated  = "relay_created"
	MessageRelayApproved = "relay_approved"
	MessageGroupCreated  = "group_created"
	MessageMemberAdded   = "member_added"
)

type RelayCreatedMessage struct {
	Type            string     `json:"type"`
	RelayNumber     string     `json:"relay_number"`
	SenderAddress   string     `json:"sender_address"`
	ReceiverAddress string     `json:"receiver_address"`
	Amount          string     `json:"amount"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	Timestamp       time.Time  `json:"timestamp"`
}

// RelayApprovedMessage records the receiver's consent. Signature is the
// typed-data signature captured at approval time; it is recorded verbatim
// and not verified by this layer.
type RelayApprovedMessage struct {
	Type            string    `json:"type"`
	RelayNumber     string    `json:"relay_number"`
	ReceiverAddress string    `json:"receiver_address"`
	Signature       string    `json:"signature,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

type GroupCreatedMessage struct {
	Type        string     `json:"type"`
	GroupNumber string     `json:"group_number"`
	GroupName   string     `json:"group_name"`
	Owner       string     `json:"owner"`
	ReleaseType string     `json:"release_type"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
}

type MemberAddedMessage struct {
	Type          string    `json:"type"`
	GroupNumber   string    `json:"group_number"`
	MemberName    string    `json:"member_name"`
	MemberAddress string    `json:"member_address"`
	Amount        string    `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
}
