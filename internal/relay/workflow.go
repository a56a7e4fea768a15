// Package relay implements the relay approval/execution workflow: an
// enumerated status set with role-gated transitions validated centrally,
// and read-time expiry derivation.
package relay

import (
	"errors"
	"strings"
	"time"

	"github.com/youvandra/aegis-protocol/internal/models"
)

// Status is the lifecycle state of a relay. Relays are created directly in
// StatusAwaitingApproval; Expired is derived from the wall clock at read
// time and never written by a background transition.
type Status string

const (
	StatusAwaitingApproval  Status = "Waiting for Receiver's Approval"
	StatusAwaitingExecution Status = "Waiting for Sender to Execute"
	StatusComplete          Status = "Complete"
	StatusRejected          Status = "Rejected"
	StatusExpired           Status = "Expired"
)

// Terminal reports whether no further transitions are permitted.
func (s Status) Terminal() bool {
	switch s {
	case StatusComplete, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// Action is a party-invoked transition request.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionExecute Action = "execute"
	ActionCancel  Action = "cancel"
)

// Role is the caller's relationship to a relay.
type Role string

const (
	RoleSender   Role = "sender"
	RoleReceiver Role = "receiver"
	RoleNone     Role = "none"
)

var (
	// ErrNotAllowed means the (status, action, role) triple has no
	// transition: wrong actor, wrong action for the current status, or a
	// caller who is not a party to the relay at all.
	ErrNotAllowed = errors.New("transition not allowed")
	// ErrTerminal means the relay already reached Complete or Rejected.
	ErrTerminal = errors.New("relay is in a terminal status")
	// ErrExpired means the relay's deadline has passed.
	ErrExpired = errors.New("relay has expired")
)

type transitionKey struct {
	From   Status
	Action Action
	Role   Role
}

// The full transition table. Anything absent here is refused.
var transitions = map[transitionKey]Status{
	{StatusAwaitingApproval, ActionApprove, RoleReceiver}: StatusAwaitingExecution,
	{StatusAwaitingApproval, ActionReject, RoleReceiver}:  StatusRejected,
	{StatusAwaitingApproval, ActionCancel, RoleSender}:    StatusRejected,
	{StatusAwaitingExecution, ActionExecute, RoleSender}:  StatusComplete,
	{StatusAwaitingExecution, ActionCancel, RoleSender}:   StatusRejected,
}

// RoleOf resolves the caller's role by case-insensitive address comparison.
func RoleOf(r *models.Relay, wallet string) Role {
	switch {
	case strings.EqualFold(r.SenderAddress, wallet):
		return RoleSender
	case strings.EqualFold(r.ReceiverAddress, wallet):
		return RoleReceiver
	}
	return RoleNone
}

// EffectiveStatus returns the status a relay should display at the given
// instant. A stored terminal status wins; otherwise a past deadline reads
// as Expired regardless of the stored value.
func EffectiveStatus(r *models.Relay, now time.Time) Status {
	stored := Status(r.Status)
	if stored.Terminal() {
		return stored
	}
	if r.ExpiresAt != nil && !now.Before(*r.ExpiresAt) {
		return StatusExpired
	}
	return stored
}

// Next looks up the transition table directly.
func Next(from Status, action Action, role Role) (Status, error) {
	next, ok := transitions[transitionKey{from, action, role}]
	if !ok {
		return "", ErrNotAllowed
	}
	return next, nil
}

// Apply validates an action by the given wallet against the relay's
// effective status at now, returning the status the relay should move to.
// The relay itself is not mutated; persistence is the caller's problem.
func Apply(r *models.Relay, action Action, wallet string, now time.Time) (Status, error) {
	current := EffectiveStatus(r, now)
	if current == StatusExpired {
		return "", ErrExpired
	}
	if current.Terminal() {
		return "", ErrTerminal
	}
	return Next(current, action, RoleOf(r, wallet))
}
