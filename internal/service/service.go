// Package service implements the domain services behind each user flow:
// relay creation and its approval/execution workflow, stream groups and
// members, legacy plans and beneficiaries, and wallet account tracking.
// Every operation takes the acting wallet address as an explicit parameter;
// no ambient identity is carried anywhere.
package service

import (
	"strings"

	"github.com/google/uuid"
)

// shortRef returns an 8-character upper-case reference fragment for
// human-facing relay and group numbers.
func shortRef() string {
	return strings.ToUpper(uuid.New().String()[:8])
}

func newRelayNumber() string {
	return "RLY-" + shortRef()
}

func newGroupNumber() string {
	return "GRP-" + shortRef()
}
