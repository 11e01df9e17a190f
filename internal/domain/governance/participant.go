package governance

import (
	"strings"
	"unicode/utf8"
)

type ParticipantStatus string

const (
	ParticipantActive   ParticipantStatus = "Active"
	ParticipantInactive ParticipantStatus = "Inactive"
)

const MaxParticipantNameLength = 64

type Participant struct {
	OwnerIdentity Identity          `json:"owner_identity"`
	Name          string            `json:"name"`
	Status        ParticipantStatus `json:"status"`
}

// ParseParticipantStatus accepts either casing; empty means Active.
func ParseParticipantStatus(raw string) (ParticipantStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "active":
		return ParticipantActive, true
	case "inactive":
		return ParticipantInactive, true
	default:
		return "", false
	}
}

// NameTooLong counts characters, not bytes.
func NameTooLong(name string) bool {
	return utf8.RuneCountInString(name) > MaxParticipantNameLength
}
