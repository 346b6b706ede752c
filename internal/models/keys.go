package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Records live in a flat key-value namespace with one prefix per entity
// type. Health-check ids embed the member id and date so that a member's
// history is a single prefix scan.

func UserKey(email string) string          { return "user:" + email }
func FamilyKey(familyID string) string     { return "family:" + familyID }
func MemberKey(memberID string) string     { return "member:" + memberID }
func HealthCheckKey(checkID string) string { return "healthcheck:" + checkID }
func NoteKey(noteID string) string         { return "note:" + noteID }

func HealthCheckPrefix(memberID string) string {
	return fmt.Sprintf("healthcheck:healthcheck_%s_", memberID)
}

const NotePrefix = "note:note_"

func NewFamilyID() string { return "family_" + uuid.NewString() }
func NewMemberID() string { return "member_" + uuid.NewString() }
func NewNoteID() string   { return "note_" + uuid.NewString() }

func NewHealthCheckID(memberID string, now time.Time) string {
	// The random suffix keeps two submissions within the same
	// millisecond from colliding on one key.
	return fmt.Sprintf("healthcheck_%s_%s_%d_%s", memberID, now.Format(DateFormat), now.UnixMilli(), uuid.NewString()[:8])
}
