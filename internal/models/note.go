package models

import "time"

const (
	NoteTypeGeneral    = "general"
	NoteTypeSuggestion = "suggestion"
	NoteTypeWarning    = "warning"
	NoteTypeReminder   = "reminder"
)

type Note struct {
	ID            string    `json:"id"`
	FamilyGroupID string    `json:"familyGroupId"`
	Content       string    `json:"content"`
	Type          string    `json:"type"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NormalizeNoteType coerces unrecognized note types to "general".
// Every write path goes through here so the stored set stays closed.
func NormalizeNoteType(noteType string) string {
	switch noteType {
	case NoteTypeGeneral, NoteTypeSuggestion, NoteTypeWarning, NoteTypeReminder:
		return noteType
	default:
		return NoteTypeGeneral
	}
}
