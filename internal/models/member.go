package models

import "time"

type Member struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Relationship  string    `json:"relationship"`
	FamilyGroupID string    `json:"familyGroupId"`
	CreatedAt     time.Time `json:"createdAt"`
}
