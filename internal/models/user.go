package models

import "time"

type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	FamilyGroupID string    `json:"familyGroupId"`
	CreatedAt     time.Time `json:"createdAt"`
}
