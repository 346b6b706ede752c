package models

import "time"

type Family struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	OwnerID    string    `json:"ownerId"`
	OwnerEmail string    `json:"ownerEmail"`
	MemberIDs  []string  `json:"memberIds"`
	CreatedAt  time.Time `json:"createdAt"`
}
