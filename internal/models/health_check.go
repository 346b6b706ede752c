package models

import "time"

// DateFormat is the calendar-day form stamped onto every health check.
const DateFormat = "2006-01-02"

type HealthCheck struct {
	ID            string    `json:"id"`
	MemberID      string    `json:"memberId"`
	Status        string    `json:"status"`
	Note          string    `json:"note"`
	Temperature   string    `json:"temperature,omitempty"`
	BloodPressure string    `json:"bloodPressure,omitempty"`
	Date          string    `json:"date"`
	Timestamp     time.Time `json:"timestamp"`
}
