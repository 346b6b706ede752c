// Package aggregate derives presentation-ready summaries from the flat
// collection of stored records. Everything here is a pure reduction:
// no store access, no mutation of the inputs.
package aggregate

import (
	"sort"
	"time"

	"github.com/famcare-dev/famcare/internal/models"
)

// RecentNotesLimit caps how many notes count as "recent" on the dashboard.
const RecentNotesLimit = 3

// DailyCompletion reports whether the member checked in on the given
// calendar day. One record is enough; duplicate submissions on the same
// day never double-count.
func DailyCompletion(checks []models.HealthCheck, date string) bool {
	for _, check := range checks {
		if check.Date == date {
			return true
		}
	}

	return false
}

type Stats struct {
	TotalMembers int `json:"total_members"`
	CheckedToday int `json:"checked_today"`
	TotalChecks  int `json:"total_checks"`
	RecentNotes  int `json:"recent_notes"`
}

// DashboardStats reduces the family's members, their check histories and
// the newest-first notes list into the dashboard counters. today is a
// date string in models.DateFormat.
func DashboardStats(members []models.Member, checksByMember map[string][]models.HealthCheck, notes []models.Note, today string) Stats {
	stats := Stats{TotalMembers: len(members)}

	for _, member := range members {
		checks := checksByMember[member.ID]
		stats.TotalChecks += len(checks)

		if DailyCompletion(checks, today) {
			stats.CheckedToday++
		}
	}

	stats.RecentNotes = len(notes)

	if stats.RecentNotes > RecentNotesLimit {
		stats.RecentNotes = RecentNotesLimit
	}

	return stats
}

// RecentActivityFeed merges the check histories of all members and
// returns the newest limit records. The sort is stable so same-instant
// records keep their relative order across repeated calls.
func RecentActivityFeed(checksByMember map[string][]models.HealthCheck, limit int) []models.HealthCheck {
	var merged []models.HealthCheck

	// Merge in member-id order so the pre-sort order is deterministic
	memberIDs := make([]string, 0, len(checksByMember))

	for memberID := range checksByMember {
		memberIDs = append(memberIDs, memberID)
	}

	sort.Strings(memberIDs)

	for _, memberID := range memberIDs {
		merged = append(merged, checksByMember[memberID]...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})

	if limit >= 0 && len(merged) > limit {
		merged = merged[:limit]
	}

	return merged
}

type DayCell struct {
	Day     int    `json:"day"`
	Date    string `json:"date"`
	Checked bool   `json:"checked"`
	Today   bool   `json:"today"`
	Future  bool   `json:"future"`
}

type Month struct {
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	LeadingBlanks int       `json:"leading_blanks"`
	Days          []DayCell `json:"days"`
}

// CalendarMatrix builds the day-by-day presence map for one month.
// LeadingBlanks is the weekday index of day 1 (0=Sunday), the number of
// empty cells a Sunday-first grid renders before the month starts.
// Future days are flagged separately so the caller can distinguish
// "not yet" from "missed".
func CalendarMatrix(year int, month time.Month, checks []models.HealthCheck, today time.Time) Month {
	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, today.Location())
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, today.Location()).Day()
	todayStr := today.Format(models.DateFormat)

	checkedDates := make(map[string]bool, len(checks))

	for _, check := range checks {
		checkedDates[check.Date] = true
	}

	matrix := Month{
		Year:          year,
		Month:         int(month),
		LeadingBlanks: int(firstDay.Weekday()),
		Days:          make([]DayCell, 0, daysInMonth),
	}

	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, today.Location()).Format(models.DateFormat)

		matrix.Days = append(matrix.Days, DayCell{
			Day:     day,
			Date:    date,
			Checked: checkedDates[date],
			Today:   date == todayStr,
			Future:  date > todayStr,
		})
	}

	return matrix
}
