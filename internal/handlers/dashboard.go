package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/famcare-dev/famcare/internal/aggregate"
	"github.com/famcare-dev/famcare/internal/models"
	"github.com/famcare-dev/famcare/internal/store"
	"github.com/famcare-dev/famcare/internal/utils"
)

// RecentActivityLimit caps the merged cross-member feed on the dashboard.
const RecentActivityLimit = 5

type DashboardHandler struct {
	records store.RecordStore
}

func NewDashboardHandler(records store.RecordStore) *DashboardHandler {
	return &DashboardHandler{records: records}
}

type FamilySummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MemberCount int    `json:"member_count"`
}

type MemberSummary struct {
	Member       models.Member `json:"member"`
	CheckedToday bool          `json:"checked_today"`
	TotalChecks  int           `json:"total_checks"`
}

type DashboardResponse struct {
	Family         FamilySummary        `json:"family"`
	Stats          aggregate.Stats      `json:"stats"`
	Members        []MemberSummary      `json:"members"`
	RecentActivity []models.HealthCheck `json:"recent_activity"`
	RecentNotes    []models.Note        `json:"recent_notes"`
}

// GetDashboard joins the family's members, their check histories and the
// notes list into one response for the landing view.
func (h *DashboardHandler) GetDashboard(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	family, err := loadFamily(ctx.Request.Context(), h.records, user.FamilyGroupID)

	if errors.Is(err, store.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Family not found"})
		return
	}

	if err != nil {
		log.Printf("Failed to load family %s: %v", user.FamilyGroupID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	members, err := loadFamilyMembers(ctx.Request.Context(), h.records, family)

	if err != nil {
		log.Printf("Failed to load members of family %s: %v", family.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	checksByMember := make(map[string][]models.HealthCheck, len(members))

	for _, member := range members {
		checks, err := loadMemberChecks(ctx.Request.Context(), h.records, member.ID)

		if err != nil {
			log.Printf("Failed to load checks for member %s: %v", member.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		checksByMember[member.ID] = checks
	}

	notes, err := loadFamilyNotes(ctx.Request.Context(), h.records, family.ID)

	if err != nil {
		log.Printf("Failed to load notes for family %s: %v", family.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	today := time.Now().Format(models.DateFormat)

	memberSummaries := make([]MemberSummary, 0, len(members))

	for _, member := range members {
		checks := checksByMember[member.ID]

		memberSummaries = append(memberSummaries, MemberSummary{
			Member:       member,
			CheckedToday: aggregate.DailyCompletion(checks, today),
			TotalChecks:  len(checks),
		})
	}

	recentNotes := notes

	if len(recentNotes) > aggregate.RecentNotesLimit {
		recentNotes = recentNotes[:aggregate.RecentNotesLimit]
	}

	ctx.JSON(http.StatusOK, DashboardResponse{
		Family: FamilySummary{
			ID:          family.ID,
			Name:        family.Name,
			MemberCount: len(members),
		},
		Stats:          aggregate.DashboardStats(members, checksByMember, notes, today),
		Members:        memberSummaries,
		RecentActivity: aggregate.RecentActivityFeed(checksByMember, RecentActivityLimit),
		RecentNotes:    recentNotes,
	})
}
