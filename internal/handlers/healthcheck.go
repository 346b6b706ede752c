package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/famcare-dev/famcare/internal/models"
	"github.com/famcare-dev/famcare/internal/store"
	"github.com/famcare-dev/famcare/internal/utils"
)

type HealthCheckHandler struct {
	records store.RecordStore
}

func NewHealthCheckHandler(records store.RecordStore) *HealthCheckHandler {
	return &HealthCheckHandler{records: records}
}

type CreateHealthCheckRequest struct {
	MemberID      string `json:"memberId" binding:"required"`
	Status        string `json:"status" binding:"required"`
	Note          string `json:"note"`
	Temperature   string `json:"temperature"`
	BloodPressure string `json:"bloodPressure"`
}

// CreateHealthCheck appends a check stamped with the server's current
// date. Checks are append-only and a member may have several per day.
func (h *HealthCheckHandler) CreateHealthCheck(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateHealthCheckRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Member ID and status are required"})
		return
	}

	member, err := loadMember(ctx.Request.Context(), h.records, req.MemberID)

	if errors.Is(err, store.ErrNotFound) || (err == nil && member.FamilyGroupID != user.FamilyGroupID) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	if err != nil {
		log.Printf("Failed to load member %s: %v", req.MemberID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	now := time.Now()

	check := models.HealthCheck{
		ID:            models.NewHealthCheckID(req.MemberID, now),
		MemberID:      req.MemberID,
		Status:        req.Status,
		Note:          req.Note,
		Temperature:   req.Temperature,
		BloodPressure: req.BloodPressure,
		Date:          now.Format(models.DateFormat),
		Timestamp:     now,
	}

	if err := setRecord(ctx, h.records, models.HealthCheckKey(check.ID), check); err != nil {
		log.Printf("Failed to store health check for member %s: %v", req.MemberID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	BroadcastRefresh(user.FamilyGroupID)

	ctx.JSON(http.StatusCreated, gin.H{"healthCheck": check})
}

func (h *HealthCheckHandler) ListHealthChecks(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	memberID := ctx.Param("member_id")

	member, err := loadMember(ctx.Request.Context(), h.records, memberID)

	if errors.Is(err, store.ErrNotFound) || (err == nil && member.FamilyGroupID != user.FamilyGroupID) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	if err != nil {
		log.Printf("Failed to load member %s: %v", memberID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	checks, err := loadMemberChecks(ctx.Request.Context(), h.records, memberID)

	if err != nil {
		log.Printf("Failed to load checks for member %s: %v", memberID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"healthChecks": checks})
}
