package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/famcare-dev/famcare/internal/aggregate"
	"github.com/famcare-dev/famcare/internal/models"
	"github.com/famcare-dev/famcare/internal/store"
	"github.com/famcare-dev/famcare/internal/utils"
)

type MemberHandler struct {
	records store.RecordStore
}

func NewMemberHandler(records store.RecordStore) *MemberHandler {
	return &MemberHandler{records: records}
}

type AddMemberRequest struct {
	Name         string `json:"name" binding:"required"`
	Relationship string `json:"relationship"`
}

func (h *MemberHandler) ListMembers(ctx *gin.Context) {
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

	ctx.JSON(http.StatusOK, gin.H{"members": members})
}

func (h *MemberHandler) AddMember(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req AddMemberRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Member name is required"})
		return
	}

	member := models.Member{
		ID:            models.NewMemberID(),
		Name:          req.Name,
		Relationship:  req.Relationship,
		FamilyGroupID: user.FamilyGroupID,
		CreatedAt:     time.Now(),
	}

	if err := setRecord(ctx, h.records, models.MemberKey(member.ID), member); err != nil {
		log.Printf("Failed to store member: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	err = h.records.Update(ctx.Request.Context(), models.FamilyKey(user.FamilyGroupID), func(current []byte) ([]byte, error) {
		if current == nil {
			return nil, store.ErrNotFound
		}

		var family models.Family

		if err := json.Unmarshal(current, &family); err != nil {
			return nil, err
		}

		// Append-if-absent: a retried request must not register twice
		for _, id := range family.MemberIDs {
			if id == member.ID {
				return current, nil
			}
		}

		family.MemberIDs = append(family.MemberIDs, member.ID)
		return json.Marshal(family)
	})

	if errors.Is(err, store.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Family not found"})
		return
	}

	if err != nil {
		log.Printf("Failed to update family %s: %v", user.FamilyGroupID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	BroadcastRefresh(user.FamilyGroupID)

	ctx.JSON(http.StatusCreated, gin.H{"member": member})
}

func (h *MemberHandler) DeleteMember(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	memberID := ctx.Param("member_id")

	member, err := loadMember(ctx.Request.Context(), h.records, memberID)

	if err == nil && member.FamilyGroupID != user.FamilyGroupID {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("Failed to load member %s: %v", memberID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Deleting an already-deleted member still prunes the family list,
	// so the operation stays idempotent.
	if err := h.records.Delete(ctx.Request.Context(), models.MemberKey(memberID)); err != nil {
		log.Printf("Failed to delete member %s: %v", memberID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	err = h.records.Update(ctx.Request.Context(), models.FamilyKey(user.FamilyGroupID), func(current []byte) ([]byte, error) {
		if current == nil {
			return nil, store.ErrNotFound
		}

		var family models.Family

		if err := json.Unmarshal(current, &family); err != nil {
			return nil, err
		}

		remaining := family.MemberIDs[:0]

		for _, id := range family.MemberIDs {
			if id != memberID {
				remaining = append(remaining, id)
			}
		}

		family.MemberIDs = remaining
		return json.Marshal(family)
	})

	if errors.Is(err, store.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Family not found"})
		return
	}

	if err != nil {
		log.Printf("Failed to update family %s: %v", user.FamilyGroupID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	BroadcastRefresh(user.FamilyGroupID)

	ctx.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// GetCalendar returns the month's day-by-day check presence for one
// member. Year and month default to the current month.
func (h *MemberHandler) GetCalendar(ctx *gin.Context) {
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

	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if raw := ctx.Query("year"); raw != "" {
		year, err = strconv.Atoi(raw)

		if err != nil || year < 1970 || year > 9999 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return
		}
	}

	if raw := ctx.Query("month"); raw != "" {
		month, err = strconv.Atoi(raw)

		if err != nil || month < 1 || month > 12 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
			return
		}
	}

	checks, err := loadMemberChecks(ctx.Request.Context(), h.records, memberID)

	if err != nil {
		log.Printf("Failed to load checks for member %s: %v", memberID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	calendar := aggregate.CalendarMatrix(year, time.Month(month), checks, now)

	ctx.JSON(http.StatusOK, gin.H{"calendar": calendar})
}
