package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/famcare-dev/famcare/internal/store"
	"github.com/famcare-dev/famcare/internal/utils"
)

type FamilyHandler struct {
	records store.RecordStore
}

func NewFamilyHandler(records store.RecordStore) *FamilyHandler {
	return &FamilyHandler{records: records}
}

func (h *FamilyHandler) GetFamily(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if user.FamilyGroupID == "" {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Family not found"})
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

	ctx.JSON(http.StatusOK, gin.H{"family": family})
}
