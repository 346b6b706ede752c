package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/famcare-dev/famcare/internal/models"
	"github.com/famcare-dev/famcare/internal/store"
	"github.com/famcare-dev/famcare/internal/utils"
)

type NoteHandler struct {
	records store.RecordStore
}

func NewNoteHandler(records store.RecordStore) *NoteHandler {
	return &NoteHandler{records: records}
}

type CreateNoteRequest struct {
	Content string `json:"content" binding:"required"`
	Type    string `json:"type"`
}

func (h *NoteHandler) CreateNote(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateNoteRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Note content is required"})
		return
	}

	note := models.Note{
		ID:            models.NewNoteID(),
		FamilyGroupID: user.FamilyGroupID,
		Content:       req.Content,
		Type:          models.NormalizeNoteType(req.Type),
		CreatedBy:     user.Name,
		CreatedAt:     time.Now(),
	}

	if err := setRecord(ctx, h.records, models.NoteKey(note.ID), note); err != nil {
		log.Printf("Failed to store note for family %s: %v", user.FamilyGroupID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	BroadcastRefresh(user.FamilyGroupID)

	ctx.JSON(http.StatusCreated, gin.H{"note": note})
}

func (h *NoteHandler) ListNotes(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	notes, err := loadFamilyNotes(ctx.Request.Context(), h.records, user.FamilyGroupID)

	if err != nil {
		log.Printf("Failed to load notes for family %s: %v", user.FamilyGroupID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"notes": notes})
}
