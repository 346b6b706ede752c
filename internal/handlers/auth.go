package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/famcare-dev/famcare/internal/identity"
	"github.com/famcare-dev/famcare/internal/models"
	"github.com/famcare-dev/famcare/internal/store"
	"github.com/famcare-dev/famcare/internal/utils"
)

type AuthHandler struct {
	provider identity.Provider
	records  store.RecordStore
}

func NewAuthHandler(provider identity.Provider, records store.RecordStore) *AuthHandler {
	return &AuthHandler{provider: provider, records: records}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates the user's credentials, its user record and a fresh
// family with an empty member list.
func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email, password and name are required"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ident, err := h.provider.SignUp(ctx.Request.Context(), req.Email, req.Password)

	if errors.Is(err, identity.ErrEmailTaken) {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	if err != nil {
		log.Printf("Failed to register %s: %v", req.Email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	now := time.Now()
	familyID := models.NewFamilyID()

	user := models.User{
		ID:            ident.ID,
		Email:         req.Email,
		Name:          req.Name,
		FamilyGroupID: familyID,
		CreatedAt:     now,
	}

	family := models.Family{
		ID:         familyID,
		Name:       "Gia đình " + req.Name,
		OwnerID:    ident.ID,
		OwnerEmail: req.Email,
		MemberIDs:  []string{},
		CreatedAt:  now,
	}

	if err := setRecord(ctx, h.records, models.UserKey(user.Email), user); err != nil {
		log.Printf("Failed to store user %s: %v", req.Email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := setRecord(ctx, h.records, models.FamilyKey(family.ID), family); err != nil {
		log.Printf("Failed to store family for %s: %v", req.Email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"user":    user,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	token, err := h.provider.SignIn(ctx.Request.Context(), req.Email, req.Password)

	if errors.Is(err, identity.ErrInvalidCredentials) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if err != nil {
		log.Printf("Failed to sign in %s: %v", req.Email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

func setRecord(ctx *gin.Context, records store.RecordStore, key string, value any) error {
	raw, err := json.Marshal(value)

	if err != nil {
		return err
	}

	return records.Set(ctx.Request.Context(), key, raw)
}
