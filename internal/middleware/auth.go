package middleware

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/famcare-dev/famcare/internal/identity"
	"github.com/famcare-dev/famcare/internal/models"
	"github.com/famcare-dev/famcare/internal/store"
	"github.com/famcare-dev/famcare/internal/types"
)

type Auth struct {
	provider identity.Provider
	records  store.RecordStore
}

func NewAuth(provider identity.Provider, records store.RecordStore) *Auth {
	return &Auth{provider: provider, records: records}
}

// RequireAuth verifies the bearer token, resolves it to the stored user
// record and stashes the record on the context for the handler.
func (a *Auth) RequireAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		ident, err := a.provider.Verify(ctx.Request.Context(), parts[1])

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		raw, err := a.records.Get(ctx.Request.Context(), models.UserKey(ident.Email))

		if errors.Is(err, store.ErrNotFound) {
			// Token is valid but no user record matches: the identity
			// provider and the record store are out of sync.
			ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		if err != nil {
			log.Printf("Failed to load user %s: %v", ident.Email, err)
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		var user models.User

		if err := json.Unmarshal(raw, &user); err != nil {
			log.Printf("Failed to decode user %s: %v", ident.Email, err)
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		ctx.Set(types.ContextUserKey, user)
		ctx.Next()
	}
}
