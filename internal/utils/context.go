package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/famcare-dev/famcare/internal/models"
	"github.com/famcare-dev/famcare/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (models.User, error) {
	value, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return models.User{}, fmt.Errorf("user not authenticated")
	}

	user, ok := value.(models.User)

	if !ok {
		return models.User{}, fmt.Errorf("invalid user type in context")
	}

	return user, nil
}
