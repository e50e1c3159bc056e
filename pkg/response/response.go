package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"anoa.com/qaforum/pkg/apperror"
	"anoa.com/qaforum/pkg/identity"
	"anoa.com/qaforum/pkg/validator"
)

// UserIDKey is the gin context key the auth middleware stores the token subject under.
const UserIDKey = "user_id"

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	str, ok := userIDStr.(string)
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// GetIdentity returns the caller identity, or an anonymous one when the request carries none.
func GetIdentity(c *gin.Context) identity.Identity {
	userID, err := GetUserID(c)
	if err != nil {
		return identity.Anonymous()
	}
	return identity.New(userID)
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, logger *zap.Logger, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError && logger != nil {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	c.JSON(code, gin.H{"error": apperror.PublicMessage(err)})
}

// BindError reports a failed ShouldBind* call as a validation error.
func BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
}

// Unauthorized aborts the request before any body parsing happens.
func Unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": apperror.ErrUnauthorized.Error()})
}
