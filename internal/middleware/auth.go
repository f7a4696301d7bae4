package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/awaazhq/awaaz-api/internal/constants"
	apierrors "github.com/awaazhq/awaaz-api/internal/errors"
	"github.com/awaazhq/awaaz-api/internal/models"
)

// RequireAuth validates the bearer token and attaches the caller's
// Identity to the request context. Missing, invalid, and expired tokens
// each produce their own 401 message so clients can react correctly.
func RequireAuth(secret string) gin.HandlerFunc {
	secretBytes := []byte(secret)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			apierrors.Unauthorized(c, "You are not logged in. Please log in to get access.")
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			return secretBytes, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				apierrors.Unauthorized(c, "Your token has expired. Please log in again.")
			} else {
				apierrors.Unauthorized(c, "Invalid token. Please log in again.")
			}
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			apierrors.Unauthorized(c, "Invalid token. Please log in again.")
			c.Abort()
			return
		}

		userID, okID := claims["user_id"].(float64)
		role, okRole := claims["role"].(string)
		if !okID || !okRole {
			apierrors.Unauthorized(c, "Invalid token. Please log in again.")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyIdentity, models.Identity{
			ID:   uint64(userID),
			Role: models.Role(role),
		})
		c.Next()
	}
}

// RequireAdmin rejects callers whose identity is not an admin. It must run
// after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, exists := GetIdentity(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		if !identity.IsAdmin() {
			apierrors.Forbidden(c, "You do not have permission to perform this action")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetIdentity retrieves the caller's identity from context
func GetIdentity(c *gin.Context) (models.Identity, bool) {
	value, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := value.(models.Identity)
	return identity, ok
}
