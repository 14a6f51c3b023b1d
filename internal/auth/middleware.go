package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates JWT tokens and protects routes
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromHeader(c)
		if err != "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err})
			c.Abort()
			return
		}

		// Set user information in context
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)

		c.Next()
	}
}

// OptionalAuthMiddleware populates the user identity when a valid token is
// present but lets anonymous requests through. Used on read endpoints whose
// payload varies with the viewer (watchlist state on a listing page).
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, errMsg := claimsFromHeader(c); errMsg == "" {
			c.Set("user_id", claims.UserID)
			c.Set("username", claims.Username)
		}
		c.Next()
	}
}

func claimsFromHeader(c *gin.Context) (*Claims, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, "Authorization header required"
	}

	// Extract token from "Bearer <token>" format
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, "Invalid authorization header format. Expected: Bearer <token>"
	}

	claims, err := ValidateToken(parts[1])
	if err != nil {
		return nil, "Invalid or expired token"
	}

	return claims, ""
}

// GetUserID retrieves the user ID from the context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint)
	return id, ok
}

// GetUsername retrieves the username from the context
func GetUsername(c *gin.Context) (string, bool) {
	name, exists := c.Get("username")
	if !exists {
		return "", false
	}

	username, ok := name.(string)
	return username, ok
}
