package middleware

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/missamma/missamma-golang/internal/auth"
)

// AuthMiddleware validates the Bearer token and stores the caller's user
// ID in the gin context under "userID".
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format (must be Bearer)"})
			c.Abort()
			return
		}

		userID, err := auth.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// StaffMiddleware gates a route group to staff accounts. Must run after
// AuthMiddleware.
func StaffMiddleware(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDRaw, _ := c.Get("userID")
		userID, _ := userIDRaw.(int64)

		var isStaff bool
		err := db.QueryRow("SELECT is_staff FROM users WHERE id = ?", userID).Scan(&isStaff)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account lookup failed"})
			c.Abort()
			return
		}
		if !isStaff {
			c.JSON(http.StatusForbidden, gin.H{"error": "Staff access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
