package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// contextUserID pulls the authenticated user ID set by the auth middleware.
// Aborts with 401 when missing, which means the route was wired without auth.
func contextUserID(c *gin.Context) (string, bool) {
	id, ok := c.Get("userID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return "", false
	}
	idStr, ok := id.(string)
	if !ok || idStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return "", false
	}
	return idStr, true
}

func contextIsAdmin(c *gin.Context) bool {
	v, ok := c.Get("isAdmin")
	return ok && v == true
}
