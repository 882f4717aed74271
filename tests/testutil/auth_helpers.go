package testutil

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TestUserHeader names the caller for HeaderAuth
const TestUserHeader = "X-Test-User"

// MockAuth stands in for the JWT middleware: it marks the request as
// authenticated for auth0ID the same way the real middleware does.
func MockAuth(auth0ID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", auth0ID)
		c.Set("access_token", "test-token-"+auth0ID)
		c.Next()
	}
}

// HeaderAuth authenticates each request as the Auth0 ID in TestUserHeader, so one
// server can serve several users. Requests without the header get a 401.
func HeaderAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth0ID := c.GetHeader(TestUserHeader)
		if auth0ID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Missing test user",
				"error": gin.H{
					"code":    "INVALID_TOKEN",
					"message": "Missing test user",
				},
			})
			return
		}
		c.Set("user_id", auth0ID)
		c.Set("access_token", "test-token-"+auth0ID)
		c.Next()
	}
}
