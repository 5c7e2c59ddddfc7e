package middleware

import (
	"net/http"                  // HTTP status codes
	"strings"                   // String manipulation
	"translink/internal/domain" // Actor type
	"translink/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// JWTAuthMiddleware validates JWT tokens and puts the authenticated actor
// (id + role) into the request context. Handlers read it with ActorFrom.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string and parse it
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		// Store the actor in context
		c.Set("actor", domain.Actor{ID: claims.UserID, Role: claims.Role})
		c.Next() // Proceed to the next handler
	}
}

// ActorFrom extracts the authenticated actor from the request context. The
// zero Actor (anonymous) comes back when the middleware never ran.
func ActorFrom(c *gin.Context) domain.Actor {
	if v, ok := c.Get("actor"); ok {
		if actor, ok := v.(domain.Actor); ok {
			return actor
		}
	}
	return domain.Actor{} // Anonymous
}
