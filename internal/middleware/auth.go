package middleware

import (
	"strings"

	"marketplace-server/internal/config"
	"marketplace-server/internal/models"
	"marketplace-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware creates a middleware for JWT authentication.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1], cfg.JWTSecret)
		if err != nil {
			utils.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		// Set participant information in context for downstream handlers
		c.Set(utils.ParticipantKey, claims.Participant())

		c.Next()
	}
}

// KindAuthMiddleware restricts a route to the given participant kinds.
// It should be used *after* AuthMiddleware.
func KindAuthMiddleware(allowed ...models.ParticipantKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetParticipantFromContext(c)
		if !ok {
			utils.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		for _, kind := range allowed {
			if p.Kind == kind {
				c.Next()
				return
			}
		}

		utils.Forbidden(c, "You do not have permission to access this resource.")
		c.Abort()
	}
}

// GetParticipantFromContext returns the authenticated participant.
func GetParticipantFromContext(c *gin.Context) (models.Participant, bool) {
	value, exists := c.Get(utils.ParticipantKey)
	if !exists {
		return models.Participant{}, false
	}
	p, ok := value.(models.Participant)
	return p, ok
}
