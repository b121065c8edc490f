package auth

import (
	"net/http"

	"logi-events/internal/model"

	"github.com/gin-gonic/gin"
)

const identityKey = "auth.identity"

// RequireAuth 未帶有效 token 時回傳 401
func (g *Guard) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := g.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireRole 必須在 RequireAuth 之後
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		for _, r := range roles {
			if identity.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}

func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	identity, ok := v.(Identity)
	return identity, ok
}
