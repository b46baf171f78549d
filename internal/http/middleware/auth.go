// README: Firebase bearer-token auth middleware; populates caller UID and role.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"reloop/internal/infra"
)

const (
	ctxKeyUID  = "auth_uid"
	ctxKeyRole = "auth_role"
)

// Auth verifies the Authorization bearer token and stores the caller's UID
// and role claim on the request context. Requests without a valid token are
// rejected with 401.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")
		token, err := verifier.VerifyIDToken(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxKeyUID, token.UID)
		if role, ok := token.Claims["role"].(string); ok {
			c.Set(ctxKeyRole, role)
		}
		c.Next()
	}
}

// CallerUID returns the authenticated caller's UID, or "" when unauthenticated.
func CallerUID(c *gin.Context) string {
	v, _ := c.Get(ctxKeyUID)
	s, _ := v.(string)
	return s
}

// CallerRole returns the caller's role claim ("driver" for fulfillers), or "".
func CallerRole(c *gin.Context) string {
	v, _ := c.Get(ctxKeyRole)
	s, _ := v.(string)
	return s
}
