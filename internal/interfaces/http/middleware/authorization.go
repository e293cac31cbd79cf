package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/adminauth/pkg/constants"
)

// Authorize applies the route policy after authentication: /auth/** is always reachable,
// routes under a protected prefix need an identity, everything else is open.
func Authorize(protectedPrefixes []string) gin.HandlerFunc {
	prefixes := make([]string, 0, len(protectedPrefixes))
	for _, p := range protectedPrefixes {
		if p = strings.TrimSpace(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if isAuthPath(path) || !hasAnyPrefix(path, prefixes) {
			c.Next()
			return
		}
		if _, ok := CurrentIdentity(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": constants.UnauthorizedMessage})
			return
		}
		c.Next()
	}
}

// RequireAuthority rejects requests whose identity lacks the named authority.
func RequireAuthority(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": constants.UnauthorizedMessage})
			return
		}
		if !identity.HasAuthority(name) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

func isAuthPath(path string) bool {
	return path == strings.TrimSuffix(constants.AuthPathPrefix, "/") || strings.HasPrefix(path, constants.AuthPathPrefix)
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
