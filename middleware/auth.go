package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/KOMKZ/go-yogan-container/auth"
)

const claimsContextKey = "auth_claims"

type AuthConfig struct {
	// TokenHeadName is the scheme prefix in the Authorization header.
	TokenHeadName string
	// SkipPaths bypass authentication entirely.
	SkipPaths []string
}

func DefaultAuthConfig() AuthConfig {
	return AuthConfig{TokenHeadName: "Bearer"}
}

// Auth verifies the bearer token on every request and stores the
// claims in the gin context for handlers.
func Auth(tokens *auth.TokenManager) gin.HandlerFunc {
	return AuthWithConfig(tokens, DefaultAuthConfig())
}

func AuthWithConfig(tokens *auth.TokenManager, cfg AuthConfig) gin.HandlerFunc {
	if cfg.TokenHeadName == "" {
		cfg.TokenHeadName = "Bearer"
	}
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skip[path] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		token, ok := extractBearerToken(c, cfg.TokenHeadName)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed token"})
			return
		}

		claims, err := tokens.VerifyAccessToken(token)
		if err != nil {
			status := http.StatusUnauthorized
			c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

func extractBearerToken(c *gin.Context, headName string) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], headName) {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// GetClaims returns the verified claims stored by Auth.
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// HasRole reports whether the authenticated subject carries role.
func HasRole(c *gin.Context, role string) bool {
	claims, ok := GetClaims(c)
	if !ok {
		return false
	}
	for _, r := range claims.Roles {
		if r == role {
			return true
		}
	}
	return false
}
