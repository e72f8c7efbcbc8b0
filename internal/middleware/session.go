package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/conlit/backend/internal/domain"
)

// AuthContextKey is the context key for the caller's LeetCode session
const AuthContextKey = "leetcodeAuth"

// SessionMiddleware resolves the optional LeetCode session credential from the
// query string, cookie or header, in domain.CredentialPrecedence order
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lookup := func(src domain.CredentialSource) string {
			switch src {
			case domain.CredentialFromQuery:
				return c.Query(domain.SessionQueryParam)
			case domain.CredentialFromCookie:
				v, _ := c.Cookie(domain.SessionCookieName)
				return v
			case domain.CredentialFromHeader:
				return c.GetHeader(domain.SessionHeaderName)
			}
			return ""
		}

		csrf, _ := c.Cookie(domain.CSRFCookieName)
		if csrf == "" {
			csrf = c.GetHeader(domain.CSRFHeaderName)
		}

		c.Set(AuthContextKey, domain.ResolveAuthContext(lookup, csrf))
		c.Next()
	}
}

// GetAuthContext returns the session resolved by SessionMiddleware
func GetAuthContext(c *gin.Context) domain.AuthContext {
	if v, exists := c.Get(AuthContextKey); exists {
		if auth, ok := v.(domain.AuthContext); ok {
			return auth
		}
	}
	return domain.AuthContext{}
}
