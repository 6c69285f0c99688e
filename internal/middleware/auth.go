package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pharmaca-api/internal/utils"
)

// EmailKey holds the verified caller email in the gin context.
const EmailKey = "email"

// TokenValidator is satisfied by *utils.TokenIssuer.
type TokenValidator interface {
	Validate(tokenStr string) (*utils.Claims, error)
}

// AuthMiddleware verifies the bearer token before anything touches the store.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
			return
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Failed to authenticate token"})
			return
		}

		c.Set(EmailKey, claims.Email)
		c.Next()
	}
}

// Email returns the caller bound by AuthMiddleware, or "".
func Email(c *gin.Context) string {
	return c.GetString(EmailKey)
}
