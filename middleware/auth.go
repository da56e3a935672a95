package middleware

import (
	"fmt"
	"strings"

	"recipe-search-platform/internal/config"
	"recipe-search-platform/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AdminAuthMiddleware protects the admin surface (backfill, index and vector
// management) with a bearer JWT signed with the shared admin secret.
type AdminAuthMiddleware struct {
	secret []byte
}

func NewAdminAuthMiddleware(cfg *config.Config) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{secret: []byte(cfg.AdminJWTSecret)}
}

func (a *AdminAuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithUnauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			utils.RespondWithUnauthorized(c, "Bearer token is required")
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			utils.RespondWithUnauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if sub, _ := claims.GetSubject(); sub != "" {
				c.Set("admin_subject", sub)
			}
		}

		c.Next()
	}
}
