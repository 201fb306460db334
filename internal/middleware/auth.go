package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"courtly/internal/pkg/jwt"
	"courtly/internal/pkg/response"
)

// JWTAuth accepts "Authorization: Bearer <token>" or a ?token= query parameter
// (websocket clients cannot set headers). On success it stores user_id and role.
func JWTAuth(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("token")
		if raw == "" {
			header := c.GetHeader("Authorization")
			if header == "" {
				response.AbortError(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
				return
			}
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				response.AbortError(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be Bearer <token>")
				return
			}
			raw = strings.TrimSpace(token)
		}

		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set("user_id", claims.StaffID.String())
		c.Set("role", claims.Role)
		c.Next()
	}
}
