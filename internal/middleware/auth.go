package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/doctorsportal/booking-api/internal/handler"
	"github.com/doctorsportal/booking-api/internal/model"
	userService "github.com/doctorsportal/booking-api/internal/service/user"
	"github.com/doctorsportal/booking-api/pkg/auth"
)

const contextEmailKey = "email"

type AuthMiddleware struct {
	jwtSvc  auth.JWTService
	userSvc *userService.Service
}

func NewAuthMiddleware(jwtSvc auth.JWTService, userSvc *userService.Service) *AuthMiddleware {
	return &AuthMiddleware{jwtSvc: jwtSvc, userSvc: userSvc}
}

// Authenticate verifies the bearer credential and stores the caller's
// email in the request context. A missing header is unauthenticated; a
// present but invalid or expired credential is forbidden.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusForbidden, handler.NewErrorResponse("invalid authorization format"))
			return
		}

		claims, err := m.jwtSvc.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, handler.NewErrorResponse("invalid token"))
			return
		}

		c.Set(contextEmailKey, claims.Email)
		c.Next()
	}
}

// RequireRole re-reads the caller's stored role on every request and
// denies unless it matches. No caching: a role revoked mid-session is
// enforced on the next call.
func (m *AuthMiddleware) RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerEmail := CallerEmail(c)
		if callerEmail == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			return
		}

		if err := m.userSvc.Authorize(c.Request.Context(), callerEmail, role); err != nil {
			handler.RespondError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CallerEmail returns the authenticated email set by Authenticate,
// empty for unauthenticated requests.
func CallerEmail(c *gin.Context) string {
	return c.GetString(contextEmailKey)
}
