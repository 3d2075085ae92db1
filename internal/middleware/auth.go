package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mediconnect/clinic-api/pkg/auth"
	apperrors "github.com/mediconnect/clinic-api/pkg/errors"
	"github.com/mediconnect/clinic-api/pkg/httputil"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextEmail  = "email"
)

type AuthMiddleware struct {
	tokens *auth.JWTService
}

func NewAuthMiddleware(tokens *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireRole verifies the bearer token and checks its role against the
// allowed set, then stores the caller's identity in the gin context.
func (m *AuthMiddleware) RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, apperrors.Unauthenticated("missing authorization header", nil))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abort(c, apperrors.Unauthenticated("invalid authorization format", nil))
			return
		}

		claims, err := m.tokens.ValidateToken(parts[1])
		if err != nil {
			abort(c, apperrors.Unauthenticated("invalid token", err))
			return
		}

		allowed := false
		for _, role := range roles {
			if claims.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			abort(c, apperrors.Forbidden("insufficient permissions", nil))
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextRole, string(claims.Role))
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	httputil.RespondWithError(c, err)
	c.Abort()
}
