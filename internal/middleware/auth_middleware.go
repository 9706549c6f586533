package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/topicreg/internal/app/models/dto"
	"github.com/yigit/topicreg/internal/pkg/apperrors"
	"github.com/yigit/topicreg/internal/pkg/auth"
)

// claimsKey is the gin context key holding the caller's token claims.
const claimsKey = "claims"

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// tokenFromRequest reads the token from the Authorization header, falling
// back to x-access-token.
func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, err := auth.ExtractBearerToken(header); err == nil {
			return token
		}
	}
	return c.GetHeader("x-access-token")
}

func (m *AuthMiddleware) authenticate(c *gin.Context) bool {
	claims, err := m.jwtService.ValidateToken(tokenFromRequest(c))
	if err != nil {
		HandleAPIError(c, apperrors.NewUnauthorizedError(dto.MessageUnauthorized))
		c.Abort()
		return false
	}
	c.Set(claimsKey, claims)
	return true
}

// CheckLogin requires a valid token.
func (m *AuthMiddleware) CheckLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authenticate(c) {
			return
		}
		c.Next()
	}
}

// CheckAdmin requires a valid token carrying the admin claim.
func (m *AuthMiddleware) CheckAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authenticate(c) {
			return
		}
		if claims, _ := Claims(c); claims == nil || !claims.Admin {
			HandleAPIError(c, apperrors.NewForbiddenError(dto.MessageForbidden))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Claims returns the claims stored by CheckLogin or CheckAdmin.
func Claims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// SetClaims stores claims on the context, for handlers mounted without the
// auth middleware in tests.
func SetClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(claimsKey, claims)
}
