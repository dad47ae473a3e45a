package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/urna-api/internal/auth"
	"github.com/gravadigital/urna-api/internal/response"
)

// Context keys set by the session middleware.
const (
	ContextVoterPhone = "voter_phone"
	ContextRole       = "role"
)

// RequireAdmin rejects requests that do not carry a valid admin session token.
func RequireAdmin(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, issuer)
		if !ok {
			return
		}
		if claims.Role != auth.RoleAdmin {
			response.ForbiddenError(c, "Admin session required")
			c.Abort()
			return
		}
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireVoter rejects requests that do not carry a valid voter session
// token, and exposes the voter's phone to the handlers.
func RequireVoter(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, issuer)
		if !ok {
			return
		}
		if claims.Role != auth.RoleVoter {
			response.ForbiddenError(c, "Voter session required")
			c.Abort()
			return
		}
		c.Set(ContextRole, claims.Role)
		c.Set(ContextVoterPhone, claims.Subject)
		c.Next()
	}
}

// VoterPhone returns the phone set by RequireVoter.
func VoterPhone(c *gin.Context) string {
	phone, _ := c.Get(ContextVoterPhone)
	s, _ := phone.(string)
	return s
}

func parseBearer(c *gin.Context, issuer *auth.TokenIssuer) (*auth.SessionClaims, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		response.UnauthorizedError(c, "Missing bearer token")
		c.Abort()
		return nil, false
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		response.UnauthorizedError(c, "Invalid or expired session token")
		c.Abort()
		return nil, false
	}
	return claims, true
}
