package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gravadigital/urna-api/internal/domain/common"
)

// IdentityVerifier validates a token minted by the external identity
// gateway and returns the verified email address it asserts. The gateway's
// own sign-in protocol is outside this API; only the resulting assertion
// crosses the boundary.
type IdentityVerifier interface {
	VerifyEmail(token string) (string, error)
}

// HS256IdentityVerifier verifies assertions signed with the secret shared
// with the identity gateway.
type HS256IdentityVerifier struct {
	secret []byte
}

// NewHS256IdentityVerifier creates a verifier for the shared secret.
func NewHS256IdentityVerifier(secret string) *HS256IdentityVerifier {
	return &HS256IdentityVerifier{secret: []byte(secret)}
}

type identityClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// VerifyEmail validates the assertion and extracts the asserted email.
func (v *HS256IdentityVerifier) VerifyEmail(tokenString string) (string, error) {
	claims := &identityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid identity token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid identity token")
	}

	email := strings.TrimSpace(claims.Email)
	if email == "" {
		email = strings.TrimSpace(claims.Subject)
	}
	if email == "" {
		return "", common.Validationf("identity token carries no email")
	}
	return email, nil
}
