package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gravadigital/urna-api/internal/domain/common"
)

// Role discriminates admin sessions from voter sessions.
const (
	RoleAdmin = "admin"
	RoleVoter = "voter"
)

// SessionClaims are the claims carried by an urna session token. Subject
// holds the voter phone for voter sessions and "admin" for admin sessions.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and parses HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer signing with the given shared secret.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// IssueAdmin mints an admin session token.
func (i *TokenIssuer) IssueAdmin() (string, error) {
	return i.issue(RoleAdmin, "admin")
}

// IssueVoter mints a voter session token carrying the voter's phone.
func (i *TokenIssuer) IssueVoter(phone string) (string, error) {
	if phone == "" {
		return "", common.Validationf("voter phone cannot be empty")
	}
	return i.issue(RoleVoter, phone)
}

func (i *TokenIssuer) issue(role, subject string) (string, error) {
	now := i.now()
	claims := SessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse validates a session token and returns its claims.
func (i *TokenIssuer) Parse(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return i.now() }))
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	return claims, nil
}
