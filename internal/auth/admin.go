package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/gravadigital/urna-api/internal/domain/common"
)

// VerifyAdminSecret compares the submitted admin secret against the
// configured bcrypt hash.
func VerifyAdminSecret(hash, secret string) error {
	if secret == "" {
		return common.Validationf("admin secret cannot be empty")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		return common.Validationf("invalid admin secret")
	}
	return nil
}

// HashAdminSecret produces a bcrypt hash suitable for ADMIN_SECRET_HASH.
func HashAdminSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
