package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/urna-api/internal/domain/common"
	"github.com/gravadigital/urna-api/internal/logger"
)

// CodeSender delivers an OTP code to a phone number. The production
// deployment plugs an SMS gateway in here; the default implementation
// only logs, which is what development runs use.
type CodeSender interface {
	Send(phone, code string) error
}

// LogSender writes the code to the application log instead of sending it.
type LogSender struct{}

func (LogSender) Send(phone, code string) error {
	logger.Auth().Info("OTP code issued", "phone", phone, "code", code)
	return nil
}

type otpChallenge struct {
	phone     string
	code      string
	expiresAt time.Time
	attempts  int
}

// OTPManager issues and verifies one-time codes. Challenges live in
// memory; they are short-lived and an API restart simply forces a resend.
type OTPManager struct {
	mu          sync.Mutex
	challenges  map[string]*otpChallenge
	sender      CodeSender
	ttl         time.Duration
	maxAttempts int
	log         *log.Logger
	now         func() time.Time
}

// NewOTPManager creates a manager with the given code lifetime and
// per-challenge attempt limit.
func NewOTPManager(sender CodeSender, ttl time.Duration, maxAttempts int) *OTPManager {
	return &OTPManager{
		challenges:  make(map[string]*otpChallenge),
		sender:      sender,
		ttl:         ttl,
		maxAttempts: maxAttempts,
		log:         logger.Auth(),
		now:         time.Now,
	}
}

// Send issues a fresh 6-digit code for the phone and returns the challenge
// id the client must present on verification.
func (m *OTPManager) Send(phone string) (string, error) {
	if phone == "" {
		return "", common.Validationf("phone cannot be empty")
	}

	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP code: %w", err)
	}

	challengeID := uuid.New().String()

	m.mu.Lock()
	m.purgeExpiredLocked()
	m.challenges[challengeID] = &otpChallenge{
		phone:     phone,
		code:      code,
		expiresAt: m.now().Add(m.ttl),
	}
	m.mu.Unlock()

	if err := m.sender.Send(phone, code); err != nil {
		m.mu.Lock()
		delete(m.challenges, challengeID)
		m.mu.Unlock()
		return "", fmt.Errorf("failed to deliver OTP code: %w", err)
	}

	m.log.Debug("OTP challenge created", "challenge_id", challengeID, "phone", phone)
	return challengeID, nil
}

// Verify checks the submitted code against the challenge. A correct code
// consumes the challenge; a wrong one burns an attempt, and the challenge
// dies after the attempt limit or its TTL. The verified phone is returned.
func (m *OTPManager) Verify(challengeID, code string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, ok := m.challenges[challengeID]
	if !ok {
		return "", common.Validationf("unknown or expired OTP challenge")
	}

	if m.now().After(ch.expiresAt) {
		delete(m.challenges, challengeID)
		return "", common.Validationf("OTP code expired")
	}

	if ch.code != code {
		ch.attempts++
		if ch.attempts >= m.maxAttempts {
			delete(m.challenges, challengeID)
			m.log.Warn("OTP challenge exhausted", "challenge_id", challengeID)
			return "", common.Validationf("too many incorrect OTP attempts")
		}
		return "", common.Validationf("incorrect OTP code")
	}

	delete(m.challenges, challengeID)
	m.log.Debug("OTP challenge verified", "challenge_id", challengeID, "phone", ch.phone)
	return ch.phone, nil
}

func (m *OTPManager) purgeExpiredLocked() {
	now := m.now()
	for id, ch := range m.challenges {
		if now.After(ch.expiresAt) {
			delete(m.challenges, id)
		}
	}
}

// generateCode draws a uniform 6-digit code from crypto/rand.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
