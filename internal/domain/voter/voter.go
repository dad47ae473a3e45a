package voter

import (
	"fmt"
	"strings"
	"time"
)

// Voter is a registered elector. Phone is the primary identity; email is a
// secondary unique lookup key used by the federated sign-in flow.
type Voter struct {
	Phone      string    `json:"phone" gorm:"primaryKey;size:20"`
	Name       string    `json:"name" gorm:"not null"`
	RollNumber string    `json:"roll_number" gorm:"not null"`
	Email      string    `json:"email" gorm:"uniqueIndex;not null"`
	// HasVoted is an advisory flag kept for cheap portal reads. The vote
	// ledger (votes table key existence) is the authoritative record and
	// this flag may legitimately lag behind it.
	HasVoted  bool      `json:"has_voted" gorm:"not null;default:false"`
	Photo     *string   `json:"photo"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Voter) TableName() string {
	return "voters"
}

// NewVoter creates a voter with a normalized phone number.
func NewVoter(name, phone, rollNumber, email, defaultCountryCode string) *Voter {
	return &Voter{
		Phone:      NormalizePhone(phone, defaultCountryCode),
		Name:       strings.TrimSpace(name),
		RollNumber: strings.TrimSpace(rollNumber),
		Email:      strings.TrimSpace(email),
	}
}

// Validate checks if the voter data is valid
func (v *Voter) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("name is required")
	}
	if v.Phone == "" {
		return fmt.Errorf("phone is required")
	}
	if v.RollNumber == "" {
		return fmt.Errorf("roll_number is required")
	}
	if v.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(v.Email, "@") {
		return fmt.Errorf("email must have a valid format")
	}
	return nil
}

// NormalizePhone strips separators and prefixes the default country code
// when the number carries none.
func NormalizePhone(phone, defaultCountryCode string) string {
	p := strings.TrimSpace(phone)
	p = strings.ReplaceAll(p, " ", "")
	p = strings.ReplaceAll(p, "-", "")
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "+") {
		p = defaultCountryCode + p
	}
	return p
}

// PlaceholderEmail generates the address used for imported voters whose
// spreadsheet row carried no email.
func PlaceholderEmail(phone string) string {
	return "voter" + strings.TrimPrefix(phone, "+") + "@example.com"
}
