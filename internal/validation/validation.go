package validation

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidateRequired valida que un campo no esté vacío
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}

// ValidateMaxLength valida la longitud máxima de un string
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(value) > maxLength {
		return errors.New(fieldName + " is too long")
	}
	return nil
}

// ValidateEmail valida formato básico de email
func ValidateEmail(email string) error {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return errors.New("email must have a valid format")
	}
	return nil
}

// ValidatePhone valida un número de teléfono normalizado (+ y dígitos)
func ValidatePhone(phone string) error {
	if phone == "" {
		return errors.New("phone is required")
	}
	rest := phone
	if strings.HasPrefix(phone, "+") {
		rest = phone[1:]
	}
	if rest == "" {
		return errors.New("phone must contain digits")
	}
	for _, r := range rest {
		if !unicode.IsDigit(r) {
			return errors.New("phone must contain only digits after the country code")
		}
	}
	if len(rest) < 6 {
		return errors.New("phone is too short")
	}
	return nil
}

// ElectionValidation contiene validaciones específicas para elecciones
type ElectionValidation struct{}

// ValidateTitle valida el título de una elección
func (v ElectionValidation) ValidateTitle(title string) error {
	if err := ValidateRequired(title, "title"); err != nil {
		return err
	}
	return ValidateMaxLength(title, 200, "title")
}

// ValidateDescription valida la descripción de una elección
func (v ElectionValidation) ValidateDescription(description string) error {
	return ValidateMaxLength(description, 1000, "description")
}

// VoterValidation contiene validaciones específicas para votantes
type VoterValidation struct{}

// ValidateName valida el nombre de un votante
func (v VoterValidation) ValidateName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	return ValidateMaxLength(name, 100, "name")
}

// ValidateVoterEmail valida el email de un votante
func (v VoterValidation) ValidateVoterEmail(email string) error {
	if err := ValidateRequired(email, "email"); err != nil {
		return err
	}
	return ValidateEmail(email)
}

// CandidateValidation contiene validaciones específicas para candidatos
type CandidateValidation struct{}

// ValidateName valida el nombre de un candidato
func (v CandidateValidation) ValidateName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	return ValidateMaxLength(name, 100, "name")
}
