package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/urna-api/internal/domain/common"
	"github.com/gravadigital/urna-api/internal/domain/voter"
	"github.com/gravadigital/urna-api/internal/logger"
	"github.com/gravadigital/urna-api/internal/storage/postgres"
	"github.com/gravadigital/urna-api/internal/validation"
)

// VoterService maneja la lógica de negocio del padrón de votantes
type VoterService struct {
	store       postgres.RepositoryContainer
	log         *log.Logger
	validator   validation.VoterValidation
	countryCode string
}

// NewVoterService crea una nueva instancia del servicio de votantes
func NewVoterService(store postgres.RepositoryContainer, defaultCountryCode string) *VoterService {
	return &VoterService{
		store:       store,
		log:         logger.Service("voter"),
		validator:   validation.VoterValidation{},
		countryCode: defaultCountryCode,
	}
}

// RegisterVoterRequest representa una solicitud para registrar un votante
type RegisterVoterRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	RollNumber string `json:"roll_number" binding:"required"`
	Email      string `json:"email"`
}

// Register adds a voter to the roll. Phone numbers are normalized with the
// default country code; a missing email gets the generated placeholder.
func (s *VoterService) Register(req RegisterVoterRequest) (*voter.Voter, error) {
	if err := s.validator.ValidateName(req.Name); err != nil {
		return nil, common.Validationf("%v", err)
	}

	phone := voter.NormalizePhone(req.Phone, s.countryCode)
	if err := validation.ValidatePhone(phone); err != nil {
		return nil, common.Validationf("%v", err)
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = voter.PlaceholderEmail(phone)
	}
	if err := s.validator.ValidateVoterEmail(email); err != nil {
		return nil, common.Validationf("%v", err)
	}

	if _, err := s.store.Voters().GetByEmail(email); err == nil {
		return nil, common.Validationf("email %s already registered", email)
	} else if !common.IsNotFound(err) {
		return nil, err
	}

	v := voter.NewVoter(req.Name, phone, req.RollNumber, email, s.countryCode)
	if err := s.store.Voters().Create(v); err != nil {
		return nil, err
	}

	s.log.Info("voter registered", "phone", v.Phone, "name", v.Name)
	return v, nil
}

// GetByPhone obtiene un votante por su teléfono normalizado
func (s *VoterService) GetByPhone(phone string) (*voter.Voter, error) {
	return s.store.Voters().GetByPhone(voter.NormalizePhone(phone, s.countryCode))
}

// GetByEmail obtiene un votante por su email (sin distinguir mayúsculas)
func (s *VoterService) GetByEmail(email string) (*voter.Voter, error) {
	return s.store.Voters().GetByEmail(strings.TrimSpace(email))
}

// GetAll obtiene todos los votantes del padrón
func (s *VoterService) GetAll() ([]*voter.Voter, error) {
	return s.store.Voters().GetAll()
}

// UpdateVoterRequest representa una solicitud para actualizar un votante
type UpdateVoterRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	RollNumber string `json:"roll_number" binding:"required"`
	Email      string `json:"email" binding:"required"`
}

// Update replaces the voter stored under phone, re-keying the record when
// the phone number changed. Voted state and photo are preserved.
func (s *VoterService) Update(phone string, req UpdateVoterRequest) (*voter.Voter, error) {
	if err := s.validator.ValidateName(req.Name); err != nil {
		return nil, common.Validationf("%v", err)
	}
	if err := s.validator.ValidateVoterEmail(req.Email); err != nil {
		return nil, common.Validationf("%v", err)
	}

	newPhone := voter.NormalizePhone(req.Phone, s.countryCode)
	if err := validation.ValidatePhone(newPhone); err != nil {
		return nil, common.Validationf("%v", err)
	}

	v := voter.NewVoter(req.Name, newPhone, req.RollNumber, req.Email, s.countryCode)
	original := voter.NormalizePhone(phone, s.countryCode)

	if err := s.store.Voters().Update(original, v); err != nil {
		return nil, err
	}

	s.log.Info("voter updated", "phone", original, "new_phone", v.Phone)
	return s.store.Voters().GetByPhone(v.Phone)
}

// Delete elimina un votante del padrón
func (s *VoterService) Delete(phone string) error {
	return s.store.Voters().Delete(voter.NormalizePhone(phone, s.countryCode))
}

// UpdatePhoto actualiza la referencia a la foto de un votante
func (s *VoterService) UpdatePhoto(phone, filename string) error {
	if strings.TrimSpace(filename) == "" {
		return common.Validationf("photo filename cannot be empty")
	}
	return s.store.Voters().UpdatePhoto(voter.NormalizePhone(phone, s.countryCode), filename)
}

// ImportReport summarizes a bulk import run.
type ImportReport struct {
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportCSV bulk-loads voters from a CSV stream. The header row must name
// at least the name and phone columns; roll_number and email are optional.
// Spreadsheet exports often render numeric cells as floats, so a trailing
// ".0" on phone and roll number values is stripped.
func (s *VoterService) ImportCSV(r io.Reader) (*ImportReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, common.Validationf("cannot read CSV header: %v", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "phone"} {
		if _, ok := cols[required]; !ok {
			return nil, common.Validationf("CSV is missing the %s column", required)
		}
	}

	report := &ImportReport{}
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", row, err))
			continue
		}

		req := RegisterVoterRequest{
			Name:       cell(record, cols, "name"),
			Phone:      stripFloatSuffix(cell(record, cols, "phone")),
			RollNumber: stripFloatSuffix(cell(record, cols, "roll_number")),
			Email:      cell(record, cols, "email"),
		}

		if _, err := s.Register(req); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", row, err))
			continue
		}
		report.Imported++
	}

	s.log.Info("voter import finished", "imported", report.Imported, "failed", report.Failed)
	return report, nil
}

func cell(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// stripFloatSuffix removes the ".0" that spreadsheet tools append when a
// numeric-looking column round-trips through a float cell.
func stripFloatSuffix(s string) string {
	return strings.TrimSuffix(s, ".0")
}
