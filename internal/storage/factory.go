package storage

import (
	"fmt"

	"github.com/gravadigital/urna-api/internal/config"
	"github.com/gravadigital/urna-api/internal/storage/postgres"
)

// Type identifies a storage backend.
type Type string

const (
	// TypePostgres is the PostgreSQL backend, the only one deployed today.
	TypePostgres Type = "postgres"
)

// SupportedTypes lists the backends this build can open.
func SupportedTypes() []Type {
	return []Type{TypePostgres}
}

// ParseType validates a backend name coming from configuration.
func ParseType(s string) (Type, error) {
	t := Type(s)
	for _, supported := range SupportedTypes() {
		if t == supported {
			return t, nil
		}
	}
	return "", fmt.Errorf("unsupported storage type: %s (supported: %v)", s, SupportedTypes())
}

// Factory abre contenedores de repositorios para un backend concreto
type Factory struct {
	storageType Type
}

// NewFactory creates a factory for the given backend.
func NewFactory(t Type) *Factory {
	return &Factory{storageType: t}
}

// DefaultFactory returns a factory for the default backend.
func DefaultFactory() *Factory {
	return NewFactory(TypePostgres)
}

// CreateContainer connects to the backend, runs the auto-migration and
// returns the repository container the services run on.
func (f *Factory) CreateContainer(cfg *config.Config) (*postgres.Container, error) {
	switch f.storageType {
	case TypePostgres:
		return postgres.NewContainer(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", f.storageType)
	}
}
