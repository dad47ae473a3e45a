package migrations

import "gorm.io/gorm"

// migration003Up creates integrity constraints
func migration003Up(db *gorm.DB) error {
	constraints := []string{
		// At most one election may be active at any time
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_elections_single_active ON elections(status) WHERE status = 'active'",
	}

	for _, constraintSQL := range constraints {
		if err := db.Exec(constraintSQL).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration003Down drops integrity constraints
func migration003Down(db *gorm.DB) error {
	return db.Exec("DROP INDEX IF EXISTS idx_elections_single_active").Error
}
