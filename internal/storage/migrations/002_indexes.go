package migrations

import "gorm.io/gorm"

// migration002Up creates performance indexes
func migration002Up(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_elections_status ON elections(status)",
		"CREATE INDEX IF NOT EXISTS idx_elections_created_at ON elections(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_elections_ended_at ON elections(ended_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_voters_email ON voters(email)",
		"CREATE INDEX IF NOT EXISTS idx_voters_has_voted ON voters(has_voted)",

		"CREATE INDEX IF NOT EXISTS idx_candidates_position ON candidates(position)",
		"CREATE INDEX IF NOT EXISTS idx_candidates_votes ON candidates(votes DESC)",

		"CREATE INDEX IF NOT EXISTS idx_votes_election ON votes(election_id)",
		"CREATE INDEX IF NOT EXISTS idx_votes_candidate ON votes(candidate_id)",
		"CREATE INDEX IF NOT EXISTS idx_votes_voter ON votes(voter_phone)",
		"CREATE INDEX IF NOT EXISTS idx_votes_timestamp ON votes(timestamp)",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration002Down drops performance indexes
func migration002Down(db *gorm.DB) error {
	indexes := []string{
		"idx_elections_status",
		"idx_elections_created_at",
		"idx_elections_ended_at",
		"idx_voters_email",
		"idx_voters_has_voted",
		"idx_candidates_position",
		"idx_candidates_votes",
		"idx_votes_election",
		"idx_votes_candidate",
		"idx_votes_voter",
		"idx_votes_timestamp",
	}

	for _, index := range indexes {
		if err := db.Exec("DROP INDEX IF EXISTS " + index).Error; err != nil {
			return err
		}
	}

	return nil
}
