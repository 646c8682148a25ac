package corpus

import "fmt"

// createSchema creates the incidents table, the FTS5 index, and the
// secondary indexes if they do not exist yet.
func (s *Store) createSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS incidents (
			id INTEGER PRIMARY KEY,
			establishment_name TEXT,
			city TEXT,
			state TEXT,
			naics_code TEXT,
			industry_description TEXT,
			year_filing_for INTEGER,
			date_of_incident TEXT,
			incident_outcome INTEGER,
			dafw_num_away INTEGER,
			djtr_num_tr INTEGER,
			type_of_incident INTEGER,
			job_description TEXT,
			nar_what_happened TEXT,
			nar_before_incident TEXT,
			incident_location TEXT,
			nar_injury_illness TEXT,
			nar_object_substance TEXT,
			incident_description TEXT,
			nature_title_pred TEXT,
			part_title_pred TEXT,
			event_title_pred TEXT,
			source_title_pred TEXT,
			sec_source_title_pred TEXT
		)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS incidents_fts USING fts5(
			nar_what_happened,
			nar_before_incident,
			incident_location,
			nar_injury_illness,
			nar_object_substance,
			incident_description,
			event_title_pred,
			source_title_pred,
			nature_title_pred,
			content='incidents',
			content_rowid='id'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_incident_outcome ON incidents(incident_outcome)`,
		`CREATE INDEX IF NOT EXISTS idx_year ON incidents(year_filing_for)`,
		`CREATE INDEX IF NOT EXISTS idx_event ON incidents(event_title_pred)`,
		`CREATE INDEX IF NOT EXISTS idx_naics ON incidents(naics_code)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// RebuildFTS rebuilds the FTS5 index from the incidents table. Call once
// after bulk insertion.
func (s *Store) RebuildFTS() error {
	if _, err := s.db.Exec(`INSERT INTO incidents_fts(incidents_fts) VALUES('rebuild')`); err != nil {
		return fmt.Errorf("rebuild fts index: %w", err)
	}
	return nil
}
