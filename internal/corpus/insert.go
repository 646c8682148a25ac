package corpus

import (
	"context"
	"fmt"

	"github.com/vestalabs/vesta/internal/model"
)

// InsertBatch inserts records in a single transaction and returns the
// number inserted. Ingestion-only; retrieval and scoring never write.
func (s *Store) InsertBatch(ctx context.Context, recs []model.IncidentRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO incidents (
			id, establishment_name, city, state, naics_code, industry_description,
			year_filing_for, date_of_incident, incident_outcome, dafw_num_away,
			djtr_num_tr, type_of_incident, job_description,
			nar_what_happened, nar_before_incident, incident_location,
			nar_injury_illness, nar_object_substance, incident_description,
			nature_title_pred, part_title_pred, event_title_pred,
			source_title_pred, sec_source_title_pred
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, r := range recs {
		_, err := stmt.ExecContext(ctx,
			r.ID,
			nullIfEmpty(r.EstablishmentName),
			nullIfEmpty(r.City),
			nullIfEmpty(r.State),
			nullIfEmpty(r.NAICSCode),
			nullIfEmpty(r.IndustryDesc),
			nullIfZero(r.YearFiling),
			nullIfEmpty(r.DateOfIncident),
			nullIfZero(r.Outcome),
			r.DaysAway,
			r.DaysTransfer,
			nullIfZero(r.TypeOfIncident),
			nullIfEmpty(r.JobDescription),
			nullIfEmpty(r.WhatHappened),
			nullIfEmpty(r.BeforeIncident),
			nullIfEmpty(r.Location),
			nullIfEmpty(r.InjuryIllness),
			nullIfEmpty(r.ObjectSubstance),
			nullIfEmpty(r.Description),
			nullIfEmpty(r.NatureTitle),
			nullIfEmpty(r.PartTitle),
			nullIfEmpty(r.EventTitle),
			nullIfEmpty(r.SourceTitle),
			nullIfEmpty(r.SecSourceTitle),
		)
		if err != nil {
			return 0, fmt.Errorf("insert incident %d: %w", r.ID, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert: %w", err)
	}
	return n, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullIfZero(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
