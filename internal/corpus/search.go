package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/vestalabs/vesta/internal/expand"
	"github.com/vestalabs/vesta/internal/model"
)

// SearchNarratives runs a ranked FTS5 query over the narrative field set
// and returns candidate ids best-match-first. A query the FTS engine
// rejects is reported as ErrBadQuery, distinct from an empty result.
func (s *Store) SearchNarratives(ctx context.Context, match string, limit int) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rowid FROM incidents_fts
		WHERE incidents_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, match, limit)
	if err != nil {
		if isSyntaxError(err) {
			return nil, fmt.Errorf("%w: %v", ErrBadQuery, err)
		}
		return nil, fmt.Errorf("fts search: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// isSyntaxError reports whether an FTS5 query failed due to query syntax
// rather than an unreachable corpus.
func isSyntaxError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "fts5: syntax error") ||
		strings.Contains(msg, "malformed match") ||
		strings.Contains(msg, "unterminated string") ||
		strings.Contains(msg, "unknown special query")
}

// SearchNarrativeSubstring is the degraded lexical pass: an OR of
// substring matches across the same narrative fields.
func (s *Store) SearchNarrativeSubstring(ctx context.Context, term string, limit int) ([]int64, error) {
	clauses := make([]string, len(narrativeFields))
	args := make([]any, 0, len(narrativeFields)+1)
	for i, f := range narrativeFields {
		clauses[i] = f + " LIKE ?"
		args = append(args, "%"+term+"%")
	}
	args = append(args, limit)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM incidents
		WHERE `+strings.Join(clauses, " OR ")+`
		LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("substring search: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// SearchClassification matches a term against the predicted event-type
// and source classification fields.
func (s *Store) SearchClassification(ctx context.Context, term string, limit int) ([]int64, error) {
	pattern := "%" + term + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM incidents
		WHERE event_title_pred LIKE ? OR source_title_pred LIKE ?
		LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("classification search: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// SearchPredicates returns ids matching a category predicate set.
func (s *Store) SearchPredicates(ctx context.Context, preds []expand.Predicate, limit int) ([]int64, error) {
	where, args, err := whereClause(preds)
	if err != nil {
		return nil, err
	}
	args = append(args, limit)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM incidents WHERE `+where+` LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("predicate search: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// FetchRanked fetches full records for the given ids, ordered fatal
// incidents first, then by days away from work descending, truncated to
// limit.
func (s *Store) FetchRanked(ctx context.Context, ids []int64, limit int) ([]model.IncidentRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id, establishment_name, city, state, naics_code,
			year_filing_for, date_of_incident, incident_outcome,
			dafw_num_away, djtr_num_tr, type_of_incident, job_description,
			nar_what_happened, nar_before_incident, incident_location,
			nar_injury_illness, nar_object_substance, incident_description,
			nature_title_pred, part_title_pred, event_title_pred,
			source_title_pred, sec_source_title_pred
		FROM incidents
		WHERE id IN (`+placeholders+`)
		ORDER BY
			CASE WHEN incident_outcome = 1 THEN 0 ELSE 1 END,
			dafw_num_away DESC
		LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch incidents: %w", err)
	}
	defer rows.Close()

	var out []model.IncidentRecord
	for rows.Next() {
		var (
			r                                      model.IncidentRecord
			estName, city, state, naics, date      sql.NullString
			job, what, before, loc, injury         sql.NullString
			object, desc, nature, part, event      sql.NullString
			source, secSource                      sql.NullString
			year, outcome, dafw, djtr, typeOfIncid sql.NullInt64
		)
		if err := rows.Scan(
			&r.ID, &estName, &city, &state, &naics,
			&year, &date, &outcome,
			&dafw, &djtr, &typeOfIncid, &job,
			&what, &before, &loc,
			&injury, &object, &desc,
			&nature, &part, &event,
			&source, &secSource,
		); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		r.EstablishmentName = estName.String
		r.City = city.String
		r.State = state.String
		r.NAICSCode = naics.String
		r.YearFiling = int(year.Int64)
		r.DateOfIncident = date.String
		r.Outcome = int(outcome.Int64)
		r.DaysAway = int(dafw.Int64)
		r.DaysTransfer = int(djtr.Int64)
		r.TypeOfIncident = int(typeOfIncid.Int64)
		r.JobDescription = job.String
		r.WhatHappened = what.String
		r.BeforeIncident = before.String
		r.Location = loc.String
		r.InjuryIllness = injury.String
		r.ObjectSubstance = object.String
		r.Description = desc.String
		r.NatureTitle = nature.String
		r.PartTitle = part.String
		r.EventTitle = event.String
		r.SourceTitle = source.String
		r.SecSourceTitle = secSource.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch incidents: %w", err)
	}
	return out, nil
}

func scanIDs(rows *sql.Rows) ([]int64, error) {
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan ids: %w", err)
	}
	return ids, nil
}
