package corpus

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vestalabs/vesta/internal/expand"
	"github.com/vestalabs/vesta/internal/model"
)

// Count returns the number of incidents matching the predicate set.
func (s *Store) Count(ctx context.Context, preds []expand.Predicate) (int, error) {
	return s.countWhere(ctx, preds, "")
}

// FatalCount returns the number of fatal incidents matching the
// predicate set.
func (s *Store) FatalCount(ctx context.Context, preds []expand.Predicate) (int, error) {
	return s.countWhere(ctx, preds, "AND incident_outcome = 1")
}

// OutcomeCount returns the number of matching incidents with the given
// outcome code.
func (s *Store) OutcomeCount(ctx context.Context, preds []expand.Predicate, outcome int) (int, error) {
	return s.countWhere(ctx, preds, fmt.Sprintf("AND incident_outcome = %d", outcome))
}

// SevereCount returns the number of matching incidents with 30 or more
// days away from work.
func (s *Store) SevereCount(ctx context.Context, preds []expand.Predicate) (int, error) {
	return s.countWhere(ctx, preds, "AND dafw_num_away >= 30")
}

func (s *Store) countWhere(ctx context.Context, preds []expand.Predicate, extra string) (int, error) {
	where, args, err := whereClause(preds)
	if err != nil {
		return 0, err
	}
	var n int
	q := "SELECT COUNT(*) FROM incidents WHERE " + where + " " + extra
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count incidents: %w", err)
	}
	return n, nil
}

// AvgDaysAway returns the average days away from work over matching
// incidents with dafw > 0, or 0.0 when no incident qualifies.
func (s *Store) AvgDaysAway(ctx context.Context, preds []expand.Predicate) (float64, error) {
	where, args, err := whereClause(preds)
	if err != nil {
		return 0, err
	}
	var avg sql.NullFloat64
	q := "SELECT AVG(dafw_num_away) FROM incidents WHERE " + where + " AND dafw_num_away > 0"
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&avg); err != nil {
		return 0, fmt.Errorf("avg days away: %w", err)
	}
	return avg.Float64, nil
}

// MaxDaysAway returns the maximum days away from work over matching
// incidents, or 0 when none match.
func (s *Store) MaxDaysAway(ctx context.Context, preds []expand.Predicate) (int, error) {
	where, args, err := whereClause(preds)
	if err != nil {
		return 0, err
	}
	var max sql.NullInt64
	q := "SELECT MAX(dafw_num_away) FROM incidents WHERE " + where
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&max); err != nil {
		return 0, fmt.Errorf("max days away: %w", err)
	}
	return int(max.Int64), nil
}

// topValueFields are the columns TopValues may group by.
var topValueFields = map[string]bool{
	"source_title_pred": true,
	"part_title_pred":   true,
	"event_title_pred":  true,
	"nature_title_pred": true,
}

// TopValues returns the n most frequent non-empty values of field over
// matching incidents, ordered by count descending.
func (s *Store) TopValues(ctx context.Context, field string, preds []expand.Predicate, n int) ([]model.ValueCount, error) {
	if !topValueFields[field] {
		return nil, fmt.Errorf("top values: field %q not allowed", field)
	}
	where, args, err := whereClause(preds)
	if err != nil {
		return nil, err
	}
	args = append(args, n)
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+field+`, COUNT(*) AS n
		FROM incidents
		WHERE `+where+` AND `+field+` IS NOT NULL AND `+field+` != ''
		GROUP BY `+field+`
		ORDER BY n DESC
		LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("top values: %w", err)
	}
	defer rows.Close()

	var out []model.ValueCount
	for rows.Next() {
		var vc model.ValueCount
		if err := rows.Scan(&vc.Value, &vc.Count); err != nil {
			return nil, fmt.Errorf("scan top value: %w", err)
		}
		out = append(out, vc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top values: %w", err)
	}
	return out, nil
}

// YearBreakdown returns matching incident counts keyed by filing year.
func (s *Store) YearBreakdown(ctx context.Context, preds []expand.Predicate) (map[string]int, error) {
	where, args, err := whereClause(preds)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT year_filing_for, COUNT(*) AS n
		FROM incidents
		WHERE `+where+` AND year_filing_for IS NOT NULL
		GROUP BY year_filing_for
		ORDER BY year_filing_for`, args...)
	if err != nil {
		return nil, fmt.Errorf("year breakdown: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var year, n int
		if err := rows.Scan(&year, &n); err != nil {
			return nil, fmt.Errorf("scan year: %w", err)
		}
		out[fmt.Sprintf("%d", year)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("year breakdown: %w", err)
	}
	return out, nil
}
