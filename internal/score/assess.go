package score

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/vestalabs/vesta/internal/expand"
	"github.com/vestalabs/vesta/internal/model"
)

// Aggregator is the corpus aggregation surface the assessor consumes.
type Aggregator interface {
	Count(ctx context.Context, preds []expand.Predicate) (int, error)
	FatalCount(ctx context.Context, preds []expand.Predicate) (int, error)
	AvgDaysAway(ctx context.Context, preds []expand.Predicate) (float64, error)
	SevereCount(ctx context.Context, preds []expand.Predicate) (int, error)
}

// Assessor composes per-hazard scores into one site-level risk result.
type Assessor struct {
	agg Aggregator
}

// NewAssessor creates an assessor over the given aggregation source.
func NewAssessor(agg Aggregator) *Assessor {
	return &Assessor{agg: agg}
}

// Assess scores every hazard in the registry and composes the site risk.
// The single worst hazard is intentionally weighted above its
// proportional share: for two or more hazards the composite is
// highest*0.6 + mean(rest)*0.4.
func (a *Assessor) Assess(ctx context.Context, registry model.Registry) (*model.SiteRisk, error) {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	breakdown := make([]model.HazardBreakdown, 0, len(ids))
	for _, id := range ids {
		row, err := a.scoreHazard(ctx, id, registry[id])
		if err != nil {
			return nil, err
		}
		breakdown = append(breakdown, row)
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].FinalScore > breakdown[j].FinalScore
	})

	siteScore := round1(compositeScore(breakdown))
	grade, explanation := gradeFor(siteScore)

	result := &model.SiteRisk{
		Score:            siteScore,
		Grade:            grade,
		GradeExplanation: explanation,
		Breakdown:        breakdown,
		Top5Hazards:      topN(breakdown, 5),
		TopConcern:       "None",
		Recommendation:   recommendationFor(siteScore),
	}
	if len(breakdown) > 0 {
		top := breakdown[0]
		result.TopConcern = top.Label
		result.TopConcernStats = fmt.Sprintf(
			"%s similar incidents in OSHA data. %d fatalities. Avg %.1f days away from work.",
			commaInt(top.FrequencyCount), top.FatalCount, top.AvgDaysAway,
		)
	}
	return result, nil
}

func (a *Assessor) scoreHazard(ctx context.Context, id string, h model.Hazard) (model.HazardBreakdown, error) {
	preds := expand.Category(h.Category)

	frequency, err := a.agg.Count(ctx, preds)
	if err != nil {
		return model.HazardBreakdown{}, fmt.Errorf("hazard %s: %w", id, err)
	}
	fatalCount, err := a.agg.FatalCount(ctx, preds)
	if err != nil {
		return model.HazardBreakdown{}, fmt.Errorf("hazard %s: %w", id, err)
	}
	avgDAFW, err := a.agg.AvgDaysAway(ctx, preds)
	if err != nil {
		return model.HazardBreakdown{}, fmt.Errorf("hazard %s: %w", id, err)
	}
	severeCount, err := a.agg.SevereCount(ctx, preds)
	if err != nil {
		return model.HazardBreakdown{}, fmt.Errorf("hazard %s: %w", id, err)
	}

	final, components := ComputeHazardScore(frequency, fatalCount, avgDAFW, severeCount)

	var fatalityRate, severeRate float64
	if frequency > 0 {
		fatalityRate = float64(fatalCount) / float64(frequency)
		severeRate = float64(severeCount) / float64(frequency)
	}

	return model.HazardBreakdown{
		HazardID:       id,
		Label:          h.Label,
		Category:       h.Category,
		FrequencyCount: frequency,
		FatalCount:     fatalCount,
		FatalityRate:   round3(fatalityRate),
		AvgDaysAway:    round1(avgDAFW),
		SevereRate:     round3(severeRate),
		FinalScore:     final,
		Components:     components,
	}, nil
}

// compositeScore applies the dominance formula. Rows are already sorted
// by score descending.
func compositeScore(breakdown []model.HazardBreakdown) float64 {
	switch len(breakdown) {
	case 0:
		return 0
	case 1:
		return breakdown[0].FinalScore
	}
	highest := breakdown[0].FinalScore
	sum := 0.0
	for _, row := range breakdown[1:] {
		sum += row.FinalScore
	}
	meanOthers := sum / float64(len(breakdown)-1)
	return highest*0.6 + meanOthers*0.4
}

// gradeFor maps a composite score to its letter grade with a fixed
// explanation. Band upper bounds are closed: a score of exactly 20.0 is
// still an A.
func gradeFor(score float64) (string, string) {
	switch {
	case score <= 20:
		return "A", "A: 0-20 risk range. Low risk site. Standard safety protocols sufficient."
	case score <= 40:
		return "B", "B: 21-40 risk range. Moderate risk. Enhanced safety measures recommended."
	case score <= 60:
		return "C", "C: 41-60 risk range. Elevated risk. Regular safety audits required."
	case score <= 80:
		return "D", "D: 61-80 risk range. High-risk site. Immediate corrective action recommended."
	default:
		return "F", "F: 81-100 risk range. Critical risk. Site shutdown may be required until hazards are mitigated."
	}
}

// recommendationFor returns the fixed recommendation sentence for a
// composite score.
func recommendationFor(score float64) string {
	switch {
	case score <= 20:
		return "Low-risk site. Standard safety protocols sufficient."
	case score <= 40:
		return "Moderate-risk site. Enhanced safety measures recommended."
	case score <= 60:
		return "Elevated-risk site. Regular safety audits and training required."
	case score <= 80:
		return "High-risk site. Daily safety briefings required. Immediate corrective action needed."
	default:
		return "Critical-risk site. Consider site shutdown until hazards are mitigated. Emergency safety protocols required."
	}
}

func topN(rows []model.HazardBreakdown, n int) []model.HazardBreakdown {
	if len(rows) < n {
		n = len(rows)
	}
	out := make([]model.HazardBreakdown, n)
	copy(out, rows[:n])
	return out
}

// commaInt renders an integer with thousands separators, e.g. 12345 as
// "12,345".
func commaInt(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if n < 0 {
		neg = true
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}
