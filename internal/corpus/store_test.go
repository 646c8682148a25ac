package corpus

import (
	"context"
	"errors"
	"testing"

	"github.com/vestalabs/vesta/internal/expand"
	"github.com/vestalabs/vesta/internal/model"
)

// newTestStore seeds an in-memory corpus with a small fixture set and a
// built full-text index.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Create(":memory:")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	recs := []model.IncidentRecord{
		{
			ID: 1, Outcome: model.OutcomeFatal, YearFiling: 2023,
			EventTitle: "Fall to lower level", SourceTitle: "Ladders",
			WhatHappened: "Worker fell from a ladder through a floor hole",
			NatureTitle:  "Fractures", PartTitle: "Head",
		},
		{
			ID: 2, Outcome: model.OutcomeDaysAway, DaysAway: 45, YearFiling: 2023,
			EventTitle: "Fall to lower level", SourceTitle: "Scaffolds",
			WhatHappened: "Employee slipped and fell from a scaffold platform",
			NatureTitle:  "Fractures", PartTitle: "Leg",
		},
		{
			ID: 3, Outcome: model.OutcomeDaysAway, DaysAway: 10, YearFiling: 2024,
			EventTitle: "Struck by object", SourceTitle: "Hand tools",
			WhatHappened: "Worker was struck by a falling hammer",
			NatureTitle:  "Contusions", PartTitle: "Shoulder",
		},
		{
			ID: 4, Outcome: model.OutcomeOtherRecordable, YearFiling: 2024,
			EventTitle: "Contact with electric current", SourceTitle: "Electrical wiring",
			WhatHappened: "Worker received a shock from exposed wiring",
			NatureTitle:  "Electrical burns", PartTitle: "Hand",
		},
		{
			ID: 5, Outcome: model.OutcomeDaysAway, DaysAway: 60, YearFiling: 2024,
			EventTitle: "Contact with electric current", SourceTitle: "Power lines",
			WhatHappened: "Employee was electrocuted while stringing conductor",
			NatureTitle:  "Electrical burns", PartTitle: "Body systems",
		},
		{
			ID: 6, Outcome: model.OutcomeDaysAway, DaysAway: 5, YearFiling: 2024,
			EventTitle: "Fall to lower level", SourceTitle: "Ladders",
			WhatHappened: "Worker stepped off a ladder and twisted an ankle",
			NatureTitle:  "Sprains", PartTitle: "Ankle",
		},
	}
	if _, err := s.InsertBatch(context.Background(), recs); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}
	if err := s.RebuildFTS(); err != nil {
		t.Fatalf("RebuildFTS: %v", err)
	}
	return s
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open("/nonexistent/osha_incidents.db")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Open missing file: err = %v, want ErrUnavailable", err)
	}
}

func TestSearchNarratives(t *testing.T) {
	s := newTestStore(t)
	ids, err := s.SearchNarratives(context.Background(), "ladder*", 10)
	if err != nil {
		t.Fatalf("SearchNarratives: %v", err)
	}
	if !containsAll(ids, 1, 6) {
		t.Errorf("ids = %v, want 1 and 6 present", ids)
	}
}

func TestSearchNarrativesBadQuery(t *testing.T) {
	s := newTestStore(t)
	_, err := s.SearchNarratives(context.Background(), `"unterminated`, 10)
	if !errors.Is(err, ErrBadQuery) {
		t.Fatalf("err = %v, want ErrBadQuery", err)
	}
}

func TestSearchNarrativeSubstring(t *testing.T) {
	s := newTestStore(t)
	ids, err := s.SearchNarrativeSubstring(context.Background(), "scaffold", 10)
	if err != nil {
		t.Fatalf("SearchNarrativeSubstring: %v", err)
	}
	if len(ids) != 1 || ids[0] != 2 {
		t.Errorf("ids = %v, want [2]", ids)
	}
}

func TestSearchClassification(t *testing.T) {
	s := newTestStore(t)
	ids, err := s.SearchClassification(context.Background(), "electric", 10)
	if err != nil {
		t.Fatalf("SearchClassification: %v", err)
	}
	if !containsAll(ids, 4, 5) || len(ids) != 2 {
		t.Errorf("ids = %v, want exactly [4 5]", ids)
	}
}

func TestSearchPredicates(t *testing.T) {
	s := newTestStore(t)
	ids, err := s.SearchPredicates(context.Background(), expand.Category("Fall Hazard"), 10)
	if err != nil {
		t.Fatalf("SearchPredicates: %v", err)
	}
	if !containsAll(ids, 1, 2, 6) || len(ids) != 3 {
		t.Errorf("ids = %v, want exactly [1 2 6]", ids)
	}
}

func TestSearchPredicatesEmptySetMatchesNothing(t *testing.T) {
	s := newTestStore(t)
	ids, err := s.SearchPredicates(context.Background(), nil, 10)
	if err != nil {
		t.Fatalf("SearchPredicates: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ids = %v, want empty", ids)
	}
}

func TestSearchPredicatesRejectsUnknownField(t *testing.T) {
	s := newTestStore(t)
	_, err := s.SearchPredicates(context.Background(), []expand.Predicate{{Field: "city", Pattern: "x"}}, 10)
	if err == nil {
		t.Fatal("expected error for disallowed predicate field")
	}
}

func TestFetchRankedOrdering(t *testing.T) {
	s := newTestStore(t)
	recs, err := s.FetchRanked(context.Background(), []int64{2, 6, 1}, 2)
	if err != nil {
		t.Fatalf("FetchRanked: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].ID != 1 {
		t.Errorf("first record = %d, want fatal incident 1", recs[0].ID)
	}
	if recs[1].ID != 2 {
		t.Errorf("second record = %d, want 45-day incident 2", recs[1].ID)
	}
}

func TestFetchRankedEmptyIDs(t *testing.T) {
	s := newTestStore(t)
	recs, err := s.FetchRanked(context.Background(), nil, 5)
	if err != nil {
		t.Fatalf("FetchRanked: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("got %d records, want 0", len(recs))
	}
}

func TestAggregates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	preds := expand.Category("Fall Hazard")

	if n, err := s.Count(ctx, preds); err != nil || n != 3 {
		t.Errorf("Count = %d, %v, want 3", n, err)
	}
	if n, err := s.FatalCount(ctx, preds); err != nil || n != 1 {
		t.Errorf("FatalCount = %d, %v, want 1", n, err)
	}
	if n, err := s.SevereCount(ctx, preds); err != nil || n != 1 {
		t.Errorf("SevereCount = %d, %v, want 1", n, err)
	}
	// Only the 45 and 5 day cases have dafw > 0.
	if avg, err := s.AvgDaysAway(ctx, preds); err != nil || avg != 25 {
		t.Errorf("AvgDaysAway = %v, %v, want 25", avg, err)
	}
	if max, err := s.MaxDaysAway(ctx, preds); err != nil || max != 45 {
		t.Errorf("MaxDaysAway = %d, %v, want 45", max, err)
	}
	if n, err := s.OutcomeCount(ctx, preds, model.OutcomeDaysAway); err != nil || n != 2 {
		t.Errorf("OutcomeCount = %d, %v, want 2", n, err)
	}
}

func TestAggregatesEmptyPredicateSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if n, err := s.Count(ctx, nil); err != nil || n != 0 {
		t.Errorf("Count = %d, %v, want 0", n, err)
	}
	if avg, err := s.AvgDaysAway(ctx, nil); err != nil || avg != 0 {
		t.Errorf("AvgDaysAway = %v, %v, want 0", avg, err)
	}
	if max, err := s.MaxDaysAway(ctx, nil); err != nil || max != 0 {
		t.Errorf("MaxDaysAway = %d, %v, want 0", max, err)
	}
}

func TestTopValues(t *testing.T) {
	s := newTestStore(t)
	preds := expand.Category("Fall Hazard")

	top, err := s.TopValues(context.Background(), "source_title_pred", preds, 3)
	if err != nil {
		t.Fatalf("TopValues: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("got %d values, want 2", len(top))
	}
	if top[0].Value != "Ladders" || top[0].Count != 2 {
		t.Errorf("top value = %+v, want Ladders x2", top[0])
	}
}

func TestTopValuesRejectsUnknownField(t *testing.T) {
	s := newTestStore(t)
	_, err := s.TopValues(context.Background(), "establishment_name", nil, 3)
	if err == nil {
		t.Fatal("expected error for disallowed field")
	}
}

func TestYearBreakdown(t *testing.T) {
	s := newTestStore(t)
	years, err := s.YearBreakdown(context.Background(), expand.Category("Fall Hazard"))
	if err != nil {
		t.Fatalf("YearBreakdown: %v", err)
	}
	want := map[string]int{"2023": 2, "2024": 1}
	if len(years) != len(want) {
		t.Fatalf("years = %v, want %v", years, want)
	}
	for y, n := range want {
		if years[y] != n {
			t.Errorf("years[%s] = %d, want %d", y, years[y], n)
		}
	}
}

func containsAll(ids []int64, want ...int64) bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}
