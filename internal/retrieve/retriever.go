// Package retrieve finds real incident narratives supporting a hazard
// description.
package retrieve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vestalabs/vesta/internal/corpus"
	"github.com/vestalabs/vesta/internal/expand"
	"github.com/vestalabs/vesta/internal/model"
)

// Each candidate pass is capped at candidateFactor * k ids, so the union
// has headroom for deduplication before truncating to k.
const candidateFactor = 3

// Corpus is the read-only search surface the retriever needs.
type Corpus interface {
	SearchNarratives(ctx context.Context, match string, limit int) ([]int64, error)
	SearchNarrativeSubstring(ctx context.Context, term string, limit int) ([]int64, error)
	SearchClassification(ctx context.Context, term string, limit int) ([]int64, error)
	SearchPredicates(ctx context.Context, preds []expand.Predicate, limit int) ([]int64, error)
	FetchRanked(ctx context.Context, ids []int64, limit int) ([]model.IncidentRecord, error)
}

// Retriever orchestrates candidate generation, dedup, ordering, and
// confidence scoring over an injected corpus handle.
type Retriever struct {
	corpus Corpus
}

// NewRetriever creates a retriever backed by the given corpus.
func NewRetriever(c Corpus) *Retriever {
	return &Retriever{corpus: c}
}

// Retrieve returns up to k incident narratives matching the hazard label,
// ordered fatal incidents first, then days away from work descending.
// No matches is a normal empty result, not an error; only an unreachable
// corpus fails.
func (r *Retriever) Retrieve(ctx context.Context, label, category string, k int) ([]model.EvidenceResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("retrieve: k must be positive, got %d", k)
	}
	limit := candidateFactor * k

	lexical, err := r.lexicalPass(ctx, label, limit)
	if err != nil {
		return nil, err
	}
	classification, err := r.classificationPass(ctx, label, limit)
	if err != nil {
		return nil, err
	}
	categorical, err := r.categoryPass(ctx, category, limit)
	if err != nil {
		return nil, err
	}

	union := unionIDs(lexical, classification, categorical)
	if len(union) == 0 {
		return []model.EvidenceResult{}, nil
	}

	records, err := r.corpus.FetchRanked(ctx, union, k)
	if err != nil {
		return nil, err
	}

	results := make([]model.EvidenceResult, 0, len(records))
	for _, rec := range records {
		results = append(results, buildResult(rec, lexical, classification))
	}
	return results, nil
}

// lexicalPass runs the ranked full-text query. If the engine rejects the
// query it degrades to substring matching over the same fields with the
// same cap; that recovery never surfaces as an error.
func (r *Retriever) lexicalPass(ctx context.Context, label string, limit int) (map[int64]bool, error) {
	ids, err := r.corpus.SearchNarratives(ctx, BuildMatchQuery(label), limit)
	if errors.Is(err, corpus.ErrBadQuery) {
		ids, err = r.corpus.SearchNarrativeSubstring(ctx, label, limit)
	}
	if err != nil {
		return nil, err
	}
	return toSet(ids), nil
}

// classificationPass matches the label against the predicted event-type
// and source fields, independent of the lexical pass.
func (r *Retriever) classificationPass(ctx context.Context, label string, limit int) (map[int64]bool, error) {
	ids, err := r.corpus.SearchClassification(ctx, label, limit)
	if err != nil {
		return nil, err
	}
	return toSet(ids), nil
}

// categoryPass executes the category predicate set, or nothing when no
// category was supplied.
func (r *Retriever) categoryPass(ctx context.Context, category string, limit int) (map[int64]bool, error) {
	preds := expand.Category(category)
	if len(preds) == 0 {
		return nil, nil
	}
	ids, err := r.corpus.SearchPredicates(ctx, preds, limit)
	if err != nil {
		return nil, err
	}
	return toSet(ids), nil
}

// BuildMatchQuery turns a hazard label into a disjunctive prefix-match
// FTS5 query: "floor hole" becomes "floor* OR hole*".
func BuildMatchQuery(label string) string {
	var terms []string
	for _, tok := range strings.Fields(strings.ToLower(strings.TrimSpace(label))) {
		terms = append(terms, tok+"*")
	}
	if len(terms) == 0 {
		return label
	}
	return strings.Join(terms, " OR ")
}

// buildResult converts a fetched record into an evidence result with its
// confidence score. Confidence is reporting-only: ordering is decided by
// severity during the fetch, never by this value.
func buildResult(rec model.IncidentRecord, lexical, classification map[int64]bool) model.EvidenceResult {
	confidence := 0.5
	if rec.IsFatal() {
		confidence += 0.3
	}
	if rec.DaysAway > 30 {
		confidence += 0.1
	} else if rec.DaysAway > 0 {
		confidence += 0.05
	}
	if lexical[rec.ID] {
		confidence += 0.1
	}
	if classification[rec.ID] {
		confidence += 0.05
	}
	if confidence > 1.0 {
		confidence = 1.0
	}

	return model.EvidenceResult{
		WhatHappened:      rec.WhatHappened,
		InjuryDescription: rec.InjuryIllness,
		ObjectInvolved:    rec.ObjectSubstance,
		Location:          rec.Location,
		Outcome:           FormatOutcome(rec.Outcome, rec.DaysAway, rec.DaysTransfer),
		DAFWDays:          rec.DaysAway,
		EventType:         rec.EventTitle,
		Source:            rec.SourceTitle,
		NatureOfInjury:    rec.NatureTitle,
		BodyPart:          rec.PartTitle,
		Year:              rec.YearFiling,
		IsFatal:           rec.IsFatal(),
		Confidence:        confidence,
	}
}

// FormatOutcome converts an outcome code to its human-readable label.
func FormatOutcome(outcome, daysAway, daysTransfer int) string {
	switch outcome {
	case model.OutcomeFatal:
		return "FATAL"
	case model.OutcomeDaysAway:
		if daysAway > 0 {
			return fmt.Sprintf("%d days away from work", daysAway)
		}
		return "Days away from work"
	case model.OutcomeJobTransfer:
		if daysTransfer > 0 {
			return fmt.Sprintf("%d days job transfer/restriction", daysTransfer)
		}
		return "Job transfer/restriction"
	case model.OutcomeOtherRecordable:
		return "Other recordable case"
	default:
		return "Unknown"
	}
}

func toSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// unionIDs merges candidate sets, deduplicating by record id.
func unionIDs(sets ...map[int64]bool) []int64 {
	seen := make(map[int64]bool)
	var out []int64
	for _, set := range sets {
		for id := range set {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}
