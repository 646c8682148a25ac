// Package stats precomputes headline statistics for the hazard
// categories, backed by a versioned read-through JSON snapshot and an
// in-memory cache layer.
package stats

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"github.com/vestalabs/vesta/internal/expand"
	"github.com/vestalabs/vesta/internal/model"
	"github.com/vestalabs/vesta/internal/worker"
)

// Categories is the fixed list the snapshot is built for.
var Categories = []string{
	"Fall Hazard",
	"Electrical Hazard",
	"Struck By",
	"Caught In/Between",
	"Chemical Exposure",
	"Slip/Trip",
	"Fire/Explosion",
}

const allStatsKey = "stats:all"

// Aggregator is the corpus aggregation surface the stats builder needs.
type Aggregator interface {
	Count(ctx context.Context, preds []expand.Predicate) (int, error)
	FatalCount(ctx context.Context, preds []expand.Predicate) (int, error)
	OutcomeCount(ctx context.Context, preds []expand.Predicate, outcome int) (int, error)
	AvgDaysAway(ctx context.Context, preds []expand.Predicate) (float64, error)
	MaxDaysAway(ctx context.Context, preds []expand.Predicate) (int, error)
	TopValues(ctx context.Context, field string, preds []expand.Predicate, n int) ([]model.ValueCount, error)
	YearBreakdown(ctx context.Context, preds []expand.Predicate) (map[string]int, error)
}

// Service serves per-category statistics, reading through the snapshot
// when enabled and rebuilding live when the snapshot is unusable.
type Service struct {
	agg          Aggregator
	snapshotPath string
	workers      int
	mem          *gocache.Cache // nil when caching is disabled
}

// NewService creates a stats service. With cfg.Enabled false every call
// computes live aggregates.
func NewService(agg Aggregator, cfg model.CacheConfig, workers int) *Service {
	s := &Service{
		agg:          agg,
		snapshotPath: cfg.SnapshotPath,
		workers:      workers,
	}
	if cfg.Enabled {
		s.mem = gocache.New(cfg.TTL, 2*cfg.TTL)
	}
	return s
}

// All returns statistics for every category, from memory, snapshot, or
// a live rebuild, in that order.
func (s *Service) All(ctx context.Context) (map[string]model.CategoryStats, error) {
	if s.mem != nil {
		if v, found := s.mem.Get(allStatsKey); found {
			return v.(map[string]model.CategoryStats), nil
		}
		if cats, ok := loadSnapshot(s.snapshotPath); ok {
			s.mem.SetDefault(allStatsKey, cats)
			return cats, nil
		}
	}
	return s.Rebuild(ctx)
}

// Category returns statistics for one category. The second return value
// is false when the category is not in the fixed list.
func (s *Service) Category(ctx context.Context, category string) (model.CategoryStats, bool, error) {
	all, err := s.All(ctx)
	if err != nil {
		return model.CategoryStats{}, false, err
	}
	st, ok := all[canonicalCategory(category)]
	return st, ok, nil
}

// categoryJob computes one category's statistics on the worker pool.
// The corpus tolerates arbitrarily many concurrent readers, so the
// categories are computed in parallel.
type categoryJob struct {
	agg      Aggregator
	category string
}

type categoryResult struct {
	category string
	stats    model.CategoryStats
	err      error
}

func (r *categoryResult) GetError() error { return r.err }

func (j *categoryJob) Execute(ctx context.Context) worker.Result {
	st, err := Compute(ctx, j.agg, j.category)
	return &categoryResult{category: j.category, stats: st, err: err}
}

// Rebuild computes live aggregates for every category and rewrites the
// snapshot. A snapshot write failure is not fatal; the fresh stats are
// still returned.
func (s *Service) Rebuild(ctx context.Context) (map[string]model.CategoryStats, error) {
	pool := worker.NewPool(s.workers)
	for _, category := range Categories {
		pool.Submit(&categoryJob{agg: s.agg, category: category})
	}

	out := make(map[string]model.CategoryStats, len(Categories))
	for _, res := range pool.Wait() {
		cr := res.(*categoryResult)
		if cr.err != nil {
			return nil, fmt.Errorf("stats for %s: %w", cr.category, cr.err)
		}
		out[cr.category] = cr.stats
	}

	if s.mem != nil {
		s.mem.SetDefault(allStatsKey, out)
		_ = saveSnapshot(s.snapshotPath, out)
	}
	return out, nil
}

// Compute runs the nine aggregate queries for one category.
func Compute(ctx context.Context, agg Aggregator, category string) (model.CategoryStats, error) {
	preds := expand.Category(category)

	total, err := agg.Count(ctx, preds)
	if err != nil {
		return model.CategoryStats{}, err
	}
	if total == 0 {
		return model.CategoryStats{YearBreakdown: map[string]int{}}, nil
	}

	fatal, err := agg.FatalCount(ctx, preds)
	if err != nil {
		return model.CategoryStats{}, err
	}
	dafwCount, err := agg.OutcomeCount(ctx, preds, model.OutcomeDaysAway)
	if err != nil {
		return model.CategoryStats{}, err
	}
	avgDAFW, err := agg.AvgDaysAway(ctx, preds)
	if err != nil {
		return model.CategoryStats{}, err
	}
	maxDAFW, err := agg.MaxDaysAway(ctx, preds)
	if err != nil {
		return model.CategoryStats{}, err
	}
	topSources, err := agg.TopValues(ctx, "source_title_pred", preds, 3)
	if err != nil {
		return model.CategoryStats{}, err
	}
	topBodyParts, err := agg.TopValues(ctx, "part_title_pred", preds, 3)
	if err != nil {
		return model.CategoryStats{}, err
	}
	years, err := agg.YearBreakdown(ctx, preds)
	if err != nil {
		return model.CategoryStats{}, err
	}

	return model.CategoryStats{
		TotalCount:    total,
		FatalCount:    fatal,
		DAFWCount:     dafwCount,
		AvgDAFW:       round1(avgDAFW),
		MaxDAFW:       maxDAFW,
		PctFatal:      round1(float64(fatal) / float64(total) * 100),
		TopSources:    topSources,
		TopBodyParts:  topBodyParts,
		YearBreakdown: years,
	}, nil
}

// canonicalCategory maps a case-insensitive category name to its entry
// in Categories, or returns the input unchanged.
func canonicalCategory(category string) string {
	for _, c := range Categories {
		if strings.EqualFold(c, category) {
			return c
		}
	}
	return category
}

// Headline formats a citation-ready one-line summary for a category.
func Headline(category string, st model.CategoryStats) string {
	if st.TotalCount == 0 {
		return fmt.Sprintf("No %s incidents found in dataset.", category)
	}

	parts := []string{
		fmt.Sprintf("%s %s incidents recorded.", commaInt(st.TotalCount), category),
		fmt.Sprintf("%d fatalities (%.1f%%).", st.FatalCount, st.PctFatal),
	}
	if st.AvgDAFW > 0 {
		parts = append(parts, fmt.Sprintf("Workers averaged %.0f days away from work.", st.AvgDAFW))
	}
	if len(st.TopSources) >= 2 {
		parts = append(parts, fmt.Sprintf("Most common causes: %s, %s.", st.TopSources[0].Value, st.TopSources[1].Value))
	} else if len(st.TopSources) == 1 {
		parts = append(parts, fmt.Sprintf("Most common cause: %s.", st.TopSources[0].Value))
	}
	if len(st.TopBodyParts) > 0 {
		parts = append(parts, fmt.Sprintf("Most affected: %s.", st.TopBodyParts[0].Value))
	}
	return strings.Join(parts, " ")
}

// Detailed formats a multi-line statistics report for a category.
func Detailed(category string, st model.CategoryStats) string {
	if st.TotalCount == 0 {
		return fmt.Sprintf("No %s incidents found in dataset.", category)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Statistics\n", category)
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "Total Incidents: %s\n", commaInt(st.TotalCount))
	fmt.Fprintf(&b, "Fatalities: %d (%.1f%%)\n", st.FatalCount, st.PctFatal)
	fmt.Fprintf(&b, "Days Away from Work Cases: %s\n", commaInt(st.DAFWCount))
	fmt.Fprintf(&b, "Average Days Away: %.1f days\n", st.AvgDAFW)
	fmt.Fprintf(&b, "Maximum Days Away: %d days\n", st.MaxDAFW)

	if len(st.TopSources) > 0 {
		b.WriteString("\nTop 3 Causes:\n")
		for i, vc := range st.TopSources {
			fmt.Fprintf(&b, "  %d. %s: %s incidents\n", i+1, vc.Value, commaInt(vc.Count))
		}
	}
	if len(st.TopBodyParts) > 0 {
		b.WriteString("\nTop 3 Affected Body Parts:\n")
		for i, vc := range st.TopBodyParts {
			fmt.Fprintf(&b, "  %d. %s: %s incidents\n", i+1, vc.Value, commaInt(vc.Count))
		}
	}
	if len(st.YearBreakdown) > 0 {
		b.WriteString("\nYear Breakdown:\n")
		years := make([]string, 0, len(st.YearBreakdown))
		for y := range st.YearBreakdown {
			years = append(years, y)
		}
		sort.Strings(years)
		for _, y := range years {
			fmt.Fprintf(&b, "  %s: %s incidents\n", y, commaInt(st.YearBreakdown[y]))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func commaInt(n int) string {
	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
