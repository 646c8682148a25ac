// Package score turns aggregate incident statistics into hazard and
// site risk scores. Scores are derived purely from historical incident
// data; no external severity inputs are used.
package score

import (
	"math"

	"github.com/vestalabs/vesta/internal/model"
)

// Score component caps: frequency 25, fatality 35, severity 25,
// serious-case 15. The fatality component dominates because a hazard
// that kills outranks one that merely injures often.
const (
	frequencyCap   = 25.0
	fatalityCap    = 35.0
	severityCap    = 25.0
	seriousCaseCap = 15.0

	// frequencyCeiling is the incident count that earns the full
	// frequency component.
	frequencyCeiling = 500.0

	// severityCeilingDays is the average days-away (roughly a quarter
	// year) that earns the full severity component.
	severityCeilingDays = 90.0

	// severeDAFWThreshold marks an incident as a serious case.
	severeDAFWThreshold = 30
)

// ComputeHazardScore computes a 0-100 hazard score and its four-part
// breakdown from aggregate counts. Zero frequency short-circuits to an
// all-zero result.
func ComputeHazardScore(frequency, fatalCount int, avgDaysAway float64, severeCount int) (float64, model.ScoreComponents) {
	if frequency == 0 {
		return 0, model.ScoreComponents{}
	}

	frequencyScore := math.Min(float64(frequency)/frequencyCeiling, 1.0) * frequencyCap
	fatalityScore := float64(fatalCount) / float64(frequency) * fatalityCap
	severityScore := math.Min(avgDaysAway/severityCeilingDays, 1.0) * severityCap
	seriousCaseScore := float64(severeCount) / float64(frequency) * seriousCaseCap

	raw := frequencyScore + fatalityScore + severityScore + seriousCaseScore
	final := round1(clip(raw, 0, 100))

	return final, model.ScoreComponents{
		FrequencyScore:   round1(frequencyScore),
		FatalityScore:    round1(fatalityScore),
		SeverityScore:    round1(severityScore),
		SeriousCaseScore: round1(seriousCaseScore),
	}
}

func clip(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(x, hi))
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
