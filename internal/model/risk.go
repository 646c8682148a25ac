package model

// ScoreComponents is the four-part breakdown of a hazard score.
// Each component is capped: frequency 25, fatality 35, severity 25,
// serious-case 15.
type ScoreComponents struct {
	FrequencyScore   float64 `json:"frequency_score"`
	FatalityScore    float64 `json:"fatality_score"`
	SeverityScore    float64 `json:"severity_score"`
	SeriousCaseScore float64 `json:"serious_case_score"`
}

// HazardBreakdown is one scored hazard row in a site assessment.
type HazardBreakdown struct {
	HazardID       string          `json:"hazard_id"`
	Label          string          `json:"label"`
	Category       string          `json:"category"`
	FrequencyCount int             `json:"frequency_count"`
	FatalCount     int             `json:"fatal_count"`
	FatalityRate   float64         `json:"fatality_rate"`
	AvgDaysAway    float64         `json:"avg_dafw"`
	SevereRate     float64         `json:"severe_rate"`
	FinalScore     float64         `json:"final_score"`
	Components     ScoreComponents `json:"score_components"`
}

// SiteRisk is the composite site-level assessment.
type SiteRisk struct {
	Score            float64           `json:"score"`
	Grade            string            `json:"grade"`
	GradeExplanation string            `json:"grade_explanation"`
	Breakdown        []HazardBreakdown `json:"breakdown"`
	Top5Hazards      []HazardBreakdown `json:"top_5_hazards"`
	TopConcern       string            `json:"top_concern"`
	TopConcernStats  string            `json:"top_concern_stats"`
	Recommendation   string            `json:"recommendation"`
}
