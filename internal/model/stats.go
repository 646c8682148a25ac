package model

// ValueCount is a (value, count) pair from a top-N aggregate query.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CategoryStats holds the precomputed aggregate statistics for one
// hazard category.
type CategoryStats struct {
	TotalCount    int            `json:"total_count"`
	FatalCount    int            `json:"fatal_count"`
	DAFWCount     int            `json:"dafw_count"`
	AvgDAFW       float64        `json:"avg_dafw"`
	MaxDAFW       int            `json:"max_dafw"`
	PctFatal      float64        `json:"pct_fatal"`
	TopSources    []ValueCount   `json:"top_sources"`
	TopBodyParts  []ValueCount   `json:"top_body_parts"`
	YearBreakdown map[string]int `json:"year_breakdown"`
}
