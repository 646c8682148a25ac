// Package expand maps hazard category strings to predicate sets over the
// incident classification and narrative fields.
package expand

import "strings"

// Incident fields a predicate may match against.
const (
	FieldEvent     = "event_title_pred"
	FieldSource    = "source_title_pred"
	FieldNarrative = "nar_what_happened"
)

// Predicate is a single case-insensitive substring match clause.
// Predicates in a set are OR-combined.
type Predicate struct {
	Field   string
	Pattern string
}

// rule binds category keywords to a predicate list. Rules are evaluated
// in order; the first rule with a matching keyword wins.
type rule struct {
	keywords   []string
	predicates []Predicate
}

var rules = []rule{
	{
		keywords: []string{"fall"},
		predicates: []Predicate{
			{FieldEvent, "fall"},
			{FieldSource, "ladder"},
			{FieldSource, "scaffold"},
			{FieldSource, "roof"},
		},
	},
	{
		keywords: []string{"electric"},
		predicates: []Predicate{
			{FieldEvent, "contact with electric"},
			{FieldEvent, "contact with wiring"},
			{FieldSource, "electric"},
			{FieldSource, "wiring"},
			{FieldSource, "power line"},
			{FieldNarrative, "electrocuted"},
			{FieldNarrative, "electric shock"},
		},
	},
	{
		keywords: []string{"struck", "hit"},
		predicates: []Predicate{
			{FieldEvent, "struck"},
			{FieldEvent, "hit"},
		},
	},
	{
		keywords: []string{"caught", "compress", "between"},
		predicates: []Predicate{
			{FieldEvent, "caught"},
			{FieldEvent, "compress"},
		},
	},
	{
		keywords: []string{"chemical"},
		predicates: []Predicate{
			{FieldEvent, "expos"},
			{FieldSource, "chemical"},
			{FieldSource, "toxic"},
		},
	},
	{
		keywords: []string{"slip", "trip"},
		predicates: []Predicate{
			{FieldEvent, "slip"},
			{FieldEvent, "trip"},
			{FieldEvent, "fall on same level"},
		},
	},
	{
		keywords: []string{"fire", "explosion", "burn"},
		predicates: []Predicate{
			{FieldEvent, "fire"},
			{FieldEvent, "explosion"},
			{FieldEvent, "burn"},
		},
	},
}

// Category returns the ordered predicate set for a hazard category.
// Matching is case-insensitive on category keywords. An unmatched
// non-empty category yields a single passthrough predicate on the
// event-type field; an empty category yields an empty set.
func Category(category string) []Predicate {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		return nil
	}
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(c, kw) {
				out := make([]Predicate, len(r.predicates))
				copy(out, r.predicates)
				return out
			}
		}
	}
	return []Predicate{{FieldEvent, c}}
}
