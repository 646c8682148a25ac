package expand

import (
	"reflect"
	"testing"
)

func TestCategoryKnownCategories(t *testing.T) {
	tests := []struct {
		category string
		want     []Predicate
	}{
		{
			category: "Fall Hazard",
			want: []Predicate{
				{FieldEvent, "fall"},
				{FieldSource, "ladder"},
				{FieldSource, "scaffold"},
				{FieldSource, "roof"},
			},
		},
		{
			category: "Electrical Hazard",
			want: []Predicate{
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
			category: "Struck By",
			want: []Predicate{
				{FieldEvent, "struck"},
				{FieldEvent, "hit"},
			},
		},
		{
			category: "Caught In/Between",
			want: []Predicate{
				{FieldEvent, "caught"},
				{FieldEvent, "compress"},
			},
		},
		{
			category: "Chemical Exposure",
			want: []Predicate{
				{FieldEvent, "expos"},
				{FieldSource, "chemical"},
				{FieldSource, "toxic"},
			},
		},
		{
			category: "Slip/Trip",
			want: []Predicate{
				{FieldEvent, "slip"},
				{FieldEvent, "trip"},
				{FieldEvent, "fall on same level"},
			},
		},
		{
			category: "Fire/Explosion",
			want: []Predicate{
				{FieldEvent, "fire"},
				{FieldEvent, "explosion"},
				{FieldEvent, "burn"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got := Category(tt.category)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Category(%q) = %v, want %v", tt.category, got, tt.want)
			}
		})
	}
}

func TestCategoryCaseInsensitive(t *testing.T) {
	upper := Category("FALL HAZARD")
	lower := Category("fall hazard")
	if !reflect.DeepEqual(upper, lower) {
		t.Errorf("case sensitivity: %v != %v", upper, lower)
	}
}

func TestCategoryEmpty(t *testing.T) {
	if got := Category(""); got != nil {
		t.Errorf("Category(\"\") = %v, want nil", got)
	}
	if got := Category("   "); got != nil {
		t.Errorf("Category(blank) = %v, want nil", got)
	}
}

func TestCategoryUnknownPassthrough(t *testing.T) {
	got := Category("Noise Hazard")
	want := []Predicate{{FieldEvent, "noise hazard"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Category(unknown) = %v, want %v", got, want)
	}
}

func TestCategoryDeterministic(t *testing.T) {
	first := Category("Electrical Hazard")
	for i := 0; i < 10; i++ {
		if got := Category("Electrical Hazard"); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: %v != %v", i, got, first)
		}
	}
}

func TestCategoryReturnsCopy(t *testing.T) {
	a := Category("Fall Hazard")
	a[0].Pattern = "mutated"
	b := Category("Fall Hazard")
	if b[0].Pattern != "fall" {
		t.Errorf("rule table mutated through returned slice: %v", b[0])
	}
}
