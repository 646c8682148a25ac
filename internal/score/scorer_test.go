package score

import (
	"testing"

	"github.com/vestalabs/vesta/internal/model"
)

func TestComputeHazardScoreZeroFrequency(t *testing.T) {
	final, components := ComputeHazardScore(0, 0, 0, 0)
	if final != 0 {
		t.Errorf("final = %v, want 0", final)
	}
	if components != (model.ScoreComponents{}) {
		t.Errorf("components = %+v, want all zero", components)
	}
}

func TestComputeHazardScoreComponentCaps(t *testing.T) {
	// Every incident fatal and severe, astronomic frequency and
	// days-away: each component must sit exactly at its cap.
	final, components := ComputeHazardScore(10000, 10000, 500, 10000)
	if components.FrequencyScore != 25 {
		t.Errorf("frequency = %v, want 25", components.FrequencyScore)
	}
	if components.FatalityScore != 35 {
		t.Errorf("fatality = %v, want 35", components.FatalityScore)
	}
	if components.SeverityScore != 25 {
		t.Errorf("severity = %v, want 25", components.SeverityScore)
	}
	if components.SeriousCaseScore != 15 {
		t.Errorf("serious = %v, want 15", components.SeriousCaseScore)
	}
	if final != 100 {
		t.Errorf("final = %v, want 100", final)
	}
}

func TestComputeHazardScoreLinearRegions(t *testing.T) {
	tests := []struct {
		name        string
		frequency   int
		fatal       int
		avgDaysAway float64
		severe      int
		want        float64
		components  model.ScoreComponents
	}{
		{
			name:      "frequency only, half ceiling",
			frequency: 250,
			want:      12.5,
			components: model.ScoreComponents{
				FrequencyScore: 12.5,
			},
		},
		{
			name:      "ten percent fatal",
			frequency: 500, fatal: 50,
			want: 28.5,
			components: model.ScoreComponents{
				FrequencyScore: 25,
				FatalityScore:  3.5,
			},
		},
		{
			name:      "severity half ceiling",
			frequency: 500, avgDaysAway: 45,
			want: 37.5,
			components: model.ScoreComponents{
				FrequencyScore: 25,
				SeverityScore:  12.5,
			},
		},
		{
			name:      "one fifth severe",
			frequency: 500, severe: 100,
			want: 28,
			components: model.ScoreComponents{
				FrequencyScore:   25,
				SeriousCaseScore: 3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			final, components := ComputeHazardScore(tt.frequency, tt.fatal, tt.avgDaysAway, tt.severe)
			if final != tt.want {
				t.Errorf("final = %v, want %v", final, tt.want)
			}
			if components != tt.components {
				t.Errorf("components = %+v, want %+v", components, tt.components)
			}
		})
	}
}

func TestComputeHazardScoreMonotonicInFatalities(t *testing.T) {
	prev := -1.0
	for fatal := 0; fatal <= 100; fatal += 20 {
		final, _ := ComputeHazardScore(100, fatal, 10, 5)
		if final < prev {
			t.Fatalf("score decreased at fatal=%d: %v < %v", fatal, final, prev)
		}
		prev = final
	}
}

func TestComputeHazardScoreRange(t *testing.T) {
	cases := [][4]int{
		{1, 0, 0, 0},
		{1, 1, 400, 1},
		{500, 500, 90, 500},
		{1000000, 0, 1, 0},
	}
	for _, c := range cases {
		final, _ := ComputeHazardScore(c[0], c[1], float64(c[2]), c[3])
		if final < 0 || final > 100 {
			t.Errorf("ComputeHazardScore(%v) = %v, out of [0,100]", c, final)
		}
	}
}
