package cli

import (
	"fmt"
	"strings"

	"github.com/vestalabs/vesta/internal/model"
)

// renderEvidence formats retrieved incident narratives for the terminal.
func renderEvidence(label, category string, results []model.EvidenceResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Evidence for %q", label)
	if category != "" {
		fmt.Fprintf(&b, " (%s)", category)
	}
	b.WriteString("\n" + strings.Repeat("=", 60) + "\n")

	if len(results) == 0 {
		b.WriteString("No similar incidents found in the corpus.\n")
		return strings.TrimRight(b.String(), "\n")
	}

	for i, r := range results {
		fmt.Fprintf(&b, "\n%d. [%d | %s] %s\n", i+1, r.Year, r.Outcome, firstNonEmpty(r.WhatHappened, "(no narrative)"))
		if r.InjuryDescription != "" {
			fmt.Fprintf(&b, "   Injury: %s\n", r.InjuryDescription)
		}
		if r.NatureOfInjury != "" || r.BodyPart != "" {
			fmt.Fprintf(&b, "   Classified: %s\n", joinNonEmpty(", ", r.NatureOfInjury, r.BodyPart))
		}
		if r.ObjectInvolved != "" {
			fmt.Fprintf(&b, "   Object: %s\n", r.ObjectInvolved)
		}
		if r.Location != "" {
			fmt.Fprintf(&b, "   Location: %s\n", r.Location)
		}
		fmt.Fprintf(&b, "   Confidence: %.2f\n", r.Confidence)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderRiskReport formats a site assessment for the terminal.
func renderRiskReport(risk *model.SiteRisk) string {
	var b strings.Builder
	b.WriteString("SITE RISK ASSESSMENT\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "Overall Score: %.1f/100 (Grade %s)\n", risk.Score, risk.Grade)
	fmt.Fprintf(&b, "%s\n", risk.GradeExplanation)

	if len(risk.Top5Hazards) > 0 {
		b.WriteString("\nTop Hazards:\n")
		for i, h := range risk.Top5Hazards {
			fmt.Fprintf(&b, "  %d. %s (%s): %.1f\n", i+1, h.Label, h.Category, h.FinalScore)
			fmt.Fprintf(&b, "     %d incidents, %d fatal, avg %.1f days away, %.1f%% severe\n",
				h.FrequencyCount, h.FatalCount, h.AvgDaysAway, h.SevereRate*100)
		}
	}

	fmt.Fprintf(&b, "\nTop Concern: %s\n", risk.TopConcern)
	if risk.TopConcernStats != "" {
		fmt.Fprintf(&b, "  %s\n", risk.TopConcernStats)
	}
	fmt.Fprintf(&b, "\nRecommendation: %s", risk.Recommendation)
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func joinNonEmpty(sep string, values ...string) string {
	kept := values[:0:0]
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, sep)
}
