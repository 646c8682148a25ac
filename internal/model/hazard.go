package model

// Hazard is a categorized risk condition supplied by the caller,
// e.g. {Label: "Floor Hole", Category: "Fall Hazard"}.
type Hazard struct {
	Label    string `json:"label" yaml:"label"`
	Category string `json:"category" yaml:"category"`
}

// Registry maps hazard ids to hazard descriptors for a site assessment.
type Registry map[string]Hazard

// EvidenceResult is one retrieved incident narrative supporting a hazard.
// Confidence is reporting-only and never affects result ordering.
type EvidenceResult struct {
	WhatHappened      string  `json:"what_happened"`
	InjuryDescription string  `json:"injury_description"`
	ObjectInvolved    string  `json:"object_involved"`
	Location          string  `json:"location"`
	Outcome           string  `json:"outcome"`
	DAFWDays          int     `json:"dafw_days"`
	EventType         string  `json:"event_type"`
	Source            string  `json:"source"`
	NatureOfInjury    string  `json:"nature_of_injury"`
	BodyPart          string  `json:"body_part"`
	Year              int     `json:"year"`
	IsFatal           bool    `json:"is_fatal"`
	Confidence        float64 `json:"confidence"` // always in [0,1]
}
