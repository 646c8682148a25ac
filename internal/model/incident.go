package model

// Incident outcome codes as recorded in OSHA ITA case detail data.
const (
	OutcomeFatal           = 1
	OutcomeDaysAway        = 2
	OutcomeJobTransfer     = 3
	OutcomeOtherRecordable = 4
)

// IncidentRecord is one historical workplace injury/fatality record.
// Records are created once at ingestion and never mutated; the corpus
// store owns them exclusively.
type IncidentRecord struct {
	ID                int64
	EstablishmentName string
	City              string
	State             string
	NAICSCode         string
	IndustryDesc      string
	YearFiling        int
	DateOfIncident    string
	Outcome           int
	DaysAway          int // DAFW: days away from work
	DaysTransfer      int // days of job transfer/restriction
	TypeOfIncident    int
	JobDescription    string

	// Free-text narrative fields.
	WhatHappened    string
	BeforeIncident  string
	Location        string
	InjuryIllness   string
	ObjectSubstance string
	Description     string

	// Predicted OIICS classification titles.
	NatureTitle    string
	PartTitle      string
	EventTitle     string
	SourceTitle    string
	SecSourceTitle string
}

// IsFatal reports whether the record describes a fatality.
func (r IncidentRecord) IsFatal() bool {
	return r.Outcome == OutcomeFatal
}
