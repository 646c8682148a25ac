// Package ingest loads OSHA ITA Case Detail CSV files into the corpus
// store. Ingestion runs once, before any retrieval or scoring traffic.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/vestalabs/vesta/internal/corpus"
	"github.com/vestalabs/vesta/internal/model"
)

// constructionNAICSPrefix keeps only construction-sector incidents.
const constructionNAICSPrefix = "23"

// batchSize bounds the rows buffered per insert transaction.
const batchSize = 5000

// FileResult reports the outcome of loading one CSV file.
type FileResult struct {
	Path     string
	Loaded   int
	Skipped  int
	Encoding string
}

// Loader streams CSV files into a corpus store.
type Loader struct {
	store *corpus.Store
}

// NewLoader creates a loader writing into the given store.
func NewLoader(store *corpus.Store) *Loader {
	return &Loader{store: store}
}

// LoadFiles loads every CSV file, rebuilds the FTS index once at the
// end, and returns the total rows inserted.
func (l *Loader) LoadFiles(ctx context.Context, paths []string) (int, []FileResult, error) {
	total := 0
	results := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		res, err := l.loadFile(ctx, path)
		if err != nil {
			return total, results, fmt.Errorf("load %s: %w", path, err)
		}
		total += res.Loaded
		results = append(results, res)
	}
	if err := l.store.RebuildFTS(); err != nil {
		return total, results, err
	}
	return total, results, nil
}

func (l *Loader) loadFile(ctx context.Context, path string) (FileResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return FileResult{}, err
	}
	text, encoding := decodeText(raw)

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return FileResult{Path: path, Encoding: encoding}, nil
	}
	if err != nil {
		return FileResult{}, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	res := FileResult{Path: path, Encoding: encoding}
	var batch []model.IncidentRecord
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := l.store.InsertBatch(ctx, batch)
		res.Loaded += n
		batch = batch[:0]
		return err
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read row: %w", err)
		}
		rec, ok := mapRow(row, cols)
		if !ok {
			res.Skipped++
			continue
		}
		batch = append(batch, rec)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return res, err
			}
		}
	}
	if err := flush(); err != nil {
		return res, err
	}
	return res, nil
}

// mapRow maps one CSV row to an incident record. Rows outside the
// construction sector or without a valid id are skipped.
func mapRow(row []string, cols map[string]int) (model.IncidentRecord, bool) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	naics := field("naics_code")
	if !strings.HasPrefix(naics, constructionNAICSPrefix) {
		return model.IncidentRecord{}, false
	}
	id, ok := parseInt(field("id"))
	if !ok {
		return model.IncidentRecord{}, false
	}

	return model.IncidentRecord{
		ID:                int64(id),
		EstablishmentName: field("establishment_name"),
		City:              field("city"),
		State:             field("state"),
		NAICSCode:         naics,
		IndustryDesc:      field("industry_description"),
		YearFiling:        parseIntZero(field("year_filing_for")),
		DateOfIncident:    field("date_of_incident"),
		Outcome:           parseIntZero(field("incident_outcome")),
		DaysAway:          parseIntZero(field("dafw_num_away")),
		DaysTransfer:      parseIntZero(field("djtr_num_tr")),
		TypeOfIncident:    parseIntZero(field("type_of_incident")),
		JobDescription:    field("job_description"),
		WhatHappened:      field("NEW_NAR_WHAT_HAPPENED"),
		BeforeIncident:    field("NEW_NAR_BEFORE_INCIDENT"),
		Location:          field("NEW_INCIDENT_LOCATION"),
		InjuryIllness:     field("NEW_NAR_INJURY_ILLNESS"),
		ObjectSubstance:   field("NEW_NAR_OBJECT_SUBSTANCE"),
		Description:       field("NEW_INCIDENT_DESCRIPTION"),
		NatureTitle:       field("nature_title_pred"),
		PartTitle:         field("part_title_pred"),
		EventTitle:        field("event_title_pred"),
		SourceTitle:       field("source_title_pred"),
		SecSourceTitle:    field("sec_source_title_pred"),
	}, true
}

// decodeText decodes raw CSV bytes as UTF-8 when valid, otherwise as
// CP1252 (common for Windows-exported CSVs), falling back to Latin-1.
func decodeText(raw []byte) (string, string) {
	if utf8.Valid(raw) {
		return string(raw), "utf-8"
	}
	if decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw); err == nil {
		return string(decoded), "cp1252"
	}
	decoded, _ := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	return string(decoded), "latin-1"
}

// parseInt parses a blank-tolerant integer; blank or junk is not ok.
func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseIntZero parses an integer, treating blank or junk as 0.
func parseIntZero(s string) int {
	n, _ := parseInt(s)
	return n
}
