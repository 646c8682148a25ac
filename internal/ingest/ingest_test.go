package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vestalabs/vesta/internal/corpus"
)

const testHeader = "id,naics_code,year_filing_for,incident_outcome,dafw_num_away," +
	"NEW_NAR_WHAT_HAPPENED,event_title_pred,source_title_pred\n"

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestStore(t *testing.T) *corpus.Store {
	t.Helper()
	s, err := corpus.Create(":memory:")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadFilesFiltersToConstruction(t *testing.T) {
	csv := testHeader +
		"1,236118,2023,1,0,Worker fell from a ladder,Fall to lower level,Ladders\n" +
		"2,445110,2023,2,14,Grocery clerk strained back,Overexertion,Boxes\n" +
		"3,238210,2024,2,45,Electrician shocked by panel,Contact with electric current,Electrical wiring\n"
	path := writeCSV(t, "ita.csv", csv)

	store := newTestStore(t)
	total, files, err := NewLoader(store).LoadFiles(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if len(files) != 1 || files[0].Loaded != 2 || files[0].Skipped != 1 {
		t.Errorf("file result = %+v", files[0])
	}

	// The retail row must not be queryable.
	ids, err := store.SearchClassification(context.Background(), "Overexertion", 10)
	if err != nil {
		t.Fatalf("SearchClassification: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("non-construction row was ingested: %v", ids)
	}
}

func TestLoadFilesBuildsSearchIndex(t *testing.T) {
	csv := testHeader +
		"1,236118,2023,1,0,Worker fell through a floor hole,Fall to lower level,Floors\n"
	path := writeCSV(t, "ita.csv", csv)

	store := newTestStore(t)
	if _, _, err := NewLoader(store).LoadFiles(context.Background(), []string{path}); err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}

	ids, err := store.SearchNarratives(context.Background(), "floor*", 10)
	if err != nil {
		t.Fatalf("SearchNarratives: %v", err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("ids = %v, want [1]", ids)
	}
}

func TestLoadFilesSkipsRowsWithoutID(t *testing.T) {
	csv := testHeader +
		",236118,2023,1,0,No id here,Fall to lower level,Ladders\n" +
		"junk,236118,2023,1,0,Bad id here,Fall to lower level,Ladders\n" +
		"7,236118,2023,1,0,Good row,Fall to lower level,Ladders\n"
	path := writeCSV(t, "ita.csv", csv)

	store := newTestStore(t)
	total, files, err := NewLoader(store).LoadFiles(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if total != 1 || files[0].Skipped != 2 {
		t.Errorf("loaded %d, skipped %d, want 1/2", total, files[0].Skipped)
	}
}

func TestLoadFilesEmptyFile(t *testing.T) {
	path := writeCSV(t, "empty.csv", "")
	store := newTestStore(t)
	total, _, err := NewLoader(store).LoadFiles(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
}

func TestDecodeText(t *testing.T) {
	if text, enc := decodeText([]byte("plain ascii")); enc != "utf-8" || text != "plain ascii" {
		t.Errorf("ascii: %q %q", text, enc)
	}

	// 0xE9 is not valid UTF-8 on its own; CP1252 maps it to e-acute.
	text, enc := decodeText([]byte{'c', 'r', 'u', 's', 'h', 0xE9})
	if enc != "cp1252" {
		t.Errorf("encoding = %q, want cp1252", enc)
	}
	if text != "crushé" {
		t.Errorf("text = %q", text)
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in string
		n  int
		ok bool
	}{
		{"42", 42, true},
		{"0", 0, true},
		{"-3", -3, true},
		{"", 0, false},
		{"junk", 0, false},
		{"3.5", 0, false},
	}
	for _, tt := range tests {
		n, ok := parseInt(tt.in)
		if n != tt.n || ok != tt.ok {
			t.Errorf("parseInt(%q) = %d, %v, want %d, %v", tt.in, n, ok, tt.n, tt.ok)
		}
	}
}
