// Package corpus provides read-mostly indexed access to the OSHA incident
// corpus stored in SQLite with FTS5 full-text search.
//
// A Store is safe for arbitrarily many concurrent readers: the corpus is
// written once at ingestion and never mutated afterward.
package corpus

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vestalabs/vesta/internal/expand"

	_ "modernc.org/sqlite"
)

var (
	// ErrUnavailable indicates the corpus database is missing or unreachable.
	ErrUnavailable = errors.New("corpus unavailable")

	// ErrBadQuery indicates the lexical engine rejected a full-text query.
	// Callers recover by degrading to substring search; this never reaches
	// the end user.
	ErrBadQuery = errors.New("malformed full-text query")
)

// Store wraps a SQLite incident database. Pass it explicitly to the
// retriever, assessor, and stats builder; there is no package-level
// connection.
type Store struct {
	db *sql.DB
}

// Open opens an existing corpus database for reading. A missing file is
// reported as ErrUnavailable.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, path)
	}
	return open(path)
}

// Create opens or creates a corpus database at path and ensures the
// schema exists. Used by ingestion and by tests (":memory:").
func Create(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create corpus dir: %w", err)
		}
	}
	s, err := open(path)
	if err != nil {
		return nil, err
	}
	if err := s.createSchema(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if path == ":memory:" {
		// Every pooled connection to :memory: would get its own empty
		// database; pin the pool to one connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the corpus is reachable.
func (s *Store) Ping() error {
	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// narrativeFields is the fixed field set covered by lexical search and
// its substring fallback.
var narrativeFields = []string{
	"nar_what_happened",
	"nar_before_incident",
	"incident_location",
	"nar_injury_illness",
	"nar_object_substance",
	"incident_description",
}

// predicateFields are the columns a category predicate may reference.
var predicateFields = map[string]bool{
	expand.FieldEvent:     true,
	expand.FieldSource:    true,
	expand.FieldNarrative: true,
}

// whereClause renders a predicate set as one OR-combined SQL condition
// with bound arguments. An empty set matches nothing.
func whereClause(preds []expand.Predicate) (string, []any, error) {
	if len(preds) == 0 {
		return "0", nil, nil
	}
	clauses := make([]string, 0, len(preds))
	args := make([]any, 0, len(preds))
	for _, p := range preds {
		if !predicateFields[p.Field] {
			return "", nil, fmt.Errorf("predicate field %q not allowed", p.Field)
		}
		clauses = append(clauses, p.Field+" LIKE ?")
		args = append(args, "%"+p.Pattern+"%")
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args, nil
}
