// Package store implements the grammar registry: a persisted,
// dotted-name-addressable store of grammar sources and their
// compiled-parser snapshots, backed by modernc.org/sqlite, opening a
// *sql.DB, running an embedded schema, and wrapping the table in a small
// DB type with an init().
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dekarrin/pegboot/action"
	"github.com/dekarrin/pegboot/codec"
	"github.com/dekarrin/pegboot/dialect/altpeg"
	"github.com/dekarrin/pegboot/dialect/surface"
	"github.com/dekarrin/pegboot/domain"
	"github.com/dekarrin/pegboot/peg"
	_ "modernc.org/sqlite"
)

// Dialect names accepted by Put/the manifest format. These are stored
// alongside the source text so a later Get/Build knows how to reparse it.
const (
	DialectSurface = "surface"
	DialectAlt     = "alt"
)

var (
	// ErrNotFound is returned when a dotted name has no entry in the
	// registry.
	ErrNotFound = errors.New("store: grammar not found")

	// ErrUnknownDialect is returned when an entry names a dialect this
	// package does not recognize.
	ErrUnknownDialect = errors.New("store: unknown dialect")
)

// Entry is one stored grammar: its source text, the dialect that parses
// it, and when it was written.
type Entry struct {
	Name     string
	Dialect  string
	Source   string
	Modified time.Time
}

// Store is a SQLite-backed registry of grammars, keyed by dotted name: the
// portion before the last "." is an arbitrary namespace and the portion after it names one grammar within
// it, but Store itself treats the whole string as an opaque key -- the
// splitting is the caller's concern (cmd/pegserver's routing, say), not
// this package's.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS grammars (
		name TEXT NOT NULL PRIMARY KEY,
		dialect TEXT NOT NULL,
		source TEXT NOT NULL,
		snapshot BLOB NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("store: creating schema: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// parseDialect runs source through the named dialect, returning the raw
// grammar it produces. Each call bootstraps dialect/surface fresh; that
// cost is paid per call rather than cached across the process.
func parseDialect(dialectName, source string) (peg.RawGrammar, error) {
	switch dialectName {
	case DialectSurface:
		d, _, err := surface.Bootstrap()
		if err != nil {
			return peg.RawGrammar{}, fmt.Errorf("store: bootstrapping surface dialect: %w", err)
		}
		raw, err := d.Parse(source)
		if err != nil {
			return peg.RawGrammar{}, err
		}
		return *raw, nil
	case DialectAlt:
		d, err := altpeg.New()
		if err != nil {
			return peg.RawGrammar{}, fmt.Errorf("store: building alternate dialect: %w", err)
		}
		return d.Parse(domain.NewText(source))
	default:
		return peg.RawGrammar{}, fmt.Errorf("%w: %q", ErrUnknownDialect, dialectName)
	}
}

// Put parses source with the named dialect, snapshots the result via
// package codec, and stores (or replaces) it under name.
func (s *Store) Put(ctx context.Context, name, dialectName, source string) error {
	raw, err := parseDialect(dialectName, source)
	if err != nil {
		return fmt.Errorf("store: parsing %q: %w", name, err)
	}
	blob := codec.Encode(codec.FromRawGrammar(raw))

	now := time.Now().Unix()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO grammars (name, dialect, source, snapshot, created, modified)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			dialect = excluded.dialect,
			source = excluded.source,
			snapshot = excluded.snapshot,
			modified = excluded.modified
	`, name, dialectName, source, blob, now, now)
	if err != nil {
		return fmt.Errorf("store: writing %q: %w", name, err)
	}
	return nil
}

// Get fetches the stored source and dialect for name.
func (s *Store) Get(ctx context.Context, name string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT name, dialect, source, modified FROM grammars WHERE name = ?`, name)
	var e Entry
	var modified int64
	if err := row.Scan(&e.Name, &e.Dialect, &e.Source, &modified); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("store: reading %q: %w", name, err)
	}
	e.Modified = time.Unix(modified, 0)
	return e, nil
}

// List returns every registered name, sorted by the database's own
// ordering (name ascending, via the primary key).
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM grammars ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("store: listing: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("store: listing: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes name from the registry. It is not an error to delete a
// name that was never present.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM grammars WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("store: deleting %q: %w", name, err)
	}
	return nil
}

// Snapshot fetches the encoded codec.Snapshot stored for name, restoring
// it through codec.Decode rather than reparsing the source text -- the
// fast path Build normally takes.
func (s *Store) Snapshot(ctx context.Context, name string) (codec.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT snapshot FROM grammars WHERE name = ?`, name)
	var blob []byte
	if err := row.Scan(&blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return codec.Snapshot{}, ErrNotFound
		}
		return codec.Snapshot{}, fmt.Errorf("store: reading snapshot %q: %w", name, err)
	}
	snap, err := codec.Decode(blob)
	if err != nil {
		return codec.Snapshot{}, fmt.Errorf("store: decoding snapshot %q: %w", name, err)
	}
	return snap, nil
}

// Build restores name's snapshot and binds it against binder, returning a
// ready-to-use Parser. Callers that need an untrusted namespace (an HTTP
// request against an arbitrary stored grammar, say) should bind with
// RawCaptureNamespace instead of a namespace carrying real side effects.
func (s *Store) Build(ctx context.Context, name string, binder *action.Binder) (*peg.Parser[domain.Text], error) {
	snap, err := s.Snapshot(ctx, name)
	if err != nil {
		return nil, err
	}
	return peg.NewParser[domain.Text](snap.RawGrammar(), binder)
}

// DefaultPath joins dir with the registry's conventional filename.
func DefaultPath(dir string) string {
	return filepath.Join(dir, "grammars.db")
}
