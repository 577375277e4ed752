// Package index persists a scan of the addon roots to SQLite so repeated
// invocations can resolve modules and read dependency lists without probing
// the filesystem again. The index is a cache: it can be deleted and rebuilt
// at any time.
package index

import (
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Module is one indexed addon module.
type Module struct {
	Name        string
	Root        string // addon root the module was found under
	Dir         string // resolved module directory
	Depends     []string
	Hash        string // sha256 of the manifest file
	LastScanned time.Time
}

// Index is the SQLite-backed module index.
type Index struct {
	db *sql.DB
}

// Open opens (creating if needed) the index database at path with WAL mode
// enabled.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping index: %w", err)
	}
	ix := &Index{db: db}
	if err := ix.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return ix, nil
}

// Close closes the underlying database.
func (ix *Index) Close() error { return ix.db.Close() }

func (ix *Index) migrate() error {
	_, err := ix.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate index: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS modules (
  name          TEXT PRIMARY KEY,
  root          TEXT NOT NULL,
  dir           TEXT NOT NULL,
  depends       TEXT NOT NULL DEFAULT '[]',
  hash          TEXT,
  last_scanned  TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key   TEXT PRIMARY KEY,
  value TEXT
);
`

// Put inserts or replaces a module record.
func (ix *Index) Put(m *Module) error {
	depends, err := json.Marshal(m.Depends)
	if err != nil {
		return fmt.Errorf("encode depends: %w", err)
	}
	_, err = ix.db.Exec(
		`INSERT OR REPLACE INTO modules (name, root, dir, depends, hash, last_scanned)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.Name, m.Root, m.Dir, string(depends), m.Hash, m.LastScanned,
	)
	if err != nil {
		return fmt.Errorf("put module %s: %w", m.Name, err)
	}
	return nil
}

// Get returns the module record for name, or nil when not indexed.
func (ix *Index) Get(name string) (*Module, error) {
	row := ix.db.QueryRow(
		`SELECT name, root, dir, depends, hash, last_scanned FROM modules WHERE name = ?`, name)
	m, err := scanModule(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

// All returns every indexed module ordered by name.
func (ix *Index) All() ([]Module, error) {
	rows, err := ix.db.Query(
		`SELECT name, root, dir, depends, hash, last_scanned FROM modules ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	var out []Module
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// Clear removes every module record. Metadata is kept.
func (ix *Index) Clear() error {
	if _, err := ix.db.Exec(`DELETE FROM modules`); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	return nil
}

// Len returns the number of indexed modules.
func (ix *Index) Len() (int, error) {
	var n int
	err := ix.db.QueryRow(`SELECT COUNT(*) FROM modules`).Scan(&n)
	return n, err
}

// SetMetadata stores a key/value pair.
func (ix *Index) SetMetadata(key, value string) error {
	_, err := ix.db.Exec(
		`INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)`, key, value)
	return err
}

// GetMetadata returns the value for key, or "" when absent.
func (ix *Index) GetMetadata(key string) (string, error) {
	var value string
	err := ix.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// HashManifest returns the content hash stored for indexed modules.
func HashManifest(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanModule(row rowScanner) (*Module, error) {
	var (
		m       Module
		depends string
		scanned sql.NullTime
	)
	if err := row.Scan(&m.Name, &m.Root, &m.Dir, &depends, &m.Hash, &scanned); err != nil {
		return nil, err
	}
	if scanned.Valid {
		m.LastScanned = scanned.Time
	}
	if err := json.Unmarshal([]byte(depends), &m.Depends); err != nil {
		return nil, fmt.Errorf("decode depends for %s: %w", m.Name, err)
	}
	return &m, nil
}
