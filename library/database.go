package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// MemoryJournal keeps the journal for the lifetime of the process only.
const MemoryJournal = ":memory:"

const (
	dialectSQLite = "sqlite3"
	tableRecords  = "records"
	colSeq        = "seq"
	colReaderName = "reader_name"
	colBookTitle  = "book_title"
	colBorrowedAt = "borrowed_at"
	aliasIssued   = "issued"
)

// Journal mirrors the transaction log into SQLite so it can be queried by
// reader. A file-backed journal is an audit copy: it is written to but
// never used to restore a ledger.
type Journal struct {
	db *sql.DB

	appendStmt *sql.Stmt
}

// OpenJournal opens (or creates) the journal at path, applies schema
// migrations, and prepares the append statement. Use MemoryJournal for a
// throwaway journal.
func OpenJournal(path string) (*Journal, error) {
	if path == "" {
		path = MemoryJournal
	}
	if path != MemoryJournal {
		// Ensure directory exists so first-run succeeds.
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create journal dir: %w", err)
			}
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Every pooled connection to :memory: would be a separate database.
	db.SetMaxOpenConns(1)

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	j := &Journal{db: db}
	if j.appendStmt, err = db.Prepare(`INSERT INTO records(record_id,reader_name,book_title,borrowed_at) VALUES(?,?,?,?)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare append: %w", err)
	}
	return j, nil
}

// Close releases the prepared statement and closes the DB.
func (j *Journal) Close() error {
	if j.appendStmt != nil {
		j.appendStmt.Close()
	}
	return j.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS records (
            seq INTEGER PRIMARY KEY AUTOINCREMENT,
            record_id TEXT NOT NULL UNIQUE,
            reader_name TEXT NOT NULL,
            book_title TEXT NOT NULL,
            borrowed_at TEXT NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_records_reader ON records(reader_name);`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Records
// ---------------------------------------------------------------------------

// Append stores rec under a fresh record id.
func (j *Journal) Append(rec LibraryRecord) error {
	_, err := j.appendStmt.Exec(uuid.NewString(), rec.ReaderName, rec.BookTitle, rec.BorrowedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// History returns journaled issuances oldest first. An empty readerName
// returns every record.
func (j *Journal) History(readerName string) ([]LibraryRecord, error) {
	ds := goqu.Dialect(dialectSQLite).
		From(tableRecords).
		Select(colReaderName, colBookTitle, colBorrowedAt).
		Order(goqu.C(colSeq).Asc())
	if readerName != "" {
		ds = ds.Where(goqu.C(colReaderName).Eq(readerName))
	}
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build history query: %w", err)
	}

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []LibraryRecord
	for rows.Next() {
		var (
			rec LibraryRecord
			ts  string
		)
		if err := rows.Scan(&rec.ReaderName, &rec.BookTitle, &ts); err != nil {
			return nil, err
		}
		if rec.BorrowedAt, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parse borrowed_at %q: %w", ts, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ReaderTally is the number of issuances journaled for one reader.
type ReaderTally struct {
	ReaderName string `json:"reader_name"`
	Issued     int    `json:"issued"`
}

// CountByReader tallies issuances per reader, ordered by reader name.
func (j *Journal) CountByReader() ([]ReaderTally, error) {
	query, args, err := goqu.Dialect(dialectSQLite).
		From(tableRecords).
		Select(goqu.C(colReaderName), goqu.COUNT("*").As(aliasIssued)).
		GroupBy(goqu.C(colReaderName)).
		Order(goqu.C(colReaderName).Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build tally query: %w", err)
	}

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tallies []ReaderTally
	for rows.Next() {
		var t ReaderTally
		if err := rows.Scan(&t.ReaderName, &t.Issued); err != nil {
			return nil, err
		}
		tallies = append(tallies, t)
	}
	return tallies, rows.Err()
}
