package library

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Entry is one line of the circulation journal.
type Entry struct {
	ID       string
	Day      int
	Kind     Operation
	PatronID string
	ItemID   string
	Amount   decimal.Decimal
	Result   Result
	Recorded time.Time
}

// Journal keeps the circulation history of a single process in an
// in-memory SQLite database. Nothing is written to disk.
type Journal struct {
	db *sql.DB

	recordStmt *sql.Stmt
}

// NewJournal opens an empty in-memory journal and applies the schema.
func NewJournal() (*Journal, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	j := &Journal{db: db}
	if err := j.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// Close releases prepared statements and closes the DB.
func (j *Journal) Close() error {
	if j.recordStmt != nil {
		j.recordStmt.Close()
	}
	return j.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return errors.Wrap(err, "create meta table")
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
		`CREATE TABLE IF NOT EXISTS entries (
            seq INTEGER PRIMARY KEY AUTOINCREMENT,
            id TEXT NOT NULL UNIQUE,
            day INTEGER NOT NULL,
            kind TEXT NOT NULL,
            patron_id TEXT NOT NULL DEFAULT '',
            item_id TEXT NOT NULL DEFAULT '',
            amount TEXT NOT NULL DEFAULT '0',
            result INTEGER NOT NULL,
            recorded_at DATETIME NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_entries_item ON entries(item_id);`,
		`CREATE INDEX IF NOT EXISTS idx_entries_patron ON entries(patron_id);`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return errors.Wrap(err, "apply migration")
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return errors.Wrap(err, "record schema version")
	}

	return tx.Commit()
}

func (j *Journal) prepareStatements() error {
	var err error
	if j.recordStmt, err = j.db.Prepare(`INSERT INTO entries(id,day,kind,patron_id,item_id,amount,result,recorded_at) VALUES(?,?,?,?,?,?,?,?)`); err != nil {
		return errors.Wrap(err, "prepare record statement")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// Record appends e, assigning an id and timestamp when missing.
func (j *Journal) Record(e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Recorded.IsZero() {
		e.Recorded = time.Now().UTC()
	}
	_, err := j.recordStmt.Exec(e.ID, e.Day, string(e.Kind), e.PatronID, e.ItemID, e.Amount.String(), int(e.Result), e.Recorded)
	if err != nil {
		return Entry{}, errors.Wrapf(err, "record %s entry", e.Kind)
	}
	return e, nil
}

// RecordAll appends entries in one transaction; either all land or none.
func (j *Journal) RecordAll(entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := j.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin journal batch")
	}
	defer tx.Rollback()

	stmt := tx.Stmt(j.recordStmt)
	now := time.Now().UTC()
	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.Recorded.IsZero() {
			e.Recorded = now
		}
		if _, err := stmt.Exec(e.ID, e.Day, string(e.Kind), e.PatronID, e.ItemID, e.Amount.String(), int(e.Result), e.Recorded); err != nil {
			return errors.Wrapf(err, "record %s entry", e.Kind)
		}
	}
	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

const entryColumns = `id,day,kind,patron_id,item_id,amount,result,recorded_at`

// All returns every entry in recording order.
func (j *Journal) All() ([]Entry, error) {
	return j.query(`SELECT ` + entryColumns + ` FROM entries ORDER BY seq`)
}

// ForItem returns the entries that touched itemID.
func (j *Journal) ForItem(itemID string) ([]Entry, error) {
	return j.query(`SELECT `+entryColumns+` FROM entries WHERE item_id=? ORDER BY seq`, itemID)
}

// ForPatron returns the entries that touched patronID.
func (j *Journal) ForPatron(patronID string) ([]Entry, error) {
	return j.query(`SELECT `+entryColumns+` FROM entries WHERE patron_id=? ORDER BY seq`, patronID)
}

// FinesPosted sums the fine entries recorded for patronID.
func (j *Journal) FinesPosted(patronID string) (decimal.Decimal, error) {
	rows, err := j.db.Query(`SELECT amount FROM entries WHERE patron_id=? AND kind=?`, patronID, string(OpFine))
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "query fines")
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, err
		}
		amt, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, errors.Wrapf(err, "parse fine amount %q", raw)
		}
		total = total.Add(amt)
	}
	return total, rows.Err()
}

func (j *Journal) query(q string, args ...any) ([]Entry, error) {
	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query journal")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e      Entry
			kind   string
			amount string
			result int
		)
		if err := rows.Scan(&e.ID, &e.Day, &kind, &e.PatronID, &e.ItemID, &amount, &result, &e.Recorded); err != nil {
			return nil, err
		}
		e.Kind = Operation(kind)
		e.Result = Result(result)
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, errors.Wrapf(err, "parse amount %q", amount)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PrettyEntry formats a journal entry for history listings.
func PrettyEntry(e Entry) string {
	amount := ""
	if !e.Amount.IsZero() {
		amount = e.Amount.StringFixed(2)
	}
	return fmt.Sprintf("%-5d %-9s %-10s %-15s %-8s %s", e.Day, e.Kind, e.PatronID, e.ItemID, amount, Describe(e.Kind, e.Result))
}
