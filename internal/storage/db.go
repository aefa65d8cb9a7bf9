package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"partsearch/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL UNIQUE,
  fileName TEXT NOT NULL,
  matchedRows INTEGER NOT NULL,
  unmatchedRows INTEGER NOT NULL,
  uniqueUnmatched INTEGER NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS manual_matches (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  partNumber TEXT NOT NULL,
  tariffCode TEXT NOT NULL,
  matchedFrom TEXT,
  description1 TEXT,
  description2 TEXT,
  vendorName TEXT,
  rowsUpdated INTEGER NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_manual_matches_traceId ON manual_matches(traceId);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// InsertRun records a reconciled upload. Counters are overwritten when the
// trace id is already known.
func (d *DB) InsertRun(run internal.RunRecord) error {
	_, err := d.conn.Exec(`
INSERT INTO runs (traceId, fileName, matchedRows, unmatchedRows, uniqueUnmatched)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(traceId) DO UPDATE SET
  fileName=excluded.fileName,
  matchedRows=excluded.matchedRows,
  unmatchedRows=excluded.unmatchedRows,
  uniqueUnmatched=excluded.uniqueUnmatched
`, run.TraceID, run.FileName, run.MatchedRows, run.UnmatchedRows, run.UniqueUnmatched)
	return err
}

func (d *DB) GetRun(traceID string) (*internal.RunRecord, error) {
	var run internal.RunRecord
	err := d.conn.QueryRow(`
SELECT traceId, fileName, matchedRows, unmatchedRows, uniqueUnmatched, createdAt
FROM runs WHERE traceId = ?
`, traceID).Scan(&run.TraceID, &run.FileName, &run.MatchedRows, &run.UnmatchedRows, &run.UniqueUnmatched, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns the most recent runs first.
func (d *DB) ListRuns(limit int) ([]internal.RunRecord, error) {
	rows, err := d.conn.Query(`
SELECT traceId, fileName, matchedRows, unmatchedRows, uniqueUnmatched, createdAt
FROM runs ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []internal.RunRecord{}
	for rows.Next() {
		var run internal.RunRecord
		if err := rows.Scan(&run.TraceID, &run.FileName, &run.MatchedRows, &run.UnmatchedRows, &run.UniqueUnmatched, &run.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (d *DB) InsertManualMatch(traceID string, m internal.ManualMatch) error {
	_, err := d.conn.Exec(`
INSERT INTO manual_matches (traceId, partNumber, tariffCode, matchedFrom, description1, description2, vendorName, rowsUpdated)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, traceID, m.PartNumber, m.Tariff, m.MatchedFrom, m.Description1, m.Description2, m.VendorName, m.RowsUpdated)
	return err
}

// ListManualMatches returns the matches of one run in commit order.
func (d *DB) ListManualMatches(traceID string) ([]internal.ManualMatch, error) {
	rows, err := d.conn.Query(`
SELECT partNumber, tariffCode, matchedFrom, description1, description2, vendorName, rowsUpdated
FROM manual_matches WHERE traceId = ? ORDER BY id ASC
`, traceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []internal.ManualMatch{}
	for rows.Next() {
		var m internal.ManualMatch
		if err := rows.Scan(&m.PartNumber, &m.Tariff, &m.MatchedFrom, &m.Description1, &m.Description2, &m.VendorName, &m.RowsUpdated); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
