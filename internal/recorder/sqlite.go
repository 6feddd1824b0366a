package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while the digest writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS return_snapshots (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp         INTEGER NOT NULL,
			scheme_code       INTEGER NOT NULL,
			scheme_name       TEXT,
			period            TEXT,
			start_date        TEXT,
			end_date          TEXT,
			start_nav         REAL,
			end_nav           REAL,
			simple_return     REAL,
			annualized_return REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_returns_scheme_ts ON return_snapshots(scheme_code, timestamp)`,

		`CREATE TABLE IF NOT EXISTS digest_runs (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			schemes   INTEGER,
			failures  INTEGER,
			delivered INTEGER,
			note      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_digest_ts ON digest_runs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordReturn(snap *ReturnSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := snap.RecordedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO return_snapshots
		(timestamp, scheme_code, scheme_name, period, start_date, end_date,
		 start_nav, end_nav, simple_return, annualized_return)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		ts.Unix(), snap.SchemeCode, snap.SchemeName, snap.Period,
		snap.StartDate, snap.EndDate, snap.StartNAV, snap.EndNAV,
		snap.SimpleReturn, snap.AnnualizedReturn,
	)
	return err
}

func (r *SQLiteRecorder) RecordDigest(evt *DigestEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delivered := 0
	if evt.Delivered {
		delivered = 1
	}
	_, err := r.db.Exec(`INSERT INTO digest_runs
		(timestamp, schemes, failures, delivered, note)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), evt.Schemes, evt.Failures, delivered, evt.Note,
	)
	return err
}

// RecentReturns returns the newest snapshots for a scheme, newest first.
func (r *SQLiteRecorder) RecentReturns(code int, limit int) ([]ReturnSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`SELECT timestamp, scheme_code, scheme_name, period, start_date, end_date,
		start_nav, end_nav, simple_return, annualized_return
		FROM return_snapshots WHERE scheme_code = ?
		ORDER BY timestamp DESC, id DESC LIMIT ?`, code, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReturnSnapshot
	for rows.Next() {
		var s ReturnSnapshot
		var ts int64
		if err := rows.Scan(&ts, &s.SchemeCode, &s.SchemeName, &s.Period, &s.StartDate, &s.EndDate,
			&s.StartNAV, &s.EndNAV, &s.SimpleReturn, &s.AnnualizedReturn); err != nil {
			return nil, err
		}
		s.RecordedAt = time.Unix(ts, 0)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
