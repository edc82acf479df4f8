// Package analytics provides the SQLite-backed activity log and summary.
package analytics

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/astrasemi/astrasemi/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// maxEntries bounds the stored activity feed. Counters are not bounded.
const maxEntries = 50

// weekWindow is the weekly counter rollover period.
const weekWindow = 7 * 24 * time.Hour

const schemaSQL = `
CREATE TABLE IF NOT EXISTS summary (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  total_count INTEGER NOT NULL DEFAULT 0,
  weekly_count INTEGER NOT NULL DEFAULT 0,
  previous_week_count INTEGER NOT NULL DEFAULT 0,
  avg_secs REAL NOT NULL DEFAULT 0,
  success_count INTEGER NOT NULL DEFAULT 0,
  last_reset TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS entries (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  category TEXT NOT NULL,
  title TEXT NOT NULL,
  timestamp TEXT NOT NULL,
  status TEXT NOT NULL,
  elapsed_secs REAL NOT NULL
);
`

// Store is an explicitly constructed activity store with a defined
// lifecycle: open on startup, flushed on each mutation, closed on shutdown.
type Store struct {
	db *sql.DB
}

// Open opens or creates the activity database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening activity db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// Seed the singleton summary row on first open.
	_, err = db.Exec(`INSERT OR IGNORE INTO summary (id, last_reset) VALUES (1, ?)`,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seeding summary: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one immutable activity entry and updates the counters.
// The running average update is avg' = (avg*(n-1) + sample) / n where n is
// the post-increment total. The weekly window is rolled first if it is due.
func (s *Store) Record(category model.Category, title string, elapsedSecs float64, status model.Status) (model.ActivityEntry, error) {
	if !category.IsValid() {
		return model.ActivityEntry{}, fmt.Errorf("analytics: unknown category %q", category)
	}

	now := time.Now().UTC()
	entry := model.ActivityEntry{
		ID:          uuid.NewString(),
		Category:    category,
		Title:       title,
		Timestamp:   now,
		Status:      status,
		ElapsedSecs: elapsedSecs,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return model.ActivityEntry{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := rollWeekTx(tx, now); err != nil {
		return model.ActivityEntry{}, err
	}

	success := 0
	if status == model.StatusSuccess {
		success = 1
	}

	_, err = tx.Exec(`UPDATE summary SET
		total_count = total_count + 1,
		weekly_count = weekly_count + 1,
		success_count = success_count + ?,
		avg_secs = (avg_secs * total_count + ?) / (total_count + 1)
		WHERE id = 1`,
		success, elapsedSecs)
	if err != nil {
		return model.ActivityEntry{}, fmt.Errorf("updating counters: %w", err)
	}

	_, err = tx.Exec(`INSERT INTO entries (id, category, title, timestamp, status, elapsed_secs)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, string(entry.Category), entry.Title,
		entry.Timestamp.Format(time.RFC3339Nano), string(entry.Status), entry.ElapsedSecs)
	if err != nil {
		return model.ActivityEntry{}, fmt.Errorf("inserting entry: %w", err)
	}

	// Prune the feed beyond the newest maxEntries. Counters keep growing.
	_, err = tx.Exec(`DELETE FROM entries WHERE seq NOT IN
		(SELECT seq FROM entries ORDER BY seq DESC LIMIT ?)`, maxEntries)
	if err != nil {
		return model.ActivityEntry{}, fmt.Errorf("pruning entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.ActivityEntry{}, err
	}
	return entry, nil
}

// RollWeekIfDue rolls the weekly window when more than 7 days have passed
// since the last reset: the weekly count carries into previous_week_count and
// the window restarts at now. This is an explicit mutation; Summary never
// rolls as a side effect of reading.
func (s *Store) RollWeekIfDue(now time.Time) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	rolled, err := rollWeekTxReport(tx, now.UTC())
	if err != nil {
		return false, err
	}
	return rolled, tx.Commit()
}

func rollWeekTx(tx *sql.Tx, now time.Time) error {
	_, err := rollWeekTxReport(tx, now)
	return err
}

func rollWeekTxReport(tx *sql.Tx, now time.Time) (bool, error) {
	var lastResetStr string
	if err := tx.QueryRow(`SELECT last_reset FROM summary WHERE id = 1`).Scan(&lastResetStr); err != nil {
		return false, fmt.Errorf("reading last reset: %w", err)
	}
	lastReset, err := time.Parse(time.RFC3339, lastResetStr)
	if err != nil {
		return false, fmt.Errorf("parsing last reset %q: %w", lastResetStr, err)
	}
	if now.Sub(lastReset) <= weekWindow {
		return false, nil
	}

	_, err = tx.Exec(`UPDATE summary SET
		previous_week_count = weekly_count,
		weekly_count = 0,
		last_reset = ?
		WHERE id = 1`,
		now.Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("rolling weekly window: %w", err)
	}
	return true, nil
}

// Summary returns the aggregate state with the newest entries first.
// It is a pure read.
func (s *Store) Summary() (model.AnalyticsSummary, error) {
	var sum model.AnalyticsSummary
	var successCount int
	var lastResetStr string

	err := s.db.QueryRow(`SELECT total_count, weekly_count, previous_week_count,
		avg_secs, success_count, last_reset FROM summary WHERE id = 1`).Scan(
		&sum.TotalCount, &sum.WeeklyCount, &sum.PreviousWeekCount,
		&sum.AvgProcessingSecs, &successCount, &lastResetStr)
	if err != nil {
		return sum, fmt.Errorf("reading summary: %w", err)
	}

	if sum.LastReset, err = time.Parse(time.RFC3339, lastResetStr); err != nil {
		return sum, fmt.Errorf("parsing last reset: %w", err)
	}

	sum.UptimePercent = 100.0
	if sum.TotalCount > 0 {
		sum.UptimePercent = 100.0 * float64(successCount) / float64(sum.TotalCount)
	}

	rows, err := s.db.Query(`SELECT id, category, title, timestamp, status, elapsed_secs
		FROM entries ORDER BY seq DESC LIMIT ?`, maxEntries)
	if err != nil {
		return sum, fmt.Errorf("reading entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var e model.ActivityEntry
		var cat, status, ts string
		if err := rows.Scan(&e.ID, &cat, &e.Title, &ts, &status, &e.ElapsedSecs); err != nil {
			return sum, err
		}
		e.Category = model.Category(cat)
		e.Status = model.Status(status)
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return sum, fmt.Errorf("parsing entry timestamp: %w", err)
		}
		sum.Entries = append(sum.Entries, e)
	}
	return sum, rows.Err()
}

// EntryCount returns the number of stored feed entries (bounded by the cap).
func (s *Store) EntryCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&count)
	return count, err
}

// TrendPercent is the week-over-week change as a rounded percentage.
// A zero previous week reports +100 rather than dividing by zero.
func TrendPercent(current, previous int) int {
	if previous == 0 {
		return 100
	}
	return int(math.Round(100 * float64(current-previous) / float64(previous)))
}
