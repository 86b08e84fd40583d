package datastore

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/aleister1102/sitemapinc/internal/errorwrapper"
	"github.com/aleister1102/sitemapinc/internal/models"
)

// HistoryStore persists run history and per-URL classifications in sqlite.
type HistoryStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// RunHistoryEntry represents a record in the run_history table.
type RunHistoryEntry struct {
	ID            int64
	RunID         string
	RootURL       string
	StartTime     time.Time
	EndTime       sql.NullTime
	Status        string
	CheckedURLs   int
	NotFoundCount int
}

// NewHistoryStore opens the sqlite database at the given path and ensures
// the schema exists.
func NewHistoryStore(dbPath string, logger zerolog.Logger) (*HistoryStore, error) {
	componentLogger := logger.With().Str("component", "HistoryStore").Logger()
	componentLogger.Info().Str("db_path", dbPath).Msg("Initializing history database")

	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create history database directory "+dbDir)
	}

	dbInstance, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "sql.Open failed for "+dbPath)
	}

	store := &HistoryStore{
		db:     dbInstance,
		logger: componentLogger,
	}

	if err := store.initSchema(); err != nil {
		store.Close()
		return nil, errorwrapper.WrapError(err, "failed to initialize history schema")
	}
	return store, nil
}

// Close closes the database connection.
func (hs *HistoryStore) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

func (hs *HistoryStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS run_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT UNIQUE,
		root_url TEXT NOT NULL,
		start_time DATETIME NOT NULL,
		end_time DATETIME,
		status TEXT NOT NULL,
		checked_urls INTEGER DEFAULT 0,
		not_found_count INTEGER DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS classifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_db_id INTEGER NOT NULL,
		url TEXT NOT NULL,
		label TEXT NOT NULL,
		reason TEXT,
		final_url TEXT,
		FOREIGN KEY (run_db_id) REFERENCES run_history(id)
	);
	`
	if _, err := hs.db.Exec(query); err != nil {
		return err
	}
	hs.logger.Debug().Msg("History schema ensured")
	return nil
}

// RecordRunStart inserts a new run record with status STARTED and returns
// the row ID.
func (hs *HistoryStore) RecordRunStart(runID, rootURL string, startTime time.Time) (int64, error) {
	query := `INSERT INTO run_history (run_id, root_url, start_time, status) VALUES (?, ?, ?, ?)`
	result, err := hs.db.Exec(query, runID, rootURL, startTime, models.RunStatusStarted)
	if err != nil {
		return 0, errorwrapper.WrapError(err, "failed to insert run start record")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, errorwrapper.WrapError(err, "failed to get last insert ID")
	}
	hs.logger.Info().Int64("db_id", id).Str("run_id", runID).Msg("Recorded run start")
	return id, nil
}

// RecordClassification stores one per-URL result for a run.
func (hs *HistoryStore) RecordClassification(runDBID int64, result models.ClassificationResult) error {
	query := `INSERT INTO classifications (run_db_id, url, label, reason, final_url) VALUES (?, ?, ?, ?, ?)`
	if _, err := hs.db.Exec(query, runDBID, result.URL, result.Label, result.Reason, result.FinalURL); err != nil {
		return errorwrapper.WrapError(err, "failed to insert classification for "+result.URL)
	}
	return nil
}

// UpdateRunCompletion updates an existing run record with completion details.
func (hs *HistoryStore) UpdateRunCompletion(runDBID int64, endTime time.Time, status string, checkedURLs, notFoundCount int) error {
	query := `UPDATE run_history SET end_time = ?, status = ?, checked_urls = ?, not_found_count = ? WHERE id = ?`
	if _, err := hs.db.Exec(query, endTime, status, checkedURLs, notFoundCount, runDBID); err != nil {
		return errorwrapper.WrapError(err, "failed to update run completion")
	}
	hs.logger.Info().Int64("db_id", runDBID).Str("status", status).Msg("Recorded run completion")
	return nil
}

// GetRun fetches a run record by database ID.
func (hs *HistoryStore) GetRun(runDBID int64) (*RunHistoryEntry, error) {
	query := `SELECT id, run_id, root_url, start_time, end_time, status, checked_urls, not_found_count FROM run_history WHERE id = ?`
	row := hs.db.QueryRow(query, runDBID)

	var entry RunHistoryEntry
	err := row.Scan(&entry.ID, &entry.RunID, &entry.RootURL, &entry.StartTime, &entry.EndTime, &entry.Status, &entry.CheckedURLs, &entry.NotFoundCount)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to load run record")
	}
	return &entry, nil
}
