package adapter

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	m "github.com/mouse-blink/quill/internal/model"
)

const (
	quillDirName  = ".quill"
	historyDBFile = "history.db"
)

// HistoryStore persists run summaries and the docstrings each run applied.
type HistoryStore interface {
	SaveRun(record m.RunRecord, docs []m.AppliedDocstring) error
	RecentRuns(limit int) ([]m.RunRecord, error)
	Docstrings(runID string) ([]m.AppliedDocstring, error)
	Close() error
}

type sqliteHistoryStore struct {
	db *sql.DB
}

// NewHistoryStore opens the history database under root/.quill, creating
// the directory and schema when missing.
func NewHistoryStore(root m.Path) (HistoryStore, error) {
	dbPath := filepath.Join(string(root), quillDirName, historyDBFile)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=10000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	// A single connection keeps the file lock simple.
	db.SetMaxOpenConns(1)

	store := &sqliteHistoryStore{db: db}

	if err := store.createTables(); err != nil {
		db.Close()

		return nil, fmt.Errorf("preparing history schema: %w", err)
	}

	return store, nil
}

func (s *sqliteHistoryStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER,
		root TEXT,
		language TEXT,
		style TEXT,
		written INTEGER,
		skipped INTEGER,
		failed INTEGER,
		functions INTEGER
	);

	CREATE TABLE IF NOT EXISTS documentation (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		function_name TEXT,
		file_path TEXT,
		line INTEGER,
		docstring TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_documentation_run ON documentation(run_id);
	`

	_, err := s.db.Exec(schema)

	return err
}

// SaveRun stores one run row together with the docstrings it applied.
func (s *sqliteHistoryStore) SaveRun(record m.RunRecord, docs []m.AppliedDocstring) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO runs (id, started_at, root, language, style, written, skipped, failed, functions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.StartedAt.Unix(), string(record.Root), string(record.Language),
		string(record.Style), record.Written, record.Skipped, record.Failed, record.Functions)
	if err != nil {
		tx.Rollback()

		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO documentation (run_id, function_name, file_path, line, docstring)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()

		return err
	}
	defer stmt.Close()

	for _, doc := range docs {
		if _, err := stmt.Exec(record.ID, doc.Name, string(doc.Path), doc.Line, doc.Docstring); err != nil {
			tx.Rollback()

			return err
		}
	}

	return tx.Commit()
}

// RecentRuns lists stored runs, newest first.
func (s *sqliteHistoryStore) RecentRuns(limit int) ([]m.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, started_at, root, language, style, written, skipped, failed, functions
		FROM runs
		ORDER BY started_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []m.RunRecord

	for rows.Next() {
		var (
			record                m.RunRecord
			startedAt             int64
			root, language, style string
		)

		err := rows.Scan(&record.ID, &startedAt, &root, &language, &style,
			&record.Written, &record.Skipped, &record.Failed, &record.Functions)
		if err != nil {
			continue
		}

		record.StartedAt = time.Unix(startedAt, 0)
		record.Root = m.Path(root)
		record.Language = m.Language(language)
		record.Style = m.DocstringStyle(style)

		records = append(records, record)
	}

	return records, rows.Err()
}

// Docstrings lists the docstrings one run applied, in insertion order.
func (s *sqliteHistoryStore) Docstrings(runID string) ([]m.AppliedDocstring, error) {
	rows, err := s.db.Query(`
		SELECT function_name, file_path, line, docstring
		FROM documentation
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []m.AppliedDocstring

	for rows.Next() {
		var (
			doc  m.AppliedDocstring
			path string
		)

		if err := rows.Scan(&doc.Name, &path, &doc.Line, &doc.Docstring); err != nil {
			continue
		}

		doc.Path = m.Path(path)
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// Close closes the database connection.
func (s *sqliteHistoryStore) Close() error {
	return s.db.Close()
}
