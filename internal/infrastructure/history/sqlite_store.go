package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/plz-go/internal/domain"
	"github.com/doeshing/plz-go/internal/pkg/filesystem"
	"github.com/doeshing/plz-go/internal/ports"
)

// timestampLayout keeps a fixed width so timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore persists the run journal in a SQLite database. The database is
// opened on first use; if it cannot be opened the store falls back to a
// JSONL file next to it.
type SQLiteStore struct {
	path string

	once     sync.Once
	db       *sql.DB
	fallback *FileStore
	mu       sync.Mutex
}

// NewSQLiteStore creates a store at path (~/.plz/history.db when empty).
func NewSQLiteStore(path string) *SQLiteStore {
	if path == "" {
		path = filepath.Join(filesystem.AppDir(), "history.db")
	}
	return &SQLiteStore{path: filesystem.ExpandPath(path)}
}

func (s *SQLiteStore) open() {
	s.once.Do(func() {
		s.fallback = NewFileStore(strings.TrimSuffix(s.path, filepath.Ext(s.path)) + ".jsonl")
		if err := os.MkdirAll(filepath.Dir(s.path), domain.DirectoryPermissions); err != nil {
			return
		}
		db, err := sql.Open("sqlite", s.path)
		if err != nil {
			return
		}
		if err := initSchema(db); err != nil {
			_ = db.Close()
			return
		}
		s.db = db
	})
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		timestamp TEXT,
		description TEXT,
		command TEXT,
		model TEXT,
		success INTEGER,
		exit_code INTEGER,
		duration_ms INTEGER
	);`)
	return err
}

// Save inserts a new record.
func (s *SQLiteStore) Save(record domain.JournalRecord) error {
	s.open()
	if s.db == nil {
		return s.fallback.Save(record)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO runs
		(id, timestamp, description, command, model, success, exit_code, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Timestamp.UTC().Format(timestampLayout),
		record.Description,
		record.Command,
		record.Model,
		boolToInt(record.Success),
		record.ExitCode,
		record.DurationMS,
	)
	return err
}

// Records returns journal entries, newest first (limit/search optional).
func (s *SQLiteStore) Records(limit int, search string) ([]domain.JournalRecord, error) {
	s.open()
	if s.db == nil {
		return s.fallback.Records(limit, search)
	}
	// Search is applied in Go so both stores match the same way; see matchesSearch.
	query := "SELECT id, timestamp, description, command, model, success, exit_code, duration_ms FROM runs ORDER BY timestamp DESC"
	var args []interface{}
	if search == "" && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.JournalRecord
	for rows.Next() {
		var rec domain.JournalRecord
		var ts string
		var success int
		if err := rows.Scan(&rec.ID, &ts, &rec.Description, &rec.Command, &rec.Model, &success, &rec.ExitCode, &rec.DurationMS); err != nil {
			return nil, err
		}
		if !matchesSearch(rec, search) {
			continue
		}
		if t, err := time.Parse(timestampLayout, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Success = success == 1
		records = append(records, rec)
		if limit > 0 && len(records) == limit {
			break
		}
	}
	return records, rows.Err()
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.JournalRepository = (*SQLiteStore)(nil)
