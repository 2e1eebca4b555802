package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/kavro/mnemo/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// NewID mints a time-ordered record id.
func (s *SQLiteStore) NewID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memories (
		id            TEXT PRIMARY KEY,
		persona_id    TEXT NOT NULL,
		user_id       TEXT NOT NULL,
		chat_id       TEXT,
		role          TEXT NOT NULL DEFAULT 'user',
		text          TEXT NOT NULL,
		kind          TEXT NOT NULL DEFAULT 'fact',
		emotion       TEXT,
		importance    REAL NOT NULL DEFAULT 0.5,
		created_at    INTEGER NOT NULL,
		last_accessed INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_memories_scope ON memories(persona_id, user_id);
	CREATE INDEX IF NOT EXISTS idx_memories_scope_created ON memories(persona_id, user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_memories_user ON memories(user_id);

	CREATE TABLE IF NOT EXISTS vectors (
		memory_id TEXT PRIMARY KEY REFERENCES memories(id) ON DELETE CASCADE,
		dim       INTEGER NOT NULL,
		q8        BLOB NOT NULL,
		scale     REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE VIRTUAL TABLE IF NOT EXISTS memories_fts USING fts5(
		text,
		id UNINDEXED
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Insert writes the record plus its lexical row, and the vector row when
// vec is non-nil, in a single transaction.
func (s *SQLiteStore) Insert(ctx context.Context, rec model.MemoryRecord, vec *VectorEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var emotion *string
	if rec.Emotion != "" {
		e := string(rec.Emotion)
		emotion = &e
	}
	var chatID *string
	if rec.ChatID != "" {
		chatID = &rec.ChatID
	}
	var lastAccessed *int64
	if rec.LastAccessed != nil {
		ms := rec.LastAccessed.UnixMilli()
		lastAccessed = &ms
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO memories (id, persona_id, user_id, chat_id, role, text, kind, emotion, importance, created_at, last_accessed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.PersonaID, rec.UserID, chatID, rec.Role, rec.Text,
		string(rec.Kind), emotion, rec.Importance, rec.CreatedAt.UnixMilli(), lastAccessed)
	if err != nil {
		return fmt.Errorf("insert memory: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO memories_fts (text, id) VALUES (?, ?)`, rec.Text, rec.ID)
	if err != nil {
		return fmt.Errorf("insert lexical: %w", err)
	}

	if vec != nil {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO vectors (memory_id, dim, q8, scale) VALUES (?, ?, ?, ?)`,
			rec.ID, vec.Dim, vec.Q8, vec.Scale)
		if err != nil {
			return fmt.Errorf("insert vector: %w", err)
		}
	}

	return tx.Commit()
}

// Get retrieves a record by id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.MemoryRecord, error) {
	row := s.db.QueryRowContext(ctx, selectRecord+` WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Vectors returns every vector entry within scope.
func (s *SQLiteStore) Vectors(ctx context.Context, scope Scope) ([]VectorEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT v.memory_id, v.dim, v.q8, v.scale
		 FROM vectors v
		 JOIN memories m ON m.id = v.memory_id
		 WHERE m.persona_id = ? AND m.user_id = ?`,
		scope.PersonaID, scope.UserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []VectorEntry
	for rows.Next() {
		var e VectorEntry
		if err := rows.Scan(&e.MemoryID, &e.Dim, &e.Q8, &e.Scale); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ByTimeRange returns records created in [start, end) within scope, newest
// first.
func (s *SQLiteStore) ByTimeRange(ctx context.Context, scope Scope, start, end time.Time, limit int) ([]model.MemoryRecord, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := s.db.QueryContext(ctx,
		selectRecord+` WHERE persona_id = ? AND user_id = ? AND created_at >= ? AND created_at < ?
		 ORDER BY created_at DESC LIMIT ?`,
		scope.PersonaID, scope.UserID, start.UnixMilli(), end.UnixMilli(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRecords(rows)
}

// TouchAccessed sets last_accessed for the given ids.
func (s *SQLiteStore) TouchAccessed(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	ms := at.UnixMilli()
	for _, id := range ids {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE memories SET last_accessed = ? WHERE id = ?`, ms, id); err != nil {
			return err
		}
	}
	return nil
}

// Count reports row counts across the three tables.
func (s *SQLiteStore) Count(ctx context.Context) (Counts, error) {
	var c Counts
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memories`).Scan(&c.Records); err != nil {
		return c, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memories_fts`).Scan(&c.Lexical); err != nil {
		return c, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vectors`).Scan(&c.Vectors); err != nil {
		return c, err
	}
	return c, nil
}

// Close closes the store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for flags storage and tests.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

const selectRecord = `SELECT id, persona_id, user_id, chat_id, role, text, kind, emotion, importance, created_at, last_accessed FROM memories`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (model.MemoryRecord, error) {
	var rec model.MemoryRecord
	var chatID, emotion sql.NullString
	var kind string
	var createdAt int64
	var lastAccessed sql.NullInt64

	err := row.Scan(
		&rec.ID, &rec.PersonaID, &rec.UserID, &chatID, &rec.Role, &rec.Text,
		&kind, &emotion, &rec.Importance, &createdAt, &lastAccessed,
	)
	if err != nil {
		return rec, err
	}

	rec.Kind = model.Kind(kind)
	if chatID.Valid {
		rec.ChatID = chatID.String
	}
	if emotion.Valid {
		rec.Emotion = model.Emotion(emotion.String)
	}
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	if lastAccessed.Valid {
		t := time.UnixMilli(lastAccessed.Int64).UTC()
		rec.LastAccessed = &t
	}

	return rec, nil
}

func collectRecords(rows *sql.Rows) ([]model.MemoryRecord, error) {
	var records []model.MemoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
