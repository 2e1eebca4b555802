// Package store provides the triple-indexed memory storage: a primary
// records table with satellite lexical (FTS5) and vector indexes sharing
// the record id. Satellite rows are written in the same transaction as the
// primary row, never partially.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/kavro/mnemo/internal/model"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("memory not found")

// Scope identifies the (persona, user) pair every read and write is bound
// to. Cross-scope leakage is a correctness bug.
type Scope struct {
	PersonaID string
	UserID    string
}

// VectorEntry is the quantized embedding for one record. Dim is the
// embedding dimensionality at insertion time; entries whose Dim differs
// from the query embedding are excluded from similarity search, not
// deleted.
type VectorEntry struct {
	MemoryID string
	Dim      int
	Q8       []byte
	Scale    float32
}

// LexicalHit is a full-text match. Rank is the FTS relevance (bm25, lower
// is better); hits come back already ordered by it.
type LexicalHit struct {
	Record model.MemoryRecord
	Rank   float64
}

// Counts holds per-table row counts, used by stats and by callers that
// verify write behavior.
type Counts struct {
	Records int `json:"records"`
	Lexical int `json:"lexical"`
	Vectors int `json:"vectors"`
}

// Store is the storage interface the engine depends on.
type Store interface {
	// Insert writes a record, its lexical index row, and optionally its
	// vector row in one transaction.
	Insert(ctx context.Context, rec model.MemoryRecord, vec *VectorEntry) error

	// Get retrieves a record by id.
	Get(ctx context.Context, id string) (*model.MemoryRecord, error)

	// SearchLexical returns up to k full-text matches within scope,
	// best first.
	SearchLexical(ctx context.Context, scope Scope, query string, k int) ([]LexicalHit, error)

	// Vectors streams every vector entry within scope for brute-force
	// similarity scanning.
	Vectors(ctx context.Context, scope Scope) ([]VectorEntry, error)

	// ByTimeRange returns records created in [start, end) within scope,
	// newest first, capped at limit.
	ByTimeRange(ctx context.Context, scope Scope, start, end time.Time, limit int) ([]model.MemoryRecord, error)

	// TouchAccessed bumps last_accessed for the given ids. Last writer
	// wins; lost updates under race are acceptable.
	TouchAccessed(ctx context.Context, ids []string, at time.Time) error

	// DeleteForOwner removes all records (and index rows) owned by
	// userID across personas.
	DeleteForOwner(ctx context.Context, userID string) (int64, error)

	// DeleteNotForOwner removes all records NOT owned by userID, the
	// data-isolation repair after an account switch.
	DeleteNotForOwner(ctx context.Context, userID string) (int64, error)

	// DeletePreferencesForOwner removes the owner's preference records.
	DeletePreferencesForOwner(ctx context.Context, userID string) (int64, error)

	// Count reports row counts across the three tables.
	Count(ctx context.Context) (Counts, error)

	Close() error
}
