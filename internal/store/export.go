package store

import (
	"context"

	"github.com/kavro/mnemo/internal/model"
)

// ExportAll returns all records, optionally limited to one scope.
// Vector rows are not exported: they are tied to the embedder configuration
// that produced them and are rebuilt on re-ingestion.
func (s *SQLiteStore) ExportAll(ctx context.Context, scope *Scope) ([]model.MemoryRecord, error) {
	query := selectRecord
	var args []interface{}
	if scope != nil {
		query += ` WHERE persona_id = ? AND user_id = ?`
		args = append(args, scope.PersonaID, scope.UserID)
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRecords(rows)
}

// Import inserts exported records, skipping ids that already exist.
// Returns the number imported.
func (s *SQLiteStore) Import(ctx context.Context, records []model.MemoryRecord) (int, error) {
	imported := 0
	for _, rec := range records {
		if _, err := s.Get(ctx, rec.ID); err == nil {
			continue
		}
		if err := s.Insert(ctx, rec, nil); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
