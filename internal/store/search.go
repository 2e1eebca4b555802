package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/kavro/mnemo/internal/model"
)

// SearchLexical runs a full-text query within scope. The raw query is
// sanitized into quoted OR-joined tokens before hitting FTS5; if the FTS
// query fails (or yields no tokens) a LIKE substring scan is used instead.
func (s *SQLiteStore) SearchLexical(ctx context.Context, scope Scope, query string, k int) ([]LexicalHit, error) {
	if k <= 0 {
		k = 20
	}

	ftsQuery := sanitizeFTSQuery(query)
	if ftsQuery == "" {
		return s.searchLike(ctx, scope, query, k)
	}

	rows, err := s.db.QueryContext(ctx,
		selectRecordPrefixed+`, bm25(memories_fts) AS rank
		 FROM memories_fts
		 JOIN memories m ON m.id = memories_fts.id
		 WHERE memories_fts MATCH ? AND m.persona_id = ? AND m.user_id = ?
		 ORDER BY rank LIMIT ?`,
		ftsQuery, scope.PersonaID, scope.UserID, k)
	if err != nil {
		// Some token sequences still upset the FTS parser.
		return s.searchLike(ctx, scope, query, k)
	}
	defer rows.Close()

	var hits []LexicalHit
	for rows.Next() {
		var h LexicalHit
		rec, err := scanRecordWithRank(rows, &h.Rank)
		if err != nil {
			return nil, err
		}
		h.Record = rec
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func (s *SQLiteStore) searchLike(ctx context.Context, scope Scope, query string, k int) ([]LexicalHit, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		selectRecord+` WHERE persona_id = ? AND user_id = ? AND text LIKE ?
		 ORDER BY created_at DESC LIMIT ?`,
		scope.PersonaID, scope.UserID, "%"+q+"%", k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []LexicalHit
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		hits = append(hits, LexicalHit{Record: rec})
	}
	return hits, rows.Err()
}

const selectRecordPrefixed = `SELECT m.id, m.persona_id, m.user_id, m.chat_id, m.role, m.text, m.kind, m.emotion, m.importance, m.created_at, m.last_accessed`

func scanRecordWithRank(rows *sql.Rows, rank *float64) (model.MemoryRecord, error) {
	var rec model.MemoryRecord
	var chatID, emotion sql.NullString
	var kind string
	var createdAt int64
	var lastAccessed sql.NullInt64

	err := rows.Scan(
		&rec.ID, &rec.PersonaID, &rec.UserID, &chatID, &rec.Role, &rec.Text,
		&kind, &emotion, &rec.Importance, &createdAt, &lastAccessed, rank,
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

// sanitizeFTSQuery strips FTS5 operators and rewrites the query as quoted
// tokens joined with OR, so user text can never be parsed as syntax.
func sanitizeFTSQuery(query string) string {
	var tokens []string
	for _, f := range strings.Fields(strings.ToLower(query)) {
		var b strings.Builder
		for _, r := range f {
			if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
				b.WriteRune(r)
			}
		}
		if b.Len() >= 2 {
			tokens = append(tokens, `"`+b.String()+`"`)
		}
	}
	return strings.Join(tokens, " OR ")
}
