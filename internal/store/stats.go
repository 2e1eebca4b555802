package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath      string         `json:"db_path"`
	DBSizeBytes int64          `json:"db_size_bytes"`
	Counts      Counts         `json:"counts"`
	Personas    []PersonaStats `json:"personas"`
}

// PersonaStats holds per-scope record counts.
type PersonaStats struct {
	PersonaID string `json:"persona_id"`
	UserID    string `json:"user_id"`
	Records   int    `json:"records"`
	Vectors   int    `json:"vectors"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	counts, err := s.Count(ctx)
	if err != nil {
		return st, err
	}
	st.Counts = counts

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.persona_id, m.user_id, COUNT(*) AS records, COUNT(v.memory_id) AS vectors
		FROM memories m LEFT JOIN vectors v ON v.memory_id = m.id
		GROUP BY m.persona_id, m.user_id ORDER BY records DESC`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var p PersonaStats
		if err := rows.Scan(&p.PersonaID, &p.UserID, &p.Records, &p.Vectors); err != nil {
			return st, err
		}
		st.Personas = append(st.Personas, p)
	}
	return st, rows.Err()
}
