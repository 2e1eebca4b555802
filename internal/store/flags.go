package store

import (
	"context"
	"database/sql"
)

// Flags is the per-persona key-value configuration the engine consults
// before ingesting or building context. Default is enabled.
type Flags interface {
	MemoryEnabled(ctx context.Context, personaID string) bool
	SetMemoryEnabled(ctx context.Context, personaID string, enabled bool) error
}

const memoryEnabledPrefix = "memory_enabled:"

// SettingsFlags stores flags in the settings table of a SQLiteStore.
type SettingsFlags struct {
	db *sql.DB
}

// NewSettingsFlags returns flags backed by the store's settings table.
func NewSettingsFlags(s *SQLiteStore) *SettingsFlags {
	return &SettingsFlags{db: s.db}
}

func (f *SettingsFlags) MemoryEnabled(ctx context.Context, personaID string) bool {
	var value string
	err := f.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, memoryEnabledPrefix+personaID).Scan(&value)
	if err != nil {
		// No row (or a read error) means the default: enabled.
		return true
	}
	return value != "false"
}

func (f *SettingsFlags) SetMemoryEnabled(ctx context.Context, personaID string, enabled bool) error {
	value := "true"
	if !enabled {
		value = "false"
	}
	_, err := f.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		memoryEnabledPrefix+personaID, value)
	return err
}
