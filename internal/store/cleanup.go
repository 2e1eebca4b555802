package store

import (
	"context"

	"github.com/kavro/mnemo/internal/model"
)

// DeleteForOwner removes every record owned by userID, across personas,
// together with its lexical and vector rows. Used on account sign-out.
func (s *SQLiteStore) DeleteForOwner(ctx context.Context, userID string) (int64, error) {
	return s.deleteWhere(ctx, `user_id = ?`, userID)
}

// DeleteNotForOwner removes every record NOT owned by userID. This is the
// data-isolation repair for a device that switched accounts: anything left
// behind by another user is purged.
func (s *SQLiteStore) DeleteNotForOwner(ctx context.Context, userID string) (int64, error) {
	return s.deleteWhere(ctx, `user_id != ?`, userID)
}

// DeletePreferencesForOwner removes the owner's preference records only.
func (s *SQLiteStore) DeletePreferencesForOwner(ctx context.Context, userID string) (int64, error) {
	return s.deleteWhere(ctx, `user_id = ? AND kind = '`+string(model.KindPreference)+`'`, userID)
}

// deleteWhere deletes matching records and their satellite rows in one
// transaction so no dangling index entry can survive.
func (s *SQLiteStore) deleteWhere(ctx context.Context, cond string, args ...interface{}) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM memories_fts WHERE id IN (SELECT id FROM memories WHERE `+cond+`)`, args...); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM vectors WHERE memory_id IN (SELECT id FROM memories WHERE `+cond+`)`, args...); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM memories WHERE `+cond, args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()

	return n, tx.Commit()
}
