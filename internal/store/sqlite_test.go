package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/kavro/mnemo/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertRecord(t *testing.T, s *SQLiteStore, personaID, userID, text string, kind model.Kind, createdAt time.Time, vec *VectorEntry) model.MemoryRecord {
	t.Helper()
	rec := model.MemoryRecord{
		ID:         s.NewID(),
		PersonaID:  personaID,
		UserID:     userID,
		Role:       "user",
		Text:       text,
		Kind:       kind,
		Importance: 0.5,
		CreatedAt:  createdAt,
	}
	if vec != nil {
		vec.MemoryID = rec.ID
	}
	if err := s.Insert(context.Background(), rec, vec); err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestInsert_WritesAllThreeRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	vec := &VectorEntry{Dim: 4, Q8: []byte{1, 2, 3, 4}, Scale: 0.5}
	insertRecord(t, s, "p1", "u1", "i live in oslo", model.KindFact, time.Now(), vec)

	counts, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts.Records != 1 || counts.Lexical != 1 || counts.Vectors != 1 {
		t.Fatalf("counts = %+v, want 1/1/1", counts)
	}
}

func TestInsert_VectorOptional(t *testing.T) {
	s := newTestStore(t)

	insertRecord(t, s, "p1", "u1", "no embedding available", model.KindFact, time.Now(), nil)

	counts, _ := s.Count(context.Background())
	if counts.Records != 1 || counts.Lexical != 1 || counts.Vectors != 0 {
		t.Fatalf("counts = %+v, want 1/1/0", counts)
	}
}

func TestGet_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2025, 3, 14, 12, 30, 0, 0, time.UTC)
	rec := model.MemoryRecord{
		ID:         s.NewID(),
		PersonaID:  "p1",
		UserID:     "u1",
		ChatID:     "chat-9",
		Role:       "assistant",
		Text:       "we discussed the trip",
		Kind:       model.KindEvent,
		Emotion:    model.EmotionPositive,
		Importance: 0.7,
		CreatedAt:  created,
	}
	if err := s.Insert(ctx, rec, nil); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ChatID != "chat-9" || got.Emotion != model.EmotionPositive || got.Kind != model.KindEvent {
		t.Errorf("got %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, created)
	}
	if got.LastAccessed != nil {
		t.Errorf("last_accessed = %v, want nil", got.LastAccessed)
	}

	if _, err := s.Get(ctx, "missing"); err != ErrNotFound {
		t.Errorf("missing id: err = %v, want ErrNotFound", err)
	}
}

func TestSearchLexical_ScopeIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertRecord(t, s, "p1", "u1", "i love hiking in the mountains", model.KindPreference, time.Now(), nil)
	insertRecord(t, s, "p1", "u2", "i love hiking in the forest", model.KindPreference, time.Now(), nil)
	insertRecord(t, s, "p2", "u1", "hiking boots need replacement", model.KindFact, time.Now(), nil)

	hits, err := s.SearchLexical(ctx, Scope{PersonaID: "p1", UserID: "u1"}, "hiking", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Record.UserID != "u1" || hits[0].Record.PersonaID != "p1" {
		t.Errorf("leaked record from scope %s/%s", hits[0].Record.PersonaID, hits[0].Record.UserID)
	}

	// A different user in the same persona sees none of u1's records.
	hits, _ = s.SearchLexical(ctx, Scope{PersonaID: "p1", UserID: "u3"}, "hiking", 10)
	if len(hits) != 0 {
		t.Fatalf("expected 0 hits for unknown user, got %d", len(hits))
	}
}

func TestSearchLexical_OperatorsDoNotBreakQuery(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertRecord(t, s, "p1", "u1", "quotes and dashes are fine", model.KindFact, time.Now(), nil)

	for _, q := range []string{`"quotes`, `dashes-are`, `NOT (fine)`, `*`, `"`} {
		if _, err := s.SearchLexical(ctx, Scope{PersonaID: "p1", UserID: "u1"}, q, 10); err != nil {
			t.Errorf("query %q returned error: %v", q, err)
		}
	}
}

func TestVectors_ScopedAndComplete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertRecord(t, s, "p1", "u1", "a", model.KindFact, time.Now(), &VectorEntry{Dim: 4, Q8: []byte{1, 0, 0, 0}, Scale: 1})
	insertRecord(t, s, "p1", "u1", "b", model.KindFact, time.Now(), &VectorEntry{Dim: 8, Q8: make([]byte, 8), Scale: 1})
	insertRecord(t, s, "p1", "u2", "c", model.KindFact, time.Now(), &VectorEntry{Dim: 4, Q8: []byte{0, 1, 0, 0}, Scale: 1})

	entries, err := s.Vectors(ctx, Scope{PersonaID: "p1", UserID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestByTimeRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	scope := Scope{PersonaID: "p1", UserID: "u1"}

	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	insertRecord(t, s, "p1", "u1", "inside early", model.KindEvent, day.Add(2*time.Hour), nil)
	insertRecord(t, s, "p1", "u1", "inside late", model.KindEvent, day.Add(20*time.Hour), nil)
	insertRecord(t, s, "p1", "u1", "before", model.KindEvent, day.Add(-time.Hour), nil)
	insertRecord(t, s, "p1", "u1", "at end boundary", model.KindEvent, day.AddDate(0, 0, 1), nil)
	insertRecord(t, s, "p1", "u2", "other user inside", model.KindEvent, day.Add(3*time.Hour), nil)

	records, err := s.ByTimeRange(ctx, scope, day, day.AddDate(0, 0, 1), 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Newest first.
	if records[0].Text != "inside late" || records[1].Text != "inside early" {
		t.Errorf("order: %q then %q", records[0].Text, records[1].Text)
	}
}

func TestTouchAccessed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := insertRecord(t, s, "p1", "u1", "touch me", model.KindFact, time.Now(), nil)

	at := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	if err := s.TouchAccessed(ctx, []string{rec.ID}, at); err != nil {
		t.Fatal(err)
	}

	got, _ := s.Get(ctx, rec.ID)
	if got.LastAccessed == nil || !got.LastAccessed.Equal(at) {
		t.Errorf("last_accessed = %v, want %v", got.LastAccessed, at)
	}
}

func TestCleanup_DeleteForOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertRecord(t, s, "p1", "u1", "mine", model.KindFact, time.Now(), &VectorEntry{Dim: 2, Q8: []byte{1, 1}, Scale: 1})
	insertRecord(t, s, "p2", "u1", "also mine", model.KindFact, time.Now(), nil)
	insertRecord(t, s, "p1", "u2", "theirs", model.KindFact, time.Now(), nil)

	n, err := s.DeleteForOwner(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("deleted %d, want 2", n)
	}

	counts, _ := s.Count(ctx)
	if counts.Records != 1 || counts.Lexical != 1 || counts.Vectors != 0 {
		t.Fatalf("counts after delete = %+v", counts)
	}
}

func TestCleanup_DeleteNotForOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertRecord(t, s, "p1", "u1", "keep", model.KindFact, time.Now(), nil)
	insertRecord(t, s, "p1", "u2", "purge", model.KindFact, time.Now(), nil)
	insertRecord(t, s, "p2", "u3", "purge too", model.KindFact, time.Now(), nil)

	n, err := s.DeleteNotForOwner(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("deleted %d, want 2", n)
	}

	records, _ := s.ExportAll(ctx, nil)
	if len(records) != 1 || records[0].UserID != "u1" {
		t.Fatalf("survivors: %+v", records)
	}
}

func TestCleanup_DeletePreferencesForOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertRecord(t, s, "p1", "u1", "i love jazz", model.KindPreference, time.Now(), nil)
	insertRecord(t, s, "p1", "u1", "my name is kay", model.KindFact, time.Now(), nil)
	insertRecord(t, s, "p1", "u2", "i love rock", model.KindPreference, time.Now(), nil)

	n, err := s.DeletePreferencesForOwner(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("deleted %d, want 1", n)
	}
}

func TestFlags_DefaultEnabled(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	flags := NewSettingsFlags(s)

	if !flags.MemoryEnabled(ctx, "p1") {
		t.Error("expected default enabled")
	}

	if err := flags.SetMemoryEnabled(ctx, "p1", false); err != nil {
		t.Fatal(err)
	}
	if flags.MemoryEnabled(ctx, "p1") {
		t.Error("expected disabled after set")
	}
	if !flags.MemoryEnabled(ctx, "p2") {
		t.Error("other persona must stay enabled")
	}

	if err := flags.SetMemoryEnabled(ctx, "p1", true); err != nil {
		t.Fatal(err)
	}
	if !flags.MemoryEnabled(ctx, "p1") {
		t.Error("expected re-enabled")
	}
}

func TestExportImport(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := NewSQLiteStore(filepath.Join(dir, "src.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s1.Close()

	insertRecord(t, s1, "p1", "u1", "alpha", model.KindFact, time.Now(), nil)
	insertRecord(t, s1, "p1", "u1", "beta", model.KindFact, time.Now(), nil)

	exported, err := s1.ExportAll(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(exported) != 2 {
		t.Fatalf("exported %d, want 2", len(exported))
	}

	s2, err := NewSQLiteStore(filepath.Join(dir, "dst.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	n, err := s2.Import(ctx, exported)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("imported %d, want 2", n)
	}

	// Importing again skips duplicates.
	n, err = s2.Import(ctx, exported)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("re-import added %d, want 0", n)
	}

	counts, _ := s2.Count(ctx)
	if counts.Records != 2 || counts.Lexical != 2 {
		t.Fatalf("counts = %+v", counts)
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	insertRecord(t, s, "p1", "u1", "a", model.KindFact, time.Now(), &VectorEntry{Dim: 2, Q8: []byte{1, 1}, Scale: 1})
	insertRecord(t, s, "p1", "u1", "b", model.KindFact, time.Now(), nil)
	insertRecord(t, s, "p2", "u2", "c", model.KindFact, time.Now(), nil)

	stats, err := s.Stats(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Counts.Records != 3 {
		t.Errorf("records = %d, want 3", stats.Counts.Records)
	}
	if len(stats.Personas) != 2 {
		t.Errorf("personas = %d, want 2", len(stats.Personas))
	}
	if stats.DBSizeBytes == 0 {
		t.Error("expected non-zero db size")
	}
}
