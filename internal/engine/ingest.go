package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/kavro/mnemo/internal/classify"
	"github.com/kavro/mnemo/internal/embedding"
	"github.com/kavro/mnemo/internal/model"
	"github.com/kavro/mnemo/internal/quant"
	"github.com/kavro/mnemo/internal/snippet"
	"github.com/kavro/mnemo/internal/store"
)

// minSnippetLen filters out fragments too short to be worth remembering.
const minSnippetLen = 8

// Ingest normalizes, classifies, embeds and stores both sides of a turn.
// It is a no-op when memory is disabled for the persona or the session is
// incognito: incognito sessions never persist anything.
//
// A failed embedding does not abort ingestion: the record and its lexical
// row are still written, only the vector row is skipped. Store errors are
// hard failures.
func (e *Engine) Ingest(ctx context.Context, turn model.ChatTurn, personaID, userID, chatID string, incognito bool) ([]model.MemoryRecord, error) {
	if incognito {
		return nil, nil
	}
	if !e.flags.MemoryEnabled(ctx, personaID) {
		return nil, nil
	}

	sides := []struct {
		role string
		text string
	}{
		{"user", turn.UserText},
		{"assistant", turn.AssistantText},
	}

	base := e.now()
	var created []model.MemoryRecord

	for _, side := range sides {
		norm := classify.Normalize(side.text)
		if len(norm) < minSnippetLen {
			continue
		}

		for _, text := range snippet.Split(norm, snippet.DefaultOptions()) {
			kind, importance := e.classifier.Classify(text)

			rec := model.MemoryRecord{
				ID:         e.newID(),
				PersonaID:  personaID,
				UserID:     userID,
				ChatID:     chatID,
				Role:       side.role,
				Text:       text,
				Kind:       kind,
				Emotion:    classify.DetectEmotion(text),
				Importance: importance,
				// Successive records get distinct timestamps so
				// chronological ordering is stable within a turn.
				CreatedAt: base.Add(time.Duration(len(created)) * time.Millisecond),
			}

			vec := e.embedSnippet(ctx, rec.ID, text)
			if err := e.store.Insert(ctx, rec, vec); err != nil {
				return created, fmt.Errorf("ingest snippet: %w", err)
			}
			created = append(created, rec)
		}
	}

	e.log.Debug("ingested turn",
		"persona", personaID, "chat", chatID, "records", len(created))
	return created, nil
}

// embedSnippet returns the quantized vector entry for text, or nil when no
// embedder is configured or the backend failed. Lexical recall covers the
// record either way.
func (e *Engine) embedSnippet(ctx context.Context, memoryID, text string) *store.VectorEntry {
	if e.embedder == nil {
		return nil
	}

	vec, err := e.embedder.Embed(ctx, text)
	if err != nil {
		e.log.Warn("embedding failed, storing without vector", "error", err)
		return nil
	}
	if len(vec) == 0 || embedding.IsZero(vec) {
		return nil
	}

	q8, scale := quant.Quantize(vec)
	return &store.VectorEntry{
		MemoryID: memoryID,
		Dim:      len(vec),
		Q8:       q8,
		Scale:    scale,
	}
}
