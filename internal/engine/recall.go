package engine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/kavro/mnemo/internal/classify"
	"github.com/kavro/mnemo/internal/model"
	"github.com/kavro/mnemo/internal/quant"
	"github.com/kavro/mnemo/internal/store"
	"github.com/kavro/mnemo/internal/temporal"
)

// Recall retrieves the top-k records for query within the given scope.
// Queries carrying a temporal reference ("yesterday", "last week") are
// answered from that time window only; all others use hybrid
// lexical+vector ranking. Returned records get their last_accessed bumped.
//
// An empty result is a valid outcome, not an error.
func (e *Engine) Recall(ctx context.Context, personaID, userID, query string, k int) ([]model.MemoryHit, error) {
	if k <= 0 {
		k = e.cfg.K
	}
	scope := store.Scope{PersonaID: personaID, UserID: userID}
	now := e.now()

	if r := temporal.Parse(query, now); r != nil {
		return e.recallTemporal(ctx, scope, query, *r, k, now)
	}
	return e.recallSemantic(ctx, scope, query, k, now)
}

type candidate struct {
	rec     model.MemoryRecord
	lexical bool
	cosine  float64
}

func (e *Engine) recallSemantic(ctx context.Context, scope store.Scope, query string, k int, now time.Time) ([]model.MemoryHit, error) {
	norm := classify.Normalize(query)

	lexHits, err := e.store.SearchLexical(ctx, scope, norm, e.cfg.KFts)
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}

	cands := make(map[string]*candidate, len(lexHits))
	for _, h := range lexHits {
		cands[h.Record.ID] = &candidate{rec: h.Record, lexical: true}
	}

	if q8, scale, dim, ok := e.queryVector(ctx, norm); ok {
		top, err := e.vectorCandidates(ctx, scope, q8, scale, dim, e.cfg.KVec, nil)
		if err != nil {
			return nil, err
		}
		for id, cos := range top {
			if c, exists := cands[id]; exists {
				c.cosine = cos
				continue
			}
			rec, err := e.store.Get(ctx, id)
			if err != nil {
				continue
			}
			cands[id] = &candidate{rec: *rec, cosine: cos}
		}
	}

	w := e.cfg.Weights
	hits := make([]model.MemoryHit, 0, len(cands))
	for _, c := range cands {
		score := w.Vector * c.cosine
		if c.lexical {
			score += w.Lexical
		}
		score += w.Recency * e.recency(c.rec.CreatedAt, now)
		score += w.Importance * c.rec.Importance
		hits = append(hits, model.MemoryHit{Record: c.rec, Score: score})
	}

	sortHits(hits)
	if len(hits) > k {
		hits = hits[:k]
	}

	e.touch(ctx, hits, now)
	return hits, nil
}

func (e *Engine) recallTemporal(ctx context.Context, scope store.Scope, query string, r model.TemporalRange, k int, now time.Time) ([]model.MemoryHit, error) {
	records, err := e.store.ByTimeRange(ctx, scope, r.Start, r.End, e.cfg.TemporalCap)
	if err != nil {
		return nil, fmt.Errorf("time range fetch: %w", err)
	}
	// Nothing in the window is a real answer; no semantic fallback.
	if len(records) == 0 {
		return []model.MemoryHit{}, nil
	}

	inRange := make(map[string]bool, len(records))
	for _, rec := range records {
		inRange[rec.ID] = true
	}

	norm := classify.Normalize(query)
	lexical := make(map[string]bool)
	lexHits, err := e.store.SearchLexical(ctx, scope, norm, e.cfg.TemporalCap)
	if err == nil {
		for _, h := range lexHits {
			if inRange[h.Record.ID] {
				lexical[h.Record.ID] = true
			}
		}
	}

	cosines := make(map[string]float64)
	if q8, scale, dim, ok := e.queryVector(ctx, norm); ok {
		cosines, err = e.vectorCandidates(ctx, scope, q8, scale, dim, 0, inRange)
		if err != nil {
			return nil, err
		}
	}

	if len(lexical) == 0 && !anyPositive(cosines) {
		// Purely temporal query with no semantic content to rank
		// against: order chronologically, newest first.
		if len(records) > k {
			records = records[:k]
		}
		hits := make([]model.MemoryHit, len(records))
		for i, rec := range records {
			hits[i] = model.MemoryHit{Record: rec}
		}
		e.touch(ctx, hits, now)
		return hits, nil
	}

	w := e.cfg.Weights
	span := r.End.Sub(r.Start)
	hits := make([]model.MemoryHit, 0, len(records))
	for _, rec := range records {
		score := w.Vector * cosines[rec.ID]
		if lexical[rec.ID] {
			score += w.Lexical
		}
		// Within-range chronological position stands in for the
		// exponential recency decay.
		if span > 0 {
			pos := float64(rec.CreatedAt.Sub(r.Start)) / float64(span)
			score += w.Recency * pos
		}
		score += w.Importance * rec.Importance
		hits = append(hits, model.MemoryHit{Record: rec, Score: score})
	}

	sortHits(hits)
	if len(hits) > k {
		hits = hits[:k]
	}

	e.touch(ctx, hits, now)
	return hits, nil
}

// queryVector embeds and quantizes the query. ok is false when vector
// recall is unavailable (no embedder, backend failure, or zero vector).
func (e *Engine) queryVector(ctx context.Context, query string) (q8 []byte, scale float32, dim int, ok bool) {
	if e.embedder == nil || query == "" {
		return nil, 0, 0, false
	}
	vec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		e.log.Warn("query embedding failed, lexical-only recall", "error", err)
		return nil, 0, 0, false
	}
	if len(vec) == 0 {
		return nil, 0, 0, false
	}
	q8, scale = quant.Quantize(vec)
	return q8, scale, len(vec), true
}

// vectorCandidates brute-force scans the scope's vectors and returns the
// strongest cosine match per record id. Entries whose stored dimension
// differs from the query dimension are excluded, never compared. When
// limit > 0 only the top-limit ids are returned; when filter is non-nil
// only ids present in it are considered.
func (e *Engine) vectorCandidates(ctx context.Context, scope store.Scope, q8 []byte, scale float32, dim, limit int, filter map[string]bool) (map[string]float64, error) {
	entries, err := e.store.Vectors(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("vector scan: %w", err)
	}

	type scored struct {
		id  string
		cos float64
	}
	var all []scored
	for _, entry := range entries {
		if entry.Dim != dim {
			continue
		}
		if filter != nil && !filter[entry.MemoryID] {
			continue
		}
		cos := quant.Cosine(entry.Q8, entry.Scale, q8, scale)
		if cos <= 0 {
			continue
		}
		all = append(all, scored{id: entry.MemoryID, cos: cos})
	}

	sort.Slice(all, func(i, j int) bool { return all[i].cos > all[j].cos })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	out := make(map[string]float64, len(all))
	for _, s := range all {
		out[s.id] = s.cos
	}
	return out, nil
}

func (e *Engine) recency(createdAt, now time.Time) float64 {
	ageDays := now.Sub(createdAt).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return math.Exp(-ageDays / e.cfg.RecencyHalfLifeDays)
}

// touch bumps last_accessed for returned hits. Access bookkeeping is a
// side effect of recall, not of ranking; a failed bump is logged, not
// surfaced.
func (e *Engine) touch(ctx context.Context, hits []model.MemoryHit, now time.Time) {
	if len(hits) == 0 {
		return
	}
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.Record.ID
	}
	if err := e.store.TouchAccessed(ctx, ids, now); err != nil {
		e.log.Warn("last_accessed update failed", "error", err)
	}
}

func sortHits(hits []model.MemoryHit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Record.CreatedAt.After(hits[j].Record.CreatedAt)
	})
}

func anyPositive(m map[string]float64) bool {
	for _, v := range m {
		if v > 0 {
			return true
		}
	}
	return false
}
