package engine

import (
	"context"
	"fmt"

	"github.com/kavro/mnemo/internal/model"
)

// ChatHistory supplies recent conversation turns for short-term context.
// Implementations return turns oldest first.
type ChatHistory interface {
	RecentTurns(ctx context.Context, chatID string, limit int) ([]model.ChatTurn, error)
}

// ContextFor assembles the prompt context for an incoming message:
// long-term memories recalled against the message plus the tail of the
// current conversation, greedily packed into the token budget. Long-term
// lines win budget over short-term ones.
//
// When memory is disabled for the scope the bundle is empty, not an error.
func (e *Engine) ContextFor(ctx context.Context, message, personaID, userID, chatID string) (model.ContextBundle, error) {
	var bundle model.ContextBundle

	if !e.flags.MemoryEnabled(ctx, personaID) {
		return bundle, nil
	}

	hits, err := e.Recall(ctx, personaID, userID, message, e.cfg.K)
	if err != nil {
		return bundle, fmt.Errorf("long-term recall: %w", err)
	}

	budget := e.cfg.TokenBudget
	for _, h := range hits {
		cost := estimateTokens(h.Record.Text)
		if bundle.EstimatedTokens+cost > budget {
			continue
		}
		bundle.LongTerm = append(bundle.LongTerm, h)
		bundle.EstimatedTokens += cost
	}

	if e.history != nil && chatID != "" {
		turns, err := e.history.RecentTurns(ctx, chatID, e.cfg.ShortTermTurns)
		if err != nil {
			e.log.Warn("short-term history unavailable", "chat_id", chatID, "error", err)
			return bundle, nil
		}
		// Pack newest turns first so the freshest exchange survives a
		// tight budget, then restore chronological order.
		var kept []string
		for i := len(turns) - 1; i >= 0; i-- {
			for _, line := range turnLines(turns[i]) {
				cost := estimateTokens(line)
				if bundle.EstimatedTokens+cost > budget {
					continue
				}
				kept = append(kept, line)
				bundle.EstimatedTokens += cost
			}
		}
		for i := len(kept) - 1; i >= 0; i-- {
			bundle.ShortTerm = append(bundle.ShortTerm, kept[i])
		}
	}

	return bundle, nil
}

func turnLines(t model.ChatTurn) []string {
	var lines []string
	if t.AssistantText != "" {
		lines = append(lines, "Assistant: "+t.AssistantText)
	}
	if t.UserText != "" {
		lines = append(lines, "User: "+t.UserText)
	}
	return lines
}

// estimateTokens approximates the token cost of a line. Four characters
// per token tracks English prose closely enough for budget packing.
func estimateTokens(s string) int {
	n := len(s) / 4
	if n == 0 && s != "" {
		n = 1
	}
	return n
}
