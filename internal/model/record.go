// Package model defines the core memory data types.
package model

import "time"

// Kind classifies what a memory record is about.
type Kind string

const (
	KindFact       Kind = "fact"
	KindEvent      Kind = "event"
	KindPreference Kind = "preference"
	KindEmotion    Kind = "emotion"
	KindProject    Kind = "project"
	KindKnowledge  Kind = "knowledge"
)

// ValidKinds are the allowed memory kinds.
var ValidKinds = map[Kind]bool{
	KindFact:       true,
	KindEvent:      true,
	KindPreference: true,
	KindEmotion:    true,
	KindProject:    true,
	KindKnowledge:  true,
}

// Emotion is an optional affect label attached to a record. Empty means absent.
type Emotion string

const (
	EmotionPositive Emotion = "positive"
	EmotionNegative Emotion = "negative"
	EmotionNeutral  Emotion = "neutral"
	EmotionExcited  Emotion = "excited"
	EmotionCurious  Emotion = "curious"
)

// MemoryRecord is a single remembered fact, event or preference.
// Every query and mutation on records is scoped by (PersonaID, UserID).
type MemoryRecord struct {
	ID         string  `json:"id"`
	PersonaID  string  `json:"persona_id"`
	UserID     string  `json:"user_id"`
	ChatID     string  `json:"chat_id,omitempty"`
	Role       string  `json:"role"`
	Text       string  `json:"text"`
	Kind       Kind    `json:"kind"`
	Emotion    Emotion `json:"emotion,omitempty"`
	Importance float64 `json:"importance"`

	CreatedAt    time.Time  `json:"created_at"`
	LastAccessed *time.Time `json:"last_accessed,omitempty"`
}

// ChatTurn is the unit of ingestion: one user/assistant exchange.
// Turns are transient and never persisted verbatim.
type ChatTurn struct {
	UserText      string `json:"user_text"`
	AssistantText string `json:"assistant_text"`
}

// MemoryHit is a scored retrieval result. Score is unbounded; higher is
// more relevant.
type MemoryHit struct {
	Record          MemoryRecord `json:"record"`
	Score           float64      `json:"score"`
	SourceChatTitle string       `json:"source_chat_title,omitempty"`
}

// TemporalRange is an absolute [Start, End) time window resolved from a
// natural-language phrase.
type TemporalRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// Contains reports whether t falls inside the range.
func (r TemporalRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// ContextBundle is the assembled memory context for one downstream query.
// Constructed fresh per call, never persisted.
type ContextBundle struct {
	LongTerm        []MemoryHit `json:"long_term"`
	ShortTerm       []string    `json:"short_term"`
	EstimatedTokens int         `json:"estimated_tokens"`
}
