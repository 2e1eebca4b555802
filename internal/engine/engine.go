// Package engine orchestrates the memory pipeline: ingestion of chat turns,
// hybrid recall, and context assembly. It holds no cross-call state beyond
// its wired collaborators; each public operation is a self-contained unit
// of work.
package engine

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/kavro/mnemo/internal/classify"
	"github.com/kavro/mnemo/internal/embedding"
	"github.com/kavro/mnemo/internal/store"
)

// Weights are the ranking signal multipliers. Lexical and vector signals
// dominate; recency and importance act as tie-breakers. They do not need
// to sum to 1.
type Weights struct {
	Lexical    float64 `yaml:"lexical"`
	Vector     float64 `yaml:"vector"`
	Recency    float64 `yaml:"recency"`
	Importance float64 `yaml:"importance"`
}

// DefaultWeights returns the default ranking weights.
func DefaultWeights() Weights {
	return Weights{Lexical: 1.0, Vector: 1.5, Recency: 0.5, Importance: 0.5}
}

// Config tunes the engine. Zero values fall back to defaults.
type Config struct {
	Weights Weights `yaml:"weights"`

	// KFts and KVec bound each candidate generator; K is the default
	// result count when the caller passes none.
	KFts int `yaml:"k_fts"`
	KVec int `yaml:"k_vec"`
	K    int `yaml:"k"`

	// TemporalCap bounds how many records a time-window fetch may load.
	TemporalCap int `yaml:"temporal_cap"`

	// RecencyHalfLifeDays shapes the exponential recency decay.
	RecencyHalfLifeDays float64 `yaml:"recency_half_life_days"`

	// TokenBudget and ShortTermTurns bound context assembly.
	TokenBudget    int `yaml:"token_budget"`
	ShortTermTurns int `yaml:"short_term_turns"`
}

func (c Config) withDefaults() Config {
	if c.Weights == (Weights{}) {
		c.Weights = DefaultWeights()
	}
	if c.KFts <= 0 {
		c.KFts = 20
	}
	if c.KVec <= 0 {
		c.KVec = 20
	}
	if c.K <= 0 {
		c.K = 8
	}
	if c.TemporalCap <= 0 {
		c.TemporalCap = 500
	}
	if c.RecencyHalfLifeDays <= 0 {
		c.RecencyHalfLifeDays = 30
	}
	if c.TokenBudget <= 0 {
		c.TokenBudget = 2000
	}
	if c.ShortTermTurns <= 0 {
		c.ShortTermTurns = 10
	}
	return c
}

// Engine wires the store, flags, embedder and classifier into the public
// ingest/recall/context operations. Construct once at startup.
type Engine struct {
	store      store.Store
	flags      store.Flags
	embedder   embedding.Embedder // nil disables vector recall
	classifier classify.Classifier
	history    ChatHistory // nil disables short-term context
	cfg        Config
	log        *slog.Logger

	now     func() time.Time
	entropy *rand.Rand
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the engine clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithChatHistory wires the short-term turn source.
func WithChatHistory(h ChatHistory) Option {
	return func(e *Engine) { e.history = h }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithClassifier swaps the classification heuristic.
func WithClassifier(c classify.Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// New constructs an engine. embedder may be nil: ingestion and lexical
// recall still work, vector recall is disabled.
func New(st store.Store, flags store.Flags, embedder embedding.Embedder, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		store:      st,
		flags:      flags,
		embedder:   embedder,
		classifier: classify.NewRuleClassifier(),
		cfg:        cfg.withDefaults(),
		log:        slog.Default(),
		now:        time.Now,
		entropy:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) newID() string {
	return ulid.MustNew(ulid.Timestamp(e.now()), e.entropy).String()
}
