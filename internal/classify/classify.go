package classify

import (
	"regexp"
	"strings"

	"github.com/kavro/mnemo/internal/model"
)

// Classifier infers a memory kind and importance for a normalized snippet.
// The default is rule-based; implementations are swappable without touching
// the ingestion pipeline.
type Classifier interface {
	Classify(text string) (model.Kind, float64)
}

// RuleClassifier is the default keyword/pattern heuristic.
type RuleClassifier struct{}

// NewRuleClassifier returns the default heuristic classifier.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

var (
	identityRe   = regexp.MustCompile(`\b(?:my name is|i am|i'm|i live in|i work (?:at|as|for)|my (?:birthday|wife|husband|partner|son|daughter|dog|cat) is)\b`)
	preferenceRe = regexp.MustCompile(`\b(?:i (?:like|love|prefer|hate|dislike|enjoy|can't stand)|my favou?rite)\b`)
	emotionRe    = regexp.MustCompile(`\b(?:i feel|i felt|feeling|i'm (?:happy|sad|angry|excited|anxious|worried|curious|stressed))\b`)
	eventRe      = regexp.MustCompile(`\b(?:yesterday|today|tomorrow|last (?:week|month|night)|this (?:morning|afternoon|evening|weekend)|went to|we (?:met|visited|talked)|meeting|appointment|birthday party)\b`)
	projectRe    = regexp.MustCompile(`\b(?:working on|my project|building|i'm (?:writing|developing|making)|deadline|side project)\b`)
	knowledgeRe  = regexp.MustCompile(`\b(?:is a|is the|means|refers to|is defined as|consists of)\b`)
)

// Classify applies the rules in priority order. First-person identity
// statements rank as high-importance facts; unmatched text falls through
// to a medium-importance fact.
func (c *RuleClassifier) Classify(text string) (model.Kind, float64) {
	t := strings.ToLower(text)

	switch {
	case identityRe.MatchString(t):
		return model.KindFact, 0.9
	case preferenceRe.MatchString(t):
		return model.KindPreference, 0.8
	case emotionRe.MatchString(t):
		return model.KindEmotion, 0.6
	case eventRe.MatchString(t):
		return model.KindEvent, 0.7
	case projectRe.MatchString(t):
		return model.KindProject, 0.75
	case knowledgeRe.MatchString(t):
		return model.KindKnowledge, 0.5
	}
	return model.KindFact, 0.5
}

var (
	positiveRe = regexp.MustCompile(`\b(?:happy|glad|great|love|wonderful|amazing|excellent)\b`)
	negativeRe = regexp.MustCompile(`\b(?:sad|angry|upset|terrible|awful|hate|frustrated|worried|anxious|stressed)\b`)
	excitedRe  = regexp.MustCompile(`\b(?:excited|thrilled|can't wait|stoked)\b`)
	curiousRe  = regexp.MustCompile(`\b(?:curious|wonder|interested|intrigued)\b`)
)

// DetectEmotion infers an optional emotion label. Empty means no signal.
func DetectEmotion(text string) model.Emotion {
	t := strings.ToLower(text)
	switch {
	case excitedRe.MatchString(t):
		return model.EmotionExcited
	case curiousRe.MatchString(t):
		return model.EmotionCurious
	case negativeRe.MatchString(t):
		return model.EmotionNegative
	case positiveRe.MatchString(t):
		return model.EmotionPositive
	}
	return ""
}
