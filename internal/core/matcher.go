package core

import (
	"log/slog"
	"strings"
	"time"

	"health-chatbot/internal/knowledge"
	"health-chatbot/internal/textnorm"
)

// DefaultThreshold is the score an intent must exceed to be accepted.
const DefaultThreshold = 0.3

// Normalizer reduces text to the tokens that are scored.
// *textnorm.Normalizer implements it.
type Normalizer interface {
	Normalize(s string) ([]string, error)
}

// MatcherConfig configures a Matcher.  Zero values fall back to defaults.
type MatcherConfig struct {
	// Threshold is the minimum score (exclusive) for a match.  Values <= 0
	// select DefaultThreshold.
	Threshold float64
	// Normalizer is shared by patterns and input.  Nil selects
	// textnorm.New(textnorm.DefaultOptions()).
	Normalizer Normalizer
	// Picker chooses among responses.  Nil selects DefaultPicker.
	Picker Picker
	Logger *slog.Logger
}

// MatchResult is the outcome of scoring one utterance.
type MatchResult struct {
	Intent   *knowledge.Intent // copy of the winner; nil when no pattern shares a token with the input
	Index    int               // position of Intent in the knowledge base, -1 if none
	Score    float64
	Accepted bool // Score > threshold
}

// Reply is a response together with the match that produced it.
type Reply struct {
	Text     string
	Tag      string  // matched intent tag, empty on fallback
	Score    float64 // best score seen, also reported on fallback
	Fallback bool
	Empty    bool // input was blank
}

// Matcher maps free text to the best intent of a knowledge base and picks a
// reply.  Patterns are normalized once at construction; afterwards the
// Matcher is read-only and safe for concurrent use.
type Matcher struct {
	intents    []knowledge.Intent
	patterns   [][]pattern // per intent, per pattern
	normalizer Normalizer
	threshold  float64
	picker     Picker
	logger     *slog.Logger
}

type pattern struct {
	length int
	set    map[string]struct{}
}

// NewMatcher prepares a matcher over kb.  A nil kb behaves like an empty one.
func NewMatcher(kb *knowledge.KnowledgeBase, cfg MatcherConfig) *Matcher {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Normalizer == nil {
		cfg.Normalizer = textnorm.New(textnorm.DefaultOptions())
	}
	if cfg.Picker == nil {
		cfg.Picker = DefaultPicker
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	m := &Matcher{
		intents:    kb.Intents(),
		normalizer: cfg.Normalizer,
		threshold:  cfg.Threshold,
		picker:     cfg.Picker,
		logger:     cfg.Logger,
	}
	m.patterns = make([][]pattern, len(m.intents))
	for i, in := range m.intents {
		m.patterns[i] = make([]pattern, 0, len(in.Patterns))
		for _, p := range in.Patterns {
			tokens, err := m.normalizer.Normalize(p)
			if err != nil {
				m.logger.Warn("skipping pattern that failed to normalize",
					"intent", in.Tag, "pattern", p, "error", err)
				tokens = nil
			}
			m.patterns[i] = append(m.patterns[i], pattern{length: len(tokens), set: tokenSet(tokens)})
		}
	}
	return m
}

// Threshold returns the acceptance threshold in use.
func (m *Matcher) Threshold() float64 { return m.threshold }

// Len returns the number of intents the matcher scores against.
func (m *Matcher) Len() int { return len(m.intents) }

// Score returns |set(input) ∩ set(pattern)| / max(len(input), len(pattern)),
// or 0 when the two share no token.  Lengths are sequence lengths, so
// repeated tokens count toward them.
func Score(input, pattern []string) float64 {
	return score(len(input), tokenSet(input), len(pattern), tokenSet(pattern))
}

func score(inputLen int, input map[string]struct{}, patternLen int, pat map[string]struct{}) float64 {
	small, large := input, pat
	if len(small) > len(large) {
		small, large = large, small
	}
	common := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			common++
		}
	}
	if common == 0 {
		return 0
	}
	return float64(common) / float64(max(inputLen, patternLen))
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Match scores utterance against every intent.  Each intent scores the
// maximum over its patterns; the strictly highest intent wins and ties keep
// the earlier intent.  Blank input yields a zero result without error.
func (m *Matcher) Match(utterance string) (MatchResult, error) {
	result := MatchResult{Index: -1}
	if strings.TrimSpace(utterance) == "" {
		return result, nil
	}

	tokens, err := m.normalizer.Normalize(utterance)
	if err != nil {
		return result, err
	}
	if len(tokens) == 0 {
		return result, nil
	}

	input := tokenSet(tokens)
	for i, patterns := range m.patterns {
		best := 0.0
		for _, p := range patterns {
			if s := score(len(tokens), input, p.length, p.set); s > best {
				best = s
			}
		}
		if best > result.Score {
			result.Score = best
			result.Index = i
		}
	}

	if result.Index >= 0 {
		in := m.intents[result.Index].Clone()
		result.Intent = &in
		result.Accepted = result.Score > m.threshold
	}
	return result, nil
}

// Classify returns the reply text for utterance.  It never fails: internal
// errors degrade to a fallback response.
func (m *Matcher) Classify(utterance string) string {
	return m.Reply(utterance).Text
}

// Reply classifies utterance and reports how the reply was chosen.
func (m *Matcher) Reply(utterance string) (reply Reply) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("classify panicked, using fallback",
				"input", truncate(utterance, 50),
				"panic", r)
			reply = Reply{Text: choose(m.picker, FallbackResponses), Fallback: true}
		}
	}()

	if strings.TrimSpace(utterance) == "" {
		return Reply{Text: DidNotCatchMessage, Empty: true}
	}

	result, err := m.Match(utterance)
	if err != nil {
		m.logger.Warn("normalization failed, using fallback",
			"input", truncate(utterance, 50),
			"error", err)
		return Reply{Text: choose(m.picker, FallbackResponses), Fallback: true}
	}

	if !result.Accepted {
		m.logger.Debug("no intent above threshold",
			"input", truncate(utterance, 50),
			"score", result.Score,
			"threshold", m.threshold,
			"latency_ms", time.Since(start).Milliseconds())
		return Reply{Text: choose(m.picker, FallbackResponses), Score: result.Score, Fallback: true}
	}

	m.logger.Debug("intent matched",
		"input", truncate(utterance, 50),
		"intent", result.Intent.Tag,
		"score", result.Score,
		"latency_ms", time.Since(start).Milliseconds())
	return Reply{
		Text:  choose(m.picker, result.Intent.Responses),
		Tag:   result.Intent.Tag,
		Score: result.Score,
	}
}

// truncate shortens s to maxLen runes for logging.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
