package core

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-chatbot/internal/knowledge"
	"health-chatbot/internal/textnorm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func firstPicker() Picker { return PickerFunc(func(int) int { return 0 }) }

func mustKB(t *testing.T, intents ...knowledge.Intent) *knowledge.KnowledgeBase {
	t.Helper()
	kb, err := knowledge.New(intents)
	require.NoError(t, err)
	return kb
}

func greetingKB(t *testing.T) *knowledge.KnowledgeBase {
	return mustKB(t, knowledge.Intent{
		Tag:       "greeting",
		Patterns:  []string{"hi", "hello there"},
		Responses: []string{"Hello! How can I help?"},
	})
}

func healthKB(t *testing.T) *knowledge.KnowledgeBase {
	return mustKB(t,
		knowledge.Intent{
			Tag:       "greeting",
			Patterns:  []string{"hi", "hello there"},
			Responses: []string{"Hello! How can I help?"},
		},
		knowledge.Intent{
			Tag:       "sleep",
			Patterns:  []string{"I can't sleep", "sleep tired help"},
			Responses: []string{"Try a consistent bedtime.", "Avoid caffeine late in the day."},
		},
		knowledge.Intent{
			Tag:       "diet",
			Patterns:  []string{"what should I eat", "healthy food"},
			Responses: []string{"Eat plenty of vegetables."},
		},
	)
}

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		pattern []string
		want    float64
	}{
		{name: "partial overlap", input: []string{"sleep", "help"}, pattern: []string{"sleep", "tired", "help"}, want: 2.0 / 3.0},
		{name: "identical", input: []string{"hello"}, pattern: []string{"hello"}, want: 1},
		{name: "disjoint", input: []string{"quantum"}, pattern: []string{"hello"}, want: 0},
		{name: "empty input", input: nil, pattern: []string{"hello"}, want: 0},
		{name: "duplicates count toward length", input: []string{"sleep", "sleep"}, pattern: []string{"sleep"}, want: 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.input, tt.pattern), 1e-9)
		})
	}
}

func TestMatcher_GreetingWithStopWordRemoval(t *testing.T) {
	m := NewMatcher(greetingKB(t), MatcherConfig{Picker: firstPicker(), Logger: discardLogger()})

	res, err := m.Match("hello")
	require.NoError(t, err)
	require.NotNil(t, res.Intent)
	assert.Equal(t, "greeting", res.Intent.Tag)
	assert.Equal(t, 1.0, res.Score)
	assert.True(t, res.Accepted)

	assert.Equal(t, "Hello! How can I help?", m.Classify("hello"))
}

func TestMatcher_GreetingWithoutStopWordRemoval(t *testing.T) {
	m := NewMatcher(greetingKB(t), MatcherConfig{
		Normalizer: textnorm.New(textnorm.Options{RemoveStopWords: false}),
		Picker:     firstPicker(),
		Logger:     discardLogger(),
	})

	res, err := m.Match("hello")
	require.NoError(t, err)
	assert.Equal(t, 0.5, res.Score)
	assert.True(t, res.Accepted)
	assert.Equal(t, "Hello! How can I help?", m.Classify("hello"))
}

func TestMatcher_ThresholdIsStrict(t *testing.T) {
	kb := mustKB(t,
		knowledge.Intent{Tag: "three", Patterns: []string{"alpha bravo charlie"}, Responses: []string{"matched three"}},
	)
	m := NewMatcher(kb, MatcherConfig{Picker: firstPicker(), Logger: discardLogger()})

	input := "alpha bravo charlie delta echo foxtrot golf hotel india juliet"
	res, err := m.Match(input)
	require.NoError(t, err)
	assert.Equal(t, 0.3, res.Score)
	assert.False(t, res.Accepted)

	reply := m.Reply(input)
	assert.True(t, reply.Fallback)
	assert.True(t, IsFallback(reply.Text))

	kb = mustKB(t,
		knowledge.Intent{Tag: "four", Patterns: []string{"alpha bravo charlie delta"}, Responses: []string{"matched four"}},
	)
	m = NewMatcher(kb, MatcherConfig{Picker: firstPicker(), Logger: discardLogger()})
	assert.Equal(t, "matched four", m.Classify(input))
}

func TestMatcher_CustomThreshold(t *testing.T) {
	m := NewMatcher(greetingKB(t), MatcherConfig{
		Threshold:  0.6,
		Normalizer: textnorm.New(textnorm.Options{}),
		Picker:     firstPicker(),
		Logger:     discardLogger(),
	})
	assert.Equal(t, 0.6, m.Threshold())
	assert.True(t, IsFallback(m.Classify("hello")))
}

func TestMatcher_EmptyInput(t *testing.T) {
	m := NewMatcher(healthKB(t), MatcherConfig{Logger: discardLogger()})

	for _, in := range []string{"", "   ", "\t\n"} {
		reply := m.Reply(in)
		assert.Equal(t, DidNotCatchMessage, reply.Text, "%q", in)
		assert.True(t, reply.Empty)
		assert.False(t, reply.Fallback)
	}
}

func TestMatcher_InputWithNoTokensFallsBack(t *testing.T) {
	m := NewMatcher(healthKB(t), MatcherConfig{Logger: discardLogger()})

	reply := m.Reply("?!")
	assert.True(t, reply.Fallback)
	assert.True(t, IsFallback(reply.Text))
}

func TestMatcher_TieBreakKeepsFirstIntent(t *testing.T) {
	kb := mustKB(t,
		knowledge.Intent{Tag: "first", Patterns: []string{"sleep help"}, Responses: []string{"first"}},
		knowledge.Intent{Tag: "second", Patterns: []string{"sleep help"}, Responses: []string{"second"}},
	)
	m := NewMatcher(kb, MatcherConfig{Picker: firstPicker(), Logger: discardLogger()})

	for range 20 {
		res, err := m.Match("help me sleep")
		require.NoError(t, err)
		assert.Equal(t, "first", res.Intent.Tag)
		assert.Equal(t, 0, res.Index)
	}
}

func TestMatcher_BestPatternWins(t *testing.T) {
	m := NewMatcher(healthKB(t), MatcherConfig{Picker: firstPicker(), Logger: discardLogger()})

	reply := m.Reply("I am tired and need sleep help")
	assert.Equal(t, "sleep", reply.Tag)
	assert.False(t, reply.Fallback)
	assert.Equal(t, "Try a consistent bedtime.", reply.Text)
}

func TestMatcher_FallbackForUnknownTopic(t *testing.T) {
	m := NewMatcher(healthKB(t), MatcherConfig{Logger: discardLogger()})

	for range 10 {
		got := m.Classify("quantum flux capacitor")
		assert.NotEmpty(t, got)
		assert.True(t, IsFallback(got))
	}
}

func TestMatcher_EmptyKnowledgeBase(t *testing.T) {
	for name, kb := range map[string]*knowledge.KnowledgeBase{"empty": knowledge.Empty(), "nil": nil} {
		t.Run(name, func(t *testing.T) {
			m := NewMatcher(kb, MatcherConfig{Logger: discardLogger()})
			assert.Equal(t, 0, m.Len())
			assert.True(t, IsFallback(m.Classify("hello")))
			assert.Equal(t, DidNotCatchMessage, m.Classify(""))
		})
	}
}

func TestMatcher_PickerControlsResponse(t *testing.T) {
	last := PickerFunc(func(n int) int { return n - 1 })
	m := NewMatcher(healthKB(t), MatcherConfig{Picker: last, Logger: discardLogger()})
	assert.Equal(t, "Avoid caffeine late in the day.", m.Classify("sleep tired help"))
	assert.Equal(t, FallbackResponses[len(FallbackResponses)-1], m.Classify("quantum flux capacitor"))
}

func TestMatcher_MisbehavingPicker(t *testing.T) {
	tests := []struct {
		name   string
		picker Picker
	}{
		{name: "out of range", picker: PickerFunc(func(n int) int { return n + 5 })},
		{name: "negative", picker: PickerFunc(func(int) int { return -1 })},
		{name: "panics", picker: PickerFunc(func(int) int { panic("boom") })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatcher(healthKB(t), MatcherConfig{Picker: tt.picker, Logger: discardLogger()})
			assert.Equal(t, "Try a consistent bedtime.", m.Classify("sleep tired help"))
			assert.Equal(t, FallbackResponses[0], m.Classify("quantum flux capacitor"))
		})
	}
}

type normalizerFunc func(string) ([]string, error)

func (f normalizerFunc) Normalize(s string) ([]string, error) { return f(s) }

func TestMatcher_NormalizerFailureFallsBack(t *testing.T) {
	base := textnorm.New(textnorm.DefaultOptions())
	const trigger = "sleep tired help urgently"

	tests := []struct {
		name string
		fail func(s string) ([]string, error)
	}{
		{name: "error", fail: func(s string) ([]string, error) {
			return nil, &textnorm.NormalizeError{Input: s, Cause: "bad input"}
		}},
		{name: "panic", fail: func(string) ([]string, error) { panic("normalizer exploded") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			norm := normalizerFunc(func(s string) ([]string, error) {
				if s == trigger {
					return tt.fail(s)
				}
				return base.Normalize(s)
			})
			m := NewMatcher(healthKB(t), MatcherConfig{Normalizer: norm, Picker: firstPicker(), Logger: discardLogger()})

			var reply Reply
			require.NotPanics(t, func() { reply = m.Reply(trigger) })
			assert.True(t, reply.Fallback)
			assert.Empty(t, reply.Tag)
			assert.Equal(t, FallbackResponses[0], reply.Text)
			require.NotPanics(t, func() { assert.True(t, IsFallback(m.Classify(trigger))) })

			assert.Equal(t, "sleep", m.Reply("sleep tired help").Tag)
		})
	}
}

func TestMatcher_MatchReportsNormalizeError(t *testing.T) {
	norm := normalizerFunc(func(s string) ([]string, error) {
		if s == "broken" {
			return nil, &textnorm.NormalizeError{Input: s, Cause: "bad input"}
		}
		return textnorm.New(textnorm.DefaultOptions()).Normalize(s)
	})
	m := NewMatcher(healthKB(t), MatcherConfig{Normalizer: norm, Logger: discardLogger()})

	res, err := m.Match("broken")
	var normErr *textnorm.NormalizeError
	require.ErrorAs(t, err, &normErr)
	assert.Equal(t, "broken", normErr.Input)
	assert.Nil(t, res.Intent)
	assert.Equal(t, -1, res.Index)
}

func TestMatcher_ResultDoesNotAliasKnowledgeBase(t *testing.T) {
	kb := healthKB(t)
	m := NewMatcher(kb, MatcherConfig{Picker: firstPicker(), Logger: discardLogger()})

	res, err := m.Match("sleep tired help")
	require.NoError(t, err)
	res.Intent.Responses[0] = "changed"
	res.Intent.Patterns[0] = "changed"

	assert.Equal(t, "Try a consistent bedtime.", m.Classify("sleep tired help"))
	in, _ := kb.Lookup("sleep")
	assert.Equal(t, "Try a consistent bedtime.", in.Responses[0])
	assert.Equal(t, "I can't sleep", in.Patterns[0])
}

func TestSeededPicker_Reproducible(t *testing.T) {
	kb := mustKB(t, knowledge.Intent{
		Tag:       "many",
		Patterns:  []string{"hello"},
		Responses: []string{"a", "b", "c", "d", "e", "f", "g"},
	})
	a := NewMatcher(kb, MatcherConfig{Picker: NewSeededPicker(42), Logger: discardLogger()})
	b := NewMatcher(kb, MatcherConfig{Picker: NewSeededPicker(42), Logger: discardLogger()})

	for range 50 {
		assert.Equal(t, a.Classify("hello"), b.Classify("hello"))
	}
}

func TestMatcher_ConcurrentUse(t *testing.T) {
	m := NewMatcher(healthKB(t), MatcherConfig{Picker: NewSeededPicker(7), Logger: discardLogger()})

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				res, err := m.Match("hello there")
				assert.NoError(t, err)
				assert.Equal(t, "greeting", res.Intent.Tag)
				assert.NotEmpty(t, m.Classify("what should I eat"))
			}
		}()
	}
	wg.Wait()
}
