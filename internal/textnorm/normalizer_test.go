package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Pipeline(t *testing.T) {
	n := New(DefaultOptions())

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "stop word removed", input: "Hello there!", want: []string{"hello"}},
		{name: "lowercase and lemmatize", input: "I am RUNNING, and sleeping?", want: []string{"run", "sleep"}},
		{name: "irregular forms", input: "my feet hurt, slept", want: []string{"foot", "hurt", "sleep"}},
		{name: "plural", input: "dogs", want: []string{"dog"}},
		{name: "only punctuation", input: "?!.,", want: []string{}},
		{name: "only stop words", input: "how are you", want: []string{}},
		{name: "empty", input: "", want: []string{}},
		{name: "fullwidth letters", input: "ｈｅｌｌｏ", want: []string{"hello"}},
		{name: "invalid utf8 dropped", input: "\xffhello", want: []string{"hello"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_KeepStopWords(t *testing.T) {
	n := New(Options{RemoveStopWords: false})

	got, err := n.Normalize("Hello there")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hello", got[0])
}

func TestNormalize_CustomPunctuationSet(t *testing.T) {
	n := New(Options{Punctuation: []string{"?", "hmm"}})

	got, err := n.Normalize("hmm help?")
	require.NoError(t, err)
	assert.Equal(t, []string{"help"}, got)
}

func TestNormalize_Deterministic(t *testing.T) {
	n := New(DefaultOptions())
	inputs := []string{
		"I can't sleep at night and feel tired",
		"What should I eat to lose weight?",
		"Straße STRASSE",
		"😴 sleepy 💤",
		"   ",
	}
	for _, in := range inputs {
		first, err := n.Normalize(in)
		require.NoError(t, err)
		second, err := n.Normalize(in)
		require.NoError(t, err)
		assert.Equal(t, first, second, in)
	}
}

func TestNormalize_CaseFoldingUnifiesForms(t *testing.T) {
	n := New(DefaultOptions())
	a, err := n.Normalize("straße")
	require.NoError(t, err)
	b, err := n.Normalize("STRASSE")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"don't", "stop", "!"}, Tokenize("don't stop!"))
	assert.Equal(t, []string{"a", "-", "b"}, Tokenize("a-b"))
	assert.Equal(t, []string{"rock", "'", "n", "roll"}, Tokenize("rock 'n roll"))
	assert.Empty(t, Tokenize("   "))
}

func TestLemmatize(t *testing.T) {
	assert.Equal(t, "run", Lemmatize("running"))
	assert.Equal(t, "run", Lemmatize("ran"))
	assert.Equal(t, "child", Lemmatize("children"))
	assert.Equal(t, "hello", Lemmatize("hello"))
	assert.Equal(t, "睡眠", Lemmatize("睡眠"))
}

func TestStopWords(t *testing.T) {
	n := New(DefaultOptions())
	assert.True(t, n.isStopWord("the"))
	assert.False(t, n.isStopWord("sleep"))

	custom := New(Options{RemoveStopWords: true, StopWords: []string{"please"}})
	got, err := custom.Normalize("please help the doctor")
	require.NoError(t, err)
	assert.Equal(t, []string{"help", "the", "doctor"}, got)
}
