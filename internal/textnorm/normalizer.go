// Package textnorm turns free text into the token sequences the intent
// matcher compares.  The same Normalizer must be used for knowledge-base
// patterns and for live input so both sides are reduced the same way.
package textnorm

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dchest/stemmer/porter2"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultPunctuation is the punctuation stop set applied when Options does
// not name one.
var DefaultPunctuation = []string{"?", "!", ".", ","}

// Options configures a Normalizer.
type Options struct {
	// RemoveStopWords drops very common function words ("the", "is", ...).
	RemoveStopWords bool
	// StopWords replaces the built-in English list when non-nil.
	StopWords []string
	// Punctuation is the set of tokens stripped after tokenizing.  Tokens
	// made only of punctuation or symbols are always stripped.
	Punctuation []string
}

// DefaultOptions removes stop words and strips the default punctuation set.
func DefaultOptions() Options {
	return Options{RemoveStopWords: true}
}

// Normalizer lowercases, tokenizes, filters and lemmatizes text.  It holds
// only read-only lookup tables and is safe for concurrent use.
type Normalizer struct {
	removeStopWords bool
	stopWords       map[string]struct{}
	punctuation     map[string]struct{}
}

// New builds a Normalizer from opts.
func New(opts Options) *Normalizer {
	punct := opts.Punctuation
	if punct == nil {
		punct = DefaultPunctuation
	}
	words := opts.StopWords
	if words == nil {
		words = englishStopWords
	}

	n := &Normalizer{
		removeStopWords: opts.RemoveStopWords,
		stopWords:       make(map[string]struct{}, len(words)),
		punctuation:     make(map[string]struct{}, len(punct)),
	}
	for _, w := range words {
		n.stopWords[fold(w)] = struct{}{}
	}
	for _, p := range punct {
		n.punctuation[p] = struct{}{}
	}
	return n
}

// NormalizeError wraps a failure while normalizing a single input.
type NormalizeError struct {
	Input string
	Cause any
}

func (e *NormalizeError) Error() string {
	return fmt.Sprintf("normalize %q: %v", truncate(e.Input, 50), e.Cause)
}

// Normalize returns the base-form tokens of s.  The result depends only on s
// and the Normalizer's options.
func (n *Normalizer) Normalize(s string) (tokens []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			tokens = nil
			err = &NormalizeError{Input: s, Cause: r}
		}
	}()

	raw := Tokenize(fold(s))
	tokens = make([]string, 0, len(raw))
	for _, tok := range raw {
		if _, ok := n.punctuation[tok]; ok {
			continue
		}
		if !hasWordRune(tok) {
			continue
		}
		if n.removeStopWords && n.isStopWord(tok) {
			continue
		}
		tokens = append(tokens, Lemmatize(tok))
	}
	return tokens, nil
}

// isStopWord reports whether the already folded token is a stop word.
func (n *Normalizer) isStopWord(token string) bool {
	_, ok := n.stopWords[token]
	return ok
}

// fold applies NFKC and full Unicode case folding.  A Caser keeps state, so
// a fresh one is created per call.
func fold(s string) string {
	s = strings.ToValidUTF8(s, "")
	return cases.Fold().String(norm.NFKC.String(s))
}

// Tokenize splits text into word tokens and single-rune punctuation tokens.
// An apostrophe between two letters stays inside the word ("don't").
func Tokenize(s string) []string {
	var (
		tokens []string
		word   strings.Builder
	)
	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case isWordRune(r):
			word.WriteRune(r)
		case isApostrophe(r) && word.Len() > 0 && i+1 < len(runes) && unicode.IsLetter(runes[i+1]):
			word.WriteRune('\'')
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			if unicode.IsPunct(r) || unicode.IsSymbol(r) {
				tokens = append(tokens, string(r))
			}
		}
	}
	flush()
	return tokens
}

// Lemmatize reduces a folded token to its base form: irregular forms come
// from a fixed table, everything else goes through the Porter2 stemmer.
func Lemmatize(token string) string {
	if base, ok := irregularForms[token]; ok {
		return base
	}
	if !isASCIIWord(token) {
		return token
	}
	return porter2.Stemmer.Stem(token)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’'
}

func hasWordRune(tok string) bool {
	for _, r := range tok {
		if isWordRune(r) {
			return true
		}
	}
	return false
}

func isASCIIWord(tok string) bool {
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '\'' {
			return false
		}
	}
	return true
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
