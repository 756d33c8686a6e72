// Package knowledge loads the chatbot's intents: labeled groups of example
// phrases and the canned replies that go with them.  A KnowledgeBase is
// built once at startup and is read-only afterwards, so it can be shared by
// every request handler without locking.
package knowledge

import (
	"fmt"
	"slices"
	"strings"
)

// Intent is one user goal the chatbot recognises.
type Intent struct {
	Tag       string   `json:"tag" yaml:"tag"`
	Patterns  []string `json:"patterns" yaml:"patterns"`
	Responses []string `json:"responses" yaml:"responses"`
}

// KnowledgeBase is an ordered, immutable collection of intents.
type KnowledgeBase struct {
	intents []Intent
	source  string
}

// New validates and copies the given intents into a KnowledgeBase.  Order is
// preserved; it decides tie-breaks during matching.
func New(intents []Intent) (*KnowledgeBase, error) {
	return build(intents, "")
}

// Empty returns a knowledge base without intents.  A matcher built on it
// answers every message with a fallback response.
func Empty() *KnowledgeBase {
	return &KnowledgeBase{}
}

// Default returns the built-in greeting/goodbye knowledge base written by
// `healthbot kb init` when no intents file exists yet.
func Default() *KnowledgeBase {
	kb, err := New([]Intent{
		{
			Tag:      "greeting",
			Patterns: []string{"Hi", "Hello", "Hey", "How are you", "Good day", "Good morning", "Good afternoon", "Good evening"},
			Responses: []string{
				"Hello! I'm your AI health assistant. How can I help you today?",
				"Hi there! I'm here to provide health information and support. What would you like to know?",
				"Hello! I'm your virtual health companion. How can I assist you with your health concerns today?",
			},
		},
		{
			Tag:      "goodbye",
			Patterns: []string{"Bye", "See you later", "Goodbye", "Take care", "See you", "Bye bye"},
			Responses: []string{
				"Goodbye! Remember to take care of your health!",
				"See you later! Stay healthy and hydrated!",
				"Take care! Don't forget to maintain a healthy lifestyle!",
				"Bye! Remember to get enough rest and exercise!",
			},
		},
	})
	if err != nil {
		panic(fmt.Sprintf("knowledge: invalid default intents: %v", err))
	}
	return kb
}

func build(intents []Intent, source string) (*KnowledgeBase, error) {
	out := make([]Intent, 0, len(intents))
	for i, in := range intents {
		if err := validateIntent(i, in); err != nil {
			return nil, &LoadError{Path: source, Op: "validate", Err: err}
		}
		in.Tag = strings.TrimSpace(in.Tag)
		out = append(out, in.Clone())
	}
	return &KnowledgeBase{intents: out, source: source}, nil
}

// Clone returns a copy of in that shares no slices with it.
func (in Intent) Clone() Intent {
	return Intent{
		Tag:       in.Tag,
		Patterns:  slices.Clone(in.Patterns),
		Responses: slices.Clone(in.Responses),
	}
}

func validateIntent(index int, in Intent) error {
	switch {
	case strings.TrimSpace(in.Tag) == "":
		return &FieldError{Index: index, Field: "tag"}
	case len(in.Patterns) == 0:
		return &FieldError{Index: index, Tag: in.Tag, Field: "patterns"}
	case len(in.Responses) == 0:
		return &FieldError{Index: index, Tag: in.Tag, Field: "responses"}
	}
	return nil
}

// Intents returns a deep copy of the intents in load order.
func (kb *KnowledgeBase) Intents() []Intent {
	if kb == nil {
		return nil
	}
	out := make([]Intent, len(kb.intents))
	for i, in := range kb.intents {
		out[i] = in.Clone()
	}
	return out
}

// Len returns the number of intents.
func (kb *KnowledgeBase) Len() int {
	if kb == nil {
		return 0
	}
	return len(kb.intents)
}

// Lookup returns the first intent with the given tag.
func (kb *KnowledgeBase) Lookup(tag string) (Intent, bool) {
	if kb == nil {
		return Intent{}, false
	}
	for _, in := range kb.intents {
		if in.Tag == tag {
			return in.Clone(), true
		}
	}
	return Intent{}, false
}

// Source is the path the knowledge base was loaded from, if any.
func (kb *KnowledgeBase) Source() string {
	if kb == nil {
		return ""
	}
	return kb.source
}

// Validate reports problems that do not prevent loading but usually point at
// a mistake in the intents file: duplicate tags, duplicate patterns within an
// intent and blank entries.
func (kb *KnowledgeBase) Validate() []string {
	if kb == nil {
		return nil
	}
	var warnings []string
	seenTags := make(map[string]int, len(kb.intents))
	for i, in := range kb.intents {
		if first, ok := seenTags[in.Tag]; ok {
			warnings = append(warnings, fmt.Sprintf("intent %d: tag %q already used by intent %d", i, in.Tag, first))
		} else {
			seenTags[in.Tag] = i
		}

		seenPatterns := make(map[string]bool, len(in.Patterns))
		for _, p := range in.Patterns {
			key := strings.ToLower(strings.TrimSpace(p))
			if key == "" {
				warnings = append(warnings, fmt.Sprintf("intent %q: blank pattern", in.Tag))
				continue
			}
			if seenPatterns[key] {
				warnings = append(warnings, fmt.Sprintf("intent %q: duplicate pattern %q", in.Tag, p))
			}
			seenPatterns[key] = true
		}
		for _, r := range in.Responses {
			if strings.TrimSpace(r) == "" {
				warnings = append(warnings, fmt.Sprintf("intent %q: blank response", in.Tag))
			}
		}
	}
	return warnings
}
