package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		input string
		want  Category
	}{
		{input: "I can't sleep, I'm so tired", want: CategorySleep},
		{input: "Healthy eating and a good workout routine", want: CategoryDiet},
		{input: "Looking for a FITNESS and exercise plan", want: CategoryExercise},
		{input: "I've been dealing with anxiety and a low mood", want: CategoryMental},
		{input: "what food helps with stress", want: CategoryGeneral}, // diet and mental tie
		{input: "quantum flux capacitor", want: CategoryGeneral},
		{input: "", want: CategoryGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.input))
		})
	}
}

func TestCategorize_RawSubstrings(t *testing.T) {
	// "rest" inside "interesting" counts; no tokenization happens.
	assert.Equal(t, CategorySleep, Categorize("an interesting read"))
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" Sleep ")
	assert.True(t, ok)
	assert.Equal(t, CategorySleep, c)

	_, ok = ParseCategory("astrology")
	assert.False(t, ok)
}

func TestAdvice(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		query    string
		contains string
	}{
		{name: "weight loss", category: CategoryDiet, query: "Tips for WEIGHT LOSS", contains: "weight management"},
		{name: "nutrition", category: CategoryDiet, query: "what to eat", contains: "nourishing your body"},
		{name: "beginner", category: CategoryExercise, query: "beginner workout", contains: "fitness journey"},
		{name: "fitness", category: CategoryExercise, query: "workout", contains: "Let's get moving!"},
		{name: "stress", category: CategoryMental, query: "stress at work", contains: "manage stress together"},
		{name: "wellbeing", category: CategoryMental, query: "mood", contains: "mental wellbeing"},
		{name: "insomnia", category: CategorySleep, query: "I have insomnia", contains: "improve your sleep"},
		{name: "sleep quality", category: CategorySleep, query: "bedtime", contains: "enhance your sleep quality"},
		{name: "general", category: CategoryGeneral, query: "anything", contains: "holistic approach"},
		{name: "unknown category", category: Category("astrology"), query: "", contains: "holistic approach"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, Advice(tt.category, tt.query), tt.contains)
		})
	}
}

func TestAdviceFor(t *testing.T) {
	c, advice := AdviceFor("I have insomnia")
	assert.Equal(t, CategorySleep, c)
	assert.Contains(t, advice, "Sleep Hygiene")
}

func TestKeywordsReturnsCopy(t *testing.T) {
	kw := Keywords(CategoryDiet)
	kw[0] = "changed"
	assert.Equal(t, "nutrition", Keywords(CategoryDiet)[0])
}
