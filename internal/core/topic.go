package core

import "strings"

// Category is a coarse health topic used to route to an advice block.
type Category string

const (
	CategoryDiet     Category = "diet"
	CategoryExercise Category = "exercise"
	CategoryMental   Category = "mental"
	CategorySleep    Category = "sleep"
	CategoryGeneral  Category = "general"
)

// Categories lists every category in table order.
var Categories = []Category{CategoryDiet, CategoryExercise, CategoryMental, CategorySleep, CategoryGeneral}

var topicKeywords = map[Category][]string{
	CategoryDiet:     {"nutrition", "food", "diet", "eating", "meal", "weight", "healthy eating"},
	CategoryExercise: {"exercise", "workout", "fitness", "training", "sport", "physical activity"},
	CategoryMental:   {"mental", "stress", "anxiety", "depression", "mood", "emotional", "wellbeing"},
	CategorySleep:    {"sleep", "rest", "insomnia", "tired", "fatigue", "bedtime"},
	CategoryGeneral:  {"health", "wellness", "lifestyle", "prevention", "healthy living"},
}

// ParseCategory returns the category named s, or false.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	_, ok := topicKeywords[c]
	return c, ok
}

// Keywords returns a copy of the keywords that count toward c.
func Keywords(c Category) []string {
	return append([]string(nil), topicKeywords[c]...)
}

// Categorize counts raw substring hits of each category's keywords in the
// lowercased text.  The category with the strictly greatest count wins; no
// hits or a shared maximum yield CategoryGeneral.
func Categorize(text string) Category {
	text = strings.ToLower(text)

	best, bestCount, tied := CategoryGeneral, 0, false
	for _, c := range Categories {
		count := 0
		for _, kw := range topicKeywords[c] {
			if strings.Contains(text, kw) {
				count++
			}
		}
		switch {
		case count > bestCount:
			best, bestCount, tied = c, count, false
		case count == bestCount && count > 0:
			tied = true
		}
	}
	if bestCount == 0 || tied {
		return CategoryGeneral
	}
	return best
}
