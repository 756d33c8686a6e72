package core

// prompts.go holds the fixed replies the chatbot uses when it has nothing
// better to say.  Keeping them in one place makes them easy to tweak without
// touching the matching code.

const (
	// DidNotCatchMessage is returned for blank input, before any scoring.
	DidNotCatchMessage = "I didn't catch that. Could you please repeat your question?"

	// WelcomeMessage opens an interactive chat session.
	WelcomeMessage = "Hello! I'm your health assistant. How can I help you today?"

	// GoodbyeMessage closes an interactive chat session.
	GoodbyeMessage = "Take care of your health! Goodbye!"
)

// FallbackResponses are used when no intent scores above the threshold.
var FallbackResponses = []string{
	"I'm sorry, I don't have specific information about that topic yet. However, I can help you with general health advice, nutrition, exercise, mental health, sleep, and many other health-related topics. What would you like to know about?",
	"I'm not sure about that specific topic, but I'd be happy to help you with general health and wellness information. What would you like to learn about?",
	"While I don't have detailed information about that particular topic, I can provide guidance on various health topics like nutrition, exercise, mental health, and more. What interests you?",
	"I'm still learning about that topic, but I can help you with many other health-related questions. Would you like to know about general health, nutrition, exercise, or mental wellness?",
	"I don't have specific information about that yet, but I can help you with general health advice and wellness tips. What would you like to know about?",
}

// IsFallback reports whether s is one of the fallback responses.
func IsFallback(s string) bool {
	for _, f := range FallbackResponses {
		if s == f {
			return true
		}
	}
	return false
}
