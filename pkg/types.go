package pkg

import "time"

// Status values used in every JSON envelope.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ChatMessage is one persisted exchange: what the user wrote and what the
// bot answered.  Intent is empty when the reply was a fallback.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Intent    string    `json:"intent,omitempty"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"timestamp"`
}

// ChatRequest is the body of POST /api/chat and POST /api/advice.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse contains the bot's reply together with the intent that
// produced it.
type ChatResponse struct {
	Status    string  `json:"status"`
	Response  string  `json:"response,omitempty"`
	Intent    string  `json:"intent,omitempty"`
	Score     float64 `json:"score"`
	Timestamp string  `json:"timestamp,omitempty"`
}

// AdviceResponse carries a detailed advice block for the detected topic.
type AdviceResponse struct {
	Status   string `json:"status"`
	Category string `json:"category"`
	Advice   string `json:"advice"`
}

// HistoryResponse lists a user's most recent exchanges, oldest first.
type HistoryResponse struct {
	Status   string        `json:"status"`
	Messages []ChatMessage `json:"messages"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Intents int    `json:"intents"`
	Clients int    `json:"rate_limited_clients"` // clients tracked by the rate limiter
}
