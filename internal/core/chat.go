package core

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"health-chatbot/pkg"
)

// DefaultHistoryLimit caps the exchanges returned by History.
const DefaultHistoryLimit = 100

// ErrHistoryDisabled is returned by History when no store is configured.
var ErrHistoryDisabled = errors.New("chat history is disabled")

// HistoryStore persists chat exchanges.  *db.Repository implements it.
type HistoryStore interface {
	SaveExchange(ctx context.Context, msg *pkg.ChatMessage) error
	ListHistory(ctx context.Context, userID string, limit int) ([]pkg.ChatMessage, error)
}

// ChatService answers user messages with the matcher and, when a store is
// configured and the user is known, records each exchange.
type ChatService struct {
	Matcher      *Matcher
	History      HistoryStore // optional
	HistoryLimit int
	Logger       *slog.Logger
	Now          func() time.Time
}

// NewChatService constructs a ChatService.  store may be nil.
func NewChatService(m *Matcher, store HistoryStore, historyLimit int, logger *slog.Logger) *ChatService {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatService{
		Matcher:      m,
		History:      store,
		HistoryLimit: historyLimit,
		Logger:       logger,
		Now:          time.Now,
	}
}

// ChatResult is a reply with the time it was produced.
type ChatResult struct {
	Reply
	Timestamp time.Time
	MessageID string // set when the exchange was stored
}

// Reply answers message.  An error is returned only when ctx is done; a
// failure to store the exchange is logged and the reply is still returned.
func (s *ChatService) Reply(ctx context.Context, userID, message string) (ChatResult, error) {
	if err := ctx.Err(); err != nil {
		return ChatResult{}, err
	}

	res := ChatResult{Reply: s.Matcher.Reply(message), Timestamp: s.Now().UTC()}
	if s.History == nil || userID == "" || res.Empty {
		return res, nil
	}

	msg := &pkg.ChatMessage{
		UserID:    userID,
		Message:   message,
		Response:  res.Text,
		Intent:    res.Tag,
		Score:     res.Score,
		CreatedAt: res.Timestamp,
	}
	if err := s.History.SaveExchange(ctx, msg); err != nil {
		s.Logger.Error("failed to store chat exchange",
			"user_id", userID,
			"intent", res.Tag,
			"error", err)
		return res, nil
	}
	res.MessageID = msg.ID
	return res, nil
}

// Advice categorizes message and returns the detailed advice for it.
func (s *ChatService) Advice(message string) (Category, string) {
	return AdviceFor(message)
}

// HistoryFor returns the user's latest exchanges, oldest first.
func (s *ChatService) HistoryFor(ctx context.Context, userID string) ([]pkg.ChatMessage, error) {
	if s.History == nil {
		return nil, ErrHistoryDisabled
	}
	return s.History.ListHistory(ctx, userID, s.HistoryLimit)
}
