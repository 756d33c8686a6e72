// Package app wires configuration, knowledge base, matcher, history store
// and HTTP server into a runnable service.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"health-chatbot/internal/config"
	"health-chatbot/internal/core"
	"health-chatbot/internal/db"
	httpserver "health-chatbot/internal/http"
	"health-chatbot/internal/knowledge"
	"health-chatbot/internal/textnorm"
)

const shutdownTimeout = 10 * time.Second

// App is a fully wired chatbot service.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	KB      *knowledge.KnowledgeBase
	Matcher *core.Matcher
	Chat    *core.ChatService
	Server  *httpserver.Server

	db *sql.DB
}

// LoadKnowledgeBase loads the configured intents file.  On failure it logs
// and returns an empty knowledge base, unless the configuration requires
// the file, in which case the error is returned.
func LoadKnowledgeBase(cfg config.ChatbotConfig, logger *slog.Logger) (*knowledge.KnowledgeBase, error) {
	kb, err := knowledge.Load(cfg.KnowledgeBase)
	if err != nil {
		if cfg.RequireKnowledgeBase {
			return nil, err
		}
		logger.Error("failed to load knowledge base, every message will get a fallback reply",
			"path", cfg.KnowledgeBase, "error", err)
		return knowledge.Empty(), nil
	}
	for _, w := range kb.Validate() {
		logger.Warn("knowledge base", "path", cfg.KnowledgeBase, "warning", w)
	}
	logger.Info("knowledge base loaded", "path", cfg.KnowledgeBase, "intents", kb.Len())
	return kb, nil
}

// NewMatcher builds the matcher described by cfg.
func NewMatcher(kb *knowledge.KnowledgeBase, cfg config.ChatbotConfig, logger *slog.Logger) *core.Matcher {
	opts := textnorm.DefaultOptions()
	opts.RemoveStopWords = cfg.RemoveStopWords
	if len(cfg.Punctuation) > 0 {
		opts.Punctuation = cfg.Punctuation
	}

	var picker core.Picker
	if cfg.Seed != 0 {
		picker = core.NewSeededPicker(cfg.Seed)
	}
	return core.NewMatcher(kb, core.MatcherConfig{
		Threshold:  cfg.Threshold,
		Normalizer: textnorm.New(opts),
		Picker:     picker,
		Logger:     logger,
	})
}

// New wires the service.  The knowledge base is loaded once here and shared
// read-only by every request.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	kb, err := LoadKnowledgeBase(cfg.Chatbot, logger)
	if err != nil {
		return nil, err
	}
	a := &App{
		Config:  cfg,
		Logger:  logger,
		KB:      kb,
		Matcher: NewMatcher(kb, cfg.Chatbot, logger),
	}

	var store core.HistoryStore
	if cfg.HistoryEnabled() {
		conn, err := db.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, conn); err != nil {
			conn.Close()
			return nil, err
		}
		a.db = conn
		store = db.NewRepository(conn, cfg.Database.Driver)
		logger.Info("chat history enabled", "driver", cfg.Database.Driver)
	}

	a.Chat = core.NewChatService(a.Matcher, store, cfg.Database.HistoryLimit, logger)
	a.Server = httpserver.NewServer(a.Chat, httpserver.Options{
		RateLimit:  cfg.Server.RateLimit,
		RateBurst:  cfg.Server.RateBurst,
		LimiterTTL: cfg.Server.LimiterTTL,
		Logger:     logger,
	})
	return a, nil
}

// Run listens on the configured address and serves until ctx is done.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Config.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.Config.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.Logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close releases the database connection, if any.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
