package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"health-chatbot/internal/core"
	"health-chatbot/pkg"
)

// HeaderUserID carries the authenticated user id set by the auth layer in
// front of this service.
const HeaderUserID = "X-User-ID"

// maxBodySize caps request bodies on the API routes.
const maxBodySize = "64K"

// Options tunes a Server.  A zero RateLimit disables rate limiting.
type Options struct {
	RateLimit  float64
	RateBurst  int
	LimiterTTL time.Duration
	Logger     *slog.Logger
}

// Server bundles together the dependencies required by HTTP handlers.  It
// implements http.Handler so it can be passed to http.Server.
type Server struct {
	Chat    *core.ChatService
	Logger  *slog.Logger
	Limiter *RateLimiter // nil when disabled

	echo *echo.Echo
}

// NewServer constructs a Server and registers its routes.
func NewServer(chat *core.ChatService, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Server{Chat: chat, Logger: opts.Logger}
	if opts.RateLimit > 0 {
		s.Limiter = NewRateLimiter(opts.RateLimit, opts.RateBurst, opts.LimiterTTL)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Int64("latency_ms", v.Latency.Milliseconds()),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			s.Logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.GET("/healthz", s.handleHealth)

	api := e.Group("/api")
	api.Use(middleware.BodyLimit(maxBodySize))
	if s.Limiter != nil {
		api.Use(s.Limiter.Middleware())
	}
	api.POST("/chat", s.handleChat)
	api.POST("/advice", s.handleAdvice)
	api.GET("/chat/history", s.handleHistory)

	s.echo = e
	return s
}

// ServeHTTP dispatches incoming requests to the echo router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// handleChat answers one message: POST /api/chat {"message": "..."}.  The
// exchange is stored when the request carries a user id.
func (s *Server) handleChat(c echo.Context) error {
	msg, err := readMessage(c)
	if err != nil {
		return err
	}

	res, err := s.Chat.Reply(c.Request().Context(), c.Request().Header.Get(HeaderUserID), msg)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pkg.ChatResponse{
		Status:    pkg.StatusSuccess,
		Response:  res.Text,
		Intent:    res.Tag,
		Score:     res.Score,
		Timestamp: res.Timestamp.Format(time.RFC3339),
	})
}

// handleAdvice returns the detailed advice block for the message's topic.
func (s *Server) handleAdvice(c echo.Context) error {
	msg, err := readMessage(c)
	if err != nil {
		return err
	}
	category, advice := s.Chat.Advice(msg)
	return c.JSON(http.StatusOK, pkg.AdviceResponse{
		Status:   pkg.StatusSuccess,
		Category: string(category),
		Advice:   advice,
	})
}

// handleHistory lists the caller's latest exchanges.
func (s *Server) handleHistory(c echo.Context) error {
	userID := c.Request().Header.Get(HeaderUserID)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not identified")
	}
	msgs, err := s.Chat.HistoryFor(c.Request().Context(), userID)
	if errors.Is(err, core.ErrHistoryDisabled) {
		return echo.NewHTTPError(http.StatusNotFound, "Chat history is disabled")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pkg.HistoryResponse{Status: pkg.StatusSuccess, Messages: msgs})
}

func (s *Server) handleHealth(c echo.Context) error {
	resp := pkg.HealthResponse{Status: "ok", Intents: s.Chat.Matcher.Len()}
	if s.Limiter != nil {
		resp.Clients = s.Limiter.Clients()
	}
	return c.JSON(http.StatusOK, resp)
}

func readMessage(c echo.Context) (string, error) {
	var req pkg.ChatRequest
	if err := c.Bind(&req); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "No message provided")
	}
	return req.Message, nil
}

// handleError renders every error as the JSON error envelope.  Errors that
// are not *echo.HTTPError are logged and reported as a generic 500.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, msg := http.StatusInternalServerError, "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	} else {
		s.Logger.Error("request failed",
			"uri", c.Request().RequestURI,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, pkg.ErrorResponse{Status: pkg.StatusError, Error: msg})
	}
	if err != nil {
		s.Logger.Error("failed to write error response", "error", err)
	}
}
