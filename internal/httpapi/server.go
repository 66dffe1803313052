// Package httpapi provides the web chat interface for shopchat.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/shopchat/internal/agent"
	"github.com/fyrsmithlabs/shopchat/internal/config"
)

// sessionCookie carries the browser's thread id. Each browser session
// gets its own conversation; requests from the same session share one.
const sessionCookie = "shopchat_session"

// genericError is the only error text clients ever see. Details stay
// in the logs.
const genericError = "Something went wrong. Please try again."

// Chatter runs one conversation turn. Satisfied by *agent.Agent.
type Chatter interface {
	Chat(ctx context.Context, threadID, message string) (string, error)
}

// Server serves the chat page, the chat endpoint, health, and metrics.
type Server struct {
	echo   *echo.Echo
	chat   Chatter
	logger *zap.Logger
	config config.ServerConfig
}

// NewServer creates the HTTP server.
func NewServer(chat Chatter, cfg config.ServerConfig, logger *zap.Logger) (*Server, error) {
	if chat == nil {
		return nil, fmt.Errorf("chatter is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:   e,
		chat:   chat,
		logger: logger,
		config: cfg,
	}

	e.HTTPErrorHandler = s.handleError
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/", s.handleIndex)
	s.echo.POST("/get", s.handleChat)
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// handleIndex serves the chat page.
func (s *Server) handleIndex(c echo.Context) error {
	requestsTotal.Inc()
	s.ensureSession(c)
	return c.HTML(http.StatusOK, chatPage)
}

// handleChat runs one conversation turn. The message arrives as the
// msg form field and the reply goes back as plain text.
func (s *Server) handleChat(c echo.Context) error {
	requestsTotal.Inc()

	msg := c.FormValue("msg")
	if msg == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "msg field is required")
	}

	threadID := s.ensureSession(c)

	reply, err := s.chat.Chat(c.Request().Context(), threadID, msg)
	if err != nil {
		s.logger.Error("chat turn failed",
			zap.String("thread_id", threadID),
			zap.Error(err),
		)
		if errors.Is(err, agent.ErrModel) || errors.Is(err, agent.ErrTool) {
			return echo.NewHTTPError(http.StatusBadGateway, genericError)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, genericError)
	}

	predictionsTotal.Inc()
	return c.String(http.StatusOK, reply)
}

// handleHealth reports liveness. The body shape is fixed; probes and
// uptime checks parse it.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "healthy"})
}

// ensureSession returns the request's thread id, minting a new session
// cookie when none is present.
func (s *Server) ensureSession(c echo.Context) string {
	if cookie, err := c.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	threadID := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    threadID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	s.logger.Info("new chat thread", zap.String("thread_id", threadID))
	return threadID
}

// handleError is the catch-all error handler. Clients get a status and
// a generic message; the cause is logged server-side only.
func (s *Server) handleError(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := genericError

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
	} else {
		s.logger.Error("unhandled error",
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err),
		)
	}

	if c.Response().Committed {
		return
	}
	if err := c.String(code, message); err != nil {
		s.logger.Error("writing error response", zap.Error(err))
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("http server starting", zap.String("addr", addr))

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
