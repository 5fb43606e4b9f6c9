// Package proxy serves the deploy action over the OpenWhisk action runtime
// protocol: POST /init prepares the container and POST /run executes one
// activation.
package proxy

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/input-output-hk/catalyst-forge-deploy/action"
)

// Handler runs one activation.
type Handler interface {
	Handle(ctx context.Context, env action.Environment, req action.Request) action.Response
}

// Server routes runtime protocol requests to a Handler.
type Server struct {
	engine      *gin.Engine
	handler     Handler
	defaults    action.Environment
	logger      *slog.Logger
	initialized atomic.Bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		s.logger = logger
	}
}

// WithDefaults sets the environment used for fields a /run request omits.
func WithDefaults(env action.Environment) Option {
	return func(s *Server) {
		s.defaults = env
	}
}

// New returns a Server for h.
func New(h Handler, opts ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:  gin.New(),
		handler: h,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine.Use(gin.Recovery(), requestLogger(s.logger))
	s.engine.POST("/init", errorHandler(s.handleInit))
	s.engine.POST("/run", errorHandler(s.handleRun))
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

type initRequest struct {
	Value json.RawMessage `json:"value"`
}

func (s *Server) handleInit(c *gin.Context) error {
	var req initRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return APIError{Code: http.StatusBadRequest, Err: "invalid init payload"}
	}
	if !s.initialized.CompareAndSwap(false, true) {
		return APIError{Code: http.StatusForbidden, Err: "cannot initialize the action more than once"}
	}
	c.JSON(http.StatusOK, gin.H{"OK": true})
	return nil
}

type runRequest struct {
	Value        json.RawMessage `json:"value"`
	ActivationID string          `json:"activation_id"`
	APIHost      string          `json:"api_host"`
	APIKey       string          `json:"api_key"`
	Namespace    string          `json:"namespace"`
	ActionName   string          `json:"action_name"`
	// Deadline is milliseconds since the epoch.
	Deadline string `json:"deadline"`
}

func (s *Server) handleRun(c *gin.Context) error {
	var run runRequest
	if err := c.ShouldBindJSON(&run); err != nil {
		return APIError{Code: http.StatusBadRequest, Err: "invalid run payload"}
	}

	req, err := action.DecodeParams(run.Value)
	if err != nil {
		return APIError{Code: http.StatusBadRequest, Err: "action parameters must be a JSON object"}
	}

	ctx := c.Request.Context()
	if deadline, ok := parseDeadline(run.Deadline); ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}

	resp := s.handler.Handle(ctx, s.environment(run), req)
	c.JSON(http.StatusOK, resp)
	return nil
}

// environment fills fields the platform left empty from the defaults.
func (s *Server) environment(run runRequest) action.Environment {
	env := action.Environment{
		ActivationID: run.ActivationID,
		APIHost:      run.APIHost,
		APIKey:       run.APIKey,
	}
	if env.ActivationID == "" {
		env.ActivationID = s.defaults.ActivationID
	}
	if env.APIHost == "" {
		env.APIHost = s.defaults.APIHost
	}
	if env.APIKey == "" {
		env.APIKey = s.defaults.APIKey
	}
	if env.ActivationID == "" {
		env.ActivationID = uuid.NewString()
	}
	return env
}

func parseDeadline(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()

		logger.Info("request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
