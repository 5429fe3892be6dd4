// internal/api/server.go
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bookbot/internal/bot"
	"bookbot/internal/catalog"
	apperrors "bookbot/internal/common/errors"
	"bookbot/internal/common/logger"
	"bookbot/internal/models"
)

// ChatEngine is the conversational surface the API exposes.
type ChatEngine interface {
	HandleMessage(ctx context.Context, message string) (*models.ChatResponse, error)
}

// Pinger reports the liveness of one dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires the chat engine behind HTTP.
type Server struct {
	engine  ChatEngine
	logger  logger.Logger
	pingers map[string]Pinger
	router  *gin.Engine
}

type chatRequest struct {
	Message string `json:"message"`
}

// NewServer builds the router. pingers are probed by /healthz; pass the
// postgres and redis clients keyed by name.
func NewServer(engine ChatEngine, log logger.Logger, pingers map[string]Pinger) *Server {
	s := &Server{
		engine:  engine,
		logger:  log.With(map[string]interface{}{"component": "api"}),
		pingers: pingers,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestID())
	router.Use(s.requestLog())

	router.POST("/api/bookbot", s.handleChat)
	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router = router
	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request handled", map[string]interface{}{
			"request_id":  c.GetString("request_id"),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing message"})
		return
	}

	resp, err := s.engine.HandleMessage(c.Request.Context(), req.Message)
	if err != nil {
		if errors.Is(err, bot.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing message"})
			return
		}

		stdErr := apperrors.Wrap(apperrors.ErrCodeInternalError, "chat handling failed", err, false)
		if errors.Is(err, catalog.ErrQueryFailed) {
			stdErr = apperrors.Wrap(apperrors.ErrCodeQueryExecutionFailed, "catalog query failed", err, true)
		}
		s.logger.WithError(err).Error("chat failed", map[string]interface{}{
			"request_id": c.GetString("request_id"),
			"code":       stdErr.Code,
			"retryable":  stdErr.Retryable,
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{}
	for name, p := range s.pingers {
		if err := p.Ping(ctx); err != nil {
			checks[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "up"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks})
}
