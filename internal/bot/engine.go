// internal/bot/engine.go
package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	"bookbot/internal/common/config"
	"bookbot/internal/common/logger"
	"bookbot/internal/common/metrics"
	"bookbot/internal/common/observability"
	"bookbot/internal/genai"
	"bookbot/internal/models"
)

// ErrEmptyMessage is returned for blank input; the API layer maps it to a
// 400 response.
var ErrEmptyMessage = errors.New("empty message")

// CatalogStore is the read surface the engine needs from the catalog.
type CatalogStore interface {
	AllCategories(ctx context.Context) ([]models.Category, error)
	SearchBooks(ctx context.Context, patterns []string, limit int) ([]models.Book, error)
	BooksInCategory(ctx context.Context, categoryID int64, limit int) ([]models.Book, error)
	BooksUnderPrice(ctx context.Context, budget int, categoryID *int64, limit int) ([]models.Book, error)
	TopInStock(ctx context.Context, limit int) ([]models.Book, error)
	InventoryStats(ctx context.Context) (*models.InventoryStats, error)
	CountByCategory(ctx context.Context) ([]models.CategoryCount, error)
}

// Generator produces model text for a prompt. The genai package provides
// the Gemini-backed implementation and an always-failing disabled one.
type Generator interface {
	Generate(ctx context.Context, prompt string, gc genai.GenerationConfig) (string, error)
}

// Engine routes a chat message through the catalog-backed intents in fixed
// priority order and falls through to the grounded advisor when none match.
type Engine struct {
	handlers []intentHandler
	advisor  *Advisor
	logger   logger.Logger
	obs      *observability.Observability
}

func NewEngine(store CatalogStore, gen Generator, cache SummaryCache, cfg config.EngineConfig, cacheTTL time.Duration, log logger.Logger, obs *observability.Observability) *Engine {
	resolver := NewCategoryResolver(store, cfg.FuzzyCutoff)
	summarizer := NewSummarizer(gen, cache, cacheTTL, cfg.GroundedMinWords, cfg.MaxSummaryBullets, log)

	// Priority order matters: summary first so "tóm tắt sách kinh tế"
	// summarizes instead of listing the kinh tế category.
	handlers := []intentHandler{
		&summaryIntent{store: store, summarizer: summarizer, searchLimit: cfg.SearchLimit, cutoff: cfg.DisambiguationCutoff},
		&priceIntent{store: store, resolver: resolver, limit: 10},
		&countIntent{store: store},
		&categoryIntent{store: store, resolver: resolver, limit: 12},
		&categoryListIntent{store: store},
		&availabilityIntent{store: store, limit: 10},
	}

	return &Engine{
		handlers: handlers,
		advisor:  NewAdvisor(store, gen, cfg.SliceLimit, log),
		logger:   log.With(map[string]interface{}{"component": "engine"}),
		obs:      obs,
	}
}

// HandleMessage answers one user message. Catalog errors are returned to
// the caller; model errors never are, every LLM path degrades internally.
func (e *Engine) HandleMessage(ctx context.Context, message string) (*models.ChatResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	start := time.Now()
	norm := Normalize(message)

	for _, h := range e.handlers {
		resp, err := h.Handle(ctx, message, norm)
		if err != nil {
			e.logger.WithError(err).Error("intent handler failed", map[string]interface{}{"intent": h.Name()})
			return nil, err
		}
		if resp != nil {
			e.record(ctx, h.Name(), start)
			return resp, nil
		}
	}

	resp, err := e.advisor.Advise(ctx, message)
	if err != nil {
		e.logger.WithError(err).Error("advisor failed", nil)
		return nil, err
	}
	e.record(ctx, "open_world", start)
	return resp, nil
}

func (e *Engine) record(ctx context.Context, intent string, start time.Time) {
	elapsed := time.Since(start)
	metrics.ConversationsTotal.WithLabelValues(intent).Inc()
	metrics.ConversationDuration.WithLabelValues(intent).Observe(elapsed.Seconds())
	if e.obs != nil {
		e.obs.RecordMessageProcessed(ctx, intent)
		e.obs.RecordMessageDuration(ctx, elapsed, intent)
	}
	e.logger.Debug("message handled", map[string]interface{}{
		"intent":      intent,
		"duration_ms": elapsed.Milliseconds(),
	})
}
