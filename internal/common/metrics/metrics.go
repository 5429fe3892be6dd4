// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConversationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookbot_conversations_total",
			Help: "Total number of chat messages handled, by matched intent",
		},
		[]string{"intent"},
	)

	ConversationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "bookbot_conversation_duration_seconds",
			Help: "Duration of chat message handling in seconds",
		},
		[]string{"intent"},
	)

	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookbot_llm_requests_total",
			Help: "Total number of LLM generate calls, by mode",
		},
		[]string{"mode"},
	)

	LLMFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookbot_llm_failures_total",
			Help: "Total number of failed LLM generate calls, by mode and error code",
		},
		[]string{"mode", "error_code"},
	)

	SummaryCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookbot_summary_cache_hits_total",
			Help: "Summary cache lookups, by outcome (hit/miss)",
		},
		[]string{"outcome"},
	)
)
