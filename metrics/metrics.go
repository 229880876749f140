// Package metrics defines the Prometheus instrumentation for the pipeline.
// The CLI is batch-oriented, so metrics are primarily gathered for run
// summaries; collectors register on the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VersesProcessed counts verses handled per pipeline phase.
	VersesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scriptorium_verses_processed_total",
		Help: "Verses processed, labeled by pipeline phase.",
	}, []string{"phase"})

	// VersesChanged counts verses whose text was modified by a phase.
	VersesChanged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scriptorium_verses_changed_total",
		Help: "Verses changed, labeled by pipeline phase.",
	}, []string{"phase"})

	// ImportSkips counts verse ids an importer could not place in the canon.
	ImportSkips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scriptorium_import_skips_total",
		Help: "Verse ids skipped during import, labeled by edition.",
	}, []string{"edition"})

	// GuardBlocks counts polish revisions rejected by the drift guard.
	GuardBlocks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scriptorium_guard_blocks_total",
		Help: "Polish revisions rejected by the meaning-drift guard, by reason.",
	}, []string{"reason"})

	// RuleApplications counts deterministic style rule hits.
	RuleApplications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scriptorium_rule_applications_total",
		Help: "Deterministic enforcement rule applications, by rule.",
	}, []string{"rule"})

	// LLMRequests counts completion attempts by provider and outcome.
	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scriptorium_llm_requests_total",
		Help: "LLM completion attempts, labeled by provider and outcome.",
	}, []string{"provider", "outcome"})

	// LLMRetries counts retry attempts across all endpoints.
	LLMRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scriptorium_llm_retries_total",
		Help: "LLM request retries.",
	})

	// LLMFallbacks counts fallback transitions between endpoints.
	LLMFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scriptorium_llm_fallbacks_total",
		Help: "LLM endpoint fallbacks.",
	})

	// LLMDuration observes end-to-end completion latency.
	LLMDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scriptorium_llm_request_duration_seconds",
		Help:    "LLM completion latency including retries and fallbacks.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	})
)
