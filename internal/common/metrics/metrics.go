package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DocumentsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fiche_documents_generated_total",
			Help: "Total number of fiche documents generated",
		},
		[]string{"kind"},
	)

	DocumentsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fiche_documents_failed_total",
			Help: "Total number of fiche generations that failed",
		},
		[]string{"kind", "error_code"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "fiche_generation_duration_seconds",
			Help: "Duration of render+upload+persist per fiche in seconds",
		},
		[]string{"kind"},
	)

	WizardStepTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_step_transitions_total",
			Help: "Wizard navigation events by direction",
		},
		[]string{"direction"},
	)

	TranslationCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translation_cache_requests_total",
			Help: "Translation cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)
