package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	textbookLearner = "textbook_learner"

	// Pipeline metrics
	pipelineStageDuration = "pipeline_stage_duration_seconds"
	pipelineStageFailures = "pipeline_stage_failures_total"
	processingRunsTotal   = "processing_runs_total"

	// Labels
	stageLabel   = "stage"
	outcomeLabel = "outcome"
)

// Processing run outcomes.
const (
	RunOutcomeCompleted   = "completed"
	RunOutcomeFailed      = "failed"
	RunOutcomeUnavailable = "unavailable"
)

var pipelineStageDurationMetric = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Subsystem: textbookLearner,
		Name:      pipelineStageDuration,
		Help:      "duration of external pipeline stage calls",
		Buckets:   []float64{1, 5, 15, 60, 300, 900},
	},
	[]string{stageLabel},
)

var pipelineStageFailuresMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: textbookLearner,
		Name:      pipelineStageFailures,
		Help:      "number of failed external pipeline stage calls",
	},
	[]string{stageLabel},
)

var processingRunsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: textbookLearner,
		Name:      processingRunsTotal,
		Help:      "number of orchestrated pipeline runs by outcome",
	},
	[]string{outcomeLabel},
)

func ObservePipelineStageDuration(stage string, d time.Duration) {
	pipelineStageDurationMetric.With(prometheus.Labels{stageLabel: stage}).Observe(d.Seconds())
}

func IncreasePipelineStageFailures(stage string) {
	pipelineStageFailuresMetric.With(prometheus.Labels{stageLabel: stage}).Inc()
}

func IncreaseProcessingRuns(outcome string) {
	processingRunsTotalMetric.With(prometheus.Labels{outcomeLabel: outcome}).Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(pipelineStageDurationMetric)
	prometheus.MustRegister(pipelineStageFailuresMetric)
	prometheus.MustRegister(processingRunsTotalMetric)
}
