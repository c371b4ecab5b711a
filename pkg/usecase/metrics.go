package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "themis",
		Name:      "register_mutations_total",
		Help:      "Number of mutations applied to the risk and document collections.",
	}, []string{"collection", "op", "result"})

	persistTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "themis",
		Name:      "register_persist_total",
		Help:      "Number of attempts to persist both collections.",
	}, []string{"result"})

	loadFallbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "themis",
		Name:      "register_load_fallback_total",
		Help:      "Number of collections replaced by the seed dataset on load.",
	}, []string{"collection", "reason"})

	analysisTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "themis",
		Name:      "analysis_runs_total",
		Help:      "Number of narrative analysis runs by outcome.",
	}, []string{"outcome"})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "themis",
		Name:      "analysis_duration_seconds",
		Help:      "Latency of the completion service call.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
	})

	registerSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "themis",
		Name:      "register_records",
		Help:      "Number of records held in each collection.",
	}, []string{"collection"})
)

const (
	collectionRisks     = "risks"
	collectionDocuments = "documents"
)
