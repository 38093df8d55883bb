package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsNamespace prefixes every domain counter and the HTTP middleware metrics
const MetricsNamespace = "excel_analyzer"

var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "uploads_total",
		Help:      "Spreadsheet uploads by result.",
	}, []string{"result"})

	summariesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "summaries_total",
		Help:      "Summary requests by source (cached, generated, error).",
	}, []string{"source"})

	exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "exports_total",
		Help:      "Chart exports by format.",
	}, []string{"format"})

	mirrorFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "mirror_failures_total",
		Help:      "Chart images that could not be copied to the object store.",
	})
)
