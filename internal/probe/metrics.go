package probe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultUp      = "up"
	resultDown    = "down"
	resultSkipped = "skipped"
)

var (
	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "urlreporter_checks_total",
		Help: "URL checks by outcome.",
	}, []string{"result"})
	checkDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "urlreporter_check_duration_seconds",
		Help:    "Duration of single URL checks that issued a request.",
		Buckets: prometheus.DefBuckets,
	})
)
