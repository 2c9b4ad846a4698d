package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	deliverySent    = "sent"
	deliverySkipped = "skipped"
	deliveryError   = "error"
)

var (
	cyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "urlreporter_cycles_total",
		Help: "Report cycles started, by cycle.",
	}, []string{"cycle"})
	deliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "urlreporter_deliveries_total",
		Help: "Report deliveries by cycle and result.",
	}, []string{"cycle", "result"})
	cycleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "urlreporter_cycle_duration_seconds",
		Help:    "Time spent checking and delivering one cycle.",
		Buckets: prometheus.DefBuckets,
	}, []string{"cycle"})
)
