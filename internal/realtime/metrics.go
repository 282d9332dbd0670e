package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	publishedCounter = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "realtime_events_published_total",
			Help: "Number of realtime events published, differentiated by event type.",
		},
		[]string{"type"},
	)

	deliveredCounter = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "realtime_events_delivered_total",
			Help: "Number of realtime events delivered to in-process subscribers, differentiated by event type.",
		},
		[]string{"type"},
	)
)
