package variants

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "content_variant_resolutions_total",
		Help: "Variant resolutions by outcome (cache_hit, selected, no_variants, backend_error, unconfigured)",
	}, []string{"outcome"})

	telemetryEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "content_variant_telemetry_events_total",
		Help: "Variant telemetry events by type and result (queued, dropped, recorded, failed)",
	}, []string{"type", "result"})

	sessionsSweptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "content_variant_sessions_swept_total",
		Help: "Idle in-process variant sessions removed by the janitor",
	})
)
