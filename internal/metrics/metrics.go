package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tallybot_commands_total",
		Help: "Commands dispatched, by top-level command and outcome.",
	}, []string{"command", "status"})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tallybot_rate_limited_total",
		Help: "Commands rejected by the per-actor rate limiter.",
	})

	StoreSavesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tallybot_store_saves_total",
		Help: "Store files successfully replaced on disk.",
	}, []string{"store"})

	StoreSaveErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tallybot_store_save_errors_total",
		Help: "Store saves that failed and were rolled back.",
	}, []string{"store"})

	RecordsTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tallybot_records_total",
		Help: "Records held in memory across all locations, by kind.",
	}, []string{"kind"})
)
