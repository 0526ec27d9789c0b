package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScheduleBuilds counts schedule computations by source (contract, preview, scan) and outcome.
	ScheduleBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_builds_total",
			Help: "Schedule computations by source and status",
		},
		[]string{"source", "status"},
	)

	// ScheduleBuildDuration measures the engine run, excluding I/O.
	ScheduleBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "schedule_build_duration_seconds",
			Help:    "Time spent reconciling one schedule",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"source"},
	)

	// ScheduleDiagnostics counts input anomalies the engine worked around.
	ScheduleDiagnostics = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_diagnostics_total",
			Help: "Input anomalies reported while building schedules",
		},
		[]string{"kind"},
	)

	// CacheLookups counts schedule cache lookups by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_cache_lookups_total",
			Help: "Schedule cache lookups by result",
		},
		[]string{"result"},
	)

	// OverdueSlots is the number of unpaid slots past due found by the last delinquency scan.
	OverdueSlots = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "schedule_overdue_slots",
			Help: "Unpaid past-due slots across active contracts at the last scan",
		},
	)

	// OverdueContracts is the number of active contracts with at least one overdue slot.
	OverdueContracts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "schedule_overdue_contracts",
			Help: "Active contracts with overdue slots at the last scan",
		},
	)
)
