package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

var (
	// assignmentsTotal: назначения в слоты по результату
	assignmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "standings_assignments_total",
		Help: "Slot assignments by outcome",
	}, []string{"outcome"})

	retractionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "standings_retractions_total",
		Help: "Slots cleared by retraction",
	})

	// remoteOperationsTotal: вызовы load/generate/save
	remoteOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "standings_remote_operations_total",
		Help: "Standings backend operations by operation and outcome",
	}, []string{"operation", "outcome"})

	tournamentsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "standings_tournaments_completed_total",
		Help: "Tournaments whose final round got a single winner",
	})
)
