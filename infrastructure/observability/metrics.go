package observability

import (
	"net/http"
	"time"

	"hoopsleague/domain/entities"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service holds every Prometheus metric of the league service
type Service struct {
	Operations           *prometheus.CounterVec
	OperationDuration    *prometheus.HistogramVec
	SchedulerRuns        prometheus.Counter
	SchedulerRunDuration prometheus.Histogram
	SchedulerActions     *prometheus.CounterVec
	SchedulerFailures    prometheus.Counter
	BalanceChanges       *prometheus.CounterVec
	NotificationsSent    prometheus.Counter
	NotificationsFailed  prometheus.Counter
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: OperationsTotal,
			Help: "Admin operations by outcome.",
		}, []string{LabelOperation, LabelOutcome}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    OperationDuration,
			Help:    "Duration of admin operations including the database transaction.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{LabelOperation}),
		SchedulerRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: SchedulerRunsTotal,
			Help: "The total number of completed scheduler ticks.",
		}),
		SchedulerRunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    SchedulerRunDuration,
			Help:    "The duration of scheduler ticks.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),
		SchedulerActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: SchedulerActionsTotal,
			Help: "Work done by the scheduler.",
		}, []string{LabelAction}),
		SchedulerFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: SchedulerFailuresTotal,
			Help: "Scheduler items that failed and were left for the next tick.",
		}),
		BalanceChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: BalanceChangesTotal,
			Help: "Committed account balance changes by transaction type.",
		}, []string{LabelType}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: NotificationsSentTotal,
			Help: "Notifications delivered to the sink.",
		}),
		NotificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: NotificationsFailedTotal,
			Help: "Notifications the sink failed to deliver.",
		}),
	}

	reg.MustRegister(
		s.Operations,
		s.OperationDuration,
		s.SchedulerRuns,
		s.SchedulerRunDuration,
		s.SchedulerActions,
		s.SchedulerFailures,
		s.BalanceChanges,
		s.NotificationsSent,
		s.NotificationsFailed,
	)

	return s
}

// ObserveOperation records one admin operation
func (s *Service) ObserveOperation(operation, outcome string, duration time.Duration) {
	s.Operations.WithLabelValues(operation, outcome).Inc()
	s.OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveSchedulerRun records one scheduler tick
func (s *Service) ObserveSchedulerRun(summary entities.SchedulerRunSummary, duration time.Duration) {
	s.SchedulerRuns.Inc()
	s.SchedulerRunDuration.Observe(duration.Seconds())
	s.SchedulerActions.WithLabelValues("promoted_to_ongoing").Add(float64(summary.PromotedToOngoing))
	s.SchedulerActions.WithLabelValues("promoted_to_completed").Add(float64(summary.PromotedToCompleted))
	s.SchedulerActions.WithLabelValues("standings_applied").Add(float64(summary.StandingsApplied))
	s.SchedulerActions.WithLabelValues("playoff_slots_filled").Add(float64(summary.PlayoffSlotsFilled))
	s.SchedulerActions.WithLabelValues("lineups_filled").Add(float64(summary.LineupsFilled))
	s.SchedulerFailures.Add(float64(summary.Failures))
}

// IncBalanceChange counts a committed balance change
func (s *Service) IncBalanceChange(transactionType entities.TransactionType) {
	s.BalanceChanges.WithLabelValues(string(transactionType)).Inc()
}

func (s *Service) IncNotificationSent() {
	s.NotificationsSent.Inc()
}

func (s *Service) IncNotificationFailed() {
	s.NotificationsFailed.Inc()
}
