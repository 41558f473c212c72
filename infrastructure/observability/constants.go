package observability

// Metric name prefixes
const (
	MetricPrefix = "hoopsleague"
)

// Metric names
const (
	// Admin operations
	OperationsTotal   = MetricPrefix + "_operations_total"
	OperationDuration = MetricPrefix + "_operation_duration_seconds"

	// Scheduler
	SchedulerRunsTotal     = MetricPrefix + "_scheduler_runs_total"
	SchedulerRunDuration   = MetricPrefix + "_scheduler_run_duration_seconds"
	SchedulerActionsTotal  = MetricPrefix + "_scheduler_actions_total"
	SchedulerFailuresTotal = MetricPrefix + "_scheduler_failures_total"

	// Ledger
	BalanceChangesTotal = MetricPrefix + "_balance_changes_total"

	// Notifications
	NotificationsSentTotal   = MetricPrefix + "_notifications_sent_total"
	NotificationsFailedTotal = MetricPrefix + "_notifications_failed_total"
)

// Label keys
const (
	LabelOperation = "operation"
	LabelOutcome   = "outcome"
	LabelAction    = "action"
	LabelType      = "type"
)
