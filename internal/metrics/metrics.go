package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label value constants to prevent typos
const (
	// HTTP endpoints
	EndpointExerciseLogs = "exercise_logs"
	EndpointMealLogs     = "meal_logs"
	EndpointDailyLogs    = "daily_logs"
	EndpointStats        = "stats"
	EndpointProfile      = "profile"
	EndpointWorkoutPlans = "workout_plans"
	EndpointAssistant    = "assistant"
	EndpointHealth       = "health"

	// Recalculation results
	ResultSuccess = "success"
	ResultFailure = "failure"

	// Assistant turn outcomes
	OutcomeText      = "text"
	OutcomeComponent = "component"
	OutcomeError     = "error"
	OutcomeToolLimit = "tool_limit"

	// Reconciler poll outcomes
	OutcomeIdle       = "idle"
	OutcomeReconciled = "reconciled"

	// ExerciseDB operations
	OpByBodyPart  = "by_body_part"
	OpByEquipment = "by_equipment"

	// Database operations
	DBOpInsertExerciseLog = "insert_exercise_log"
	DBOpUpdateExerciseLog = "update_exercise_log"
	DBOpDeleteExerciseLog = "delete_exercise_log"
	DBOpListExerciseLogs  = "list_exercise_logs"
	DBOpInsertMealLog     = "insert_meal_log"
	DBOpUpdateMealLog     = "update_meal_log"
	DBOpDeleteMealLog     = "delete_meal_log"
	DBOpListMealLogs      = "list_meal_logs"
	DBOpUpsertDailyTotals = "upsert_daily_totals"
	DBOpUpsertDailyLog    = "upsert_daily_log"
	DBOpGetDailyLog       = "get_daily_log"
	DBOpListDailyLogs     = "list_daily_logs"
	DBOpGetUserProfile    = "get_user_profile"
	DBOpCreateUserProfile = "create_user_profile"
	DBOpUpdateUserProfile = "update_user_profile"
	DBOpInsertWorkoutPlan = "insert_workout_plan"
	DBOpListWorkoutPlans  = "list_workout_plans"
	DBOpListDriftedDates  = "list_drifted_dates"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint", "status_code"},
	)
)

// Aggregation Metrics
var (
	RecalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittrack_recalculations_total",
			Help: "Total number of daily log recalculations by result",
		},
		[]string{"result"},
	)

	RecalculationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fittrack_recalculation_duration_seconds",
			Help:    "Time spent recomputing one daily log",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	TableRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fittrack_table_rows",
			Help: "Number of rows per table",
		},
		[]string{"table"},
	)

	StaleDailyLogs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fittrack_stale_daily_logs",
			Help: "Daily logs whose totals disagree with their meal and exercise logs",
		},
	)

	UnsummarizedDates = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fittrack_unsummarized_dates",
			Help: "Dates with meal or exercise logs but no daily log",
		},
	)
)

// Reconciler Metrics
var (
	ReconcilerActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fittrack_reconciler_active",
			Help: "Whether the daily log reconciler is running (1) or not (0)",
		},
	)

	ReconcilerCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittrack_reconciler_cycles_total",
			Help: "Total number of reconciler poll cycles by outcome",
		},
		[]string{"outcome"},
	)

	ReconciledDatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fittrack_reconciled_dates_total",
			Help: "Total number of dates whose daily log the reconciler recomputed",
		},
	)
)

// Assistant Metrics
var (
	AssistantTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_turns_total",
			Help: "Total number of assistant turns by outcome",
		},
		[]string{"assistant", "outcome"},
	)

	AssistantToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_tool_calls_total",
			Help: "Total number of assistant tool invocations",
		},
		[]string{"assistant", "tool", "result"},
	)
)

// ExerciseDB API Metrics
var (
	ExerciseDBRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exercisedb_requests_total",
			Help: "Total number of ExerciseDB API requests",
		},
		[]string{"operation", "status_code"},
	)

	ExerciseDBRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "exercisedb_request_duration_seconds",
			Help:    "ExerciseDB API request latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"operation", "status_code"},
	)

	ExerciseDBRateLimitRemaining = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "exercisedb_rate_limit_remaining",
			Help: "Requests remaining in the current ExerciseDB quota",
		},
	)
)

// Database Metrics
var (
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Database operation latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)

	DBOperationErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_operation_errors_total",
			Help: "Total number of database operation errors",
		},
		[]string{"operation"},
	)
)
