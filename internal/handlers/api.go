package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"fittrack/internal/assistant"
	"fittrack/internal/metrics"
	"fittrack/internal/middleware"
	"fittrack/internal/tracker"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// errBadRequest marks malformed requests that never reached the tracker
var errBadRequest = errors.New("bad request")

// API serves the tracker over JSON
type API struct {
	svc    *tracker.Service
	logger *slog.Logger
}

// NewAPI creates the tracker API handlers
func NewAPI(svc *tracker.Service) *API {
	return &API{
		svc:    svc,
		logger: slog.Default(),
	}
}

// Register adds every tracker route to mux
func (a *API) Register(mux *http.ServeMux) {
	handle := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.WrapHandler(endpoint, h))
	}

	handle("GET /api/exercise-logs", metrics.EndpointExerciseLogs, a.HandleListExerciseLogs)
	handle("POST /api/exercise-logs", metrics.EndpointExerciseLogs, a.HandleCreateExerciseLog)
	handle("GET /api/exercise-logs/{id}", metrics.EndpointExerciseLogs, a.HandleGetExerciseLog)
	handle("PATCH /api/exercise-logs/{id}", metrics.EndpointExerciseLogs, a.HandleUpdateExerciseLog)
	handle("DELETE /api/exercise-logs/{id}", metrics.EndpointExerciseLogs, a.HandleDeleteExerciseLog)
	handle("GET /api/exercise-logs/today/count", metrics.EndpointExerciseLogs, a.HandleTodayExerciseCount)

	handle("GET /api/meal-logs", metrics.EndpointMealLogs, a.HandleListMealLogs)
	handle("POST /api/meal-logs", metrics.EndpointMealLogs, a.HandleCreateMealLog)
	handle("GET /api/meal-logs/{id}", metrics.EndpointMealLogs, a.HandleGetMealLog)
	handle("PATCH /api/meal-logs/{id}", metrics.EndpointMealLogs, a.HandleUpdateMealLog)
	handle("DELETE /api/meal-logs/{id}", metrics.EndpointMealLogs, a.HandleDeleteMealLog)
	handle("GET /api/meal-logs/today/totals", metrics.EndpointMealLogs, a.HandleTodayMealTotals)

	handle("GET /api/daily-logs", metrics.EndpointDailyLogs, a.HandleListDailyLogs)
	handle("PUT /api/daily-logs", metrics.EndpointDailyLogs, a.HandleUpsertDailyLog)
	handle("PATCH /api/daily-logs/{id}", metrics.EndpointDailyLogs, a.HandleUpdateDailyLog)
	handle("POST /api/daily-logs/{date}/recalculate", metrics.EndpointDailyLogs, a.HandleRecalculate)
	handle("GET /api/daily-logs/{date}/progress", metrics.EndpointDailyLogs, a.HandleDailyProgress)

	handle("GET /api/stats/weekly", metrics.EndpointStats, a.HandleWeeklyStats)
	handle("GET /api/stats/history", metrics.EndpointStats, a.HandleProgressHistory)

	handle("GET /api/profile", metrics.EndpointProfile, a.HandleGetProfile)
	handle("POST /api/profile", metrics.EndpointProfile, a.HandleCreateProfile)
	handle("PATCH /api/profile", metrics.EndpointProfile, a.HandleUpdateProfile)
	handle("DELETE /api/profile", metrics.EndpointProfile, a.HandleDeleteProfile)
	handle("GET /api/profile/calorie-target", metrics.EndpointProfile, a.HandleSuggestCalorieTarget)

	handle("GET /api/workout-plans", metrics.EndpointWorkoutPlans, a.HandleListWorkoutPlans)
	handle("POST /api/workout-plans", metrics.EndpointWorkoutPlans, a.HandleCreateWorkoutPlan)
	handle("DELETE /api/workout-plans", metrics.EndpointWorkoutPlans, a.HandleDeleteAllWorkoutPlans)
	handle("GET /api/workout-plans/{id}", metrics.EndpointWorkoutPlans, a.HandleGetWorkoutPlan)
	handle("PATCH /api/workout-plans/{id}", metrics.EndpointWorkoutPlans, a.HandleUpdateWorkoutPlan)
	handle("DELETE /api/workout-plans/{id}", metrics.EndpointWorkoutPlans, a.HandleDeleteWorkoutPlan)
}

// writeJSON encodes v with the given status
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps err to a status code and writes {"error": ...}
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, tracker.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, tracker.ErrNotFound),
		errors.Is(err, tracker.ErrProfileNotFound),
		errors.Is(err, assistant.ErrThreadNotFound):
		status = http.StatusNotFound
	case errors.Is(err, tracker.ErrProfileExists):
		status = http.StatusConflict
	case errors.Is(err, assistant.ErrToolRoundsExceeded):
		status = http.StatusBadGateway
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		msg = "internal error"
	}
	writeJSON(w, logger, status, map[string]string{"error": msg})
}

// decodeJSON reads a JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}

// queryInt parses an optional positive integer query parameter
func queryInt(r *http.Request, name string) (int, bool, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false, fmt.Errorf("%w: %s must be a non-negative integer", errBadRequest, name)
	}
	return n, true, nil
}

// queryBool reports whether a flag query parameter is set to a true value
func queryBool(r *http.Request, name string) bool {
	query := r.URL.Query()
	if query.Has(name) && query.Get(name) == "" {
		return true
	}
	v, _ := strconv.ParseBool(query.Get(name))
	return v
}

// selection is the date filter shared by the list endpoints: exactly one of
// date, start+end or recent
type selection struct {
	date       string
	start, end string
	recent     int
	hasRecent  bool
}

func parseSelection(r *http.Request) (selection, error) {
	query := r.URL.Query()
	s := selection{
		date:  query.Get("date"),
		start: query.Get("start"),
		end:   query.Get("end"),
	}

	recent, ok, err := queryInt(r, "recent")
	if err != nil {
		return s, err
	}
	s.recent, s.hasRecent = recent, ok

	modes := 0
	if s.date != "" {
		modes++
	}
	if s.start != "" || s.end != "" {
		if s.start == "" || s.end == "" {
			return s, fmt.Errorf("%w: start and end must be given together", errBadRequest)
		}
		modes++
	}
	if s.hasRecent {
		modes++
	}
	if modes > 1 {
		return s, fmt.Errorf("%w: use only one of date, start/end or recent", errBadRequest)
	}
	return s, nil
}
