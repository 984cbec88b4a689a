package handlers

import (
	"context"
	"net/http"

	"fittrack/internal/database"
	"fittrack/internal/tracker"
)

// HandleListExerciseLogs handles GET /api/exercise-logs
// Query parameters (at most one form):
//   - date: logs for one day
//   - start, end: logs in an inclusive range, unordered
//   - recent: newest N logs (default when nothing is given, N=10)
func (a *API) HandleListExerciseLogs(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	var logs []*database.ExerciseLog
	switch {
	case sel.date != "":
		logs, err = a.svc.ExerciseLogsByDate(r.Context(), sel.date)
	case sel.start != "":
		logs, err = a.svc.ExerciseLogsByRange(r.Context(), sel.start, sel.end)
	default:
		logs, err = a.svc.RecentExerciseLogs(r.Context(), sel.recent)
	}
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusOK, logs)
}

// HandleCreateExerciseLog handles POST /api/exercise-logs. The daily log is
// only refreshed when ?recalculate=true.
func (a *API) HandleCreateExerciseLog(w http.ResponseWriter, r *http.Request) {
	var in tracker.ExerciseLogInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, a.logger, err)
		return
	}

	e, err := a.svc.CreateExerciseLog(r.Context(), in)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	if err := a.maybeRecalculate(r, e.Date); err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusCreated, e)
}

// HandleGetExerciseLog handles GET /api/exercise-logs/{id}
func (a *API) HandleGetExerciseLog(w http.ResponseWriter, r *http.Request) {
	e, err := a.svc.GetExerciseLog(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusOK, e)
}

// HandleUpdateExerciseLog handles PATCH /api/exercise-logs/{id}
func (a *API) HandleUpdateExerciseLog(w http.ResponseWriter, r *http.Request) {
	var p database.ExerciseLogPatch
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, a.logger, err)
		return
	}

	id := r.PathValue("id")
	if err := a.svc.UpdateExerciseLog(r.Context(), id, p); err != nil {
		writeError(w, a.logger, err)
		return
	}

	e, err := a.svc.GetExerciseLog(r.Context(), id)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusOK, e)
}

// HandleDeleteExerciseLog handles DELETE /api/exercise-logs/{id}
func (a *API) HandleDeleteExerciseLog(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.DeleteExerciseLog(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, a.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTodayExerciseCount handles GET /api/exercise-logs/today/count
func (a *API) HandleTodayExerciseCount(w http.ResponseWriter, r *http.Request) {
	n, err := a.svc.TodayExerciseCount(r.Context())
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusOK, map[string]any{"date": a.svc.Today(), "count": n})
}

// HandleListMealLogs handles GET /api/meal-logs with the same query forms as
// the exercise list. Ranges are sorted by date.
func (a *API) HandleListMealLogs(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	var logs []*database.MealLog
	switch {
	case sel.date != "":
		logs, err = a.svc.MealLogsByDate(r.Context(), sel.date)
	case sel.start != "":
		logs, err = a.svc.MealLogsByRange(r.Context(), sel.start, sel.end)
	default:
		logs, err = a.svc.RecentMealLogs(r.Context(), sel.recent)
	}
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusOK, logs)
}

// HandleCreateMealLog handles POST /api/meal-logs
func (a *API) HandleCreateMealLog(w http.ResponseWriter, r *http.Request) {
	var in tracker.MealLogInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, a.logger, err)
		return
	}

	m, err := a.svc.CreateMealLog(r.Context(), in)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	if err := a.maybeRecalculate(r, m.Date); err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusCreated, m)
}

// HandleGetMealLog handles GET /api/meal-logs/{id}
func (a *API) HandleGetMealLog(w http.ResponseWriter, r *http.Request) {
	m, err := a.svc.GetMealLog(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusOK, m)
}

// HandleUpdateMealLog handles PATCH /api/meal-logs/{id}
func (a *API) HandleUpdateMealLog(w http.ResponseWriter, r *http.Request) {
	var p database.MealLogPatch
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, a.logger, err)
		return
	}

	id := r.PathValue("id")
	if err := a.svc.UpdateMealLog(r.Context(), id, p); err != nil {
		writeError(w, a.logger, err)
		return
	}

	m, err := a.svc.GetMealLog(r.Context(), id)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusOK, m)
}

// HandleDeleteMealLog handles DELETE /api/meal-logs/{id}
func (a *API) HandleDeleteMealLog(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.DeleteMealLog(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, a.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTodayMealTotals handles GET /api/meal-logs/today/totals
func (a *API) HandleTodayMealTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := a.svc.TodayMealTotals(r.Context())
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusOK, totals)
}

func (a *API) maybeRecalculate(r *http.Request, date string) error {
	if !queryBool(r, "recalculate") {
		return nil
	}
	_, err := a.svc.Recalculate(context.WithoutCancel(r.Context()), date)
	return err
}
