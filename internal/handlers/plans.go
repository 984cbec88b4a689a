package handlers

import (
	"net/http"

	"fittrack/internal/database"
	"fittrack/internal/tracker"
)

// HandleListWorkoutPlans handles GET /api/workout-plans[?createdBy=]
func (a *API) HandleListWorkoutPlans(w http.ResponseWriter, r *http.Request) {
	var (
		plans []*database.WorkoutPlan
		err   error
	)
	if by := r.URL.Query().Get("createdBy"); by != "" {
		plans, err = a.svc.ListWorkoutPlansByCreator(r.Context(), by)
	} else {
		plans, err = a.svc.ListWorkoutPlans(r.Context())
	}
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusOK, plans)
}

// HandleCreateWorkoutPlan handles POST /api/workout-plans
func (a *API) HandleCreateWorkoutPlan(w http.ResponseWriter, r *http.Request) {
	var in tracker.WorkoutPlanInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, a.logger, err)
		return
	}

	p, err := a.svc.CreateWorkoutPlan(r.Context(), in)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusCreated, p)
}

// HandleGetWorkoutPlan handles GET /api/workout-plans/{id}
func (a *API) HandleGetWorkoutPlan(w http.ResponseWriter, r *http.Request) {
	p, err := a.svc.GetWorkoutPlan(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusOK, p)
}

// HandleUpdateWorkoutPlan handles PATCH /api/workout-plans/{id}
func (a *API) HandleUpdateWorkoutPlan(w http.ResponseWriter, r *http.Request) {
	var patch database.WorkoutPlanPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, a.logger, err)
		return
	}

	id := r.PathValue("id")
	if err := a.svc.UpdateWorkoutPlan(r.Context(), id, patch); err != nil {
		writeError(w, a.logger, err)
		return
	}

	p, err := a.svc.GetWorkoutPlan(r.Context(), id)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusOK, p)
}

// HandleDeleteWorkoutPlan handles DELETE /api/workout-plans/{id}
func (a *API) HandleDeleteWorkoutPlan(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.DeleteWorkoutPlan(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, a.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteAllWorkoutPlans handles DELETE /api/workout-plans
func (a *API) HandleDeleteAllWorkoutPlans(w http.ResponseWriter, r *http.Request) {
	n, err := a.svc.DeleteAllWorkoutPlans(r.Context())
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusOK, map[string]int64{"deleted": n})
}
