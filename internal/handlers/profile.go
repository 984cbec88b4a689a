package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"fittrack/internal/database"
	"fittrack/internal/tracker"
)

// HandleGetProfile handles GET /api/profile. An absent profile is null.
func (a *API) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := a.svc.GetProfile(r.Context())
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusOK, p)
}

// HandleCreateProfile handles POST /api/profile, 409 when one exists
func (a *API) HandleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var in tracker.ProfileInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, a.logger, err)
		return
	}

	p, err := a.svc.CreateProfile(r.Context(), in)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusCreated, p)
}

// HandleUpdateProfile handles PATCH /api/profile, 404 when absent
func (a *API) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch database.UserProfilePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, a.logger, err)
		return
	}

	p, err := a.svc.UpdateProfile(r.Context(), patch)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusOK, p)
}

// HandleDeleteProfile handles DELETE /api/profile
func (a *API) HandleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.RemoveProfile(r.Context()); err != nil {
		writeError(w, a.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSuggestCalorieTarget handles GET /api/profile/calorie-target?goal=&weight=
func (a *API) HandleSuggestCalorieTarget(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	weight, err := strconv.ParseFloat(query.Get("weight"), 64)
	if err != nil || weight <= 0 {
		writeError(w, a.logger, fmt.Errorf("%w: weight must be a positive number", errBadRequest))
		return
	}

	goal := query.Get("goal")
	switch goal {
	case database.GoalLoseWeight, database.GoalBuildMuscle, database.GoalMaintain:
	default:
		writeError(w, a.logger, fmt.Errorf("%w: goal must be one of lose_weight, build_muscle, maintain", errBadRequest))
		return
	}

	writeJSON(w, a.logger, http.StatusOK, map[string]any{
		"goal":               goal,
		"weight":             weight,
		"dailyCalorieTarget": tracker.SuggestCalorieTarget(goal, weight),
	})
}
