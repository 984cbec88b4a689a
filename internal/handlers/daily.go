package handlers

import (
	"net/http"

	"fittrack/internal/database"
	"fittrack/internal/tracker"
)

// HandleListDailyLogs handles GET /api/daily-logs. With no query it returns
// the last 7 days.
func (a *API) HandleListDailyLogs(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	if sel.date != "" {
		d, err := a.svc.DailyLogByDate(r.Context(), sel.date)
		if err != nil {
			writeError(w, a.logger, err)
			return
		}
		writeJSON(w, a.logger, http.StatusOK, d)
		return
	}

	var logs []*database.DailyLog
	if sel.start != "" {
		logs, err = a.svc.DailyLogsByRange(r.Context(), sel.start, sel.end)
	} else {
		logs, err = a.svc.RecentDailyLogs(r.Context(), sel.recent)
	}
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusOK, logs)
}

// HandleUpsertDailyLog handles PUT /api/daily-logs
func (a *API) HandleUpsertDailyLog(w http.ResponseWriter, r *http.Request) {
	var in tracker.DailyLogInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, a.logger, err)
		return
	}

	d, err := a.svc.UpsertDailyLog(r.Context(), in)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusOK, d)
}

// HandleUpdateDailyLog handles PATCH /api/daily-logs/{id}
func (a *API) HandleUpdateDailyLog(w http.ResponseWriter, r *http.Request) {
	var p database.DailyLogPatch
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, a.logger, err)
		return
	}

	if err := a.svc.UpdateDailyLog(r.Context(), r.PathValue("id"), p); err != nil {
		writeError(w, a.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRecalculate handles POST /api/daily-logs/{date}/recalculate and
// returns the refreshed daily log
func (a *API) HandleRecalculate(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if _, err := a.svc.Recalculate(r.Context(), date); err != nil {
		writeError(w, a.logger, err)
		return
	}

	d, err := a.svc.DailyLogByDate(r.Context(), date)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusOK, d)
}

// HandleDailyProgress handles GET /api/daily-logs/{date}/progress. The date
// "today" is resolved in the configured time zone.
func (a *API) HandleDailyProgress(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if date == "today" {
		date = a.svc.Today()
	}

	p, err := a.svc.DailyProgress(r.Context(), date)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusOK, p)
}

// HandleWeeklyStats handles GET /api/stats/weekly
func (a *API) HandleWeeklyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.svc.WeeklyStats(r.Context())
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusOK, stats)
}

// HandleProgressHistory handles GET /api/stats/history?days=N
func (a *API) HandleProgressHistory(w http.ResponseWriter, r *http.Request) {
	days, _, err := queryInt(r, "days")
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	h, err := a.svc.ProgressHistory(r.Context(), days)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, a.logger, http.StatusOK, h)
}
