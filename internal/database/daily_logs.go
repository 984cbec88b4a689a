package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fittrack/internal/metrics"
)

// DailyLog is the cached per-date summary of meal and exercise logs
type DailyLog struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	TotalCalories float64 `json:"totalCalories"`
	TotalProtein  float64 `json:"totalProtein"`
	TotalCarbs    float64 `json:"totalCarbs"`
	TotalFat      float64 `json:"totalFat"`
	ExerciseCount int     `json:"exerciseCount"`
	Notes         *string `json:"notes,omitempty"`
}

// DailyTotals holds the derived columns of a daily log
type DailyTotals struct {
	Calories      float64
	Protein       float64
	Carbs         float64
	Fat           float64
	ExerciseCount int
}

// DailyLogPatch lists the daily log fields that may be edited by hand
type DailyLogPatch struct {
	TotalCalories Field[float64] `json:"totalCalories"`
	TotalProtein  Field[float64] `json:"totalProtein"`
	TotalCarbs    Field[float64] `json:"totalCarbs"`
	TotalFat      Field[float64] `json:"totalFat"`
	ExerciseCount Field[int]     `json:"exerciseCount"`
	Notes         Field[string]  `json:"notes"`
}

const dailyLogColumns = `id, date, total_calories, total_protein, total_carbs, total_fat, exercise_count, notes`

func scanDailyLog(s rowScanner) (*DailyLog, error) {
	var d DailyLog
	err := s.Scan(
		&d.ID, &d.Date, &d.TotalCalories, &d.TotalProtein, &d.TotalCarbs,
		&d.TotalFat, &d.ExerciseCount, &d.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// UpsertDailyTotals writes the derived totals for a date in one statement.
// An existing row keeps its id and notes; a new row is created without notes.
// Returns the id of the row written.
func (db *DB) UpsertDailyTotals(ctx context.Context, date string, t DailyTotals) (string, error) {
	timer := observe(metrics.DBOpUpsertDailyTotals)
	defer timer.ObserveDuration()

	var id string
	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO daily_logs (
			id, date, total_calories, total_protein, total_carbs, total_fat, exercise_count
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			total_calories = excluded.total_calories,
			total_protein = excluded.total_protein,
			total_carbs = excluded.total_carbs,
			total_fat = excluded.total_fat,
			exercise_count = excluded.exercise_count
		RETURNING id
	`, newID(), date, t.Calories, t.Protein, t.Carbs, t.Fat, t.ExerciseCount).Scan(&id)

	if err != nil {
		return "", fail(metrics.DBOpUpsertDailyTotals, "failed to upsert daily totals", err)
	}
	return id, nil
}

// UpsertDailyLog writes a full daily log keyed by date. A nil Notes keeps
// whatever notes an existing row has.
func (db *DB) UpsertDailyLog(ctx context.Context, d *DailyLog) error {
	timer := observe(metrics.DBOpUpsertDailyLog)
	defer timer.ObserveDuration()

	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO daily_logs (`+dailyLogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			total_calories = excluded.total_calories,
			total_protein = excluded.total_protein,
			total_carbs = excluded.total_carbs,
			total_fat = excluded.total_fat,
			exercise_count = excluded.exercise_count,
			notes = COALESCE(excluded.notes, daily_logs.notes)
		RETURNING id, notes
	`, newID(), d.Date, d.TotalCalories, d.TotalProtein, d.TotalCarbs,
		d.TotalFat, d.ExerciseCount, d.Notes).Scan(&d.ID, &d.Notes)

	if err != nil {
		return fail(metrics.DBOpUpsertDailyLog, "failed to upsert daily log", err)
	}
	return nil
}

// UpdateDailyLog applies the fields present in the patch
func (db *DB) UpdateDailyLog(ctx context.Context, id string, p DailyLogPatch) error {
	var a assignments
	addField(&a, "total_calories", p.TotalCalories)
	addField(&a, "total_protein", p.TotalProtein)
	addField(&a, "total_carbs", p.TotalCarbs)
	addField(&a, "total_fat", p.TotalFat)
	addField(&a, "exercise_count", p.ExerciseCount)
	addField(&a, "notes", p.Notes)

	if err := db.applyPatch(ctx, "daily_logs", id, &a); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fail(metrics.DBOpUpsertDailyLog, "failed to update daily log", err)
	}
	return nil
}

// GetDailyLog retrieves a daily log by ID
func (db *DB) GetDailyLog(ctx context.Context, id string) (*DailyLog, error) {
	return db.getDailyLog(ctx, `SELECT `+dailyLogColumns+` FROM daily_logs WHERE id = ?`, id)
}

// GetDailyLogByDate retrieves the daily log for a date
func (db *DB) GetDailyLogByDate(ctx context.Context, date string) (*DailyLog, error) {
	return db.getDailyLog(ctx, `SELECT `+dailyLogColumns+` FROM daily_logs WHERE date = ?`, date)
}

func (db *DB) getDailyLog(ctx context.Context, query, arg string) (*DailyLog, error) {
	timer := observe(metrics.DBOpGetDailyLog)
	defer timer.ObserveDuration()

	d, err := scanDailyLog(db.conn.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fail(metrics.DBOpGetDailyLog, "failed to get daily log", err)
	}
	return d, nil
}

// ListDailyLogsInRange returns daily logs with start <= date <= end, ascending by date
func (db *DB) ListDailyLogsInRange(ctx context.Context, start, end string) ([]*DailyLog, error) {
	timer := observe(metrics.DBOpListDailyLogs)
	defer timer.ObserveDuration()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+dailyLogColumns+` FROM daily_logs
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC
	`, start, end)
	if err != nil {
		return nil, fail(metrics.DBOpListDailyLogs, "failed to list daily logs", err)
	}
	defer rows.Close()

	logs := []*DailyLog{}
	for rows.Next() {
		d, err := scanDailyLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily log: %w", err)
		}
		logs = append(logs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily logs: %w", err)
	}

	return logs, nil
}
