package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fittrack/internal/metrics"
)

// Meal types accepted for a meal log
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// MealLog represents one food eaten on a date
type MealLog struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	MealType  string    `json:"mealType"`
	FoodName  string    `json:"foodName"`
	Quantity  *string   `json:"quantity,omitempty"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Carbs     float64   `json:"carbs"`
	Fat       float64   `json:"fat"`
	Fiber     *float64  `json:"fiber,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// MealLogPatch lists the meal log fields that may be changed after creation
type MealLogPatch struct {
	FoodName Field[string]  `json:"foodName"`
	Quantity Field[string]  `json:"quantity"`
	Calories Field[float64] `json:"calories"`
	Protein  Field[float64] `json:"protein"`
	Carbs    Field[float64] `json:"carbs"`
	Fat      Field[float64] `json:"fat"`
	Fiber    Field[float64] `json:"fiber"`
	Notes    Field[string]  `json:"notes"`
}

const mealLogColumns = `id, date, meal_type, food_name, quantity, calories, protein, carbs, fat, fiber, notes, created_at`

func scanMealLog(s rowScanner) (*MealLog, error) {
	var m MealLog
	var createdAt string
	err := s.Scan(
		&m.ID, &m.Date, &m.MealType, &m.FoodName, &m.Quantity,
		&m.Calories, &m.Protein, &m.Carbs, &m.Fat, &m.Fiber, &m.Notes, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	m.CreatedAt = parseTime(createdAt)
	return &m, nil
}

// InsertMealLog inserts a new meal log, assigning its id and creation time
func (db *DB) InsertMealLog(ctx context.Context, m *MealLog) error {
	timer := observe(metrics.DBOpInsertMealLog)
	defer timer.ObserveDuration()

	m.ID = newID()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO meal_logs (`+mealLogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Date, m.MealType, m.FoodName, m.Quantity,
		m.Calories, m.Protein, m.Carbs, m.Fat, m.Fiber, m.Notes, formatTime(m.CreatedAt))

	if err != nil {
		return fail(metrics.DBOpInsertMealLog, "failed to insert meal log", err)
	}
	return nil
}

// GetMealLog retrieves a meal log by ID
func (db *DB) GetMealLog(ctx context.Context, id string) (*MealLog, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+mealLogColumns+` FROM meal_logs WHERE id = ?`, id)
	m, err := scanMealLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meal log: %w", err)
	}
	return m, nil
}

// UpdateMealLog applies the fields present in the patch
func (db *DB) UpdateMealLog(ctx context.Context, id string, p MealLogPatch) error {
	timer := observe(metrics.DBOpUpdateMealLog)
	defer timer.ObserveDuration()

	var a assignments
	addField(&a, "food_name", p.FoodName)
	addField(&a, "quantity", p.Quantity)
	addField(&a, "calories", p.Calories)
	addField(&a, "protein", p.Protein)
	addField(&a, "carbs", p.Carbs)
	addField(&a, "fat", p.Fat)
	addField(&a, "fiber", p.Fiber)
	addField(&a, "notes", p.Notes)

	if err := db.applyPatch(ctx, "meal_logs", id, &a); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fail(metrics.DBOpUpdateMealLog, "failed to update meal log", err)
	}
	return nil
}

// DeleteMealLog removes a meal log
func (db *DB) DeleteMealLog(ctx context.Context, id string) error {
	if err := db.deleteByID(ctx, "meal_logs", id); err != nil {
		return fail(metrics.DBOpDeleteMealLog, "failed to delete meal log", err)
	}
	return nil
}

// ListMealLogsByDate returns every meal log for a date in insertion order
func (db *DB) ListMealLogsByDate(ctx context.Context, date string) ([]*MealLog, error) {
	timer := observe(metrics.DBOpListMealLogs)
	defer timer.ObserveDuration()

	return db.queryMealLogs(ctx, `
		SELECT `+mealLogColumns+` FROM meal_logs
		WHERE date = ?
		ORDER BY seq ASC
	`, date)
}

// ListMealLogsInRange returns meal logs with start <= date <= end, ascending by date
func (db *DB) ListMealLogsInRange(ctx context.Context, start, end string) ([]*MealLog, error) {
	timer := observe(metrics.DBOpListMealLogs)
	defer timer.ObserveDuration()

	return db.queryMealLogs(ctx, `
		SELECT `+mealLogColumns+` FROM meal_logs
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC, seq ASC
	`, start, end)
}

// ListRecentMealLogs returns the most recently inserted meal logs, newest first
func (db *DB) ListRecentMealLogs(ctx context.Context, limit int) ([]*MealLog, error) {
	timer := observe(metrics.DBOpListMealLogs)
	defer timer.ObserveDuration()

	return db.queryMealLogs(ctx, `
		SELECT `+mealLogColumns+` FROM meal_logs
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
}

func (db *DB) queryMealLogs(ctx context.Context, query string, args ...any) ([]*MealLog, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fail(metrics.DBOpListMealLogs, "failed to list meal logs", err)
	}
	defer rows.Close()

	logs := []*MealLog{}
	for rows.Next() {
		m, err := scanMealLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal log: %w", err)
		}
		logs = append(logs, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meal logs: %w", err)
	}

	return logs, nil
}
