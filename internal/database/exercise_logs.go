package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fittrack/internal/metrics"
)

// ExerciseLog represents one exercise performed on a date
type ExerciseLog struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	ExerciseID   *string   `json:"exerciseId,omitempty"`
	ExerciseName string    `json:"exerciseName"`
	Sets         int       `json:"sets"`
	Reps         int       `json:"reps"`
	Weight       *float64  `json:"weight,omitempty"`
	Duration     *float64  `json:"duration,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ExerciseLogPatch lists the exercise log fields that may be changed after creation
type ExerciseLogPatch struct {
	Sets     Field[int]     `json:"sets"`
	Reps     Field[int]     `json:"reps"`
	Weight   Field[float64] `json:"weight"`
	Duration Field[float64] `json:"duration"`
	Notes    Field[string]  `json:"notes"`
}

const exerciseLogColumns = `id, date, exercise_id, exercise_name, sets, reps, weight, duration, notes, created_at`

func scanExerciseLog(s rowScanner) (*ExerciseLog, error) {
	var e ExerciseLog
	var createdAt string
	err := s.Scan(
		&e.ID, &e.Date, &e.ExerciseID, &e.ExerciseName, &e.Sets, &e.Reps,
		&e.Weight, &e.Duration, &e.Notes, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = parseTime(createdAt)
	return &e, nil
}

// InsertExerciseLog inserts a new exercise log, assigning its id and creation time
func (db *DB) InsertExerciseLog(ctx context.Context, e *ExerciseLog) error {
	timer := observe(metrics.DBOpInsertExerciseLog)
	defer timer.ObserveDuration()

	e.ID = newID()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO exercise_logs (`+exerciseLogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Date, e.ExerciseID, e.ExerciseName, e.Sets, e.Reps,
		e.Weight, e.Duration, e.Notes, formatTime(e.CreatedAt))

	if err != nil {
		return fail(metrics.DBOpInsertExerciseLog, "failed to insert exercise log", err)
	}
	return nil
}

// GetExerciseLog retrieves an exercise log by ID
func (db *DB) GetExerciseLog(ctx context.Context, id string) (*ExerciseLog, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+exerciseLogColumns+` FROM exercise_logs WHERE id = ?`, id)
	e, err := scanExerciseLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exercise log: %w", err)
	}
	return e, nil
}

// UpdateExerciseLog applies the fields present in the patch
func (db *DB) UpdateExerciseLog(ctx context.Context, id string, p ExerciseLogPatch) error {
	timer := observe(metrics.DBOpUpdateExerciseLog)
	defer timer.ObserveDuration()

	var a assignments
	addField(&a, "sets", p.Sets)
	addField(&a, "reps", p.Reps)
	addField(&a, "weight", p.Weight)
	addField(&a, "duration", p.Duration)
	addField(&a, "notes", p.Notes)

	if err := db.applyPatch(ctx, "exercise_logs", id, &a); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fail(metrics.DBOpUpdateExerciseLog, "failed to update exercise log", err)
	}
	return nil
}

// DeleteExerciseLog removes an exercise log
func (db *DB) DeleteExerciseLog(ctx context.Context, id string) error {
	if err := db.deleteByID(ctx, "exercise_logs", id); err != nil {
		return fail(metrics.DBOpDeleteExerciseLog, "failed to delete exercise log", err)
	}
	return nil
}

// ListExerciseLogsByDate returns every exercise log for a date in insertion order
func (db *DB) ListExerciseLogsByDate(ctx context.Context, date string) ([]*ExerciseLog, error) {
	timer := observe(metrics.DBOpListExerciseLogs)
	defer timer.ObserveDuration()

	return db.queryExerciseLogs(ctx, `
		SELECT `+exerciseLogColumns+` FROM exercise_logs
		WHERE date = ?
		ORDER BY seq ASC
	`, date)
}

// ListExerciseLogsInRange returns exercise logs with start <= date <= end.
// No ordering is applied; rows come back in whatever order the index scan yields.
func (db *DB) ListExerciseLogsInRange(ctx context.Context, start, end string) ([]*ExerciseLog, error) {
	timer := observe(metrics.DBOpListExerciseLogs)
	defer timer.ObserveDuration()

	return db.queryExerciseLogs(ctx, `
		SELECT `+exerciseLogColumns+` FROM exercise_logs
		WHERE date >= ? AND date <= ?
	`, start, end)
}

// ListRecentExerciseLogs returns the most recently inserted exercise logs, newest first
func (db *DB) ListRecentExerciseLogs(ctx context.Context, limit int) ([]*ExerciseLog, error) {
	timer := observe(metrics.DBOpListExerciseLogs)
	defer timer.ObserveDuration()

	return db.queryExerciseLogs(ctx, `
		SELECT `+exerciseLogColumns+` FROM exercise_logs
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
}

// CountExerciseLogsByDate returns how many exercises were logged on a date
func (db *DB) CountExerciseLogsByDate(ctx context.Context, date string) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM exercise_logs WHERE date = ?`, date).Scan(&count)
	if err != nil {
		return 0, fail(metrics.DBOpListExerciseLogs, "failed to count exercise logs", err)
	}
	return count, nil
}

func (db *DB) queryExerciseLogs(ctx context.Context, query string, args ...any) ([]*ExerciseLog, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fail(metrics.DBOpListExerciseLogs, "failed to list exercise logs", err)
	}
	defer rows.Close()

	logs := []*ExerciseLog{}
	for rows.Next() {
		e, err := scanExerciseLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exercise log: %w", err)
		}
		logs = append(logs, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exercise logs: %w", err)
	}

	return logs, nil
}
