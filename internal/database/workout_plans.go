package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fittrack/internal/metrics"
)

// Plan authors
const (
	CreatedByButler  = "butler"
	CreatedByTrainer = "trainer"
)

// PlanExercise is one entry of a workout plan
type PlanExercise struct {
	ExerciseID  *string `json:"exerciseId,omitempty"`
	Name        string  `json:"name" validate:"required"`
	Sets        int     `json:"sets" validate:"min=1"`
	Reps        int     `json:"reps" validate:"min=1"`
	RestSeconds int     `json:"restSeconds" validate:"min=0"`
}

// WorkoutPlan is an ordered list of exercises authored by an assistant
type WorkoutPlan struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Exercises   []PlanExercise `json:"exercises"`
	CreatedBy   string         `json:"createdBy"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// WorkoutPlanPatch lists the plan fields that may be changed
type WorkoutPlanPatch struct {
	Name        Field[string]         `json:"name"`
	Description Field[string]         `json:"description"`
	Exercises   Field[[]PlanExercise] `json:"exercises"`
}

const workoutPlanColumns = `id, name, description, exercises_json, created_by, created_at`

func scanWorkoutPlan(s rowScanner) (*WorkoutPlan, error) {
	var p WorkoutPlan
	var exercisesJSON, createdAt string
	err := s.Scan(&p.ID, &p.Name, &p.Description, &exercisesJSON, &p.CreatedBy, &createdAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(exercisesJSON), &p.Exercises); err != nil {
		return nil, fmt.Errorf("failed to decode plan exercises: %w", err)
	}
	if p.Exercises == nil {
		p.Exercises = []PlanExercise{}
	}
	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}

func encodeExercises(exercises []PlanExercise) (string, error) {
	if exercises == nil {
		exercises = []PlanExercise{}
	}
	b, err := json.Marshal(exercises)
	if err != nil {
		return "", fmt.Errorf("failed to encode plan exercises: %w", err)
	}
	return string(b), nil
}

// InsertWorkoutPlan inserts a new plan, assigning its id and creation time
func (db *DB) InsertWorkoutPlan(ctx context.Context, p *WorkoutPlan) error {
	timer := observe(metrics.DBOpInsertWorkoutPlan)
	defer timer.ObserveDuration()

	exercisesJSON, err := encodeExercises(p.Exercises)
	if err != nil {
		return err
	}

	p.ID = newID()
	p.CreatedAt = time.Now().UTC()

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO workout_plans (`+workoutPlanColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, exercisesJSON, p.CreatedBy, formatTime(p.CreatedAt))
	if err != nil {
		return fail(metrics.DBOpInsertWorkoutPlan, "failed to insert workout plan", err)
	}
	return nil
}

// GetWorkoutPlan retrieves a plan by ID
func (db *DB) GetWorkoutPlan(ctx context.Context, id string) (*WorkoutPlan, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+workoutPlanColumns+` FROM workout_plans WHERE id = ?`, id)
	p, err := scanWorkoutPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workout plan: %w", err)
	}
	return p, nil
}

// ListWorkoutPlans returns all plans in insertion order. A non-empty
// createdBy restricts the result to one author.
func (db *DB) ListWorkoutPlans(ctx context.Context, createdBy string) ([]*WorkoutPlan, error) {
	timer := observe(metrics.DBOpListWorkoutPlans)
	defer timer.ObserveDuration()

	query := `SELECT ` + workoutPlanColumns + ` FROM workout_plans`
	var args []any
	if createdBy != "" {
		query += ` WHERE created_by = ?`
		args = append(args, createdBy)
	}
	query += ` ORDER BY seq ASC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fail(metrics.DBOpListWorkoutPlans, "failed to list workout plans", err)
	}
	defer rows.Close()

	plans := []*WorkoutPlan{}
	for rows.Next() {
		p, err := scanWorkoutPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workout plan: %w", err)
		}
		plans = append(plans, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workout plans: %w", err)
	}

	return plans, nil
}

// UpdateWorkoutPlan applies the fields present in the patch
func (db *DB) UpdateWorkoutPlan(ctx context.Context, id string, p WorkoutPlanPatch) error {
	var a assignments
	addField(&a, "name", p.Name)
	addField(&a, "description", p.Description)
	if exercises, ok := p.Exercises.Value(); ok {
		exercisesJSON, err := encodeExercises(exercises)
		if err != nil {
			return err
		}
		a.set("exercises_json", exercisesJSON)
	} else if p.Exercises.IsNull() {
		a.set("exercises_json", "[]")
	}

	if err := db.applyPatch(ctx, "workout_plans", id, &a); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to update workout plan: %w", err)
	}
	return nil
}

// DeleteWorkoutPlan removes a plan
func (db *DB) DeleteWorkoutPlan(ctx context.Context, id string) error {
	if err := db.deleteByID(ctx, "workout_plans", id); err != nil {
		return fmt.Errorf("failed to delete workout plan: %w", err)
	}
	return nil
}

// DeleteAllWorkoutPlans removes every plan and returns how many were removed
func (db *DB) DeleteAllWorkoutPlans(ctx context.Context) (int64, error) {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM workout_plans`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete workout plans: %w", err)
	}
	return result.RowsAffected()
}
