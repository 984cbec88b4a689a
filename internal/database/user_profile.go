package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fittrack/internal/metrics"
)

// Fitness goals accepted on a profile
const (
	GoalLoseWeight  = "lose_weight"
	GoalBuildMuscle = "build_muscle"
	GoalMaintain    = "maintain"
)

// UserProfile holds the single user's body stats and goal
type UserProfile struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Height             float64   `json:"height"`
	Weight             float64   `json:"weight"`
	Age                *int      `json:"age,omitempty"`
	FitnessGoal        string    `json:"fitnessGoal"`
	DailyCalorieTarget *int      `json:"dailyCalorieTarget,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// UserProfilePatch lists the profile fields that may be changed
type UserProfilePatch struct {
	Name               Field[string]  `json:"name"`
	Height             Field[float64] `json:"height"`
	Weight             Field[float64] `json:"weight"`
	Age                Field[int]     `json:"age"`
	FitnessGoal        Field[string]  `json:"fitnessGoal"`
	DailyCalorieTarget Field[int]     `json:"dailyCalorieTarget"`
}

const userProfileColumns = `id, name, height, weight, age, fitness_goal, daily_calorie_target, created_at, updated_at`

func scanUserProfile(s rowScanner) (*UserProfile, error) {
	var p UserProfile
	var createdAt, updatedAt string
	err := s.Scan(
		&p.ID, &p.Name, &p.Height, &p.Weight, &p.Age, &p.FitnessGoal,
		&p.DailyCalorieTarget, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

// GetUserProfile returns the profile, or nil when none has been created
func (db *DB) GetUserProfile(ctx context.Context) (*UserProfile, error) {
	timer := observe(metrics.DBOpGetUserProfile)
	defer timer.ObserveDuration()

	row := db.conn.QueryRowContext(ctx, `SELECT `+userProfileColumns+` FROM user_profile LIMIT 1`)
	p, err := scanUserProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fail(metrics.DBOpGetUserProfile, "failed to get user profile", err)
	}
	return p, nil
}

// CreateUserProfile inserts the profile. It returns ErrAlreadyExists when a
// profile row is already present; the check and insert share a transaction.
func (db *DB) CreateUserProfile(ctx context.Context, p *UserProfile) error {
	timer := observe(metrics.DBOpCreateUserProfile)
	defer timer.ObserveDuration()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fail(metrics.DBOpCreateUserProfile, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_profile`).Scan(&count); err != nil {
		return fail(metrics.DBOpCreateUserProfile, "failed to check user profile", err)
	}
	if count > 0 {
		return ErrAlreadyExists
	}

	now := time.Now().UTC()
	p.ID = newID()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_profile (`+userProfileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Height, p.Weight, p.Age, p.FitnessGoal,
		p.DailyCalorieTarget, formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return fail(metrics.DBOpCreateUserProfile, "failed to create user profile", err)
	}

	if err := tx.Commit(); err != nil {
		return fail(metrics.DBOpCreateUserProfile, "failed to commit transaction", err)
	}
	return nil
}

// UpdateUserProfile applies the fields present in the patch to the profile
// and refreshes updated_at. Returns ErrNotFound when no profile exists.
func (db *DB) UpdateUserProfile(ctx context.Context, p UserProfilePatch) (*UserProfile, error) {
	timer := observe(metrics.DBOpUpdateUserProfile)
	defer timer.ObserveDuration()

	current, err := db.GetUserProfile(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}

	var a assignments
	addField(&a, "name", p.Name)
	addField(&a, "height", p.Height)
	addField(&a, "weight", p.Weight)
	addField(&a, "age", p.Age)
	addField(&a, "fitness_goal", p.FitnessGoal)
	addField(&a, "daily_calorie_target", p.DailyCalorieTarget)
	a.set("updated_at", formatTime(time.Now().UTC()))

	if err := db.applyPatch(ctx, "user_profile", current.ID, &a); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fail(metrics.DBOpUpdateUserProfile, "failed to update user profile", err)
	}

	return db.GetUserProfile(ctx)
}

// DeleteUserProfile removes the profile if there is one
func (db *DB) DeleteUserProfile(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM user_profile`); err != nil {
		return fmt.Errorf("failed to delete user profile: %w", err)
	}
	return nil
}
