// Package tracker holds the fitness data core: log writers, the daily
// aggregation engine, read projections and the profile singleton.
//
// DailyLog rows are a cache over meal and exercise logs. Writers never
// refresh them implicitly; callers that need current totals invoke
// Recalculate after mutating a log.
package tracker

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"fittrack/internal/database"
)

// DateLayout is the format of every date key
const DateLayout = "2006-01-02"

const (
	defaultRecentLimit   = 10
	defaultRecentDays    = 7
	defaultCalorieTarget = 2000
)

var (
	// ErrNotFound is returned when an update addresses a missing record
	ErrNotFound = database.ErrNotFound

	// ErrInvalidInput is returned when input fails validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrProfileExists is returned when creating a second profile
	ErrProfileExists = errors.New("profile already exists, use update instead")

	// ErrProfileNotFound is returned when updating before a profile exists
	ErrProfileNotFound = errors.New("no profile found, create one first")
)

// Store is the record store the tracker reads and writes.
// *database.DB implements it.
type Store interface {
	InsertExerciseLog(ctx context.Context, e *database.ExerciseLog) error
	GetExerciseLog(ctx context.Context, id string) (*database.ExerciseLog, error)
	UpdateExerciseLog(ctx context.Context, id string, p database.ExerciseLogPatch) error
	DeleteExerciseLog(ctx context.Context, id string) error
	ListExerciseLogsByDate(ctx context.Context, date string) ([]*database.ExerciseLog, error)
	ListExerciseLogsInRange(ctx context.Context, start, end string) ([]*database.ExerciseLog, error)
	ListRecentExerciseLogs(ctx context.Context, limit int) ([]*database.ExerciseLog, error)
	CountExerciseLogsByDate(ctx context.Context, date string) (int, error)

	InsertMealLog(ctx context.Context, m *database.MealLog) error
	GetMealLog(ctx context.Context, id string) (*database.MealLog, error)
	UpdateMealLog(ctx context.Context, id string, p database.MealLogPatch) error
	DeleteMealLog(ctx context.Context, id string) error
	ListMealLogsByDate(ctx context.Context, date string) ([]*database.MealLog, error)
	ListMealLogsInRange(ctx context.Context, start, end string) ([]*database.MealLog, error)
	ListRecentMealLogs(ctx context.Context, limit int) ([]*database.MealLog, error)

	UpsertDailyTotals(ctx context.Context, date string, t database.DailyTotals) (string, error)
	UpsertDailyLog(ctx context.Context, d *database.DailyLog) error
	UpdateDailyLog(ctx context.Context, id string, p database.DailyLogPatch) error
	GetDailyLog(ctx context.Context, id string) (*database.DailyLog, error)
	GetDailyLogByDate(ctx context.Context, date string) (*database.DailyLog, error)
	ListDailyLogsInRange(ctx context.Context, start, end string) ([]*database.DailyLog, error)

	GetUserProfile(ctx context.Context) (*database.UserProfile, error)
	CreateUserProfile(ctx context.Context, p *database.UserProfile) error
	UpdateUserProfile(ctx context.Context, p database.UserProfilePatch) (*database.UserProfile, error)
	DeleteUserProfile(ctx context.Context) error

	InsertWorkoutPlan(ctx context.Context, p *database.WorkoutPlan) error
	GetWorkoutPlan(ctx context.Context, id string) (*database.WorkoutPlan, error)
	ListWorkoutPlans(ctx context.Context, createdBy string) ([]*database.WorkoutPlan, error)
	UpdateWorkoutPlan(ctx context.Context, id string, p database.WorkoutPlanPatch) error
	DeleteWorkoutPlan(ctx context.Context, id string) error
	DeleteAllWorkoutPlans(ctx context.Context) (int64, error)
}

// Service implements the tracker operations on top of a Store
type Service struct {
	store         Store
	loc           *time.Location
	now           func() time.Time
	calorieTarget int
	validate      *validator.Validate
	logger        *slog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithLocation sets the time zone used to decide what "today" is
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock replaces the wall clock
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithDefaultCalorieTarget sets the target used when the profile has none
func WithDefaultCalorieTarget(kcal int) Option {
	return func(s *Service) {
		if kcal > 0 {
			s.calorieTarget = kcal
		}
	}
}

// New creates a tracker service
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:         store,
		loc:           time.UTC,
		now:           time.Now,
		calorieTarget: defaultCalorieTarget,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current date key in the service's time zone
func (s *Service) Today() string {
	return s.now().In(s.loc).Format(DateLayout)
}

// daysAgo returns the date key n days before today
func (s *Service) daysAgo(n int) string {
	return s.now().In(s.loc).AddDate(0, 0, -n).Format(DateLayout)
}

// Validate checks a struct against its validate tags
func (s *Service) Validate(v any) error {
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// notCleared rejects an explicit null on a required field
func notCleared[T any](name string, f database.Field[T]) error {
	if f.IsNull() {
		return fmt.Errorf("%w: %s cannot be cleared", ErrInvalidInput, name)
	}
	return nil
}

// atLeast rejects a present value below min
func atLeast[T cmp.Ordered](name string, f database.Field[T], min T) error {
	if v, ok := f.Value(); ok && v < min {
		return fmt.Errorf("%w: %s must be at least %v", ErrInvalidInput, name, min)
	}
	return nil
}
