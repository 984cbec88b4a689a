package tracker

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"fittrack/internal/database"
)

// DailyLogInput is a full daily log written by hand, keyed by date
type DailyLogInput struct {
	Date          string  `json:"date" validate:"required,datetime=2006-01-02"`
	TotalCalories float64 `json:"totalCalories" validate:"gte=0"`
	TotalProtein  float64 `json:"totalProtein" validate:"gte=0"`
	TotalCarbs    float64 `json:"totalCarbs" validate:"gte=0"`
	TotalFat      float64 `json:"totalFat" validate:"gte=0"`
	ExerciseCount int     `json:"exerciseCount" validate:"gte=0"`
	Notes         *string `json:"notes,omitempty"`
}

// Progress is a day's totals measured against the calorie target
type Progress struct {
	Date            string  `json:"date"`
	TotalCalories   float64 `json:"totalCalories"`
	TotalProtein    float64 `json:"totalProtein"`
	TotalCarbs      float64 `json:"totalCarbs"`
	TotalFat        float64 `json:"totalFat"`
	ExerciseCount   int     `json:"exerciseCount"`
	CalorieTarget   int     `json:"calorieTarget"`
	CalorieProgress int     `json:"calorieProgress"`
}

// WeeklyStats summarises the last seven days of daily logs
type WeeklyStats struct {
	TotalExercises int     `json:"totalExercises"`
	AvgCalories    float64 `json:"avgCalories"`
	AvgProtein     float64 `json:"avgProtein"`
	DaysTracked    int     `json:"daysTracked"`
	StreakDays     int     `json:"streakDays"`
}

// HistoryExercise is one exercise in a progress history
type HistoryExercise struct {
	Date   string   `json:"date"`
	Name   string   `json:"name"`
	Sets   int      `json:"sets"`
	Reps   int      `json:"reps"`
	Weight *float64 `json:"weight,omitempty"`
}

// DayStat is one day in a progress history
type DayStat struct {
	Date          string  `json:"date"`
	Calories      float64 `json:"calories"`
	ExerciseCount int     `json:"exerciseCount"`
}

// History is the exercise and nutrition record over a window of days
type History struct {
	Exercises  []HistoryExercise `json:"exercises"`
	DailyStats []DayStat         `json:"dailyStats"`
}

// UpsertDailyLog writes a daily log directly. This bypasses the aggregation
// engine, so the row may disagree with the logs until the next Recalculate.
func (s *Service) UpsertDailyLog(ctx context.Context, in DailyLogInput) (*database.DailyLog, error) {
	if err := s.Validate(in); err != nil {
		return nil, err
	}

	d := &database.DailyLog{
		Date:          in.Date,
		TotalCalories: in.TotalCalories,
		TotalProtein:  in.TotalProtein,
		TotalCarbs:    in.TotalCarbs,
		TotalFat:      in.TotalFat,
		ExerciseCount: in.ExerciseCount,
		Notes:         in.Notes,
	}
	if err := s.store.UpsertDailyLog(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateDailyLog applies a partial update to a daily log. Totals cannot be
// cleared; notes can.
func (s *Service) UpdateDailyLog(ctx context.Context, id string, p database.DailyLogPatch) error {
	for _, err := range []error{
		notCleared("totalCalories", p.TotalCalories),
		notCleared("totalProtein", p.TotalProtein),
		notCleared("totalCarbs", p.TotalCarbs),
		notCleared("totalFat", p.TotalFat),
		notCleared("exerciseCount", p.ExerciseCount),
		atLeast("totalCalories", p.TotalCalories, 0),
		atLeast("totalProtein", p.TotalProtein, 0),
		atLeast("totalCarbs", p.TotalCarbs, 0),
		atLeast("totalFat", p.TotalFat, 0),
		atLeast("exerciseCount", p.ExerciseCount, 0),
	} {
		if err != nil {
			return err
		}
	}

	if err := s.store.UpdateDailyLog(ctx, id, p); err != nil {
		return fmt.Errorf("daily log %s: %w", id, err)
	}
	return nil
}

// DailyLogByDate returns the daily log for date, or nil
func (s *Service) DailyLogByDate(ctx context.Context, date string) (*database.DailyLog, error) {
	return s.store.GetDailyLogByDate(ctx, date)
}

// DailyLogsByRange returns daily logs with start <= date <= end, ascending
func (s *Service) DailyLogsByRange(ctx context.Context, start, end string) ([]*database.DailyLog, error) {
	return s.store.ListDailyLogsInRange(ctx, start, end)
}

// RecentDailyLogs returns daily logs for [today-days, today], ascending.
// A non-positive days means 7.
func (s *Service) RecentDailyLogs(ctx context.Context, days int) ([]*database.DailyLog, error) {
	if days <= 0 {
		days = defaultRecentDays
	}
	return s.store.ListDailyLogsInRange(ctx, s.daysAgo(days), s.Today())
}

// DailyProgress returns the daily log for date measured against the calorie
// target. A date without a daily log reports zeros.
func (s *Service) DailyProgress(ctx context.Context, date string) (*Progress, error) {
	var (
		daily   *database.DailyLog
		profile *database.UserProfile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		daily, err = s.store.GetDailyLogByDate(gctx, date)
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = s.store.GetUserProfile(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load progress for %s: %w", date, err)
	}

	p := &Progress{Date: date, CalorieTarget: s.calorieTarget}
	if profile != nil && profile.DailyCalorieTarget != nil && *profile.DailyCalorieTarget > 0 {
		p.CalorieTarget = *profile.DailyCalorieTarget
	}
	if daily != nil {
		p.TotalCalories = daily.TotalCalories
		p.TotalProtein = daily.TotalProtein
		p.TotalCarbs = daily.TotalCarbs
		p.TotalFat = daily.TotalFat
		p.ExerciseCount = daily.ExerciseCount
	}
	p.CalorieProgress = int(math.Round(p.TotalCalories / float64(p.CalorieTarget) * 100))

	return p, nil
}

func tracked(d *database.DailyLog) bool {
	return d.TotalCalories > 0 || d.ExerciseCount > 0
}

// WeeklyStats summarises the daily logs of the last seven days. A day counts
// as tracked when it has calories or exercises. The streak runs back from
// today, or from yesterday when today has nothing logged yet.
func (s *Service) WeeklyStats(ctx context.Context) (*WeeklyStats, error) {
	logs, err := s.RecentDailyLogs(ctx, defaultRecentDays)
	if err != nil {
		return nil, err
	}

	var (
		stats    WeeklyStats
		calories float64
		protein  float64
	)
	byDate := make(map[string]bool, len(logs))
	for _, d := range logs {
		stats.TotalExercises += d.ExerciseCount
		if !tracked(d) {
			continue
		}
		byDate[d.Date] = true
		stats.DaysTracked++
		calories += d.TotalCalories
		protein += d.TotalProtein
	}
	if stats.DaysTracked > 0 {
		stats.AvgCalories = calories / float64(stats.DaysTracked)
		stats.AvgProtein = protein / float64(stats.DaysTracked)
	}

	start := 0
	if !byDate[s.Today()] {
		start = 1
	}
	for i := start; i <= defaultRecentDays && byDate[s.daysAgo(i)]; i++ {
		stats.StreakDays++
	}

	return &stats, nil
}

// ProgressHistory returns the exercises and per-day totals for the last
// days days. A non-positive days means 7.
func (s *Service) ProgressHistory(ctx context.Context, days int) (*History, error) {
	if days <= 0 {
		days = defaultRecentDays
	}
	start, end := s.daysAgo(days), s.Today()

	var (
		exercises []*database.ExerciseLog
		daily     []*database.DailyLog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		exercises, err = s.store.ListExerciseLogsInRange(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		daily, err = s.store.ListDailyLogsInRange(gctx, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	// The exercise range read is unordered; the history is presented by date.
	sort.SliceStable(exercises, func(i, j int) bool {
		return exercises[i].Date < exercises[j].Date
	})

	h := &History{
		Exercises:  make([]HistoryExercise, 0, len(exercises)),
		DailyStats: make([]DayStat, 0, len(daily)),
	}
	for _, e := range exercises {
		h.Exercises = append(h.Exercises, HistoryExercise{
			Date:   e.Date,
			Name:   e.ExerciseName,
			Sets:   e.Sets,
			Reps:   e.Reps,
			Weight: e.Weight,
		})
	}
	for _, d := range daily {
		h.DailyStats = append(h.DailyStats, DayStat{
			Date:          d.Date,
			Calories:      d.TotalCalories,
			ExerciseCount: d.ExerciseCount,
		})
	}

	return h, nil
}
