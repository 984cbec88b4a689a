package database

import (
	"context"
	"fmt"
	"slices"

	"fittrack/internal/metrics"
)

// CountRows returns the number of rows in one of the schema tables
func (db *DB) CountRows(ctx context.Context, table string) (int, error) {
	if !slices.Contains(Tables, table) {
		return 0, fmt.Errorf("unknown table %q", table)
	}

	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}

// staleDailyLogDates selects the dates whose daily log disagrees with the
// meal and exercise logs for that date
const staleDailyLogDates = `
	SELECT d.date
	FROM daily_logs d
	LEFT JOIN (
		SELECT date,
		       SUM(calories) AS calories, SUM(protein) AS protein,
		       SUM(carbs) AS carbs, SUM(fat) AS fat
		FROM meal_logs GROUP BY date
	) m ON m.date = d.date
	LEFT JOIN (
		SELECT date, COUNT(*) AS n FROM exercise_logs GROUP BY date
	) e ON e.date = d.date
	WHERE ABS(d.total_calories - IFNULL(m.calories, 0)) > 1e-6
	   OR ABS(d.total_protein - IFNULL(m.protein, 0)) > 1e-6
	   OR ABS(d.total_carbs - IFNULL(m.carbs, 0)) > 1e-6
	   OR ABS(d.total_fat - IFNULL(m.fat, 0)) > 1e-6
	   OR d.exercise_count != IFNULL(e.n, 0)`

// unsummarizedDates selects the dates that have meal or exercise logs but no
// daily log at all
const unsummarizedDates = `
	SELECT s.date FROM (
		SELECT date FROM meal_logs
		UNION
		SELECT date FROM exercise_logs
	) s
	WHERE NOT EXISTS (SELECT 1 FROM daily_logs d WHERE d.date = s.date)`

// CountStaleDailyLogs returns how many daily logs disagree with the meal and
// exercise logs for their date. It only reports; nothing is corrected.
func (db *DB) CountStaleDailyLogs(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM (`+staleDailyLogDates+`)`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count stale daily logs: %w", err)
	}
	return count, nil
}

// CountUnsummarizedDates returns how many dates have meal or exercise logs
// but no daily log at all
func (db *DB) CountUnsummarizedDates(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM (`+unsummarizedDates+`)`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unsummarized dates: %w", err)
	}
	return count, nil
}

// ListDriftedDates returns up to limit dates, oldest first, whose daily log
// is stale or missing
func (db *DB) ListDriftedDates(ctx context.Context, limit int) ([]string, error) {
	timer := observe(metrics.DBOpListDriftedDates)
	defer timer.ObserveDuration()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT date FROM (`+staleDailyLogDates+` UNION `+unsummarizedDates+`) ORDER BY date ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fail(metrics.DBOpListDriftedDates, "failed to list drifted dates", err)
	}
	defer rows.Close()

	dates := []string{}
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("failed to scan drifted date: %w", err)
		}
		dates = append(dates, date)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate drifted dates: %w", err)
	}
	return dates, nil
}
