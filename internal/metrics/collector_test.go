package metrics

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeDB struct {
	rows        map[string]int
	stale       int
	missing     int
	failMissing bool
}

func (f *fakeDB) CountRows(_ context.Context, table string) (int, error) {
	n, ok := f.rows[table]
	if !ok {
		return 0, errors.New("no such table")
	}
	return n, nil
}

func (f *fakeDB) CountStaleDailyLogs(context.Context) (int, error) {
	return f.stale, nil
}

func (f *fakeDB) CountUnsummarizedDates(context.Context) (int, error) {
	if f.failMissing {
		return 0, errors.New("database is locked")
	}
	return f.missing, nil
}

func TestCollectTableStats(t *testing.T) {
	db := &fakeDB{
		rows:    map[string]int{"meal_logs": 12, "exercise_logs": 4},
		stale:   2,
		missing: 3,
	}

	collectTableStats(context.Background(), db, []string{"meal_logs", "exercise_logs"}, slog.Default())

	if got := testutil.ToFloat64(TableRows.WithLabelValues("meal_logs")); got != 12 {
		t.Errorf("Expected 12 meal log rows, got %v", got)
	}
	if got := testutil.ToFloat64(TableRows.WithLabelValues("exercise_logs")); got != 4 {
		t.Errorf("Expected 4 exercise log rows, got %v", got)
	}
	if got := testutil.ToFloat64(StaleDailyLogs); got != 2 {
		t.Errorf("Expected 2 stale daily logs, got %v", got)
	}
	if got := testutil.ToFloat64(UnsummarizedDates); got != 3 {
		t.Errorf("Expected 3 unsummarized dates, got %v", got)
	}

	// a failing query leaves the previous value in place
	db.failMissing = true
	db.stale = 0
	collectTableStats(context.Background(), db, []string{"meal_logs", "missing_table"}, slog.Default())

	if got := testutil.ToFloat64(UnsummarizedDates); got != 3 {
		t.Errorf("Expected unsummarized dates to stay at 3, got %v", got)
	}
	if got := testutil.ToFloat64(StaleDailyLogs); got != 0 {
		t.Errorf("Expected 0 stale daily logs, got %v", got)
	}
}

func TestStartTableStatsCollectorStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		StartTableStatsCollector(ctx, &fakeDB{rows: map[string]int{}}, nil, time.Millisecond)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Collector did not stop")
	}
}
