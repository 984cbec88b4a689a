package metrics

import (
	"context"
	"log/slog"
	"time"
)

// DB interface for table statistics queries
type DB interface {
	CountRows(ctx context.Context, table string) (int, error)
	CountStaleDailyLogs(ctx context.Context) (int, error)
	CountUnsummarizedDates(ctx context.Context) (int, error)
}

// StartTableStatsCollector starts a loop that periodically records table
// sizes and daily log drift. It blocks until ctx is cancelled.
func StartTableStatsCollector(ctx context.Context, db DB, tables []string, interval time.Duration) {
	logger := slog.Default()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect once immediately
	collectTableStats(ctx, db, tables, logger)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Table stats collector stopping")
			return
		case <-ticker.C:
			collectTableStats(ctx, db, tables, logger)
		}
	}
}

func collectTableStats(ctx context.Context, db DB, tables []string, logger *slog.Logger) {
	for _, table := range tables {
		if n, err := db.CountRows(ctx, table); err != nil {
			logger.Error("Failed to count table rows", "table", table, "error", err)
		} else {
			TableRows.WithLabelValues(table).Set(float64(n))
		}
	}

	if stale, err := db.CountStaleDailyLogs(ctx); err != nil {
		logger.Error("Failed to count stale daily logs", "error", err)
	} else {
		StaleDailyLogs.Set(float64(stale))
		if stale > 0 {
			logger.Debug("Daily logs out of date", "count", stale)
		}
	}

	if missing, err := db.CountUnsummarizedDates(ctx); err != nil {
		logger.Error("Failed to count unsummarized dates", "error", err)
	} else {
		UnsummarizedDates.Set(float64(missing))
	}
}
