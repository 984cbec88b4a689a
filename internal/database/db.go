package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"fittrack/internal/metrics"
)

var (
	// ErrNotFound is returned by patch operations addressing a missing row
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when a singleton table already holds its row
	ErrAlreadyExists = errors.New("record already exists")
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// Open opens a connection to the SQLite database at the specified path
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	conn.SetMaxOpenConns(1) // SQLite works best with a single writer
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Init initializes the database schema by creating all tables and indexes
func (db *DB) Init() error {
	_, err := db.conn.Exec(Schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Conn returns the underlying *sql.DB connection for direct use
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Health checks if the database connection is healthy
func (db *DB) Health(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// newID returns a fresh record identity
func newID() string {
	return uuid.NewString()
}

// observe starts a latency timer for a database operation
func observe(op string) *prometheus.Timer {
	return prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(op))
}

// fail records an operation error and wraps it with a message
func fail(op, msg string, err error) error {
	metrics.DBOperationErrorsTotal.WithLabelValues(op).Inc()
	return fmt.Errorf("%s: %w", msg, err)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// exists reports whether a row with the given id is present in table
func (db *DB) exists(ctx context.Context, table, id string) (bool, error) {
	var one int
	err := db.conn.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// applyPatch runs an UPDATE built from the assignments and reports ErrNotFound
// when no row matched. An empty assignment set only checks existence.
func (db *DB) applyPatch(ctx context.Context, table, id string, a *assignments) error {
	if a.empty() {
		found, err := db.exists(ctx, table, id)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		return nil
	}

	query, args := a.update(table, id)
	result, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// deleteByID removes a row; a missing row is not an error
func (db *DB) deleteByID(ctx context.Context, table, id string) error {
	_, err := db.conn.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	return err
}
