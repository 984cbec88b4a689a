package database

// Schema contains all SQL statements for creating tables and indexes.
// Every table carries an autoincrement seq column recording insertion order
// alongside the opaque text id handed out to callers.
const Schema = `
-- Exercise logs: one row per exercise performed on a date
CREATE TABLE IF NOT EXISTS exercise_logs (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,

    date TEXT NOT NULL,  -- "YYYY-MM-DD"
    exercise_id TEXT,    -- ExerciseDB id
    exercise_name TEXT NOT NULL,
    sets INTEGER NOT NULL,
    reps INTEGER NOT NULL,
    weight REAL,         -- kg
    duration REAL,       -- minutes, for cardio
    notes TEXT,

    created_at TEXT NOT NULL
);

-- Meal logs: one row per food eaten, nutrition estimated upstream
CREATE TABLE IF NOT EXISTS meal_logs (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,

    date TEXT NOT NULL,
    meal_type TEXT NOT NULL,  -- breakfast, lunch, dinner, snack
    food_name TEXT NOT NULL,
    quantity TEXT,
    calories REAL NOT NULL,
    protein REAL NOT NULL,
    carbs REAL NOT NULL,
    fat REAL NOT NULL,
    fiber REAL,
    notes TEXT,

    created_at TEXT NOT NULL
);

-- Daily logs: cached per-date aggregate of meal and exercise logs
CREATE TABLE IF NOT EXISTS daily_logs (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,

    date TEXT NOT NULL,
    total_calories REAL NOT NULL DEFAULT 0,
    total_protein REAL NOT NULL DEFAULT 0,
    total_carbs REAL NOT NULL DEFAULT 0,
    total_fat REAL NOT NULL DEFAULT 0,
    exercise_count INTEGER NOT NULL DEFAULT 0,
    notes TEXT
);

-- User profile: logically capped at one row
CREATE TABLE IF NOT EXISTS user_profile (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    singleton INTEGER NOT NULL DEFAULT 1 CHECK (singleton = 1),

    name TEXT NOT NULL,
    height REAL NOT NULL,  -- cm
    weight REAL NOT NULL,  -- kg
    age INTEGER,
    fitness_goal TEXT NOT NULL,
    daily_calorie_target INTEGER,

    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

-- Workout plans: authored by an assistant
CREATE TABLE IF NOT EXISTS workout_plans (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,

    name TEXT NOT NULL,
    description TEXT,
    exercises_json TEXT NOT NULL,  -- ordered JSON array
    created_by TEXT NOT NULL,      -- "butler" or "trainer"

    created_at TEXT NOT NULL
);

-- Date indexes for exact and range lookups
CREATE INDEX IF NOT EXISTS idx_exercise_logs_date ON exercise_logs(date);
CREATE INDEX IF NOT EXISTS idx_meal_logs_date ON meal_logs(date);
CREATE UNIQUE INDEX IF NOT EXISTS idx_daily_logs_date ON daily_logs(date);

-- Enforces the single profile row
CREATE UNIQUE INDEX IF NOT EXISTS idx_user_profile_singleton ON user_profile(singleton);
`

// Tables lists every table in the schema
var Tables = []string{"exercise_logs", "meal_logs", "daily_logs", "user_profile", "workout_plans"}
