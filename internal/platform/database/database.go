package database

import (
	"context"
	"database/sql"
	"fmt"
	"k12_reviser_v2/internal/platform/config"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

var DB *sql.DB

// Connect opens the configured database and ensures the schema exists.
func Connect() {
	var err error
	DB, err = Open(context.Background(), config.AppConfig.DBDriver, config.AppConfig.DBConnStr)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	fmt.Println("Successfully connected to database!")
}

func Close() {
	if DB != nil {
		DB.Close()
		fmt.Println("Database connection closed.")
	}
}

// Open opens a DB for the given driver and ensures schema exists.
// Both drivers accept $1-style placeholders, so the repositories are shared.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case "sqlite":
		drvName = "sqlite"
		if dsn == "" {
			dsn = "file:k12_reviser.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case "postgres":
		drvName = "pgx"
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "postgres" {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver string) error {
	schema := schemaPostgres
	if driver == "sqlite" {
		schema = schemaSQLite
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  hashed_password TEXT NOT NULL,
  role TEXT NOT NULL,
  student_class TEXT,
  created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS subjects (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  class_name TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
  id TEXT PRIMARY KEY,
  class_name TEXT NOT NULL DEFAULT '',
  subject TEXT NOT NULL DEFAULT '',
  topic TEXT,
  topic_id TEXT,
  type TEXT NOT NULL,
  question TEXT NOT NULL,
  option1 TEXT,
  option2 TEXT,
  option3 TEXT,
  option4 TEXT,
  options_raw TEXT,
  correct_answer TEXT NOT NULL,
  uploaded_by TEXT,
  created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS performance_summary (
  student_id TEXT NOT NULL,
  subject_name TEXT NOT NULL,
  topic_name TEXT NOT NULL,
  accuracy REAL NOT NULL,
  time_spent INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  hashed_password TEXT NOT NULL,
  role TEXT NOT NULL,
  student_class TEXT,
  created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS subjects (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  class_name TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
  id TEXT PRIMARY KEY,
  class_name TEXT NOT NULL DEFAULT '',
  subject TEXT NOT NULL DEFAULT '',
  topic TEXT,
  topic_id TEXT,
  type TEXT NOT NULL,
  question TEXT NOT NULL,
  option1 TEXT,
  option2 TEXT,
  option3 TEXT,
  option4 TEXT,
  options_raw TEXT,
  correct_answer TEXT NOT NULL,
  uploaded_by TEXT,
  created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS performance_summary (
  student_id TEXT NOT NULL,
  subject_name TEXT NOT NULL,
  topic_name TEXT NOT NULL,
  accuracy DOUBLE PRECISION NOT NULL,
  time_spent BIGINT NOT NULL
);
`
