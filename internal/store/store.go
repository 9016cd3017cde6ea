package store

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"regexp"
	"text/template"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

var schemaTemplate = template.Must(template.New("schema").Parse(schemaSQL))

// Schema version tracking:
// 0 - Tables as created by the legacy poller (no indexes)
// 1 - UNIQUE index on summits(summitCode, refreshed), lookup indexes
const currentSchemaVersion = 1

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Tables names the two tables the store manages.
type Tables struct {
	Spots   string
	Summits string
}

// DefaultTables returns the table names used when none are configured.
func DefaultTables() Tables {
	return Tables{Spots: "spots", Summits: "summits"}
}

// Validate checks that both names are plain SQL identifiers.
func (t Tables) Validate() error {
	if !identifierPattern.MatchString(t.Spots) {
		return fmt.Errorf("invalid spots table name %q", t.Spots)
	}
	if !identifierPattern.MatchString(t.Summits) {
		return fmt.Errorf("invalid summits table name %q", t.Summits)
	}
	if t.Spots == t.Summits {
		return fmt.Errorf("spots and summits tables must differ (both %q)", t.Spots)
	}
	return nil
}

// Store provides durable storage for spots and summit snapshots.
// There is exactly one writer: the scheduler loop.
type Store struct {
	db     *sql.DB
	tables Tables
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas, the schema and migrations.
//
// This function is idempotent - safe to call multiple times.
func Open(path string, tables Tables) (*Store, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db, tables); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db, tables: tables}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Tables returns the table names this store was opened with.
func (s *Store) Tables() Tables {
	return s.tables
}

// Begin starts the transaction that holds one trigger firing's writes.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return &Tx{tx: tx, tables: s.tables}, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sql.DB, tables Tables) error {
	var buf bytes.Buffer
	if err := schemaTemplate.Execute(&buf, tables); err != nil {
		return fmt.Errorf("render schema: %w", err)
	}
	if _, err := db.Exec(buf.String()); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db, tables); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB, tables Tables) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db, tables); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the snapshot natural key and query indexes. Databases
// written by the legacy poller have neither, and may hold repeated
// (summitCode, refreshed) rows; only the first of each is kept.
func migrateToV1(db *sql.DB, tables Tables) error {
	stmts := []string{
		fmt.Sprintf(`DELETE FROM "%[1]s" WHERE rowid NOT IN (SELECT MIN(rowid) FROM "%[1]s" GROUP BY summitCode, refreshed)`, tables.Summits),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS "idx_%[1]s_code_refreshed" ON "%[1]s"(summitCode, refreshed)`, tables.Summits),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS "idx_%[1]s_activation" ON "%[1]s"(activationDate)`, tables.Summits),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS "idx_%[1]s_assoc_ts" ON "%[1]s"(associationCode, timeStamp)`, tables.Spots),
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
