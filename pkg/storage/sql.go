package storage

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLBackend stores values in a single SQL table.
// It works with any sqlx-supported driver. Requires a table with schema:
//
//	CREATE TABLE navshell_storage (
//	    key   VARCHAR(255) PRIMARY KEY,
//	    value TEXT NOT NULL
//	);
//
// CreateTable creates it when missing.
type SQLBackend struct {
	db      *sqlx.DB
	table   string
	dialect SQLDialect
}

// SQLDialect selects the upsert syntax.
type SQLDialect int

const (
	// DialectPostgreSQL uses INSERT ... ON CONFLICT.
	DialectPostgreSQL SQLDialect = iota
	// DialectMySQL uses INSERT ... ON DUPLICATE KEY UPDATE.
	DialectMySQL
	// DialectSQLite uses INSERT ... ON CONFLICT.
	DialectSQLite
)

// ParseDialect maps a driver or dialect name to a SQLDialect.
func ParseDialect(name string) (SQLDialect, error) {
	switch name {
	case "", "postgres", "postgresql", "pgx":
		return DialectPostgreSQL, nil
	case "mysql":
		return DialectMySQL, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return 0, fmt.Errorf("unknown SQL dialect %q", name)
	}
}

// SQLOption configures a SQLBackend.
type SQLOption func(*SQLBackend)

// WithSQLTable sets the table name.
// Default: "navshell_storage".
func WithSQLTable(name string) SQLOption {
	return func(s *SQLBackend) {
		s.table = name
	}
}

// WithSQLDialect sets the dialect.
// Default: DialectPostgreSQL.
func WithSQLDialect(d SQLDialect) SQLOption {
	return func(s *SQLBackend) {
		s.dialect = d
	}
}

// NewSQLBackend creates a backend over db.
func NewSQLBackend(db *sqlx.DB, opts ...SQLOption) *SQLBackend {
	s := &SQLBackend{
		db:    db,
		table: "navshell_storage",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTable creates the storage table if it does not exist.
func (s *SQLBackend) CreateTable(ctx context.Context) error {
	valueType := "TEXT"
	if s.dialect == DialectMySQL {
		valueType = "LONGTEXT"
	}
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (%s VARCHAR(255) PRIMARY KEY, value %s NOT NULL)`,
		s.table, s.keyColumn(), valueType)
	_, err := s.db.ExecContext(ctx, q)
	return err
}

func (s *SQLBackend) keyColumn() string {
	if s.dialect == DialectMySQL {
		return "`key`"
	}
	return "key"
}

// Get implements Backend.
func (s *SQLBackend) Get(ctx context.Context, key string) (string, bool, error) {
	q := s.db.Rebind(fmt.Sprintf(`SELECT value FROM %s WHERE %s = ?`, s.table, s.keyColumn()))

	var value string
	err := s.db.GetContext(ctx, &value, q, key)
	if stderrors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set implements Backend.
func (s *SQLBackend) Set(ctx context.Context, key, value string) error {
	var q string
	switch s.dialect {
	case DialectMySQL:
		q = fmt.Sprintf(`INSERT INTO %s (%s, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)`,
			s.table, s.keyColumn())
	default:
		q = fmt.Sprintf(`INSERT INTO %s (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
			s.table)
	}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(q), key, value)
	return err
}

// Remove implements Backend.
func (s *SQLBackend) Remove(ctx context.Context, key string) error {
	q := s.db.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, s.table, s.keyColumn()))
	_, err := s.db.ExecContext(ctx, q, key)
	return err
}

// Close closes the database handle.
func (s *SQLBackend) Close() error {
	return s.db.Close()
}
