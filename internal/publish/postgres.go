package publish

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// PostgresSink replaces named tables in a reporting database on every run.
// Each publish is transactional: the dashboard never observes a half-written
// table.
type PostgresSink struct {
	db *sql.DB
}

// NewPostgresSink opens a connection pool against the reporting database.
func NewPostgresSink(dsn string) (*PostgresSink, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	return &PostgresSink{db: db}, nil
}

// Ping checks database connectivity.
func (s *PostgresSink) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *PostgresSink) Close() error {
	return s.db.Close()
}

// Write recreates the table and bulk-loads its rows via COPY.
func (s *PostgresSink) Write(ctx context.Context, table Table) error {
	name := fileName(table.Name)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, pq.QuoteIdentifier(name))); err != nil {
		return fmt.Errorf("failed to drop %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, createStatement(name, table.Columns)); err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(name, columnNames(table.Columns)...))
	if err != nil {
		return fmt.Errorf("failed to prepare copy: %w", err)
	}
	for _, row := range table.Rows {
		args := make([]interface{}, len(row))
		for i, cell := range row {
			args[i] = cell
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			stmt.Close()
			return fmt.Errorf("failed to copy row into %s: %w", name, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("failed to flush copy into %s: %w", name, err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("failed to close copy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", name, err)
	}
	return nil
}

func createStatement(name string, columns []string) string {
	cols := make([]string, len(columns))
	for i, c := range columnNames(columns) {
		cols[i] = pq.QuoteIdentifier(c) + " TEXT"
	}
	return fmt.Sprintf(`CREATE TABLE %s (%s)`, pq.QuoteIdentifier(name), strings.Join(cols, ", "))
}

// columnNames flattens display headers into column identifiers. Period
// labels like "Jan 2025" become jan_2025.
func columnNames(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = fileName(c)
	}
	return out
}
