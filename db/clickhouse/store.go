// Package clickhouse persists fetched record collections as run snapshots.
// Columnar storage keeps full-history snapshots cheap and lets ad hoc
// analytics query attribute data without touching the reporting engine.
package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"

	"otc-reports/internal/record"
	pipeerr "otc-reports/pkg/errors"
)

// Snapshot represents one point-in-time capture of a source listing.
type Snapshot struct {
	ID          uuid.UUID `ch:"id"`
	Source      string    `ch:"source"`
	FetchedAt   time.Time `ch:"fetched_at"`
	RecordCount uint64    `ch:"record_count"`
	CreatedAt   time.Time `ch:"created_at"`
}

// Config holds ClickHouse connection configuration
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Debug    bool
}

// DefaultConfig returns default development configuration
func DefaultConfig() *Config {
	return &Config{
		Host:     "localhost",
		Port:     9000,
		Database: "otcreports",
		Username: "default",
		Password: "",
		Debug:    false,
	}
}

// Store is the ClickHouse-backed snapshot store
type Store struct {
	conn clickhouse.Conn
	cfg  *Config
}

// NewStore opens a connection to ClickHouse
func NewStore(cfg *Config) (*Store, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Debug: cfg.Debug,
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	return &Store{conn: conn, cfg: cfg}, nil
}

// Ping checks database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// InitSchema creates the snapshot tables when they do not exist yet.
func (s *Store) InitSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id UUID,
			source String,
			fetched_at DateTime,
			record_count UInt64,
			created_at DateTime
		) ENGINE = MergeTree() ORDER BY (source, fetched_at)`,
		`CREATE TABLE IF NOT EXISTS snapshot_records (
			snapshot_id UUID,
			record_id String,
			team String,
			created_at DateTime,
			timezone String,
			created_by String,
			attributes String
		) ENGINE = MergeTree() ORDER BY (snapshot_id, record_id)`,
	}
	for _, stmt := range ddl {
		if err := s.conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// =============================================================================
// SNAPSHOT OPERATIONS
// =============================================================================

// CreateSnapshot stores a freshly fetched collection as a new snapshot and
// returns its ID. The record batch and the snapshot row are written
// together; a failed batch leaves no registered snapshot behind.
func (s *Store) CreateSnapshot(ctx context.Context, source string, fetchedAt time.Time, records record.Collection) (uuid.UUID, error) {
	id := uuid.New()

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO snapshot_records (
			snapshot_id, record_id, team, created_at, timezone, created_by, attributes
		)
	`)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to prepare batch: %w", err)
	}
	for i := range records {
		rec := &records[i]
		if err := batch.Append(
			id, rec.ID, rec.Team, rec.CreatedAt, rec.Timezone, rec.CreatedBy,
			string(record.EncodeAttributes(rec.Attributes)),
		); err != nil {
			return uuid.Nil, fmt.Errorf("failed to append to batch: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to send batch: %w", err)
	}

	query := `
		INSERT INTO snapshots (id, source, fetched_at, record_count, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if err := s.conn.Exec(ctx, query, id, source, fetchedAt, uint64(len(records)), time.Now()); err != nil {
		return uuid.Nil, fmt.Errorf("failed to register snapshot: %w", err)
	}
	return id, nil
}

// LatestSnapshot returns the most recently fetched snapshot for a source,
// or nil when the source has never been captured.
func (s *Store) LatestSnapshot(ctx context.Context, source string) (*Snapshot, error) {
	query := `
		SELECT id, source, fetched_at, record_count, created_at
		FROM snapshots
		WHERE source = ?
		ORDER BY fetched_at DESC
		LIMIT 1
	`
	rows, err := s.conn.Query(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, nil
	}
	var snapshot Snapshot
	if err := rows.Scan(&snapshot.ID, &snapshot.Source, &snapshot.FetchedAt, &snapshot.RecordCount, &snapshot.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}
	return &snapshot, nil
}

// ListSnapshots lists a source's snapshots, newest first.
func (s *Store) ListSnapshots(ctx context.Context, source string) ([]*Snapshot, error) {
	query := `
		SELECT id, source, fetched_at, record_count, created_at
		FROM snapshots
		WHERE source = ?
		ORDER BY fetched_at DESC
	`
	rows, err := s.conn.Query(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*Snapshot
	for rows.Next() {
		var snapshot Snapshot
		if err := rows.Scan(&snapshot.ID, &snapshot.Source, &snapshot.FetchedAt, &snapshot.RecordCount, &snapshot.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, &snapshot)
	}
	return snapshots, nil
}

// =============================================================================
// RECORD OPERATIONS
// =============================================================================

// LoadRecords reads the full record collection of one snapshot.
func (s *Store) LoadRecords(ctx context.Context, snapshotID uuid.UUID) (record.Collection, error) {
	query := `
		SELECT record_id, team, created_at, timezone, created_by, attributes
		FROM snapshot_records
		WHERE snapshot_id = ?
		ORDER BY record_id
	`
	rows, err := s.conn.Query(ctx, query, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	defer rows.Close()

	var records record.Collection
	for rows.Next() {
		var rec record.Record
		var attrs string
		if err := rows.Scan(&rec.ID, &rec.Team, &rec.CreatedAt, &rec.Timezone, &rec.CreatedBy, &attrs); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec.Attributes = record.ParseAttributes([]byte(attrs))
		records = append(records, rec)
	}
	return records, nil
}

// LoadLatest loads the record collection of a source's newest snapshot.
func (s *Store) LoadLatest(ctx context.Context, source string) (record.Collection, error) {
	snapshot, err := s.LatestSnapshot(ctx, source)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, pipeerr.NewSnapshotMissing(source)
	}
	return s.LoadRecords(ctx, snapshot.ID)
}
