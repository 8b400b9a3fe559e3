package publish

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sink writes finished tables to a destination.
type Sink interface {
	Write(ctx context.Context, table Table) error
}

// CSVSink writes each table as <dir>/<name>.csv, overwriting prior runs.
type CSVSink struct {
	dir string
}

// NewCSVSink creates a CSV sink rooted at dir, creating it when missing.
func NewCSVSink(dir string) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &CSVSink{dir: dir}, nil
}

// Write renders one table to its CSV file.
func (s *CSVSink) Write(ctx context.Context, table Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.dir, fileName(table.Name)+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}

// fileName flattens a display title to a filesystem-safe slug.
func fileName(title string) string {
	slug := strings.ToLower(title)
	replacer := strings.NewReplacer(
		" ", "_", "/", "_", "(", "", ")", "", "-", "_",
	)
	slug = replacer.Replace(slug)
	for strings.Contains(slug, "__") {
		slug = strings.ReplaceAll(slug, "__", "_")
	}
	return strings.Trim(slug, "_")
}

// WriteAll writes every table through the sink, stopping at the first
// failure.
func WriteAll(ctx context.Context, sink Sink, tables []Table) error {
	for _, t := range tables {
		if err := sink.Write(ctx, t); err != nil {
			return fmt.Errorf("failed to publish %s: %w", t.Name, err)
		}
	}
	return nil
}
