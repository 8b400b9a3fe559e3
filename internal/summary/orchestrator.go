package summary

import (
	"context"
	"log/slog"
	"time"

	"otc-reports/internal/aggregate"
	"otc-reports/internal/record"
)

// Source loads the record collection a summary runs against.
type Source interface {
	Load(ctx context.Context) (record.Collection, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (record.Collection, error)

func (f SourceFunc) Load(ctx context.Context) (record.Collection, error) { return f(ctx) }

// StaticSource serves an already-loaded collection.
func StaticSource(records record.Collection) Source {
	return SourceFunc(func(context.Context) (record.Collection, error) {
		return records, nil
	})
}

// Orchestrator runs recipe batches. A summary whose source fails to load is
// skipped and logged; the rest of the batch continues.
type Orchestrator struct {
	logger *slog.Logger
}

// NewOrchestrator creates an orchestrator logging through the given logger.
func NewOrchestrator(logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{logger: logger}
}

// Run executes a single recipe against a loaded collection.
func (o *Orchestrator) Run(records record.Collection, recipe Recipe, asOf time.Time) *aggregate.Table {
	return aggregate.Aggregate(records, recipe.Request(asOf))
}

// RunAll executes every recipe against the source, in order. Each recipe
// loads independently so a broken source fails only its own summary; the
// returned slice contains only the summaries that produced a table.
func (o *Orchestrator) RunAll(ctx context.Context, source Source, recipes []Recipe, asOf time.Time) []*aggregate.Table {
	tables := make([]*aggregate.Table, 0, len(recipes))
	for _, recipe := range recipes {
		records, err := source.Load(ctx)
		if err != nil {
			o.logger.Warn("skipping summary, source load failed",
				"summary", recipe.Title, "error", err)
			continue
		}
		tables = append(tables, o.Run(records, recipe, asOf))
	}
	return tables
}
