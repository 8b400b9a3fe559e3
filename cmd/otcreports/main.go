// otcreports - transaction reporting pipeline
//
// Usage:
//   otcreports fetch --source properties
//   otcreports summaries --as-of 2025-09-01 --output-dir out
//   otcreports staging --postgres-dsn postgres://...
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"otc-reports/db/clickhouse"
	"otc-reports/internal/aggregate"
	"otc-reports/internal/config"
	"otc-reports/internal/fetch"
	"otc-reports/internal/publish"
	"otc-reports/internal/record"
	"otc-reports/internal/staging"
	"otc-reports/internal/summary"
	"otc-reports/pkg/platform"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	app := &cli.App{
		Name:    "otcreports",
		Usage:   "Transaction reporting pipeline - fetch, summarize, stage, publish",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"OTC_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to YAML config file",
				EnvVars: []string{"OTC_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-host",
				Usage:   "ClickHouse host",
				EnvVars: []string{"CLICKHOUSE_HOST"},
			},
			&cli.IntFlag{
				Name:    "clickhouse-port",
				Usage:   "ClickHouse native port",
				EnvVars: []string{"CLICKHOUSE_PORT"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-database",
				Usage:   "ClickHouse database",
				EnvVars: []string{"CLICKHOUSE_DATABASE"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-user",
				Usage:   "ClickHouse user",
				EnvVars: []string{"CLICKHOUSE_USERNAME"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-password",
				Usage:   "ClickHouse password",
				EnvVars: []string{"CLICKHOUSE_PASSWORD"},
			},
		},

		Before: func(c *cli.Context) error {
			platform.InitLogger(platform.ParseLevel(c.String("log-level")))
			return nil
		},

		Commands: []*cli.Command{
			fetchCommand(),
			snapshotsCommand(),
			summariesCommand(),
			stagingCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		platform.LogFatal(slog.Default(), "run failed", err)
	}
}

// loadConfig merges the config file (when given) with command-line
// overrides. Flags win over the file, the file wins over the environment.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if c.IsSet("clickhouse-host") {
		cfg.ClickHouse.Host = c.String("clickhouse-host")
	}
	if c.IsSet("clickhouse-port") {
		cfg.ClickHouse.Port = c.Int("clickhouse-port")
	}
	if c.IsSet("clickhouse-database") {
		cfg.ClickHouse.Database = c.String("clickhouse-database")
	}
	if c.IsSet("clickhouse-user") {
		cfg.ClickHouse.Username = c.String("clickhouse-user")
	}
	if c.IsSet("clickhouse-password") {
		cfg.ClickHouse.Password = c.String("clickhouse-password")
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*clickhouse.Store, error) {
	return clickhouse.NewStore(&clickhouse.Config{
		Host:     cfg.ClickHouse.Host,
		Port:     cfg.ClickHouse.Port,
		Database: cfg.ClickHouse.Database,
		Username: cfg.ClickHouse.Username,
		Password: cfg.ClickHouse.Password,
		Debug:    cfg.ClickHouse.Debug,
	})
}

// =============================================================================
// FETCH COMMAND
// =============================================================================

func fetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Fetch the full record set from the API and snapshot it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-base-url",
				Usage:   "API base URL",
				EnvVars: []string{"OTC_API_BASE_URL"},
			},
			&cli.StringFlag{
				Name:    "api-token",
				Usage:   "API token",
				EnvVars: []string{"OTC_API_TOKEN"},
			},
			&cli.StringFlag{
				Name:  "source",
				Value: "properties",
				Usage: "Listing to fetch (properties, agents, all)",
			},
		},
		Action: runFetch,
	}
}

func runFetch(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("api-base-url") {
		cfg.API.BaseURL = c.String("api-base-url")
	}
	if c.IsSet("api-token") {
		cfg.API.Token = c.String("api-token")
	}
	if cfg.API.BaseURL == "" || cfg.API.Token == "" {
		return fmt.Errorf("api base URL and token are required")
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.InitSchema(ctx); err != nil {
		return err
	}

	client := fetch.NewClient(cfg.API.BaseURL, cfg.API.Token, nil)

	sources := []string{c.String("source")}
	if c.String("source") == "all" {
		sources = []string{"properties", "agents"}
	}
	for _, source := range sources {
		records, err := fetchSource(ctx, client, source)
		if err != nil {
			return err
		}
		id, err := store.CreateSnapshot(ctx, source, time.Now(), records)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "📦 Snapshot %s: %d %s records\n", id, len(records), source)
	}
	return nil
}

func fetchSource(ctx context.Context, client *fetch.Client, source string) (record.Collection, error) {
	switch source {
	case "properties":
		return client.Properties(ctx)
	case "agents":
		return client.Agents(ctx)
	default:
		return nil, fmt.Errorf("unknown source %q (want properties, agents, all)", source)
	}
}

// =============================================================================
// SNAPSHOTS COMMAND
// =============================================================================

func snapshotsCommand() *cli.Command {
	return &cli.Command{
		Name:  "snapshots",
		Usage: "List stored snapshots for a source, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "source",
				Value: "properties",
				Usage: "Snapshot source to list",
			},
		},
		Action: runSnapshots,
	}
}

func runSnapshots(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	snapshots, err := store.ListSnapshots(ctx, c.String("source"))
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		fmt.Printf("No snapshots for source %q\n", c.String("source"))
		return nil
	}
	fmt.Printf("%-36s  %-19s  %s\n", "ID", "FETCHED", "RECORDS")
	for _, s := range snapshots {
		fmt.Printf("%-36s  %-19s  %d\n", s.ID, s.FetchedAt.Format("2006-01-02 15:04:05"), s.RecordCount)
	}
	return nil
}

// =============================================================================
// SUMMARIES COMMAND
// =============================================================================

func summariesCommand() *cli.Command {
	return &cli.Command{
		Name:  "summaries",
		Usage: "Run the summary suite over the latest snapshot and publish",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "as-of",
				Usage: "Reporting date (YYYY-MM-DD, default today)",
			},
			&cli.StringFlag{
				Name:  "recipes",
				Usage: "YAML recipe file replacing the built-in suite",
			},
			&cli.StringFlag{
				Name:  "source",
				Value: "properties",
				Usage: "Snapshot source to report over",
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Usage:   "Directory for CSV output",
				EnvVars: []string{"OTC_OUTPUT_DIR"},
			},
			&cli.StringFlag{
				Name:    "postgres-dsn",
				Usage:   "Postgres DSN to publish tables into",
				EnvVars: []string{"POSTGRES_DSN"},
			},
		},
		Action: runSummaries,
	}
}

func runSummaries(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	asOf, err := parseAsOf(c.String("as-of"))
	if err != nil {
		return err
	}

	recipes := summary.DefaultRecipes()
	recipesFile := cfg.RecipesFile
	if c.IsSet("recipes") {
		recipesFile = c.String("recipes")
	}
	if recipesFile != "" {
		recipes, err = config.LoadRecipes(recipesFile)
		if err != nil {
			return err
		}
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.LoadLatest(ctx, c.String("source"))
	if err != nil {
		return err
	}

	orchestrator := summary.NewOrchestrator(nil)
	tables := orchestrator.RunAll(ctx, summary.StaticSource(records), recipes, asOf)

	flat := make([]aggregate.Table, 0, len(tables))
	out := make([]publish.Table, 0, len(tables)+1)
	for _, t := range tables {
		flat = append(flat, *t)
		out = append(out, publish.FromSummary(*t))
	}
	out = append(out, publish.Overview(flat))

	fmt.Fprintf(os.Stderr, "📊 %d summaries over %d records as of %s\n",
		len(tables), len(records), asOf.Format("2006-01-02"))

	return publishAll(ctx, c, cfg, out)
}

// =============================================================================
// STAGING COMMAND
// =============================================================================

func stagingCommand() *cli.Command {
	return &cli.Command{
		Name:  "staging",
		Usage: "Join transactions to agent accounts and publish staging tables",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "source",
				Value: "properties",
				Usage: "Snapshot source to stage",
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Usage:   "Directory for CSV output",
				EnvVars: []string{"OTC_OUTPUT_DIR"},
			},
			&cli.StringFlag{
				Name:    "postgres-dsn",
				Usage:   "Postgres DSN to publish tables into",
				EnvVars: []string{"POSTGRES_DSN"},
			},
		},
		Action: runStaging,
	}
}

func runStaging(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.LoadLatest(ctx, c.String("source"))
	if err != nil {
		return err
	}

	tables := staging.Stage(records, nil, nil)
	fmt.Fprintf(os.Stderr, "🔗 Joined %d transactions (%d unmatched, %d agent accounts, %d duplicates)\n",
		len(tables.Transactions), len(tables.Errors),
		len(tables.AgentAccounts), len(tables.DuplicateAgentAccounts))

	out := []publish.Table{
		publish.FromTransactions(tables.Transactions),
		publish.FromJoinErrors(tables.Errors),
		publish.FromAgentAccounts("agent_accounts", tables.AgentAccounts),
		publish.FromAgentAccounts("agent_accounts_duplicates", tables.DuplicateAgentAccounts),
	}
	return publishAll(ctx, c, cfg, out)
}

// =============================================================================
// PUBLISHING
// =============================================================================

func publishAll(ctx context.Context, c *cli.Context, cfg *config.Config, tables []publish.Table) error {
	outputDir := cfg.Output.Dir
	if c.IsSet("output-dir") {
		outputDir = c.String("output-dir")
	}
	if outputDir != "" {
		sink, err := publish.NewCSVSink(outputDir)
		if err != nil {
			return err
		}
		if err := publish.WriteAll(ctx, sink, tables); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote %d CSV tables to %s\n", len(tables), outputDir)
	}

	dsn := cfg.Postgres.DSN
	if c.IsSet("postgres-dsn") {
		dsn = c.String("postgres-dsn")
	}
	if dsn != "" {
		sink, err := publish.NewPostgresSink(dsn)
		if err != nil {
			return err
		}
		defer sink.Close()
		if err := publish.WriteAll(ctx, sink, tables); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "🐘 Published %d tables to Postgres\n", len(tables))
	}
	return nil
}

func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse as-of date: %w", err)
	}
	return t, nil
}
