// migrate-prospects copies legacy prospects into contacts, companies,
// experiences and notes.
//
// Every prospect without a migration_mapping row is migrated in id order, one
// transaction per prospect, so the command can be re-run after a partial
// failure. Prospects without a name are skipped.
//
// Usage: go run ./scripts/migrate-prospects [-dry-run] [-batch-size 200] [-limit 0]
//
// Database connection: Uses standard PG* environment variables
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/ekaya-inc/prospect-crm/pkg/config"
	"github.com/ekaya-inc/prospect-crm/pkg/database"
	"github.com/ekaya-inc/prospect-crm/pkg/logging"
	"github.com/ekaya-inc/prospect-crm/pkg/repositories"
	"github.com/ekaya-inc/prospect-crm/pkg/services"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Count what would be migrated without writing")
	batchSize := flag.Int("batch-size", services.DefaultMigrationBatchSize, "Prospects read per query")
	limit := flag.Int("limit", 0, "Stop after this many prospects (0 = all)")
	flag.Parse()

	cfg, err := config.LoadFromEnv("migrate-prospects")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := database.Open(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: 2,
	}, cfg.Database.ConnectAttempts, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %s\n", logging.SanitizeError(err))
		os.Exit(1)
	}
	defer db.Close()

	ctx, cleanup, err := db.WithScope(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to acquire connection: %s\n", logging.SanitizeError(err))
		os.Exit(1)
	}
	defer cleanup()

	svc := services.NewProspectMigrationService(
		repositories.NewProspectRepository(),
		repositories.NewContactRepository(),
		repositories.NewCompanyRepository(),
		repositories.NewExperienceRepository(),
		repositories.NewNoteRepository(),
		repositories.NewMigrationMappingRepository(),
		nil, nil, logger)

	summary, runErr := svc.Run(ctx, services.MigrationOptions{
		BatchSize: *batchSize,
		Limit:     *limit,
		DryRun:    *dryRun,
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(summary)

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Migration stopped: %s\n", logging.SanitizeError(runErr))
		os.Exit(1)
	}
	if summary.Failed > 0 {
		os.Exit(2)
	}
}
