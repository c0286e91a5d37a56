// repair-industries rewrites contact and company industries that disagree with
// the parent of their sub-industry in the canonical taxonomy.
//
// A pair whose sub-industry has exactly one parent is rewritten to that parent.
// Unknown and ambiguous sub-industries are reported and left untouched.
//
// Usage: go run ./scripts/repair-industries [-dry-run=false] [-taxonomy path.yaml]
//
// Database connection: Uses standard PG* environment variables
//
// Flags:
//
//	-dry-run   Report what would change without writing (default: true)
//	-taxonomy  YAML taxonomy file (default: TAXONOMY_PATH, else the built-in one)
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
	"github.com/ekaya-inc/prospect-crm/pkg/taxonomy"
)

func main() {
	dryRun := flag.Bool("dry-run", true, "Report what would change without writing")
	taxonomyPath := flag.String("taxonomy", "", "YAML taxonomy file")
	flag.Parse()

	cfg, err := config.LoadFromEnv("repair-industries")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *taxonomyPath != "" {
		cfg.TaxonomyPath = *taxonomyPath
	}

	logger, err := logging.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	tax := taxonomy.Default()
	if cfg.TaxonomyPath != "" {
		if tax, err = taxonomy.Load(cfg.TaxonomyPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load taxonomy: %v\n", err)
			os.Exit(1)
		}
	}

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

	if *dryRun {
		fmt.Fprintln(os.Stderr, "DRY RUN - no changes will be made")
		fmt.Fprintln(os.Stderr, "Run with -dry-run=false to apply the repair")
	}

	svc := services.NewIndustryRepairService(tax,
		repositories.NewContactRepository(), repositories.NewCompanyRepository(),
		nil, nil, logger)

	report, err := svc.Run(ctx, *dryRun)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Repair failed: %s\n", logging.SanitizeError(err))
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(report)

	for _, t := range report.Targets {
		if t.Failed > 0 {
			os.Exit(2)
		}
	}
}
