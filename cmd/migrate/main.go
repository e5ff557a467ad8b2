package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/syncwell/pendingsync/internal/log"
	"github.com/syncwell/pendingsync/internal/storage/postgres"
)

const usage = `usage: migrate <command>

commands:
  up       apply all pending migrations
  down     roll back the most recent migration
  status   print migration state
  version  print current schema version
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]

	// Best-effort: a missing .env is fine, the environment wins anyway.
	_ = godotenv.Load()

	lg := log.NewLogger()
	defer lg.Sync()

	ctx := context.Background()
	cfg, err := postgres.LoadConfigFromEnv(ctx)
	if err != nil {
		lg.Fatalf("failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		lg.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		lg.Fatalf("database unreachable: %v", err)
	}

	switch command {
	case "up":
		if err := postgres.MigrateUp(ctx, db); err != nil {
			lg.Fatalf("migration failed: %v", err)
		}
		lg.Info("migrations applied")
	case "down":
		if err := postgres.MigrateDown(ctx, db); err != nil {
			lg.Fatalf("rollback failed: %v", err)
		}
		lg.Info("migration rolled back")
	case "status":
		if err := postgres.MigrationStatus(ctx, db); err != nil {
			lg.Fatalf("status failed: %v", err)
		}
	case "version":
		version, err := postgres.MigrationVersion(ctx, db)
		if err != nil {
			lg.Fatalf("version failed: %v", err)
		}
		lg.Infof("schema version: %d", version)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n%s", command, usage)
		os.Exit(2)
	}
}
