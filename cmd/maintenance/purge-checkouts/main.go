package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/thedirecttree/directory-gateway/internal/config"
	"github.com/thedirecttree/directory-gateway/internal/database"
)

// purge-checkouts deletes confirmed and abandoned checkout records that
// have not changed for longer than -older-than.
func main() {
	var dbURLFlag string
	var olderThan time.Duration
	var dryRun bool
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.DurationVar(&olderThan, "older-than", 90*24*time.Hour, "delete finished checkouts last updated before now minus this duration")
	flag.BoolVar(&dryRun, "dry-run", false, "print the cutoff and exit without deleting")
	flag.Parse()

	// Try loading .env from current working directory (optional)
	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}
	if olderThan <= 0 {
		log.Fatal("-older-than must be positive")
	}

	cutoff := time.Now().Add(-olderThan).UTC()
	fmt.Printf("Purging finished checkouts last updated before %s\n", cutoff.Format(time.RFC3339))
	if dryRun {
		fmt.Println("Dry run, nothing deleted.")
		return
	}

	// Build minimal database config without loading full app config
	dbCfg := config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	}

	db, err := database.NewConnection(dbCfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("failed to prepare schema: %v", err)
	}

	n, err := database.NewCheckoutRepository(db).DeleteFinishedBefore(ctx, cutoff)
	if err != nil {
		log.Fatalf("failed to purge checkouts: %v", err)
	}
	fmt.Printf("Deleted %d checkout record(s).\n", n)
}
