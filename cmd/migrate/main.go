// Command migrate applies or rolls back the PostgreSQL schema.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/intellibazar/intellibazar/internal/config"
	"github.com/intellibazar/intellibazar/internal/database"
)

func main() {
	cfg := config.Load()
	dsn := flag.String("dsn", cfg.DatabaseURL, "PostgreSQL connection string")
	down := flag.Int("down", 0, "roll back this many migrations instead of applying")
	flag.Parse()

	logger := log.New(os.Stderr, "[migrate] ", log.LstdFlags)
	db, err := database.OpenPostgres(context.Background(), *dsn)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	defer db.Close()

	if *down > 0 {
		if err := database.Rollback(db, *down); err != nil {
			logger.Fatalf("%v", err)
		}
		logger.Printf("rolled back %d migration(s)", *down)
		return
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatalf("%v", err)
	}
	logger.Printf("schema up to date")
}
