package main

import (
	"database/sql"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver
	"github.com/pressly/goose/v3"

	"github.com/Anish6964/fxblue-etl/configs"
	"github.com/Anish6964/fxblue-etl/internal/ingest"
)

func main() {
	logger := ingest.NewLogger()
	cfg := configs.AppLoad()

	db, err := sql.Open("pgx", cfg.DBDSN)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.WithError(err).Error("Failed to ping database")
		os.Exit(1)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		logger.WithError(err).Error("Goose: failed to set dialect")
		os.Exit(1)
	}

	logger.Info("Running database migrations...")
	if err := goose.Up(db, "internal/migrations"); err != nil {
		logger.WithError(err).Error("Goose migration failed")
		os.Exit(1)
	}

	logger.Info("Migrations completed successfully")
}
