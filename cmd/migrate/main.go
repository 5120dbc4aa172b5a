package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"

	"library-api/internal/config"
	"library-api/migrations"
	"library-api/pkg/logger"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, version, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	loadEnvFiles()
	logger.Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	if err := run(*command, *name); err != nil {
		log.Fatal().Err(err).Str("command", *command).Msg("Migration failed")
	}
}

func run(command, name string) error {
	if command == "create" {
		return create(name)
	}

	dbCfg, err := config.LoadDatabaseConfig()
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", dbCfg.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		if err := goose.Up(db, "."); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		log.Info().Msg("Migrations applied successfully")
	case "down":
		if err := goose.Down(db, "."); err != nil {
			return fmt.Errorf("rollback migration: %w", err)
		}
		log.Info().Msg("Migration rolled back successfully")
	case "status":
		return goose.Status(db, ".")
	case "version":
		return goose.Version(db, ".")
	default:
		return fmt.Errorf("unknown command %q (use: up, down, status, version, create)", command)
	}
	return nil
}

// create writes a new SQL file on disk; it is picked up by the embed on the next build
func create(name string) error {
	if name == "" {
		return fmt.Errorf("name is required for 'create' command")
	}

	goose.SetBaseFS(nil)
	dir := migrationsDir()
	if err := goose.Create(nil, dir, name, "sql"); err != nil {
		return fmt.Errorf("create migration: %w", err)
	}
	log.Info().Str("dir", dir).Str("name", name).Msg("Migration created")
	return nil
}
