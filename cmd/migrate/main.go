package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"libraryapi/internal/logging"
	"libraryapi/internal/platform/database"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, redo, status, version, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	loadEnvFiles()
	logging.Init(logging.Config{Format: "console"})

	dir := migrationsDir()
	if *command == "create" {
		if err := create(dir, *name); err != nil {
			logging.Fatal().Err(err).Msg("create migration")
		}
		logging.Info().Str("name", *name).Str("dir", dir).Msg("migration created")
		return
	}

	dsn := databaseDSN()
	pool, err := database.Open(context.Background(), dsn)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := migrate(db, *command, dir); err != nil {
		logging.Fatal().Err(err).Str("command", *command).Msg("migration failed")
	}
	logging.Info().Str("command", *command).Str("dsn", database.RedactDSN(dsn)).Msg("migration command finished")
}

func create(dir, name string) error {
	if name == "" {
		return fmt.Errorf("name is required for 'create' command")
	}
	return goose.Create(nil, dir, name, "sql")
}

func migrate(db *sql.DB, command, dir string) error {
	goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		return goose.Up(db, dir)
	case "down":
		return goose.Down(db, dir)
	case "redo":
		return goose.Redo(db, dir)
	case "status":
		return goose.Status(db, dir)
	case "version":
		return goose.Version(db, dir)
	default:
		return fmt.Errorf("unknown command %q, use: up, down, redo, status, version, create", command)
	}
}
