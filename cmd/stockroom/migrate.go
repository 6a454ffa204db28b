package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/erazemk/stockroom/internal/db"
)

var migrateCommands = map[string]bool{
	"up":      true,
	"down":    true,
	"status":  true,
	"version": true,
}

func cmdMigrate(args []string) int {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	envFile := fs.String("env", ".env", "dotenv file to load if present")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	command := "up"
	if fs.NArg() > 0 {
		command = fs.Arg(0)
	}
	if !migrateCommands[command] {
		fmt.Fprintf(os.Stderr, "unknown migrate command: %s (want up, down, status or version)\n", command)
		return 1
	}

	cfg, logg, closeLog, ok := loadConfig(*envFile)
	if !ok {
		return 1
	}
	defer closeLog()

	ctx := logg.WithField(context.Background(), "command", command)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logg.Error(ctx, "data_dir.create_failed", err)
		return 1
	}

	database, err := db.Open(cfg.DBPath())
	if err != nil {
		logg.Error(ctx, "database.open_failed", err)
		return 1
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, database, logg, command); err != nil {
		logg.Error(ctx, "migrate.failed", err)
		return 1
	}
	return 0
}
