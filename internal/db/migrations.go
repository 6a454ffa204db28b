package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/erazemk/stockroom/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// goose keeps its dialect, filesystem and logger in package state.
var gooseMu sync.Mutex

// Migrate applies all pending migrations. It is idempotent.
func Migrate(ctx context.Context, db *sql.DB, logg *logger.Logger) error {
	return RunMigrations(ctx, db, logg, "up")
}

// RunMigrations executes a goose command (up, down, status, version, ...)
// against the embedded migrations.
func RunMigrations(ctx context.Context, db *sql.DB, logg *logger.Logger, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	if logg != nil {
		goose.SetLogger(&gooseLogger{ctx: ctx, logg: logg})
	} else {
		goose.SetLogger(goose.NopLogger())
	}
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, db, migrationsDir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// gooseLogger forwards goose output to the structured logger.
type gooseLogger struct {
	ctx  context.Context
	logg *logger.Logger
}

func (l *gooseLogger) Printf(format string, v ...any) {
	l.logg.Info(l.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *gooseLogger) Fatalf(format string, v ...any) {
	l.logg.Error(l.ctx, "goose fatal", fmt.Errorf(format, v...))
	os.Exit(1)
}
