package main

import (
	"fmt"
	"io"
	"os"

	"github.com/erazemk/stockroom/internal/config"
	"github.com/erazemk/stockroom/internal/logger"
)

const usage = `Usage: stockroom [command] [flags]

Commands:
  serve                       run the HTTP server (default)
  migrate [up|down|status|version]
                              manage the database schema
  token -subject S -role R    print an API token signed with JWT_SECRET

Configuration is read from STOCKROOM_* environment variables and .env.
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	command := "serve"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		return cmdServe(args)
	case "migrate":
		return cmdMigrate(args)
	case "token":
		return cmdToken(args)
	case "help":
		fmt.Fprint(os.Stdout, usage)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", command, usage)
		return 1
	}
}

// setupLogger builds the process logger. Info and warn lines go to stdout,
// errors to stderr. If cfg.LogFile is set, all levels are also appended to
// that file. The returned cleanup closes the file.
func setupLogger(cfg *config.Config) (*logger.Logger, func(), error) {
	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)
	cleanup := func() {}

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	logg := logger.New(logger.Options{
		ServiceName: "stockroom",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
		Output:      stdoutW,
		ErrOutput:   stderrW,
	})
	return logg, cleanup, nil
}

// loadConfig reads the configuration and sets up logging. Failures are
// reported on stderr since no logger exists yet.
func loadConfig(envFile string) (*config.Config, *logger.Logger, func(), bool) {
	cfg, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return nil, nil, nil, false
	}
	logg, cleanup, err := setupLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return nil, nil, nil, false
	}
	return cfg, logg, cleanup, true
}
