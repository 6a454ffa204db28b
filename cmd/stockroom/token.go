package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/erazemk/stockroom/internal/auth"
	"github.com/erazemk/stockroom/internal/config"
	"github.com/erazemk/stockroom/internal/model"
)

func cmdToken(args []string) int {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	envFile := fs.String("env", ".env", "dotenv file to load if present")
	subject := fs.String("subject", "", "token subject, usually a person or service name")
	role := fs.String("role", model.RoleViewer, "editor or viewer")
	ttl := fs.Duration("ttl", auth.TokenExpiry, "token lifetime")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "error: -subject is required")
		return 1
	}
	if *ttl <= 0 {
		fmt.Fprintln(os.Stderr, "error: -ttl must be positive")
		return 1
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if !cfg.AuthEnabled() {
		fmt.Fprintln(os.Stderr, "error: STOCKROOM_JWT_SECRET is not set")
		return 1
	}

	token, err := auth.GenerateToken(cfg.JWTSecret, *subject, *role, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintln(os.Stdout, token)
	fmt.Fprintf(os.Stderr, "expires %s\n", time.Now().Add(*ttl).UTC().Format(time.RFC3339))
	return 0
}
