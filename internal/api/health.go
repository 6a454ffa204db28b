package api

import (
	"context"
	"net/http"
	"time"

	"github.com/erazemk/stockroom/internal/logger"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

const healthTimeout = 2 * time.Second

// Health handles GET /healthz.
func Health(db Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				if logg != nil {
					logg.Error(r.Context(), "health.db_unreachable", err)
				}
				jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
