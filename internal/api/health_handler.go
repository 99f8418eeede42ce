package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"
)

// HealthChecker reports service liveness and database reachability.
type HealthChecker struct {
	db        *sql.DB
	startTime time.Time
}

// NewHealthChecker creates a HealthChecker. db may be nil in tests; the
// database check then reports "not_configured".
func NewHealthChecker(db *sql.DB) *HealthChecker {
	return &HealthChecker{db: db, startTime: time.Now()}
}

// HandleHealth returns liveness plus a bounded database ping.
//
//	GET /health
func (hc *HealthChecker) HandleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "not_configured"
	status := http.StatusOK

	if hc.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := hc.db.PingContext(ctx); err != nil {
			dbStatus = "down"
			status = http.StatusServiceUnavailable
		} else {
			dbStatus = "up"
		}
	}

	respondJSON(w, status, map[string]string{
		"status":   "alive",
		"database": dbStatus,
		"uptime":   time.Since(hc.startTime).Truncate(time.Second).String(),
	})
}
