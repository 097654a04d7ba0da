package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports process readiness.
type HealthHandler struct {
	db         Pinger
	dispatcher interface{ Enabled() bool }
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger, dispatcher interface{ Enabled() bool }) *HealthHandler {
	return &HealthHandler{db: db, dispatcher: dispatcher}
}

// Index is the plain hello-world root page.
func (h *HealthHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("<p>Hello, World!</p>"))
}

// Healthz pings the database and reports whether OTP dispatch is available.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	if err := h.db.PingContext(ctx); err != nil {
		dbStatus = err.Error()
	}
	smsStatus := "disabled"
	if h.dispatcher != nil && h.dispatcher.Enabled() {
		smsStatus = "enabled"
	}

	status := http.StatusOK
	if dbStatus != "ok" {
		status = http.StatusServiceUnavailable
	}
	respondWithJSON(w, status, map[string]string{
		"database":  dbStatus,
		"sms":       smsStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
