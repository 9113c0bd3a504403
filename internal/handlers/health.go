package handlers

import (
	"context"
	"net/http"
	"time"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db pinger
}

func NewHealthHandler(db pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health always answers 200; a failing database only degrades the status.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbStatus := "disabled"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		dbStatus = "ok"
		if err := h.db.Ping(ctx); err != nil {
			dbStatus = "unreachable"
		}
	}

	status := "ok"
	if dbStatus == "unreachable" {
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   status,
		"database": dbStatus,
	})
}

func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("SmartBrief API Running"))
}
