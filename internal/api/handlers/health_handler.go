package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/floreria/catalog/internal/api/types"
	appErr "github.com/floreria/catalog/pkg/errors"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

// NewHealthHandler returns health endpoints; db may be nil, in which case
// readiness only reports the process is up.
func NewHealthHandler(db Pinger) *HealthHandler { return &HealthHandler{db: db} }

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, types.NewError(appErr.CodeUnavailable, "database not ready"))
			return
		}
	}
	writeOK(w, http.StatusOK, map[string]string{"status": "ready"})
}
