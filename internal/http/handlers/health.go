package handlers

import (
	"net/http"
	"time"
)

// Health answers as long as the process serves requests.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok", "service": "flabi"})
}

// Ready loads the snapshot once, so it fails while the database is
// unreachable. Collaborator details stay in the log.
func (a *App) Ready(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	snap, err := a.Site.Load(r.Context())
	if err != nil {
		a.Logger.Warn().Err(err).Msg("readiness check failed")
		a.json(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":     "ready",
		"loaded_at":  snap.LoadedAt,
		"latency_ms": time.Since(start).Milliseconds(),
	})
}
