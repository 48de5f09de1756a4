package handlers

import (
	"net/http"
)

// Health provides a minimal liveness check endpoint. The router scopes it
// to GET, so no method guard is needed here.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}
