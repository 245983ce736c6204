package handlers

import (
	"net/http"

	"fruitgrader/internal/logger"
)

// StopHandler ends the running inspection, like the "Stop Detection" button.
func StopHandler(stop func(), logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		logger.Info("Stop requested from dashboard")
		stop()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"status":"stopping"}` + "\n"))
	}
}
