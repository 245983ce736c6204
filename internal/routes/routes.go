package routes

import (
	"net/http"
	"os"
	"path/filepath"

	"fruitgrader/internal/config"
	"fruitgrader/internal/handlers"
	"fruitgrader/internal/logger"
	"fruitgrader/internal/middleware"
	"fruitgrader/internal/repository"
)

// Dependencies are the services the dashboard reads from.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	Hub         handlers.ViewerHub
	Inspections repository.InspectionRepository
	Readings    repository.ReadingRepository
	Stop        func()
}

// dynamicHTMLHandler serves /path as <static>/path.html if the file exists; otherwise 404.
func dynamicHTMLHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path == "/" {
			path = "/index"
		}

		filePath := filepath.Join(staticDir, filepath.Clean("/"+path)+".html")

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, filePath)
	}
}

// SetupRoutes registers static files, the viewer stream, history API, log
// endpoints and auth, and wraps the mux with the authentication middleware.
func SetupRoutes(deps Dependencies) http.Handler {
	cfg, log := deps.Config, deps.Logger
	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))

	// API endpoints
	mux.HandleFunc("/api/view", handlers.ViewWebsocketHandler(deps.Hub, log))
	mux.HandleFunc("/api/stop", handlers.StopHandler(deps.Stop, log))
	if deps.Inspections != nil {
		mux.HandleFunc("/api/inspections", handlers.GetInspectionsHandler(deps.Inspections, log))
		mux.HandleFunc("/api/inspections/stats", handlers.GetInspectionStatsHandler(deps.Inspections, log))
	}
	if deps.Readings != nil {
		mux.HandleFunc("/api/readings", handlers.GetReadingsHandler(deps.Readings, log))
	}

	// Log endpoints
	for route, file := range map[string]string{
		"/logs/info":    logger.InfoFile,
		"/logs/warning": logger.WarningFile,
		"/logs/error":   logger.ErrorFile,
	} {
		mux.HandleFunc(route, handlers.ShowLogsHandler(log, file))
		mux.HandleFunc(route+"/clear", handlers.ClearLogsHandler(log, file))
	}

	// Auth endpoints
	mux.HandleFunc("/auth/login", handlers.LoginHandler(cfg, log))
	mux.HandleFunc("/auth/logout", handlers.LogoutHandler)

	// Automatic HTML handler mapping for example: /login -> <static>/login.html
	mux.HandleFunc("/", dynamicHTMLHandler(cfg.StaticDir))

	return middleware.AuthMiddleware(cfg.Password)(mux)
}
