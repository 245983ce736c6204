package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"fruitgrader/internal/config"
	"fruitgrader/internal/logger"

	"github.com/gorilla/websocket"
)

type nopHub struct{}

func (nopHub) Register(*websocket.Conn)   {}
func (nopHub) Unregister(*websocket.Conn) {}

func newRouter(t *testing.T, password string) (http.Handler, *int) {
	t.Helper()

	static := t.TempDir()
	os.WriteFile(filepath.Join(static, "index.html"), []byte("<h1>dashboard</h1>"), 0644)
	os.WriteFile(filepath.Join(static, "login.html"), []byte("<form></form>"), 0644)

	stops := 0
	return SetupRoutes(Dependencies{
		Config: &config.Config{StaticDir: static, Password: password},
		Logger: logger.Discard(),
		Hub:    nopHub{},
		Stop:   func() { stops++ },
	}), &stops
}

func TestSetupRoutes_Pages(t *testing.T) {
	router, _ := newRouter(t, "")

	tests := []struct {
		path     string
		expected int
	}{
		{"/", http.StatusOK},
		{"/login", http.StatusOK},
		{"/missing", http.StatusNotFound},
		{"/api/inspections", http.StatusNotFound},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.expected {
			t.Errorf("%s: expected %d, got %d", tt.path, tt.expected, rec.Code)
		}
	}
}

func TestSetupRoutes_StopBehindAuth(t *testing.T) {
	router, stops := newRouter(t, "secret")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/stop", nil))
	if rec.Code != http.StatusUnauthorized || *stops != 0 {
		t.Errorf("Expected 401 without cookie, got %d (stops %d)", rec.Code, *stops)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/stop", nil)
	req.AddCookie(&http.Cookie{Name: "authenticated", Value: "true"})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted || *stops != 1 {
		t.Errorf("Expected 202 with cookie, got %d (stops %d)", rec.Code, *stops)
	}
}
