package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_CreatesLevelFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	l, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer l.Close()

	l.Info("camera %s opened", "left")
	l.Warning("dropped line %q", "x,1")
	l.Error("capture failed: %v", "timeout")

	for name, want := range map[string]string{
		InfoFile:    "camera left opened",
		WarningFile: `dropped line "x,1"`,
		ErrorFile:   "capture failed: timeout",
	} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("Failed to read %s: %v", name, err)
		}
		if !strings.Contains(string(data), want) {
			t.Errorf("%s = %q, expected to contain %q", name, data, want)
		}
	}
}

func TestCleanLogs_Truncates(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer l.Close()

	l.Info("something")
	if err := l.CleanLogs(InfoFile); err != nil {
		t.Fatalf("CleanLogs failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, InfoFile))
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("Expected empty file after clean, got %d bytes", info.Size())
	}
}

func TestNewWriter_Prefixes(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf)

	l.Info("a")
	l.Warning("b")
	l.Error("c")

	out := buf.String()
	for _, prefix := range []string{"INFO", "WARNING", "ERROR"} {
		if !strings.Contains(out, prefix) {
			t.Errorf("Expected output to contain %s, got %q", prefix, out)
		}
	}
	if !strings.Contains(out, "logger_test.go") {
		t.Errorf("Expected caller file in output, got %q", out)
	}
}
