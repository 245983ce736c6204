package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"fruitgrader/internal/app"
	"fruitgrader/internal/config"
)

// Okna HighGUI muszą działać na głównym wątku systemu (macOS)
func init() {
	runtime.LockOSThread()
}

func main() {
	cfg := config.Load()
	flag.StringVar(&cfg.LeftCamera, "left", cfg.LeftCamera, "Left camera index or URL")
	flag.StringVar(&cfg.RightCamera, "right", cfg.RightCamera, "Right camera index or URL")
	preview := flag.Bool("preview", true, "Show camera windows (press q to quit)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer application.Close()

	if err := application.RunInspection(ctx, *preview); err != nil {
		application.Close()
		log.Fatalf("Inspection failed: %v", err)
	}
}
