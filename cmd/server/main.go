package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fruitgrader/internal/app"
	"fruitgrader/internal/config"
)

func main() {
	cfg := config.Load()
	flag.IntVar(&cfg.Port, "port", cfg.Port, "HTTP port of the dashboard")
	flag.StringVar(&cfg.LeftCamera, "left", cfg.LeftCamera, "Left camera index or URL")
	flag.StringVar(&cfg.RightCamera, "right", cfg.RightCamera, "Right camera index or URL")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer application.Close()

	if err := application.RunServer(ctx); err != nil {
		application.Logger().Error("Server stopped: %v", err)
		application.Close()
		log.Fatalf("Failed to start server: %v", err)
	}
}
