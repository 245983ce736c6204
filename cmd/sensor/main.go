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
	flag.StringVar(&cfg.SerialPort, "port", cfg.SerialPort, "Serial device of the sensor board")
	flag.IntVar(&cfg.BaudRate, "baud", cfg.BaudRate, "Serial baud rate")
	flag.StringVar(&cfg.OutputFile, "out", cfg.OutputFile, "CSV file with the latest reading")
	flag.StringVar(&cfg.DatasetPath, "dataset", cfg.DatasetPath, "Reference dataset for the quality model")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer application.Close()

	if err := application.RunMonitor(ctx); err != nil {
		application.Close()
		log.Fatalf("Monitoring failed: %v", err)
	}
}
