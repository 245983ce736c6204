package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"fruitgrader/internal/camera"
	"fruitgrader/internal/camera/webcam"
	"fruitgrader/internal/config"
	"fruitgrader/internal/logger"
	"fruitgrader/internal/quality"
	"fruitgrader/internal/regression"
	"fruitgrader/internal/repository/sqlite"
	"fruitgrader/internal/routes"
	"fruitgrader/internal/sensor"
	"fruitgrader/internal/services"
	"fruitgrader/internal/services/ai"
	"fruitgrader/internal/services/display"
	"fruitgrader/internal/services/history"
	"fruitgrader/internal/services/mqtt"
	"fruitgrader/internal/services/report"
	"fruitgrader/internal/services/storage"
	"fruitgrader/internal/services/websocket"
)

type App struct {
	config      *config.Config
	logger      *logger.Logger
	out         io.Writer
	db          *sqlite.DB
	inspections *sqlite.InspectionRepository
	readings    *sqlite.ReadingRepository
	recorder    *history.Recorder
	console     *report.Console
	hub         *websocket.HubService
	buffer      *storage.BufferService
	mqttClient  *mqtt.Client
	publisher   *mqtt.Publisher
}

// NewApp builds the shared services. MQTT is optional; a broker that cannot
// be reached only disables publishing.
func NewApp(cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.LogDir)
	if err != nil {
		return nil, err
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		log.Close()
		return nil, err
	}

	a := &App{
		config:      cfg,
		logger:      log,
		out:         os.Stdout,
		db:          db,
		inspections: sqlite.NewInspectionRepository(db),
		readings:    sqlite.NewReadingRepository(db),
		console:     report.NewConsole(os.Stdout),
		hub:         websocket.NewHubService(log),
		buffer:      storage.NewBufferService(cfg.ImageDirectory, cfg.SnapshotBufferLimit, log),
	}
	a.recorder = history.NewRecorder(a.inspections, a.readings)

	if cfg.MQTTBroker != "" {
		client, err := mqtt.NewClient(mqtt.ClientConfig{
			Broker:   cfg.MQTTBroker,
			ClientID: cfg.MQTTClientID,
			Username: cfg.MQTTUsername,
			Password: cfg.MQTTPassword,
		}, log)
		if err != nil {
			log.Warning("MQTT disabled: %v", err)
		} else {
			a.mqttClient = client
			a.publisher = mqtt.NewPublisher(client.GetNativeClient(), mqtt.PublisherConfig{
				VerdictTopic: cfg.MQTTTopicVerdict,
				ReadingTopic: cfg.MQTTTopicReading,
				QoS:          1,
			}, log)
		}
	}

	return a, nil
}

func (a *App) Logger() *logger.Logger {
	return a.logger
}

// Close releases the database, the broker connection and the log files.
func (a *App) Close() error {
	if a.mqttClient != nil {
		a.mqttClient.Close()
	}
	err := a.db.Close()
	if cerr := a.logger.Close(); err == nil {
		err = cerr
	}
	return err
}

// startBackground runs the hub, the snapshot flusher and the MQTT publisher
// until ctx is done.
func (a *App) startBackground(ctx context.Context) {
	go a.hub.Run(ctx)
	go a.buffer.Run(ctx, a.config.SnapshotFlushInterval)
	if a.publisher != nil {
		go a.publisher.Start(ctx)
	}
}

func (a *App) inspectionSinks(extra ...services.InspectionSink) []services.InspectionSink {
	sinks := []services.InspectionSink{a.console, a.hub, a.buffer, a.recorder}
	if a.publisher != nil {
		sinks = append(sinks, a.publisher)
	}
	return append(sinks, extra...)
}

func (a *App) readingSinks(extra ...services.ReadingSink) []services.ReadingSink {
	sinks := []services.ReadingSink{a.console, a.hub, a.recorder}
	if a.publisher != nil {
		sinks = append(sinks, a.publisher)
	}
	return append(sinks, extra...)
}

// newInspector loads the detector and opens both cameras. The returned
// release func closes the detector; the cameras belong to the inspector.
func (a *App) newInspector(extra ...services.InspectionSink) (*services.Inspector, func(), error) {
	cfg := a.config

	detector, err := ai.NewDetectorService(ai.Config{
		ModelPath:           cfg.ModelPath,
		Classes:             cfg.DetectorClasses,
		ConfidenceThreshold: float32(cfg.ConfidenceThreshold),
		NMSThreshold:        float32(cfg.NMSThreshold),
		InputSize:           cfg.DetectorInputSize,
	}, a.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load detector: %w", err)
	}

	opener := webcam.Opener(webcam.Options{Width: cfg.FrameWidth, Height: cfg.FrameHeight})
	pair, err := camera.OpenPair(opener, cfg.LeftCamera, cfg.RightCamera)
	if err != nil {
		detector.Close()
		a.logger.Error("Error: Could not open one or both cameras: %v", err)
		return nil, nil, err
	}
	a.logger.Info("Cameras %s and %s opened", cfg.LeftCamera, cfg.RightCamera)

	classifier := quality.NewClassifier(detector, detector, cfg.ConfidenceThreshold)
	inspector := services.NewInspector(pair, classifier, cfg.PollInterval, a.logger, a.inspectionSinks(extra...)...)

	release := func() {
		if err := detector.Close(); err != nil {
			a.logger.Warning("Failed to release detector: %v", err)
		}
	}
	return inspector, release, nil
}

// RunInspection runs the camera loop on the calling goroutine with console
// output, optionally showing preview windows where q stops the loop.
func (a *App) RunInspection(ctx context.Context, preview bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.startBackground(ctx)

	var extra []services.InspectionSink
	if preview {
		windows := display.NewWindowSink(cancel)
		defer windows.Close()
		extra = append(extra, windows)
	}

	inspector, release, err := a.newInspector(extra...)
	if err != nil {
		return err
	}
	defer release()

	return inspector.Run(ctx)
}

// RunServer serves the dashboard and runs the camera loop until ctx is done.
// The Stop button ends the loop but the dashboard keeps serving history.
func (a *App) RunServer(ctx context.Context) error {
	a.startBackground(ctx)

	inspectCtx, stopInspection := context.WithCancel(ctx)
	defer stopInspection()

	router := routes.SetupRoutes(routes.Dependencies{
		Config:      a.config,
		Logger:      a.logger,
		Hub:         a.hub,
		Inspections: a.inspections,
		Readings:    a.readings,
		Stop:        stopInspection,
	})
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.config.Port),
		Handler: router,
	}

	inspector, release, err := a.newInspector()
	if err != nil {
		return err
	}

	inspectionDone := make(chan struct{})
	go func() {
		defer close(inspectionDone)
		defer release()
		if err := inspector.Run(inspectCtx); err != nil {
			a.logger.Error("Inspection ended: %v", err)
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	fmt.Fprintf(a.out, "🍊 Orange Quality Detection System\n")
	fmt.Fprintf(a.out, "📍 URL: http://localhost:%d\n", a.config.Port)
	fmt.Fprintf(a.out, "📷 Cameras: %s, %s\n", a.config.LeftCamera, a.config.RightCamera)
	fmt.Fprintf(a.out, "🤖 AI Model: %s\n", a.config.ModelPath)

	select {
	case err := <-serverErr:
		stopInspection()
		<-inspectionDone
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	<-inspectionDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// RunMonitor fits the predictor, opens the serial port and reports
// readings until ctx is done.
func (a *App) RunMonitor(ctx context.Context) error {
	cfg := a.config

	predictor, metrics, err := regression.TrainFromFile(cfg.DatasetPath, regression.Options{
		Alpha:        cfg.RidgeAlpha,
		TestFraction: cfg.TestSplit,
		Seed:         cfg.SplitSeed,
	})
	if err != nil {
		return fmt.Errorf("failed to train quality model: %w", err)
	}
	a.logger.Info("Quality model trained on %d rows, hold-out R2=%.3f RMSE=%.3f (%d rows)",
		metrics.TrainRows, metrics.R2, metrics.RMSE, metrics.TestRows)

	source, err := sensor.Open(sensor.PortConfig{
		Name:        cfg.SerialPort,
		Baud:        cfg.BaudRate,
		ReadTimeout: cfg.SerialTimeout,
		SettleDelay: cfg.SerialSettleDelay,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Connected to %s at %d baud\n", cfg.SerialPort, cfg.BaudRate)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.startBackground(ctx)

	csv := report.NewLatestCSV(cfg.OutputFile)
	monitor := services.NewMonitor(source, predictor, cfg.ReportInterval, cfg.PollInterval, a.logger, a.readingSinks(csv)...)

	err = monitor.Run(ctx)
	if ctx.Err() != nil && err == nil {
		fmt.Fprintln(a.out, "\nMonitoring stopped by user.")
	}
	fmt.Fprintln(a.out, "Serial connection closed.")
	return err
}
