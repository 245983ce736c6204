package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Dashboard
	Port      int
	Password  string // pusty = bez logowania
	StaticDir string
	LogDir    string

	// History and snapshots
	DatabasePath          string
	ImageDirectory        string
	SnapshotBufferLimit   int
	SnapshotFlushInterval time.Duration

	// Detector
	ModelPath           string
	DetectorClasses     []string
	ConfidenceThreshold float64
	NMSThreshold        float64
	DetectorInputSize   int

	// Cameras
	LeftCamera   string
	RightCamera  string
	FrameWidth   int
	FrameHeight  int
	PollInterval time.Duration

	// Serial sensor
	SerialPort        string
	BaudRate          int
	SerialTimeout     time.Duration
	SerialSettleDelay time.Duration
	ReportInterval    time.Duration
	OutputFile        string

	// Regression
	DatasetPath string
	RidgeAlpha  float64
	TestSplit   float64
	SplitSeed   int64

	// MQTT (wyłączone gdy broker pusty)
	MQTTBroker       string
	MQTTClientID     string
	MQTTUsername     string
	MQTTPassword     string
	MQTTTopicVerdict string
	MQTTTopicReading string
}

func Load() *Config {
	// .env jest opcjonalny
	_ = godotenv.Load()

	return &Config{
		Port:      getEnvAsInt("PORT", 8080),
		Password:  getEnv("PASSWORD", ""),
		StaticDir: getEnv("STATIC_DIR", filepath.Join(".", "static")),
		LogDir:    getEnv("LOG_DIR", filepath.Join(".", "logs")),

		DatabasePath:          getEnv("DB_PATH", filepath.Join(".", "data", "fruitgrader.db")),
		ImageDirectory:        getEnv("IMAGE_DIR", filepath.Join(".", "images")),
		SnapshotBufferLimit:   getEnvAsInt("SNAPSHOT_BUFFER_LIMIT", 7),
		SnapshotFlushInterval: getEnvAsDuration("SNAPSHOT_FLUSH_INTERVAL", 30*time.Second),

		ModelPath:           getEnv("MODEL_PATH", filepath.Join(".", "models", "orange_classifier.onnx")),
		DetectorClasses:     getEnvAsList("DETECTOR_CLASSES", []string{"fresh", "rotten"}),
		ConfidenceThreshold: getEnvAsFloat("CONFIDENCE_THRESHOLD", 0.25),
		NMSThreshold:        getEnvAsFloat("NMS_THRESHOLD", 0.45),
		DetectorInputSize:   getEnvAsInt("DETECTOR_INPUT_SIZE", 640),

		LeftCamera:   getEnv("LEFT_CAMERA", "0"),
		RightCamera:  getEnv("RIGHT_CAMERA", "1"),
		FrameWidth:   getEnvAsInt("FRAME_WIDTH", 0),
		FrameHeight:  getEnvAsInt("FRAME_HEIGHT", 0),
		PollInterval: getEnvAsDuration("POLL_INTERVAL", 100*time.Millisecond),

		SerialPort:        getEnv("SERIAL_PORT", "COM7"),
		BaudRate:          getEnvAsInt("BAUD_RATE", 115200),
		SerialTimeout:     getEnvAsDuration("SERIAL_TIMEOUT", time.Second),
		SerialSettleDelay: getEnvAsDuration("SERIAL_SETTLE_DELAY", 2*time.Second),
		ReportInterval:    getEnvAsDuration("REPORT_INTERVAL", 4*time.Second),
		OutputFile:        getEnv("OUTPUT_FILE", "sensor_data.csv"),

		DatasetPath: getEnv("DATASET_PATH", filepath.Join(".", "Orange Quality Data.csv")),
		RidgeAlpha:  getEnvAsFloat("RIDGE_ALPHA", 0.1),
		TestSplit:   getEnvAsFloat("TEST_SPLIT", 0.3),
		SplitSeed:   getEnvAsInt64("SPLIT_SEED", 101),

		MQTTBroker:       getEnv("MQTT_BROKER", ""),
		MQTTClientID:     getEnv("MQTT_CLIENT_ID", "fruitgrader"),
		MQTTUsername:     getEnv("MQTT_USERNAME", ""),
		MQTTPassword:     getEnv("MQTT_PASSWORD", ""),
		MQTTTopicVerdict: getEnv("MQTT_TOPIC_VERDICT", "fruitgrader/{camera_pair}/verdict"),
		MQTTTopicReading: getEnv("MQTT_TOPIC_READING", "fruitgrader/sensor/quality"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDuration akceptuje "4s", "100ms" albo gołą liczbę sekund.
// Wartości <= 0 są ignorowane.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		seconds, ferr := strconv.ParseFloat(value, 64)
		if ferr != nil {
			return defaultValue
		}
		d = time.Duration(seconds * float64(time.Second))
	}
	if d <= 0 {
		return defaultValue
	}
	return d
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
