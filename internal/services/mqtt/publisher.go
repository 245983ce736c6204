package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fruitgrader/internal/logger"
	"fruitgrader/internal/model"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	queueSize      = 32
	publishTimeout = 2 * time.Second
)

// TokenPublisher is the part of mqtt.Client the Publisher needs.
type TokenPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// PublisherConfig holds topic patterns. {camera_pair} in VerdictTopic is
// replaced with "<left>-<right>".
type PublisherConfig struct {
	VerdictTopic string
	ReadingTopic string
	QoS          byte
}

// VerdictMessage is the JSON payload of a fused verdict.
type VerdictMessage struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Timestamp   time.Time `json:"timestamp"`
	LeftCamera  string    `json:"left_camera"`
	LeftLabel   string    `json:"left_label"`
	RightCamera string    `json:"right_camera"`
	RightLabel  string    `json:"right_label"`
	Verdict     string    `json:"verdict"`
}

// ReadingMessage is the JSON payload of a sensor reading.
type ReadingMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
	Ripeness  int       `json:"ripeness"`
	PH        float64   `json:"ph"`
	Brix      float64   `json:"brix"`
	Softness  int       `json:"softness"`
	Quality   float64   `json:"quality"`
}

type outgoing struct {
	topic   string
	payload []byte
}

// Publisher is a presentation sink. Present/Report only enqueue; Start does
// the network I/O.
type Publisher struct {
	client TokenPublisher
	config PublisherConfig
	queue  chan outgoing
	logger *logger.Logger
}

// NewPublisher creates a publisher for client.
func NewPublisher(client TokenPublisher, config PublisherConfig, logger *logger.Logger) *Publisher {
	return &Publisher{
		client: client,
		config: config,
		queue:  make(chan outgoing, queueSize),
		logger: logger,
	}
}

// Start publishes queued messages until ctx is cancelled.
func (p *Publisher) Start(ctx context.Context) {
	p.logger.Info("MQTT Publisher: Starting...")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("MQTT Publisher: Context cancelled, shutting down...")
			return

		case msg := <-p.queue:
			if err := p.publish(msg); err != nil {
				p.logger.Error("MQTT Publisher: %v", err)
			}
		}
	}
}

func (p *Publisher) publish(msg outgoing) error {
	token := p.client.Publish(msg.topic, p.config.QoS, false, msg.payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", msg.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", msg.topic, err)
	}
	return nil
}

// Present enqueues fused verdicts. Ticks without a verdict are skipped.
func (p *Publisher) Present(ctx context.Context, inspection model.Inspection) error {
	if !inspection.HasVerdict || p.config.VerdictTopic == "" {
		return nil
	}

	payload, err := json.Marshal(VerdictMessage{
		ID:          inspection.ID,
		SessionID:   inspection.SessionID,
		Timestamp:   inspection.Timestamp,
		LeftCamera:  inspection.Left.Camera,
		LeftLabel:   string(inspection.Left.Label),
		RightCamera: inspection.Right.Camera,
		RightLabel:  string(inspection.Right.Label),
		Verdict:     string(inspection.Verdict),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal verdict: %w", err)
	}

	p.enqueue(formatTopic(p.config.VerdictTopic, inspection.Left.Camera, inspection.Right.Camera), payload)
	return nil
}

// Report enqueues a sensor reading.
func (p *Publisher) Report(ctx context.Context, reading model.Reading) error {
	if p.config.ReadingTopic == "" {
		return nil
	}

	payload, err := json.Marshal(ReadingMessage{
		ID:        reading.ID,
		SessionID: reading.SessionID,
		Timestamp: reading.Timestamp,
		Ripeness:  reading.Sample.Ripeness,
		PH:        reading.Sample.PH,
		Brix:      reading.Sample.Brix,
		Softness:  reading.Sample.Softness,
		Quality:   reading.Quality,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	p.enqueue(p.config.ReadingTopic, payload)
	return nil
}

func (p *Publisher) enqueue(topic string, payload []byte) {
	select {
	case p.queue <- outgoing{topic: topic, payload: payload}:
	default:
		p.logger.Warning("MQTT Publisher: queue full, dropping message for %s", topic)
	}
}

// formatTopic replaces {camera_pair}; MQTT wildcards and separators in
// camera ids are flattened.
func formatTopic(pattern, left, right string) string {
	pair := topicSafe(left) + "-" + topicSafe(right)
	return strings.ReplaceAll(pattern, "{camera_pair}", pair)
}

func topicSafe(id string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '+', '#', ':':
			return '_'
		}
		return r
	}, id)
}
