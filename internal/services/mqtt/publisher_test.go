package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"fruitgrader/internal/logger"
	"fruitgrader/internal/model"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type doneToken struct {
	err error
}

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Error() error                   { return t.err }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type published struct {
	topic   string
	payload []byte
}

type fakeClient struct {
	mu       sync.Mutex
	messages []published
	err      error
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, published{topic: topic, payload: payload.([]byte)})
	return doneToken{err: c.err}
}

func (c *fakeClient) received() []published {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]published(nil), c.messages...)
}

func TestFormatTopic(t *testing.T) {
	tests := []struct {
		pattern, left, right, expected string
	}{
		{"fruitgrader/{camera_pair}/verdict", "0", "1", "fruitgrader/0-1/verdict"},
		{"fruitgrader/{camera_pair}/verdict", "rtsp://a/b", "c+d", "fruitgrader/rtsp___a_b-c_d/verdict"},
		{"static/topic", "0", "1", "static/topic"},
	}
	for _, tt := range tests {
		if got := formatTopic(tt.pattern, tt.left, tt.right); got != tt.expected {
			t.Errorf("formatTopic(%q, %q, %q) = %q, expected %q", tt.pattern, tt.left, tt.right, got, tt.expected)
		}
	}
}

func TestPublisher_PublishesVerdictsAndReadings(t *testing.T) {
	client := &fakeClient{}
	p := NewPublisher(client, PublisherConfig{
		VerdictTopic: "fruitgrader/{camera_pair}/verdict",
		ReadingTopic: "fruitgrader/sensor/quality",
	}, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Start(ctx)

	p.Present(ctx, model.Inspection{ID: "skip"})
	p.Present(ctx, model.Inspection{
		ID:         "i1",
		Left:       model.CameraResult{Camera: "0", Label: model.LabelFresh},
		Right:      model.CameraResult{Camera: "1", Label: "defect_A"},
		Verdict:    model.VerdictRotten,
		HasVerdict: true,
	})
	p.Report(ctx, model.Reading{ID: "r1", Sample: model.Sample{Ripeness: 3}, Quality: 4.5})

	deadline := time.Now().Add(2 * time.Second)
	for len(client.received()) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("Expected 2 messages, got %d", len(client.received()))
		}
		time.Sleep(5 * time.Millisecond)
	}

	msgs := client.received()
	if msgs[0].topic != "fruitgrader/0-1/verdict" {
		t.Errorf("Verdict topic = %q", msgs[0].topic)
	}
	var verdict VerdictMessage
	if err := json.Unmarshal(msgs[0].payload, &verdict); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if verdict.ID != "i1" || verdict.Verdict != "rotten" || verdict.RightLabel != "defect_A" {
		t.Errorf("Unexpected verdict payload %+v", verdict)
	}

	if msgs[1].topic != "fruitgrader/sensor/quality" {
		t.Errorf("Reading topic = %q", msgs[1].topic)
	}
	var reading ReadingMessage
	if err := json.Unmarshal(msgs[1].payload, &reading); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if reading.Quality != 4.5 || reading.Ripeness != 3 {
		t.Errorf("Unexpected reading payload %+v", reading)
	}
}

func TestPublisher_EnqueueNeverBlocks(t *testing.T) {
	p := NewPublisher(&fakeClient{}, PublisherConfig{ReadingTopic: "x"}, logger.Discard())

	// Start is not running, so the queue fills up and the rest is dropped.
	done := make(chan struct{})
	go func() {
		for i := 0; i < queueSize*3; i++ {
			p.Report(context.Background(), model.Reading{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Report blocked on a full queue")
	}
	if len(p.queue) != queueSize {
		t.Errorf("Expected full queue of %d, got %d", queueSize, len(p.queue))
	}
}

func TestPublisher_PublishError(t *testing.T) {
	p := NewPublisher(&fakeClient{err: errors.New("not connected")}, PublisherConfig{}, logger.Discard())

	if err := p.publish(outgoing{topic: "t", payload: []byte("{}")}); err == nil {
		t.Error("Expected publish error")
	}
}
