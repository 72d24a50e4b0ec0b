// Package events publishes notification events for realtime consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	libnats "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	StreamName     = "aura_notifications"
	SubjectPrefix  = "notifications"
	streamMaxAge   = 24 * time.Hour
	publishTimeout = 2 * time.Second
)

// NotificationEvent is the payload published after a notification row is stored.
type NotificationEvent struct {
	ID         uint      `json:"id"`
	Type       string    `json:"notification_type"`
	SenderID   uint      `json:"sender_id"`
	ReceiverID uint      `json:"receiver_id"`
	PostID     *uint     `json:"post_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Subject is the per-receiver subject the event is published on.
func Subject(receiverID uint) string {
	return fmt.Sprintf("%s.%d", SubjectPrefix, receiverID)
}

// Publisher delivers notification events.
type Publisher interface {
	PublishNotification(ctx context.Context, event NotificationEvent) error
	Close() error
}

// NopPublisher drops every event. Used when NATS is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishNotification(context.Context, NotificationEvent) error { return nil }
func (NopPublisher) Close() error { return nil }

// JetStreamPublisher publishes events to a JetStream stream.
type JetStreamPublisher struct {
	js     jetstream.JetStream
	logger *slog.Logger
}

// NewJetStreamPublisher connects to url and, when initStream is set, creates
// or updates the notifications stream.
func NewJetStreamPublisher(ctx context.Context, url string, initStream bool, logger *slog.Logger) (*JetStreamPublisher, error) {
	nc, err := libnats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	if initStream {
		_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
			Name:     StreamName,
			Subjects: []string{SubjectPrefix + ".*"},
			MaxAge:   streamMaxAge,
		})
		if err != nil {
			nc.Close()
			return nil, fmt.Errorf("create stream %s: %w", StreamName, err)
		}
		logger.Info("Stream created or updated", "name", StreamName)
	}

	return &JetStreamPublisher{js: js, logger: logger}, nil
}

func (p *JetStreamPublisher) PublishNotification(ctx context.Context, event NotificationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if _, err := p.js.Publish(ctx, Subject(event.ReceiverID), payload); err != nil {
		return fmt.Errorf("publish notification %d: %w", event.ID, err)
	}
	return nil
}

// HealthCheck measures the round trip to the server.
func (p *JetStreamPublisher) HealthCheck() error {
	_, err := p.js.Conn().RTT()
	return err
}

func (p *JetStreamPublisher) Close() error {
	return p.js.Conn().Drain()
}
