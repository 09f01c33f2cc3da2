package publisher

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

type KafkaConfig struct {
	Brokers    []string
	Topic      string
	Username   string
	Password   string
	Mechanism  string // "", "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512"
	TLSEnabled bool
}

// KafkaPublisher implements the fire-and-forget NotificationPublisher on
// a single shared writer.
type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	transport := &kafka.Transport{}

	if cfg.TLSEnabled {
		transport.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	switch cfg.Mechanism {
	case "", "NONE":
	case "PLAIN":
		transport.SASL = plain.Mechanism{Username: cfg.Username, Password: cfg.Password}
	case "SCRAM-SHA-256":
		mechanism, err := scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
		if err != nil {
			return nil, fmt.Errorf("building SCRAM mechanism: %w", err)
		}
		transport.SASL = mechanism
	case "SCRAM-SHA-512":
		mechanism, err := scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
		if err != nil {
			return nil, fmt.Errorf("building SCRAM mechanism: %w", err)
		}
		transport.SASL = mechanism
	default:
		return nil, fmt.Errorf("unknown SASL mechanism: %s", cfg.Mechanism)
	}

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:      kafka.TCP(cfg.Brokers...),
			Balancer:  &kafka.LeastBytes{},
			Transport: transport,
		},
		topic: cfg.Topic,
	}, nil
}

// Notify publishes asynchronously and swallows failures: a notification
// must never roll back or delay a state transition that already committed.
func (k *KafkaPublisher) Notify(userID string, category domain.NotificationCategory, payload map[string]string) {
	event := NotificationEvent{
		UserID:   userID,
		Category: category,
		Payload:  payload,
	}
	value, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal notification event", "category", category, "error", err.Error())
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		msg := kafka.Message{
			Key:   []byte(userID),
			Value: value,
			Time:  time.Now(),
			Topic: k.topic,
		}
		if err := k.writer.WriteMessages(ctx, msg); err != nil {
			slog.Error("failed to publish notification event",
				"user_id", userID, "category", category, "error", err.Error())
		}
	}()
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}
