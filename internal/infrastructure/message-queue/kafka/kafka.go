package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

const (
	EventOrderCreated   = "order_created"
	EventOrderPaid      = "order_paid"
	EventOrderDelivered = "order_delivered"
)

type KafkaMessage struct {
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
}

// EventPublisher emits domain events. Implementations must be safe for concurrent use.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, key string, data interface{}) error
}

type Producer struct {
	writer *kafka.Writer
}

func CreateKafkaProducer(brokerAddress, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokerAddress),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			MaxAttempts:            1,
			WriteTimeout:           5 * time.Second,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, eventType string, key string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	msg, err := json.Marshal(KafkaMessage{EventType: eventType, Data: payload})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: msg})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, eventType string, key string, data interface{}) error {
	return nil
}

func CreateKafkaReader(brokerAddress, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{brokerAddress},
		Topic:       topic,
		MinBytes:    10e3, // 10KB
		MaxBytes:    10e6, // 10MB
		StartOffset: kafka.LastOffset,
		GroupID:     groupID,
	})
}

// Handler processes one decoded message. Returning an error only logs it, the offset is committed anyway.
type Handler func(ctx context.Context, msg KafkaMessage) error

// ConsumeEvents blocks until ctx is cancelled or the reader is closed.
func ConsumeEvents(ctx context.Context, reader *kafka.Reader, handlers map[string]Handler) {
	for {
		m, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			log.Error().Err(err).Str("component", "ConsumeEvents").Msg("")
			return
		}

		var msg KafkaMessage
		if err := json.Unmarshal(m.Value, &msg); err != nil {
			log.Error().Err(err).Str("component", "ConsumeEvents").Msg("Error unmarshaling message")
			continue
		}

		handler, ok := handlers[msg.EventType]
		if !ok {
			continue
		}

		if err := handler(ctx, msg); err != nil {
			log.Error().Err(err).Str("component", "ConsumeEvents").Str("event_type", msg.EventType).Msg("")
		}
	}
}
