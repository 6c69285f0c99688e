package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TypePaymentCreated = "payment.created"
	TypePaymentPaid    = "payment.paid"
)

type Event struct {
	Type      string    `json:"type"`
	PaymentID string    `json:"paymentId"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	Amount    float64   `json:"amount"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher writes events to topic asynchronously; delivery failures
// are logged by the completion callback.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Printf("failed to deliver %d payment event(s): %v", len(messages), err)
			}
		},
	}}
}

// Publish keys messages by payment id so one payment's events stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.PaymentID),
		Value: value,
		Time:  evt.At,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// New picks the Kafka publisher when brokers are configured.
func New(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		log.Println("KAFKA_BROKERS not set, payment events are disabled.")
		return NopPublisher{}
	}
	log.Printf("Publishing payment events to %s on %v", topic, brokers)
	return NewKafkaPublisher(brokers, topic)
}
