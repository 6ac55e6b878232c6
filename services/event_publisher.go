package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
)

// Event types published by the services
const (
	EventUserRegistered           = "user.registered"
	EventUserDeleted              = "user.deleted"
	EventAppointmentCreated       = "appointment.created"
	EventAppointmentStatusChanged = "appointment.status_changed"
	EventAppointmentDeleted       = "appointment.deleted"
)

// Event is the envelope written to the broker
type Event struct {
	Type       string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// EventPublisher delivers domain events after the store has committed them
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, data any) error
	Close() error
}

// KafkaEventPublisher publishes events to Kafka, one topic per event type
type KafkaEventPublisher struct {
	producer    sarama.SyncProducer
	topicPrefix string
}

// NewKafkaEventPublisher connects a synchronous producer to brokers
func NewKafkaEventPublisher(brokers []string, topicPrefix string) (*KafkaEventPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Printf("Kafka producer connected to %v", brokers)
	return NewKafkaEventPublisherWithProducer(producer, topicPrefix), nil
}

// NewKafkaEventPublisherWithProducer wraps an existing producer
func NewKafkaEventPublisherWithProducer(producer sarama.SyncProducer, topicPrefix string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topicPrefix: topicPrefix}
}

// Topic returns the topic an event type is written to
func (p *KafkaEventPublisher) Topic(eventType string) string {
	if p.topicPrefix == "" {
		return eventType
	}
	return p.topicPrefix + "." + eventType
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, eventType, key string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(Event{Type: eventType, OccurredAt: time.Now().UTC(), Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.Topic(eventType),
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(body),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to send %s event: %w", eventType, err)
	}
	return nil
}

func (p *KafkaEventPublisher) Close() error {
	return p.producer.Close()
}

// LogEventPublisher only logs events; used when no broker is configured
type LogEventPublisher struct{}

func (LogEventPublisher) Publish(_ context.Context, eventType, key string, _ any) error {
	log.Printf("event %s (key=%s)", eventType, key)
	return nil
}

func (LogEventPublisher) Close() error {
	return nil
}

// publish never fails the calling operation; delivery problems are logged
func publish(ctx context.Context, events EventPublisher, eventType, key string, data any) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, eventType, key, data); err != nil {
		log.Printf("warning: %v", err)
	}
}

// AppointmentEvent is the payload of every appointment.* event
type AppointmentEvent struct {
	AppointmentID  uint   `json:"appointment_id"`
	ClientID       uint   `json:"client_id"`
	TechnicianID   uint   `json:"technician_id"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status,omitempty"`
	ActorID        uint   `json:"actor_id"`
}

// UserEvent is the payload of every user.* event
type UserEvent struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}
