package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockProducer(t *testing.T) *mocks.SyncProducer {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	return mocks.NewSyncProducer(t, config)
}

func TestKafkaEventPublisher_Publish(t *testing.T) {
	producer := newMockProducer(t)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event struct {
			Type string           `json:"event_type"`
			Data AppointmentEvent `json:"data"`
		}
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.Type != EventAppointmentCreated {
			return fmt.Errorf("unexpected event type %q", event.Type)
		}
		if event.Data.AppointmentID != 12 || event.Data.Status != "PENDENTE" {
			return fmt.Errorf("unexpected payload %+v", event.Data)
		}
		return nil
	})

	publisher := NewKafkaEventPublisherWithProducer(producer, "fixnow")
	err := publisher.Publish(context.Background(), EventAppointmentCreated, "12", AppointmentEvent{
		AppointmentID: 12,
		ClientID:      1,
		TechnicianID:  2,
		Status:        "PENDENTE",
	})
	require.NoError(t, err)
	require.NoError(t, publisher.Close())
}

func TestKafkaEventPublisher_PublishFailure(t *testing.T) {
	producer := newMockProducer(t)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := NewKafkaEventPublisherWithProducer(producer, "fixnow")
	err := publisher.Publish(context.Background(), EventUserRegistered, "1", UserEvent{UserID: 1})
	assert.True(t, errors.Is(err, sarama.ErrOutOfBrokers))
	require.NoError(t, publisher.Close())
}

func TestKafkaEventPublisher_CancelledContext(t *testing.T) {
	producer := newMockProducer(t)
	publisher := NewKafkaEventPublisherWithProducer(producer, "fixnow")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := publisher.Publish(ctx, EventUserDeleted, "1", UserEvent{UserID: 1})
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, publisher.Close())
}

func TestKafkaEventPublisher_Topic(t *testing.T) {
	assert.Equal(t, "fixnow.appointment.deleted", NewKafkaEventPublisherWithProducer(nil, "fixnow").Topic(EventAppointmentDeleted))
	assert.Equal(t, "appointment.deleted", NewKafkaEventPublisherWithProducer(nil, "").Topic(EventAppointmentDeleted))
}

func TestPublishSwallowsErrors(t *testing.T) {
	producer := newMockProducer(t)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	publisher := NewKafkaEventPublisherWithProducer(producer, "fixnow")

	assert.NotPanics(t, func() {
		publish(context.Background(), publisher, EventUserRegistered, "1", UserEvent{UserID: 1})
		publish(context.Background(), nil, EventUserRegistered, "1", UserEvent{UserID: 1})
	})
	require.NoError(t, publisher.Close())
}
