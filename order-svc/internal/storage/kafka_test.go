package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-orders/order-svc/internal/domain"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func TestKafkaPublisher_PublishOrderEvent(t *testing.T) {
	writer := &recordingWriter{}
	publisher := NewKafkaPublisher(writer)

	event := domain.OrderEvent{OrderID: 42, RestaurantID: 7, Status: domain.StatusReady, Type: domain.EventUpdated}
	require.NoError(t, publisher.PublishOrderEvent(context.Background(), event))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "42", string(msg.Key))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.EqualValues(t, 42, payload["orderId"])
	assert.EqualValues(t, 7, payload["restaurantId"])
	assert.Equal(t, "READY", payload["status"])
	assert.Equal(t, "UPDATED", payload["type"])
	assert.Contains(t, payload, "timestamp")
}

func TestKafkaPublisher_WriterError(t *testing.T) {
	publisher := NewKafkaPublisher(&recordingWriter{err: errors.New("leader not available")})

	err := publisher.PublishOrderEvent(context.Background(), domain.OrderEvent{OrderID: 1})

	assert.Error(t, err)
}
