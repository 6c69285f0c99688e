package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_WithoutBrokers(t *testing.T) {
	p := New(nil, "payment-events")
	_, ok := p.(NopPublisher)
	assert.True(t, ok)
	assert.NoError(t, p.Publish(context.Background(), Event{Type: TypePaymentCreated}))
	assert.NoError(t, p.Close())
}

func TestNew_WithBrokers(t *testing.T) {
	p := New([]string{"localhost:9092"}, "payment-events")
	kp, ok := p.(*KafkaPublisher)
	assert.True(t, ok)
	assert.Equal(t, "payment-events", kp.writer.Topic)
	assert.True(t, kp.writer.Async)
	assert.NoError(t, p.Close())
}
