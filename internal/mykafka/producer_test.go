package mykafka

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := NewProducer(nil)
	require.Error(t, err)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	require.NoError(t, p.PublishEvent(context.Background(), TopicOrders, "1", OrderEvent{Type: "x"}))
	require.NoError(t, p.Close())
}

// Needs a reachable broker, e.g. KAFKA_TEST_BROKER=localhost:9092.
func TestProducer_PublishEvent_Integration(t *testing.T) {
	broker := os.Getenv("KAFKA_TEST_BROKER")
	if broker == "" {
		t.Skip("KAFKA_TEST_BROKER not set")
	}

	p, err := NewProducer([]string{broker})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	require.NoError(t, p.PublishEvent(ctx, TopicOrders, "42", OrderEvent{Type: "order_created", OrderID: 42}))

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       TopicOrders,
		StartOffset: kafka.FirstOffset,
		GroupID:     "producer-test",
	})
	defer r.Close()

	msg, err := r.ReadMessage(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, msg.Value)
}
