package kafka

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/Uni-Dock/internal/testutil"
)

type mockKafkaConn struct {
	createFunc func(topics ...kafka.TopicConfig) error
	readFunc   func(topics ...string) ([]kafka.Partition, error)
}

func (m *mockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if m.createFunc != nil {
		return m.createFunc(topics...)
	}
	return nil
}

func (m *mockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	if m.readFunc != nil {
		return m.readFunc(topics...)
	}
	return nil, nil
}

func (m *mockKafkaConn) Close() error { return nil }

func newTestTopicManager(conn ConnInterface) *TopicManager {
	return &TopicManager{conn: conn, logger: testutil.NewMockLogger()}
}

func TestEventTopic(t *testing.T) {
	assert.Equal(t, DefaultTopic, EventTopic("").Name)
	tc := EventTopic("dock.events")
	assert.Equal(t, "dock.events", tc.Name)
	assert.Greater(t, tc.NumPartitions, 0)
}

func TestCreateTopic_Success(t *testing.T) {
	conn := &mockKafkaConn{
		createFunc: func(topics ...kafka.TopicConfig) error {
			require.Len(t, topics, 1)
			assert.Equal(t, "dock.events", topics[0].Topic)
			assert.Equal(t, "retention.ms", topics[0].ConfigEntries[0].ConfigName)
			return nil
		},
	}
	m := newTestTopicManager(conn)
	assert.NoError(t, m.EnsureTopics(context.Background(), []TopicConfig{EventTopic("dock.events")}))
}

func TestCreateTopic_AlreadyExists(t *testing.T) {
	conn := &mockKafkaConn{
		createFunc: func(...kafka.TopicConfig) error { return stderrors.New("topic already exists") },
		readFunc: func(...string) ([]kafka.Partition, error) {
			return []kafka.Partition{{Topic: "dock.events"}}, nil
		},
	}
	m := newTestTopicManager(conn)
	assert.NoError(t, m.CreateTopic(context.Background(), EventTopic("dock.events")))
}

func TestCreateTopic_Invalid(t *testing.T) {
	m := newTestTopicManager(&mockKafkaConn{})
	assert.Error(t, m.CreateTopic(context.Background(), TopicConfig{}))
	assert.Error(t, m.CreateTopic(context.Background(), TopicConfig{Name: "x"}))
	assert.Error(t, m.CreateTopic(context.Background(), TopicConfig{Name: "x", NumPartitions: 1}))
}

func TestEventEnvelope_RoundTrip(t *testing.T) {
	payload := BatchCompletedPayload{Index: 3, Ligands: []string{"a.pdbqt"}, BestEnergies: []float64{-9.1}}
	env, err := NewEventEnvelope(EventBatchCompleted, "unidock", "run-7", payload)
	require.NoError(t, err)

	msg, err := env.ToMessage("dock.events")
	require.NoError(t, err)
	assert.Equal(t, "run-7", string(msg.Key))
	assert.Equal(t, EventBatchCompleted, msg.Headers["event_type"])

	decoded, err := DecodeEventEnvelope(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, "run-7", decoded.RunID)

	var got BatchCompletedPayload
	require.NoError(t, decoded.DecodePayload(&got))
	assert.Equal(t, payload, got)
}

func TestDecodeEventEnvelope_Empty(t *testing.T) {
	_, err := DecodeEventEnvelope(nil)
	assert.Error(t, err)
}

//Personal.AI order the ending
