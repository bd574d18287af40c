package kafka

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/Uni-Dock/internal/testutil"
	"github.com/turtacn/Uni-Dock/pkg/errors"
)

// mockKafkaWriter
type mockKafkaWriter struct {
	writeFunc func(ctx context.Context, msgs ...kafka.Message) error
	closeFunc func() error
}

func (m *mockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.writeFunc != nil {
		return m.writeFunc(ctx, msgs...)
	}
	return nil
}

func (m *mockKafkaWriter) Close() error {
	if m.closeFunc != nil {
		return m.closeFunc()
	}
	return nil
}

func (m *mockKafkaWriter) Stats() kafka.WriterStats { return kafka.WriterStats{} }

func newTestProducer(w WriterInterface) *Producer {
	return newProducerWithWriter(w, ProducerConfig{Brokers: []string{"localhost:9092"}}, testutil.NewMockLogger())
}

func newTestMessage(topic, key, value string) *ProducerMessage {
	return &ProducerMessage{Topic: topic, Key: []byte(key), Value: []byte(value)}
}

func TestValidateProducerConfig(t *testing.T) {
	assert.NoError(t, ValidateProducerConfig(ProducerConfig{Brokers: []string{"b:9092"}}))

	err := ValidateProducerConfig(ProducerConfig{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfiguration))

	err = ValidateProducerConfig(ProducerConfig{Brokers: []string{"b:9092"}, MaxRetries: -1})
	assert.Error(t, err)
}

func TestNewProducer_UnsupportedSASL(t *testing.T) {
	_, err := NewProducer(ProducerConfig{Brokers: []string{"b:9092"}, SASLEnabled: true, SASLMechanism: "GSSAPI"}, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfiguration))
}

func TestNewProducer_Plain(t *testing.T) {
	p, err := NewProducer(ProducerConfig{Brokers: []string{"b:9092"}, SASLEnabled: true, SASLMechanism: "PLAIN"}, nil)
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestPublish_Success(t *testing.T) {
	var captured []kafka.Message
	w := &mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			captured = msgs
			return nil
		},
	}
	p := newTestProducer(w)
	msg := newTestMessage("events", "run-1", "v")
	msg.Headers = map[string]string{"event_type": "x"}

	require.NoError(t, p.Publish(context.Background(), msg))
	require.Len(t, captured, 1)
	assert.Equal(t, "events", captured[0].Topic)
	assert.Equal(t, "run-1", string(captured[0].Key))
	assert.Equal(t, "v", string(captured[0].Value))
	assert.Equal(t, []kafka.Header{{Key: "event_type", Value: []byte("x")}}, captured[0].Headers)
	assert.False(t, captured[0].Time.IsZero())
	assert.Equal(t, int64(1), p.Sent())
}

func TestPublish_Failure(t *testing.T) {
	w := &mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			return stderrors.New("write failed")
		},
	}
	p := newTestProducer(w)
	err := p.Publish(context.Background(), newTestMessage("events", "k", "v"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeEventPublish))
	assert.Equal(t, int64(1), p.Failed())
}

func TestPublish_Validation(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{})

	assert.Error(t, p.Publish(context.Background(), newTestMessage("", "k", "v")))
	assert.Error(t, p.Publish(context.Background(), newTestMessage("events", "k", "")))

	big := make([]byte, 1024*1024+1)
	err := p.Publish(context.Background(), &ProducerMessage{Topic: "events", Value: big})
	assert.Error(t, err)
}

func TestPublishBatch_PartialFailure(t *testing.T) {
	w := &mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			errs := make(kafka.WriteErrors, len(msgs))
			errs[1] = stderrors.New("fail")
			return errs
		},
	}
	p := newTestProducer(w)
	res, err := p.PublishBatch(context.Background(), []*ProducerMessage{
		newTestMessage("events", "1", "1"),
		newTestMessage("events", "2", "2"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Index)
}

func TestPublishBatch_GenericFailure(t *testing.T) {
	w := &mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error { return stderrors.New("broker down") },
	}
	p := newTestProducer(w)
	res, err := p.PublishBatch(context.Background(), []*ProducerMessage{newTestMessage("events", "1", "1")})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, -1, res.Errors[0].Index)
}

func TestClose_Idempotent(t *testing.T) {
	closes := 0
	w := &mockKafkaWriter{closeFunc: func() error { closes++; return nil }}
	p := newTestProducer(w)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, closes)
	assert.Equal(t, ErrProducerClosed, p.Publish(context.Background(), newTestMessage("events", "k", "v")))
}

//Personal.AI order the ending
