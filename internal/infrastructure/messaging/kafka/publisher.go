package kafka

import (
	"context"

	"github.com/turtacn/Uni-Dock/internal/infrastructure/monitoring/logging"
)

// MessagePublisher is the part of Producer the event publisher needs.
type MessagePublisher interface {
	Publish(ctx context.Context, msg *ProducerMessage) error
	Close() error
}

// EventPublisher wraps docking payloads in envelopes and publishes them to a
// single topic.
type EventPublisher struct {
	producer MessagePublisher
	topic    string
	source   string
	logger   logging.Logger
}

func NewEventPublisher(producer MessagePublisher, topic, source string, logger logging.Logger) *EventPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &EventPublisher{producer: producer, topic: topic, source: source, logger: logger}
}

func (p *EventPublisher) Topic() string { return p.topic }

func (p *EventPublisher) PublishBatchCompleted(ctx context.Context, runID string, payload BatchCompletedPayload) error {
	return p.publish(ctx, EventBatchCompleted, runID, payload)
}

func (p *EventPublisher) PublishRunCompleted(ctx context.Context, runID string, payload RunCompletedPayload) error {
	return p.publish(ctx, EventRunCompleted, runID, payload)
}

func (p *EventPublisher) publish(ctx context.Context, eventType, runID string, payload interface{}) error {
	env, err := NewEventEnvelope(eventType, p.source, runID, payload)
	if err != nil {
		return err
	}
	msg, err := env.ToMessage(p.topic)
	if err != nil {
		return err
	}
	if err := p.producer.Publish(ctx, msg); err != nil {
		return err
	}
	p.logger.Debug("event published", logging.String("type", eventType), logging.String("run_id", runID), logging.String("event_id", env.EventID))
	return nil
}

func (p *EventPublisher) Close() error { return p.producer.Close() }

//Personal.AI order the ending
