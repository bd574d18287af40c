package cli

import (
	"context"
	"time"

	"github.com/turtacn/Uni-Dock/internal/application/docking"
	"github.com/turtacn/Uni-Dock/internal/config"
	"github.com/turtacn/Uni-Dock/internal/infrastructure/database/redis"
	"github.com/turtacn/Uni-Dock/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/Uni-Dock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Uni-Dock/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/Uni-Dock/internal/infrastructure/storage/minio"
)

// eventSource is the Source of every published event envelope.
const eventSource = "unidock"

// integrations are the optional services wired around a run.
type integrations struct {
	sinks   []docking.BatchSink
	locker  docking.DeviceLocker
	closers []func() error
	logger  logging.Logger
}

func (w *integrations) close() {
	for i := len(w.closers) - 1; i >= 0; i-- {
		if err := w.closers[i](); err != nil {
			w.logger.Warn("integration close failed", logging.Err(err))
		}
	}
}

// wireIntegrations connects every configured integration.  One that cannot
// be reached is logged and left out; the run goes ahead without it.
func wireIntegrations(ctx context.Context, integ *config.IntegrationConfig, metricsFile, runID string, logger logging.Logger) *integrations {
	w := &integrations{logger: logger}

	if metricsFile != "" || integ.Metrics.PushURL != "" {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "unidock"}, logger)
		if err != nil {
			logger.Warn("metrics disabled", logging.Err(err))
		} else {
			w.sinks = append(w.sinks, docking.NewMetricsSink(collector, docking.MetricsExport{
				TextfilePath: metricsFile,
				PushURL:      integ.Metrics.PushURL,
				Job:          integ.Metrics.Job,
			}))
		}
	}

	if integ.MinIO.Endpoint != "" {
		client, err := minio.NewMinIOClient(&minio.MinIOConfig{
			Endpoint:        integ.MinIO.Endpoint,
			AccessKeyID:     integ.MinIO.AccessKey,
			SecretAccessKey: integ.MinIO.SecretKey,
			UseSSL:          integ.MinIO.UseSSL,
			Bucket:          integ.MinIO.Bucket,
			Prefix:          integ.MinIO.Prefix,
			RetentionDays:   integ.MinIO.RetentionDays,
		}, logger)
		if err != nil {
			logger.Warn("pose upload disabled", logging.String("endpoint", integ.MinIO.Endpoint), logging.Err(err))
		} else {
			w.closers = append(w.closers, client.Close)
			w.sinks = append(w.sinks, docking.NewPoseUploadSink(minio.NewPoseRepository(client, logger), logger))
		}
	}

	if len(integ.Kafka.Brokers) > 0 {
		ensureEventTopic(ctx, integ.Kafka, logger)
		producer, err := kafka.NewProducer(kafka.ProducerConfig{Brokers: integ.Kafka.Brokers}, logger)
		if err != nil {
			logger.Warn("event publishing disabled", logging.Strings("brokers", integ.Kafka.Brokers), logging.Err(err))
		} else {
			pub := kafka.NewEventPublisher(producer, integ.Kafka.Topic, eventSource, logger)
			w.closers = append(w.closers, pub.Close)
			w.sinks = append(w.sinks, docking.NewEventSink(pub))
		}
	}

	if integ.Redis.Addr != "" {
		client, err := redis.NewClient(&redis.ClientConfig{
			Addr:     integ.Redis.Addr,
			Password: integ.Redis.Password,
			DB:       integ.Redis.DB,
		}, logger)
		if err != nil {
			logger.Warn("device lease disabled", logging.String("addr", integ.Redis.Addr), logging.Err(err))
		} else {
			w.closers = append(w.closers, client.Close)
			w.locker = redis.NewDeviceLease(client, integ.Redis.KeyPrefix, 0, runID, logger,
				redis.WithLeaseTTL(time.Duration(integ.Redis.LeaseTTLSeconds)*time.Second))
		}
	}
	return w
}

// ensureEventTopic creates the event topic if the cluster lacks it.  Brokers
// with auto-creation or restricted ACLs make failure here harmless.
func ensureEventTopic(ctx context.Context, cfg config.KafkaConfig, logger logging.Logger) {
	tm, err := kafka.NewTopicManager(cfg.Brokers, logger)
	if err != nil {
		logger.Warn("topic check skipped", logging.Err(err))
		return
	}
	defer tm.Close()
	if err := tm.EnsureTopics(ctx, []kafka.TopicConfig{kafka.EventTopic(cfg.Topic)}); err != nil {
		logger.Warn("event topic not ensured", logging.String("topic", cfg.Topic), logging.Err(err))
	}
}

//Personal.AI order the ending
