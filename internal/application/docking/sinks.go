package docking

import (
	"context"
	"strconv"

	"github.com/turtacn/Uni-Dock/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/Uni-Dock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Uni-Dock/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/Uni-Dock/internal/infrastructure/storage/minio"
	"github.com/turtacn/Uni-Dock/pkg/errors"
)

// ============================================================================
// Metrics
// ============================================================================

// MetricsExport says where run metrics go once the run ends.  Both targets
// are optional.
type MetricsExport struct {
	TextfilePath string
	PushURL      string
	Job          string
}

// MetricsSink records batch and run metrics and exports them when the run
// ends.
type MetricsSink struct {
	collector prometheus.MetricsCollector
	metrics   *prometheus.DockingMetrics
	export    MetricsExport
}

func NewMetricsSink(collector prometheus.MetricsCollector, export MetricsExport) *MetricsSink {
	return &MetricsSink{
		collector: collector,
		metrics:   prometheus.NewDockingMetrics(collector),
		export:    export,
	}
}

func (s *MetricsSink) Name() string { return "metrics" }

func (s *MetricsSink) HandleBatch(_ context.Context, _ string, r BatchResult) error {
	prometheus.RecordBatch(s.metrics, r.Size(), r.Duration, r.PredictedMiB, r.Oversized)
	return nil
}

func (s *MetricsSink) HandleRun(ctx context.Context, sum RunSummary) error {
	prometheus.RecordRun(s.metrics, sum.Mode, sum.Duration, sum.BudgetMiB, sum.Skipped, sum.ErrorCode)

	var firstErr error
	if s.export.TextfilePath != "" {
		firstErr = s.collector.WriteTextfile(s.export.TextfilePath)
	}
	if s.export.PushURL != "" {
		if err := s.collector.Push(ctx, s.export.PushURL, s.export.Job); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ============================================================================
// Pose upload
// ============================================================================

// PoseUploader stores written pose files under a run.
type PoseUploader interface {
	UploadPoses(ctx context.Context, runID string, localPaths []string, metadata map[string]string) ([]*minio.UploadResult, error)
}

// PoseUploadSink copies every batch's pose files to object storage.
type PoseUploadSink struct {
	uploader PoseUploader
	logger   logging.Logger
	uploaded int
}

func NewPoseUploadSink(uploader PoseUploader, logger logging.Logger) *PoseUploadSink {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &PoseUploadSink{uploader: uploader, logger: logger.Named("upload")}
}

func (s *PoseUploadSink) Name() string { return "pose-upload" }

func (s *PoseUploadSink) HandleBatch(ctx context.Context, runID string, r BatchResult) error {
	res, err := s.uploader.UploadPoses(ctx, runID, r.Outputs, map[string]string{
		"run-id": runID,
		"batch":  strconv.Itoa(r.Index),
	})
	s.uploaded += len(res)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageUpload, "batch pose upload incomplete").
			WithDetail("batch " + strconv.Itoa(r.Index))
	}
	return nil
}

func (s *PoseUploadSink) HandleRun(_ context.Context, sum RunSummary) error {
	s.logger.Info("pose upload finished", logging.String("run_id", sum.RunID), logging.Int("files", s.uploaded))
	return nil
}

// Uploaded is the number of pose files stored so far.
func (s *PoseUploadSink) Uploaded() int { return s.uploaded }

// ============================================================================
// Events
// ============================================================================

// EventPublisher publishes docking events.
type EventPublisher interface {
	PublishBatchCompleted(ctx context.Context, runID string, payload kafka.BatchCompletedPayload) error
	PublishRunCompleted(ctx context.Context, runID string, payload kafka.RunCompletedPayload) error
}

// EventSink emits a batch-completed event per batch and a run-completed
// event at the end.
type EventSink struct {
	publisher EventPublisher
}

func NewEventSink(publisher EventPublisher) *EventSink {
	return &EventSink{publisher: publisher}
}

func (s *EventSink) Name() string { return "events" }

func (s *EventSink) HandleBatch(ctx context.Context, runID string, r BatchResult) error {
	best := make([]float64, len(r.Energies))
	for i, e := range r.Energies {
		if len(e) > 0 {
			best[i] = e[0]
		}
	}
	return s.publisher.PublishBatchCompleted(ctx, runID, kafka.BatchCompletedPayload{
		Index:        r.Index,
		Ligands:      r.Ligands,
		Outputs:      r.Outputs,
		BestEnergies: best,
		Energies:     r.Energies,
		DurationMs:   r.Duration.Milliseconds(),
		PredictedMiB: r.PredictedMiB,
		Cost:         r.Cost,
		Oversized:    r.Oversized,
	})
}

func (s *EventSink) HandleRun(ctx context.Context, sum RunSummary) error {
	return s.publisher.PublishRunCompleted(ctx, sum.RunID, kafka.RunCompletedPayload{
		Mode:       sum.Mode,
		Ligands:    sum.Ligands,
		Skipped:    sum.Skipped,
		Batches:    sum.Batches,
		BudgetMiB:  sum.BudgetMiB,
		DurationMs: sum.Duration.Milliseconds(),
		Failed:     sum.Failed,
		Error:      sum.Error,
	})
}

var (
	_ BatchSink = (*MetricsSink)(nil)
	_ BatchSink = (*PoseUploadSink)(nil)
	_ BatchSink = (*EventSink)(nil)
)

//Personal.AI order the ending
