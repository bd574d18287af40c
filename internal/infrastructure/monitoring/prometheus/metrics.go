package prometheus

import "time"

// DockingMetrics holds the batch-run metrics.
type DockingMetrics struct {
	BatchesTotal      CounterVec
	LigandsTotal      CounterVec
	BatchDuration     HistogramVec
	BatchSize         HistogramVec
	BatchPredictedMiB GaugeVec
	MemoryBudgetMiB   GaugeVec
	RunDuration       HistogramVec
	OversizedTotal    CounterVec
	ErrorsTotal       CounterVec
}

// Default Buckets
var (
	DefaultBatchDurationBuckets = []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800, 3600}
	DefaultBatchSizeBuckets     = []float64{1, 10, 50, 100, 250, 500, 1000, 2500, 5000}
	DefaultRunDurationBuckets   = []float64{10, 60, 300, 900, 1800, 3600, 7200, 21600, 86400}
)

// NewDockingMetrics registers all metrics and returns DockingMetrics.
func NewDockingMetrics(collector MetricsCollector) *DockingMetrics {
	m := &DockingMetrics{}

	m.BatchesTotal = collector.RegisterCounter("batches_total", "GPU batches executed", "status")
	m.LigandsTotal = collector.RegisterCounter("ligands_total", "Ligands processed", "status")
	m.BatchDuration = collector.RegisterHistogram("batch_duration_seconds", "Batch search and write duration", DefaultBatchDurationBuckets)
	m.BatchSize = collector.RegisterHistogram("batch_size_ligands", "Ligands per batch", DefaultBatchSizeBuckets)
	m.BatchPredictedMiB = collector.RegisterGauge("batch_predicted_memory_mib", "Predicted peak device memory of the last batch")
	m.MemoryBudgetMiB = collector.RegisterGauge("memory_budget_mib", "Device memory budget of the run")
	m.RunDuration = collector.RegisterHistogram("run_duration_seconds", "Run duration", DefaultRunDurationBuckets, "mode", "status")
	m.OversizedTotal = collector.RegisterCounter("oversized_batches_total", "Lone ligands predicted above the budget")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Run failures", "error_code")

	return m
}

// Helpers

func RecordBatch(m *DockingMetrics, size int, duration time.Duration, predictedMiB float64, oversized bool) {
	m.BatchesTotal.WithLabelValues("completed").Inc()
	m.LigandsTotal.WithLabelValues("docked").Add(float64(size))
	m.BatchDuration.WithLabelValues().Observe(duration.Seconds())
	m.BatchSize.WithLabelValues().Observe(float64(size))
	m.BatchPredictedMiB.WithLabelValues().Set(predictedMiB)
	if oversized {
		m.OversizedTotal.WithLabelValues().Inc()
	}
}

func RecordRun(m *DockingMetrics, mode string, duration time.Duration, budgetMiB float64, skipped int, errorCode string) {
	status := "success"
	if errorCode != "" {
		status = "failure"
		m.ErrorsTotal.WithLabelValues(errorCode).Inc()
	}
	m.RunDuration.WithLabelValues(mode, status).Observe(duration.Seconds())
	if budgetMiB > 0 {
		m.MemoryBudgetMiB.WithLabelValues().Set(budgetMiB)
	}
	if skipped > 0 {
		m.LigandsTotal.WithLabelValues("skipped").Add(float64(skipped))
	}
}

//Personal.AI order the ending
