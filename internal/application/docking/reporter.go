package docking

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/turtacn/Uni-Dock/internal/config"
	"github.com/turtacn/Uni-Dock/internal/engine"
	"github.com/turtacn/Uni-Dock/internal/infrastructure/gpu"
	"github.com/turtacn/Uni-Dock/internal/infrastructure/monitoring/logging"
)

// ============================================================================
// Sinks
// ============================================================================

// RunSummary describes a finished or aborted run.
type RunSummary struct {
	RunID       string        `json:"run_id"`
	Mode        string        `json:"mode"`
	Ligands     int           `json:"ligands"`
	Skipped     int           `json:"skipped"`
	Batches     int           `json:"batches"`
	BudgetMiB   float64       `json:"budget_mib,omitempty"`
	Duration    time.Duration `json:"duration"`
	Failed      bool          `json:"failed"`
	ErrorCode   string        `json:"error_code,omitempty"`
	Error       string        `json:"error,omitempty"`
	CompletedAt time.Time     `json:"completed_at"`
}

// BatchSink consumes batch results after they are written to disk.  Sink
// errors are logged and never abort docking.
type BatchSink interface {
	Name() string
	HandleBatch(ctx context.Context, runID string, r BatchResult) error
	HandleRun(ctx context.Context, s RunSummary) error
}

// ============================================================================
// Reporter
// ============================================================================

// Reporter prints run progress to the user and fans batch results out to
// the configured sinks.
type Reporter struct {
	mu     sync.Mutex
	out    io.Writer
	runID  string
	sinks  []BatchSink
	logger logging.Logger
	warn   *color.Color
}

// NewReporter writes to out.  runID tags every sink call.
func NewReporter(out io.Writer, runID string, logger logging.Logger, sinks ...BatchSink) *Reporter {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Reporter{
		out:    out,
		runID:  runID,
		sinks:  sinks,
		logger: logger.Named("reporter"),
		warn:   color.New(color.FgYellow),
	}
}

// RunID returns the identifier the reporter tags sink calls with.
func (r *Reporter) RunID() string { return r.runID }

func (r *Reporter) printf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}

// Configuration prints the configuration summary and validation warnings.
func (r *Reporter) Configuration(cfg *config.RunConfiguration) {
	if cfg.Verbosity > 0 {
		r.printf("%s", cfg.Summary())
	}
	for _, w := range cfg.Warnings {
		r.Warning(w)
	}
}

// Warning prints a highlighted note.
func (r *Reporter) Warning(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warn.Fprintf(r.out, "WARNING: %s\n", msg)
}

// Notice prints a highlighted message without a prefix.
func (r *Reporter) Notice(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warn.Fprintln(r.out, msg)
}

func (r *Reporter) RandomSeed(seed int64) {
	r.printf("Using random seed: %d\n", seed)
}

// Score prints an energy breakdown in the engine's layout.
func (r *Reporter) Score(ligandPath string, t engine.ScoreTerms) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Ligand: %s\n", ligandPath)
	fmt.Fprintf(&sb, "Estimated Free Energy of Binding   : %.3f (kcal/mol) [=(1)+(2)+(3)+(4)]\n", t.Total)
	fmt.Fprintf(&sb, "(1) Final Intermolecular Energy    : %.3f (kcal/mol)\n", t.Intermolecular)
	fmt.Fprintf(&sb, "(2) Final Total Internal Energy    : %.3f (kcal/mol)\n", t.Intramolecular)
	fmt.Fprintf(&sb, "(3) Torsional Free Energy          : %.3f (kcal/mol)\n", t.Torsional)
	fmt.Fprintf(&sb, "(4) Unbound System's Energy        : %.3f (kcal/mol)\n", t.Unbound)
	r.printf("%s", sb.String())
}

// Poses prints the ranked energies of one docked ligand.
func (r *Reporter) Poses(ligandPath, out string, energies []float64) {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Ligand: %s -> %s\n", ligandPath, out)
	table := tablewriter.NewWriter(&buf)
	table.Header([]string{"Mode", "Affinity (kcal/mol)", "Delta"})
	for i, e := range energies {
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.3f", e),
			fmt.Sprintf("%.3f", e-energies[0]),
		})
	}
	table.Render()
	r.printf("%s", buf.String())
}

// PoseWritten notes a single pose output.
func (r *Reporter) PoseWritten(ligandPath, out string) {
	r.printf("Ligand: %s -> %s\n", ligandPath, out)
}

// Budget prints the probed device memory.
func (r *Reporter) Budget(b gpu.MemoryBudget) {
	if !b.DevicePresent {
		r.Warning(fmt.Sprintf("No accelerator detected; planning against %.0f MiB.", b.BudgetMiB))
		return
	}
	r.printf("Available Memory = %dMiB Total Memory = %dMiB\n", b.AvailableMiB, b.TotalMiB)
}

// Plan prints the ligand total and batch count of a GPU run.
func (r *Reporter) Plan(total int, plan []PlannedBatch) {
	r.printf("Total ligands: %d\n", total)
	r.printf("Planned batches: %d\n", len(plan))
}

// ReportBatch prints the batch lines and hands the result to every sink.
func (r *Reporter) ReportBatch(ctx context.Context, b BatchResult) {
	r.printf("Batch %d size: %d\n", b.Index, b.Size())
	r.printf("Batch %d running time: %dms\n", b.Index, b.Duration.Milliseconds())
	for _, s := range r.sinks {
		if err := s.HandleBatch(ctx, r.runID, b); err != nil {
			r.logger.Warn("batch sink failed",
				logging.String("sink", s.Name()),
				logging.Int("batch", b.Index),
				logging.Err(err))
		}
	}
}

// Summary prints the final tally and hands it to every sink.
func (r *Reporter) Summary(ctx context.Context, s RunSummary) {
	s.RunID = r.runID
	if s.Batches > 0 {
		r.printf("Batches completed: %d\n", s.Batches)
	}
	if s.Skipped > 0 {
		r.Warning(fmt.Sprintf("%d ligand(s) could not be parsed and were skipped.", s.Skipped))
	}
	r.printf("Run %s finished in %dms\n", r.runID, s.Duration.Milliseconds())
	for _, sink := range r.sinks {
		if err := sink.HandleRun(ctx, s); err != nil {
			r.logger.Warn("run sink failed", logging.String("sink", sink.Name()), logging.Err(err))
		}
	}
}

//Personal.AI order the ending
