package docking

import (
	"context"
	"fmt"
	"time"

	"github.com/turtacn/Uni-Dock/internal/domain/ligand"
	"github.com/turtacn/Uni-Dock/internal/engine"
	"github.com/turtacn/Uni-Dock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Uni-Dock/pkg/errors"
	"github.com/turtacn/Uni-Dock/pkg/types/docking"
)

// ============================================================================
// Planning
// ============================================================================

// PlannedBatch is one consecutive slice of the ligand list.
type PlannedBatch struct {
	// Index starts at 1 and increases by one per batch.
	Index   int
	Ligands []*ligand.Ligand
	// Cost is the summed (ligand atoms + receptor atoms)^2 of the members.
	Cost int64
	// PredictedMiB is the model's estimate for the closed batch.
	PredictedMiB float64
	// Oversized marks a lone ligand whose own estimate reaches the budget.
	Oversized bool
}

// Size is the member count.
func (b PlannedBatch) Size() int { return len(b.Ligands) }

// Plan partitions ligs greedily in input order.  A ligand joins the open
// batch while the estimate of the batch so far is below budgetMiB; an empty
// batch always takes the next ligand so an oversized input cannot stall the
// plan.
func Plan(ligs []*ligand.Ligand, receptorAtoms int, budgetMiB float64, p Predictor) []PlannedBatch {
	var plan []PlannedBatch
	for i := 0; i < len(ligs); {
		b := PlannedBatch{Index: len(plan) + 1}
		for i < len(ligs) {
			if b.Size() > 0 && p.Predict(b.Size(), b.Cost) >= budgetMiB {
				break
			}
			b.Ligands = append(b.Ligands, ligs[i])
			b.Cost += LigandCost(ligs[i].AtomCount(), receptorAtoms)
			i++
		}
		b.PredictedMiB = p.Predict(b.Size(), b.Cost)
		b.Oversized = b.Size() == 1 && b.PredictedMiB >= budgetMiB
		plan = append(plan, b)
	}
	return plan
}

// ============================================================================
// Execution
// ============================================================================

// BatchResult is the outcome of one executed batch.
type BatchResult struct {
	Index        int
	Ligands      []string
	Outputs      []string
	Energies     [][]float64
	Duration     time.Duration
	PredictedMiB float64
	Cost         int64
	Oversized    bool
}

// Size is the member count.
func (r BatchResult) Size() int { return len(r.Ligands) }

// BatchObserver receives each batch result before the next batch starts.
type BatchObserver interface {
	ReportBatch(ctx context.Context, r BatchResult)
}

// Scheduler executes a plan one batch at a time against forks of a prepared
// engine.
type Scheduler struct {
	engine   engine.Engine
	observer BatchObserver
	logger   logging.Logger
	now      func() time.Time
}

// NewScheduler returns a scheduler over eng, whose maps must be ready.
func NewScheduler(eng engine.Engine, observer BatchObserver, logger logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Scheduler{engine: eng, observer: observer, logger: logger.Named("scheduler"), now: time.Now}
}

// Run executes plan in order, writing poses under dir.  A failing batch stops
// the run; results of completed batches are returned with the error and
// their files stay on disk.  Cancelling ctx stops before the next batch.
func (s *Scheduler) Run(ctx context.Context, plan []PlannedBatch, params docking.SearchParams, dir string) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(plan))
	for _, pb := range plan {
		if err := ctx.Err(); err != nil {
			return results, errors.Wrap(err, errors.CodeUnknown, "batch run interrupted").
				WithDetail(fmt.Sprintf("%d of %d batches completed", len(results), len(plan)))
		}
		r, err := s.runBatch(ctx, pb, params, dir)
		if err != nil {
			s.logger.Error("batch failed",
				logging.Int("batch", pb.Index),
				logging.Int("size", pb.Size()),
				logging.Int("completed", len(results)),
				logging.Err(err))
			return results, err
		}
		results = append(results, r)
		if s.observer != nil {
			s.observer.ReportBatch(ctx, r)
		}
	}
	return results, nil
}

func (s *Scheduler) runBatch(ctx context.Context, pb PlannedBatch, params docking.SearchParams, dir string) (BatchResult, error) {
	r := BatchResult{
		Index:        pb.Index,
		Ligands:      ligand.Paths(pb.Ligands),
		Outputs:      make([]string, pb.Size()),
		PredictedMiB: pb.PredictedMiB,
		Cost:         pb.Cost,
		Oversized:    pb.Oversized,
	}
	for i, p := range r.Ligands {
		r.Outputs[i] = docking.DefaultOutputName(p, dir)
	}
	if pb.Oversized {
		s.logger.Warn("ligand exceeds the memory budget on its own; running it alone",
			logging.String("ligand", r.Ligands[0]),
			logging.Float64("predicted_mib", pb.PredictedMiB))
	}

	start := s.now()
	b := s.engine.NewBatch()
	if err := b.SetLigands(pb.Ligands); err != nil {
		return r, err
	}
	if err := b.GlobalSearchGPU(ctx, params, pb.Size()); err != nil {
		return r, err
	}
	energies, err := b.WritePosesGPU(ctx, r.Outputs, params.NumModes, params.EnergyRange)
	if err != nil {
		return r, err
	}
	r.Energies = energies
	r.Duration = s.now().Sub(start)
	s.logger.Debug("batch done",
		logging.Int("batch", r.Index),
		logging.Int("size", r.Size()),
		logging.Duration("duration", r.Duration))
	return r, nil
}

//Personal.AI order the ending
