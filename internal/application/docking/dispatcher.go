// Package docking is the execution orchestrator.  It sequences engine calls
// for the four run modes, plans memory-bounded GPU batches and reports the
// results.
package docking

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/Uni-Dock/internal/config"
	"github.com/turtacn/Uni-Dock/internal/domain/ligand"
	"github.com/turtacn/Uni-Dock/internal/engine"
	"github.com/turtacn/Uni-Dock/internal/infrastructure/gpu"
	"github.com/turtacn/Uni-Dock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Uni-Dock/pkg/errors"
	"github.com/turtacn/Uni-Dock/pkg/types/docking"
)

// UnsupportedModeNotice is printed when a GPU batch run asks for a
// non-search mode.
const UnsupportedModeNotice = "Not available under gpu_batch mode."

// summaryTimeout bounds the sink work of the run summary, which still runs
// after the run's context is cancelled.
const summaryTimeout = 10 * time.Second

// ============================================================================
// States
// ============================================================================

// State is a step of the run state machine.
type State string

const (
	StateValidated      State = "validated"
	StateReceptorLoaded State = "receptor_loaded"
	StateMapsReady      State = "maps_ready"
	StateRandomize      State = "randomize"
	StateScoreOnly      State = "score_only"
	StateLocalOnly      State = "local_only"
	StateGlobalSearch   State = "global_search"
	StateGpuBatchSearch State = "gpu_batch_search"
	StateReported       State = "reported"
)

func terminalState(m docking.Mode) State {
	switch m {
	case docking.ModeRandomize:
		return StateRandomize
	case docking.ModeScoreOnly:
		return StateScoreOnly
	case docking.ModeLocalOnly:
		return StateLocalOnly
	default:
		return StateGlobalSearch
	}
}

// ============================================================================
// Collaborators
// ============================================================================

// LigandLoader parses ligand files ahead of batch planning.
type LigandLoader interface {
	LoadAll(ctx context.Context, paths []string, family docking.Family) ([]*ligand.Ligand, []ligand.Failure, error)
}

// DeviceLocker serializes GPU runs of processes sharing a device.
type DeviceLocker interface {
	Acquire(ctx context.Context) (release func(context.Context) error, err error)
}

// Dependencies wires a Dispatcher.  Prober, Loader and Locker are only used
// by GPU batch runs; Locker may be nil.
type Dependencies struct {
	Engine      engine.Engine
	Prober      gpu.Prober
	Loader      LigandLoader
	Locker      DeviceLocker
	Calibration *CalibrationTable
	Reporter    *Reporter
	Logger      logging.Logger
	// Seed supplies a seed when the configuration leaves it at zero.
	Seed func() int64
}

// ============================================================================
// Outcome
// ============================================================================

// LigandScore is one score report of a score-only or local-only run.
type LigandScore struct {
	Ligand string
	Terms  engine.ScoreTerms
}

// PoseOutput is one pose file written on the CPU path.
type PoseOutput struct {
	Ligand   string
	Out      string
	Energies []float64
}

// Outcome is what a run produced.
type Outcome struct {
	RunID       string
	Mode        docking.Mode
	Seed        int64
	Trace       []State
	Unsupported bool
	Scores      []LigandScore
	Poses       []PoseOutput
	Budget      *gpu.MemoryBudget
	Plan        []PlannedBatch
	Batches     []BatchResult
	Skipped     []ligand.Failure
	Duration    time.Duration
}

func (o *Outcome) enter(s State) {
	if n := len(o.Trace); n > 0 && o.Trace[n-1] == s {
		return
	}
	o.Trace = append(o.Trace, s)
}

// ============================================================================
// Dispatcher
// ============================================================================

// Dispatcher drives one validated run.
type Dispatcher struct {
	deps   Dependencies
	logger logging.Logger
}

// NewDispatcher returns a dispatcher.  Engine and Reporter are required.
func NewDispatcher(deps Dependencies) *Dispatcher {
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}
	if deps.Calibration == nil {
		deps.Calibration = DefaultCalibration()
	}
	if deps.Seed == nil {
		deps.Seed = func() int64 { return rand.Int63n(1<<31-1) + 1 }
	}
	return &Dispatcher{deps: deps, logger: deps.Logger.Named("dispatcher")}
}

// Run executes cfg.  An unsupported mode for a GPU batch run is not an
// error: the notice is printed and the outcome is marked Unsupported.
func (d *Dispatcher) Run(ctx context.Context, cfg *config.RunConfiguration) (*Outcome, error) {
	start := time.Now()
	out := &Outcome{RunID: d.deps.Reporter.RunID(), Mode: cfg.Mode, Seed: cfg.Search.Seed}
	if out.RunID == "" {
		out.RunID = uuid.NewString()
	}
	out.enter(StateValidated)
	log := d.logger.With(logging.String("run_id", out.RunID), logging.String("mode", cfg.Mode.String()))
	rep := d.deps.Reporter
	rep.Configuration(cfg)

	if _, ok := cfg.Source(config.GpuBatch); ok && cfg.Mode != docking.ModeGlobalSearch {
		rep.Notice(UnsupportedModeNotice)
		log.Info("mode unsupported on the gpu batch path")
		out.Unsupported = true
		return out, nil
	}

	if out.Seed == 0 {
		out.Seed = d.deps.Seed()
		rep.RandomSeed(out.Seed)
	}

	err := d.run(ctx, cfg, out, log)
	out.Duration = time.Since(start)
	summary := RunSummary{
		Mode:        cfg.Mode.String(),
		Ligands:     cfg.LigandCount(),
		Skipped:     len(out.Skipped),
		Batches:     len(out.Batches),
		Duration:    out.Duration,
		CompletedAt: time.Now(),
	}
	if out.Budget != nil {
		summary.BudgetMiB = out.Budget.BudgetMiB
	}
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), summaryTimeout)
	defer cancel()
	if err != nil {
		summary.Failed = true
		summary.ErrorCode = string(errors.GetCode(err))
		summary.Error = err.Error()
		rep.Summary(sctx, summary)
		return out, err
	}
	out.enter(StateReported)
	rep.Summary(sctx, summary)
	log.Info("run complete", logging.Duration("duration", out.Duration))
	return out, nil
}

func (d *Dispatcher) run(ctx context.Context, cfg *config.RunConfiguration, out *Outcome, log logging.Logger) error {
	eng := d.deps.Engine

	if cfg.HasReceptor() {
		if err := eng.SetReceptor(ctx, cfg.Receptor, cfg.Flex); err != nil {
			return err
		}
		out.enter(StateReceptorLoaded)
		log.Debug("receptor loaded", logging.Int("atoms", eng.ReceptorAtomCount()))
	}
	if err := d.setWeights(cfg); err != nil {
		return err
	}
	if err := d.prepareMaps(ctx, cfg); err != nil {
		return err
	}
	out.enter(StateMapsReady)

	params := cfg.Search
	params.Seed = out.Seed
	for _, src := range cfg.Sources {
		var err error
		switch src.Kind {
		case config.SingleSet:
			err = d.runCPU(ctx, cfg, src, params, out, func(p string) string {
				switch {
				case len(src.Paths) == 1:
					return cfg.Out
				case cfg.Out != "":
					return docking.PrefixedOutputName(cfg.Out, p)
				default:
					return docking.DefaultOutputName(p, "")
				}
			})
		case config.CpuBatch:
			err = d.runCPU(ctx, cfg, src, params, out, func(p string) string {
				return docking.DefaultOutputName(p, cfg.Dir)
			})
		case config.GpuBatch:
			err = d.runGPU(ctx, cfg, src, params, out, log)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) setWeights(cfg *config.RunConfiguration) error {
	eng := d.deps.Engine
	switch cfg.Scoring {
	case docking.ScoringVinardo:
		return eng.SetVinardoWeights(cfg.Weights.Vinardo)
	case docking.ScoringAD4:
		return eng.SetAD4Weights(cfg.Weights.AD4)
	default:
		return eng.SetVinaWeights(cfg.Weights.Vina)
	}
}

// prepareMaps loads precomputed maps or computes a grid over the configured
// box.  Without a box the grid covers every CPU-path ligand.
func (d *Dispatcher) prepareMaps(ctx context.Context, cfg *config.RunConfiguration) error {
	eng := d.deps.Engine
	if cfg.UsesMaps() {
		if err := eng.LoadMaps(ctx, cfg.Maps); err != nil {
			return err
		}
	} else {
		box := cfg.Box
		if !cfg.HasBox {
			var paths []string
			for _, s := range cfg.Sources {
				if s.Kind != config.GpuBatch {
					paths = append(paths, s.Paths...)
				}
			}
			if err := eng.SetLigandFromFile(ctx, paths...); err != nil {
				return err
			}
			derived, err := eng.GridDimensionsFromLigand(cfg.AutoboxBuffer)
			if err != nil {
				return err
			}
			box = derived
		}
		if err := eng.ComputeVinaMaps(ctx, box, cfg.Spacing, cfg.ForceEvenVoxels); err != nil {
			return err
		}
	}
	if cfg.WriteMaps != "" {
		return eng.WriteMaps(ctx, cfg.WriteMaps)
	}
	return nil
}

// runCPU runs the terminal operation once per ligand of src.
func (d *Dispatcher) runCPU(ctx context.Context, cfg *config.RunConfiguration, src config.LigandSource,
	params docking.SearchParams, out *Outcome, outName func(string) string) error {
	eng := d.deps.Engine
	rep := d.deps.Reporter
	out.enter(terminalState(cfg.Mode))
	for _, p := range src.Paths {
		if err := eng.SetLigandFromFile(ctx, p); err != nil {
			return err
		}
		switch cfg.Mode {
		case docking.ModeRandomize:
			if err := eng.Randomize(ctx, params.Seed); err != nil {
				return err
			}
			target := outName(p)
			if err := eng.WritePose(ctx, target); err != nil {
				return err
			}
			rep.PoseWritten(p, target)
			out.Poses = append(out.Poses, PoseOutput{Ligand: p, Out: target})
		case docking.ModeScoreOnly:
			terms, err := eng.Score(ctx)
			if err != nil {
				return err
			}
			rep.Score(p, terms)
			out.Scores = append(out.Scores, LigandScore{Ligand: p, Terms: terms})
		case docking.ModeLocalOnly:
			terms, err := eng.Optimize(ctx)
			if err != nil {
				return err
			}
			rep.Score(p, terms)
			out.Scores = append(out.Scores, LigandScore{Ligand: p, Terms: terms})
			target := outName(p)
			if err := eng.WritePose(ctx, target); err != nil {
				return err
			}
			rep.PoseWritten(p, target)
			out.Poses = append(out.Poses, PoseOutput{Ligand: p, Out: target})
		default:
			if err := eng.GlobalSearch(ctx, params); err != nil {
				return err
			}
			target := outName(p)
			energies, err := eng.WritePoses(ctx, target, params.NumModes, params.EnergyRange)
			if err != nil {
				return err
			}
			rep.Poses(p, target, energies)
			out.Poses = append(out.Poses, PoseOutput{Ligand: p, Out: target, Energies: energies})
		}
	}
	return nil
}

// runGPU probes the device, parses every ligand, plans batches against the
// budget and executes them in order.
func (d *Dispatcher) runGPU(ctx context.Context, cfg *config.RunConfiguration, src config.LigandSource,
	params docking.SearchParams, out *Outcome, log logging.Logger) error {
	if d.deps.Prober == nil || d.deps.Loader == nil {
		return errors.New(errors.CodeEngineInternal, "gpu batch run without device prober or ligand loader")
	}
	eng := d.deps.Engine
	rep := d.deps.Reporter
	eng.EnableGPU()
	out.enter(StateGpuBatchSearch)

	info, err := d.deps.Prober.Probe(ctx)
	if err != nil {
		return err
	}
	budget := gpu.ComputeBudget(info, int64(cfg.MaxGPUMemoryMiB))
	out.Budget = &budget
	rep.Budget(budget)
	log.Info("memory budget",
		logging.Bool("device_present", budget.DevicePresent),
		logging.Float64("budget_mib", budget.BudgetMiB),
		logging.String("class", string(budget.Class)))

	if d.deps.Locker != nil {
		release, err := d.deps.Locker.Acquire(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if rerr := release(context.Background()); rerr != nil {
				log.Warn("device lease release failed", logging.Err(rerr))
			}
		}()
	}

	ligs, failures, err := d.deps.Loader.LoadAll(ctx, src.Paths, cfg.Scoring.Family())
	if err != nil {
		return err
	}
	out.Skipped = append(out.Skipped, failures...)

	predictor := NewPredictor(d.deps.Calibration, budget.Class, cfg.Scoring.Family(), params.Exhaustiveness)
	plan := Plan(ligs, eng.ReceptorAtomCount(), budget.BudgetMiB, predictor)
	out.Plan = plan
	rep.Plan(len(ligs), plan)

	results, err := NewScheduler(eng, rep, d.deps.Logger).Run(ctx, plan, params, cfg.Dir)
	out.Batches = append(out.Batches, results...)
	return err
}

//Personal.AI order the ending
