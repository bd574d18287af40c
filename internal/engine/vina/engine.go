// Package vina implements the docking engine handle on top of an external
// Vina-family executable.  Receptor, map, weight and box setup accumulate in
// Go; every terminal operation runs the executable once with the matching
// flags and reads its results back.
package vina

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/turtacn/Uni-Dock/internal/domain/ligand"
	"github.com/turtacn/Uni-Dock/internal/engine"
	"github.com/turtacn/Uni-Dock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Uni-Dock/pkg/errors"
	"github.com/turtacn/Uni-Dock/pkg/types/docking"
)

// Options configures an Engine.
type Options struct {
	Binary    string
	GPUBinary string
	// WorkDir holds staged outputs before they are moved to their final
	// names.  Empty uses the system temp directory.
	WorkDir   string
	Scoring   docking.ScoringFunction
	CPU       int
	Verbosity int
	NoRefine  bool
}

// Engine is the exec-backed engine handle.
type Engine struct {
	opts   Options
	runner Runner
	logger logging.Logger

	st state

	receptorAtoms int
	ligands       []*ligand.Ligand
	staged        string
}

var _ engine.Engine = (*Engine)(nil)

// New constructs an Engine.  A nil runner uses ExecRunner.
func New(opts Options, runner Runner, logger logging.Logger) *Engine {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if opts.WorkDir == "" {
		opts.WorkDir = os.TempDir()
	}
	return &Engine{
		opts:   opts,
		runner: runner,
		logger: logger.Named("engine"),
		st: state{
			scoring:   opts.Scoring,
			cpu:       opts.CPU,
			verbosity: opts.Verbosity,
			noRefine:  opts.NoRefine,
		},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Setup
// ─────────────────────────────────────────────────────────────────────────────

// SetReceptor records the rigid receptor and flexible side chains and counts
// their atoms for memory prediction.
func (e *Engine) SetReceptor(_ context.Context, rigid, flex string) error {
	total := 0
	for _, p := range []string{rigid, flex} {
		if p == "" {
			continue
		}
		m, err := ligand.ParseFile(p, e.st.scoring.Family())
		if err != nil {
			return err
		}
		total += m.AtomCount()
	}
	e.st.receptor, e.st.flex = rigid, flex
	e.receptorAtoms = total
	e.logger.Debug("receptor set", logging.String("rigid", rigid), logging.String("flex", flex), logging.Int("atoms", total))
	return nil
}

func (e *Engine) SetVinaWeights(w docking.VinaWeights) error {
	if e.st.scoring != docking.ScoringVina {
		return errors.Newf(errors.CodeEngineInternal, "vina weights set for scoring function %s", e.st.scoring)
	}
	e.st.weights.Vina = w
	return nil
}

func (e *Engine) SetVinardoWeights(w docking.VinardoWeights) error {
	if e.st.scoring != docking.ScoringVinardo {
		return errors.Newf(errors.CodeEngineInternal, "vinardo weights set for scoring function %s", e.st.scoring)
	}
	e.st.weights.Vinardo = w
	return nil
}

func (e *Engine) SetAD4Weights(w docking.AD4Weights) error {
	if e.st.scoring != docking.ScoringAD4 {
		return errors.Newf(errors.CodeEngineInternal, "ad4 weights set for scoring function %s", e.st.scoring)
	}
	e.st.weights.AD4 = w
	return nil
}

// LoadMaps points the engine at precomputed affinity maps.
func (e *Engine) LoadMaps(_ context.Context, prefix string) error {
	matches, _ := filepath.Glob(prefix + "*.map")
	if len(matches) == 0 {
		return errors.FileAccess(prefix+"*.map", true, fmt.Errorf("no affinity maps match prefix"))
	}
	e.st.maps = prefix
	e.st.mapsReady = true
	return nil
}

// ComputeVinaMaps fixes the grid box; the executable builds the grid when a
// terminal operation runs.
func (e *Engine) ComputeVinaMaps(_ context.Context, box docking.Box, spacing float64, forceEven bool) error {
	if !box.Valid() {
		return errors.Newf(errors.CodeEngineInternal, "invalid grid box %+v", box)
	}
	e.st.box, e.st.hasBox = box, true
	e.st.spacing, e.st.forceEven = spacing, forceEven
	e.st.mapsReady = true
	return nil
}

// WriteMaps requests map output under prefix.  Only the next engine run,
// CPU or batch, writes the maps.
func (e *Engine) WriteMaps(_ context.Context, prefix string) error {
	if err := ensureParent(prefix); err != nil {
		return err
	}
	e.st.writeMaps = prefix
	return nil
}

func (e *Engine) GridDimensionsFromLigand(padding float64) (docking.Box, error) {
	if len(e.ligands) == 0 {
		return docking.Box{}, errors.New(errors.CodeEngineInternal, "no ligand loaded for autobox")
	}
	return ligand.UnionExtent(e.ligands).Box(padding), nil
}

// SetLigandFromFile loads ligands for the next operation.
func (e *Engine) SetLigandFromFile(_ context.Context, paths ...string) error {
	ligs := make([]*ligand.Ligand, 0, len(paths))
	for _, p := range paths {
		l, err := ligand.ParseFile(p, e.st.scoring.Family())
		if err != nil {
			return err
		}
		ligs = append(ligs, l)
	}
	e.ligands = ligs
	e.discardStaged()
	return nil
}

func (e *Engine) ReceptorAtomCount() int { return e.receptorAtoms }

func (e *Engine) EnableGPU() { e.st.gpu = true }

// ─────────────────────────────────────────────────────────────────────────────
// Terminal operations
// ─────────────────────────────────────────────────────────────────────────────

func (e *Engine) Randomize(ctx context.Context, seed int64) error {
	extra := []string{"--randomize_only"}
	if seed != 0 {
		extra = append(extra, "--seed", strconv.FormatInt(seed, 10))
	}
	_, err := e.runStaged(ctx, extra...)
	return err
}

func (e *Engine) Score(ctx context.Context) (engine.ScoreTerms, error) {
	stdout, err := e.run(ctx, e.opts.Binary, e.singleArgs("--score_only"))
	if err != nil {
		return engine.ScoreTerms{}, err
	}
	return parseScore(stdout)
}

func (e *Engine) Optimize(ctx context.Context) (engine.ScoreTerms, error) {
	stdout, err := e.runStaged(ctx, "--local_only")
	if err != nil {
		return engine.ScoreTerms{}, err
	}
	return parseScore(stdout)
}

func (e *Engine) GlobalSearch(ctx context.Context, params docking.SearchParams) error {
	_, err := e.runStaged(ctx, searchArgs(params, false)...)
	return err
}

// WritePose moves the staged pose of the last randomize or local run to out.
func (e *Engine) WritePose(_ context.Context, out string) error {
	return e.commitStaged(out)
}

// WritePoses moves the staged poses of the last global search to out and
// returns up to numModes energies.
func (e *Engine) WritePoses(_ context.Context, out string, numModes int, _ float64) ([]float64, error) {
	if err := e.commitStaged(out); err != nil {
		return nil, err
	}
	energies, err := ligand.ReadResultEnergies(out)
	if err != nil {
		return nil, err
	}
	if numModes > 0 && len(energies) > numModes {
		energies = energies[:numModes]
	}
	return energies, nil
}

// NewBatch forks a batch context sharing this engine's setup.
func (e *Engine) NewBatch() engine.Batch {
	return &Batch{
		parent: e,
		st:     e.st,
		opts:   e.opts,
		runner: e.runner,
		logger: e.logger.Named("batch"),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// helpers
// ─────────────────────────────────────────────────────────────────────────────

func (e *Engine) singleArgs(extra ...string) []string {
	args := e.st.commonArgs()
	for _, l := range e.ligands {
		args = append(args, "--ligand", l.Path)
	}
	return append(args, extra...)
}

func (e *Engine) runStaged(ctx context.Context, extra ...string) ([]byte, error) {
	e.discardStaged()
	staged := filepath.Join(e.opts.WorkDir, "unidock-"+uuid.NewString()+docking.PoseExtension)
	stdout, err := e.run(ctx, e.opts.Binary, e.singleArgs(append(extra, "--out", staged)...))
	if err != nil {
		return nil, err
	}
	e.staged = staged
	return stdout, nil
}

func (e *Engine) run(ctx context.Context, binary string, args []string) ([]byte, error) {
	if !e.st.mapsReady {
		return nil, errors.New(errors.CodeEngineInternal, "affinity maps are not ready")
	}
	if len(e.ligands) == 0 {
		return nil, errors.New(errors.CodeEngineInternal, "no ligand loaded")
	}
	e.logger.Debug("running engine", logging.String("binary", binary), logging.Strings("args", args))
	stdout, stderr, err := e.runner.Run(ctx, binary, args)
	if err != nil {
		return nil, classify(binary, stderr, err)
	}
	e.mapsWritten()
	return stdout, nil
}

func (e *Engine) mapsWritten() { e.st.writeMaps = "" }

func (e *Engine) commitStaged(out string) error {
	if e.staged == "" {
		return errors.New(errors.CodeEngineInternal, "no pose to write")
	}
	if err := moveFile(e.staged, out); err != nil {
		return err
	}
	e.staged = ""
	return nil
}

func (e *Engine) discardStaged() {
	if e.staged != "" {
		_ = os.Remove(e.staged)
		e.staged = ""
	}
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.FileAccess(dir, false, err)
	}
	return nil
}

// moveFile renames src to dst, copying when they sit on different devices.
func moveFile(src, dst string) error {
	if err := ensureParent(dst); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return errors.FileAccess(src, true, err)
	}
	defer in.Close()
	outF, err := os.Create(dst)
	if err != nil {
		return errors.FileAccess(dst, false, err)
	}
	if _, err := io.Copy(outF, in); err != nil {
		outF.Close()
		return errors.FileAccess(dst, false, err)
	}
	if err := outF.Close(); err != nil {
		return errors.FileAccess(dst, false, err)
	}
	_ = os.Remove(src)
	return nil
}

//Personal.AI order the ending
