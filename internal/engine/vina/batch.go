package vina

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/turtacn/Uni-Dock/internal/domain/ligand"
	"github.com/turtacn/Uni-Dock/internal/engine"
	"github.com/turtacn/Uni-Dock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Uni-Dock/pkg/errors"
	"github.com/turtacn/Uni-Dock/pkg/types/docking"
)

// Batch is a GPU batch context.  It carries a copy of the parent engine's
// setup and owns its ligands and staged results.
type Batch struct {
	parent *Engine
	st     state
	opts   Options
	runner Runner
	logger logging.Logger

	ligands  []*ligand.Ligand
	stageDir string
}

var _ engine.Batch = (*Batch)(nil)

func (b *Batch) SetLigands(ligs []*ligand.Ligand) error {
	if len(ligs) == 0 {
		return errors.New(errors.CodeEngineInternal, "empty ligand batch")
	}
	// The engine stages every result under its input's base name.
	stems := make(map[string]string, len(ligs))
	for _, l := range ligs {
		stem := docking.Stem(l.Path)
		if prev, ok := stems[stem]; ok {
			return errors.Newf(errors.CodeEngineInternal, "ligands %s and %s share the staged output %s", prev, l.Path, docking.DefaultOutputName(stem, ""))
		}
		stems[stem] = l.Path
	}
	b.cleanup()
	b.ligands = ligs
	return nil
}

// GlobalSearchGPU runs one accelerator search over the whole batch.  count
// must match the number of ligands set.
func (b *Batch) GlobalSearchGPU(ctx context.Context, params docking.SearchParams, count int) error {
	if count != len(b.ligands) {
		return errors.Newf(errors.CodeEngineInternal, "batch count %d does not match %d ligands", count, len(b.ligands))
	}
	if !b.st.mapsReady {
		return errors.New(errors.CodeEngineInternal, "affinity maps are not ready")
	}
	b.cleanup()
	dir := filepath.Join(b.opts.WorkDir, "unidock-batch-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.FileAccess(dir, false, err)
	}

	args := b.st.commonArgs()
	args = append(args, "--gpu_batch")
	args = append(args, ligand.Paths(b.ligands)...)
	args = append(args, "--dir", dir)
	args = append(args, searchArgs(params, true)...)

	binary := b.opts.GPUBinary
	if binary == "" {
		binary = b.opts.Binary
	}
	b.logger.Debug("running batch search", logging.String("binary", binary), logging.Int("ligands", count))
	_, stderr, err := b.runner.Run(ctx, binary, args)
	if err != nil {
		_ = os.RemoveAll(dir)
		return classify(binary, stderr, err)
	}
	b.st.writeMaps = ""
	if b.parent != nil {
		b.parent.mapsWritten()
	}
	b.stageDir = dir
	return nil
}

// WritePosesGPU moves each staged result to outs[i] and reads its energies.
func (b *Batch) WritePosesGPU(_ context.Context, outs []string, numModes int, _ float64) ([][]float64, error) {
	if b.stageDir == "" {
		return nil, errors.New(errors.CodeEngineInternal, "no batch results to write")
	}
	if len(outs) != len(b.ligands) {
		return nil, errors.Newf(errors.CodeEngineInternal, "%d output paths for %d ligands", len(outs), len(b.ligands))
	}
	defer b.cleanup()

	energies := make([][]float64, len(outs))
	for i, l := range b.ligands {
		staged := docking.DefaultOutputName(l.Path, b.stageDir)
		if err := moveFile(staged, outs[i]); err != nil {
			return nil, err
		}
		e, err := ligand.ReadResultEnergies(outs[i])
		if err != nil {
			return nil, err
		}
		if numModes > 0 && len(e) > numModes {
			e = e[:numModes]
		}
		energies[i] = e
	}
	return energies, nil
}

func (b *Batch) cleanup() {
	if b.stageDir != "" {
		_ = os.RemoveAll(b.stageDir)
		b.stageDir = ""
	}
}

//Personal.AI order the ending
