// Package engine defines the docking engine handle that the orchestrator
// drives.  Scoring terms, optimizers, grid mathematics and pose clustering
// live behind this interface; the orchestrator only sequences calls.
package engine

import (
	"context"

	"github.com/turtacn/Uni-Dock/internal/domain/ligand"
	"github.com/turtacn/Uni-Dock/pkg/types/docking"
)

// ScoreTerms is an energy breakdown in kcal/mol as reported by the engine.
// Total is the estimated free energy of binding; the remaining entries follow
// the engine's own term order.
type ScoreTerms struct {
	Total          float64
	Intermolecular float64
	Intramolecular float64
	Torsional      float64
	Unbound        float64
}

// Engine owns receptor and map state and runs single-ligand operations.
// Maps must be ready (LoadMaps or ComputeVinaMaps) before any scoring call.
type Engine interface {
	SetReceptor(ctx context.Context, rigid, flex string) error
	SetVinaWeights(w docking.VinaWeights) error
	SetVinardoWeights(w docking.VinardoWeights) error
	SetAD4Weights(w docking.AD4Weights) error

	LoadMaps(ctx context.Context, prefix string) error
	ComputeVinaMaps(ctx context.Context, box docking.Box, spacing float64, forceEven bool) error
	WriteMaps(ctx context.Context, prefix string) error
	// GridDimensionsFromLigand returns the box covering the loaded ligands,
	// each dimension enlarged by padding.
	GridDimensionsFromLigand(padding float64) (docking.Box, error)

	SetLigandFromFile(ctx context.Context, paths ...string) error
	ReceptorAtomCount() int
	EnableGPU()

	// Randomize places the ligand at a random pose.  A zero seed leaves the
	// choice to the engine.
	Randomize(ctx context.Context, seed int64) error
	Score(ctx context.Context) (ScoreTerms, error)
	Optimize(ctx context.Context) (ScoreTerms, error)
	GlobalSearch(ctx context.Context, params docking.SearchParams) error

	WritePose(ctx context.Context, out string) error
	// WritePoses writes up to numModes ranked poses within energyRange of the
	// best and returns their energies.
	WritePoses(ctx context.Context, out string, numModes int, energyRange float64) ([]float64, error)

	// NewBatch returns a batch context that shares this engine's receptor and
	// map state and owns only its own ligands and results.
	NewBatch() Batch
}

// Batch is the per-batch engine context of the GPU path.
type Batch interface {
	SetLigands(ligs []*ligand.Ligand) error
	// GlobalSearchGPU runs one blocking accelerator search over count ligands.
	GlobalSearchGPU(ctx context.Context, params docking.SearchParams, count int) error
	// WritePosesGPU writes each ligand's ranked poses to outs[i] and returns
	// the per-ligand energies.
	WritePosesGPU(ctx context.Context, outs []string, numModes int, energyRange float64) ([][]float64, error)
}

//Personal.AI order the ending
