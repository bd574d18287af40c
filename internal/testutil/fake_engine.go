package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/turtacn/Uni-Dock/internal/domain/ligand"
	"github.com/turtacn/Uni-Dock/internal/engine"
	"github.com/turtacn/Uni-Dock/pkg/types/docking"
)

// FakeEngine implements engine.Engine in memory and records every call.
// Errors keyed by method name are returned from that method.
type FakeEngine struct {
	mu sync.Mutex

	Calls  []string
	Errors map[string]error

	ReceptorAtoms int
	Terms         engine.ScoreTerms
	Energies      []float64
	AutoBox       docking.Box

	Rigid     string
	Flex      string
	Box       docking.Box
	Spacing   float64
	ForceEven bool
	Maps      string
	MapsOut   string
	Ligands   []string
	Written   []string
	GPU       bool
	Params    []docking.SearchParams

	// RandomSeeds records the seed of each Randomize call.
	RandomSeeds []int64

	// BatchSizes records the ligand count of each GPU search.
	BatchSizes []int
	// FailBatch makes the n-th GPU search (1-based) fail.
	FailBatch int
	BatchErr  error
}

var _ engine.Engine = (*FakeEngine)(nil)

// NewFakeEngine returns an engine reporting receptorAtoms.
func NewFakeEngine(receptorAtoms int) *FakeEngine {
	return &FakeEngine{
		ReceptorAtoms: receptorAtoms,
		Errors:        make(map[string]error),
		Terms:         engine.ScoreTerms{Total: -7.5, Intermolecular: -8.2, Intramolecular: -0.4, Torsional: 0.7, Unbound: -0.4},
		Energies:      []float64{-9.1, -8.7, -8.2},
		AutoBox:       docking.Box{Size: docking.Vec3{X: 10, Y: 10, Z: 10}},
	}
}

func (f *FakeEngine) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, name)
	return f.Errors[name]
}

// Count returns how often method was called.
func (f *FakeEngine) Count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == method {
			n++
		}
	}
	return n
}

func (f *FakeEngine) SetReceptor(_ context.Context, rigid, flex string) error {
	f.Rigid, f.Flex = rigid, flex
	return f.record("SetReceptor")
}

func (f *FakeEngine) SetVinaWeights(docking.VinaWeights) error { return f.record("SetVinaWeights") }

func (f *FakeEngine) SetVinardoWeights(docking.VinardoWeights) error {
	return f.record("SetVinardoWeights")
}

func (f *FakeEngine) SetAD4Weights(docking.AD4Weights) error { return f.record("SetAD4Weights") }

func (f *FakeEngine) LoadMaps(_ context.Context, prefix string) error {
	f.Maps = prefix
	return f.record("LoadMaps")
}

func (f *FakeEngine) ComputeVinaMaps(_ context.Context, box docking.Box, spacing float64, forceEven bool) error {
	f.Box, f.Spacing, f.ForceEven = box, spacing, forceEven
	return f.record("ComputeVinaMaps")
}

func (f *FakeEngine) WriteMaps(_ context.Context, prefix string) error {
	f.MapsOut = prefix
	return f.record("WriteMaps")
}

func (f *FakeEngine) GridDimensionsFromLigand(padding float64) (docking.Box, error) {
	if err := f.record("GridDimensionsFromLigand"); err != nil {
		return docking.Box{}, err
	}
	b := f.AutoBox
	b.Size.X += padding
	b.Size.Y += padding
	b.Size.Z += padding
	return b, nil
}

func (f *FakeEngine) SetLigandFromFile(_ context.Context, paths ...string) error {
	f.Ligands = append([]string(nil), paths...)
	return f.record("SetLigandFromFile")
}

func (f *FakeEngine) ReceptorAtomCount() int { return f.ReceptorAtoms }

func (f *FakeEngine) EnableGPU() {
	f.GPU = true
	_ = f.record("EnableGPU")
}

func (f *FakeEngine) Randomize(_ context.Context, seed int64) error {
	f.RandomSeeds = append(f.RandomSeeds, seed)
	return f.record("Randomize")
}

func (f *FakeEngine) Score(context.Context) (engine.ScoreTerms, error) {
	return f.Terms, f.record("Score")
}

func (f *FakeEngine) Optimize(context.Context) (engine.ScoreTerms, error) {
	return f.Terms, f.record("Optimize")
}

func (f *FakeEngine) GlobalSearch(_ context.Context, p docking.SearchParams) error {
	f.Params = append(f.Params, p)
	return f.record("GlobalSearch")
}

func (f *FakeEngine) WritePose(_ context.Context, out string) error {
	f.Written = append(f.Written, out)
	return f.record("WritePose")
}

func (f *FakeEngine) WritePoses(_ context.Context, out string, numModes int, _ float64) ([]float64, error) {
	f.Written = append(f.Written, out)
	e := f.Energies
	if numModes > 0 && len(e) > numModes {
		e = e[:numModes]
	}
	return e, f.record("WritePoses")
}

func (f *FakeEngine) NewBatch() engine.Batch {
	_ = f.record("NewBatch")
	return &fakeBatch{parent: f}
}

type fakeBatch struct {
	parent  *FakeEngine
	ligands []*ligand.Ligand
}

func (b *fakeBatch) SetLigands(ligs []*ligand.Ligand) error {
	b.ligands = ligs
	return b.parent.record("SetLigands")
}

func (b *fakeBatch) GlobalSearchGPU(_ context.Context, p docking.SearchParams, count int) error {
	f := b.parent
	if count != len(b.ligands) {
		return fmt.Errorf("count %d != %d ligands", count, len(b.ligands))
	}
	f.mu.Lock()
	f.BatchSizes = append(f.BatchSizes, count)
	f.Params = append(f.Params, p)
	n := len(f.BatchSizes)
	f.mu.Unlock()
	if err := f.record("GlobalSearchGPU"); err != nil {
		return err
	}
	if f.FailBatch == n {
		if f.BatchErr != nil {
			return f.BatchErr
		}
		return fmt.Errorf("batch %d failed", n)
	}
	return nil
}

func (b *fakeBatch) WritePosesGPU(_ context.Context, outs []string, numModes int, _ float64) ([][]float64, error) {
	f := b.parent
	f.mu.Lock()
	f.Written = append(f.Written, outs...)
	f.mu.Unlock()
	res := make([][]float64, len(outs))
	for i := range outs {
		e := f.Energies
		if numModes > 0 && len(e) > numModes {
			e = e[:numModes]
		}
		res[i] = e
	}
	return res, f.record("WritePosesGPU")
}

//Personal.AI order the ending
