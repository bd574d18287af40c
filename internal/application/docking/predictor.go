package docking

import (
	"github.com/turtacn/Uni-Dock/internal/infrastructure/gpu"
	"github.com/turtacn/Uni-Dock/pkg/types/docking"
)

// ============================================================================
// Calibration
// ============================================================================

// Coefficients of the peak-memory model, in MiB:
//
//	predicted = PerLigand*n + PerLigandExhaustiveness*exhaustiveness*n + PerCost*cost + Base
type Coefficients struct {
	PerLigand               float64
	PerLigandExhaustiveness float64
	PerCost                 float64
	Base                    float64
}

type calibrationKey struct {
	class  gpu.DeviceClass
	family docking.Family
}

// CalibrationTable maps device class and scoring family to coefficients.
type CalibrationTable struct {
	rows     map[calibrationKey]Coefficients
	fallback Coefficients
}

// NewCalibrationTable returns an empty table answering fallback for every
// unknown combination.
func NewCalibrationTable(fallback Coefficients) *CalibrationTable {
	return &CalibrationTable{rows: make(map[calibrationKey]Coefficients), fallback: fallback}
}

// Set installs coefficients for a class and family.
func (t *CalibrationTable) Set(class gpu.DeviceClass, family docking.Family, c Coefficients) *CalibrationTable {
	t.rows[calibrationKey{class, family}] = c
	return t
}

// Lookup returns the coefficients for a class and family.
func (t *CalibrationTable) Lookup(class gpu.DeviceClass, family docking.Family) Coefficients {
	if c, ok := t.rows[calibrationKey{class, family}]; ok {
		return c
	}
	return t.fallback
}

var (
	v100Vina = Coefficients{PerLigand: 1.214869, PerLigandExhaustiveness: 0.0038522, PerCost: 0.011978, Base: 20017.72}
	v100AD4  = Coefficients{PerLigand: 1.911645, PerLigandExhaustiveness: 0.0039108, PerCost: 0.0792161, Base: 20052.64}
	t4Vina   = Coefficients{PerLigand: 1.166067, PerLigandExhaustiveness: 0.0038676, PerCost: 0.0119598, Base: 5313.848}
)

// DefaultCalibration carries constants fitted on V100 (high memory) and T4
// (low memory) cards.  Low-memory cards were only fitted for the vina
// family; ad4 runs on them use the same row.
func DefaultCalibration() *CalibrationTable {
	return NewCalibrationTable(t4Vina).
		Set(gpu.HighMemory, docking.FamilyVina, v100Vina).
		Set(gpu.HighMemory, docking.FamilyAD4, v100AD4).
		Set(gpu.LowMemory, docking.FamilyVina, t4Vina).
		Set(gpu.LowMemory, docking.FamilyAD4, t4Vina)
}

// ============================================================================
// Predictor
// ============================================================================

// Predictor estimates the device memory of a candidate batch.
type Predictor struct {
	coef           Coefficients
	exhaustiveness int
}

// NewPredictor binds a calibration row to the run's exhaustiveness.
func NewPredictor(table *CalibrationTable, class gpu.DeviceClass, family docking.Family, exhaustiveness int) Predictor {
	return Predictor{coef: table.Lookup(class, family), exhaustiveness: exhaustiveness}
}

// Predict returns the estimated peak MiB of a batch of size ligands whose
// accumulated cost is cost.
func (p Predictor) Predict(size int, cost int64) float64 {
	n := float64(size)
	return p.coef.PerLigand*n +
		p.coef.PerLigandExhaustiveness*float64(p.exhaustiveness)*n +
		p.coef.PerCost*float64(cost) +
		p.coef.Base
}

// LigandCost is the quadratic pair-interaction proxy of one ligand.
func LigandCost(ligandAtoms, receptorAtoms int) int64 {
	n := int64(ligandAtoms + receptorAtoms)
	return n * n
}

//Personal.AI order the ending
