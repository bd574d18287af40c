// Package config turns raw docking options into a validated, immutable
// RunConfiguration, and loads option files and integration settings.
package config

import (
	"github.com/turtacn/Uni-Dock/pkg/types/docking"
)

// ─────────────────────────────────────────────────────────────────────────────
// Docking defaults
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultScoring        = docking.ScoringVina
	DefaultExhaustiveness = 8
	DefaultNumModes       = 9
	DefaultMinRMSD        = 1.0
	DefaultEnergyRange    = 3.0
	DefaultSpacing        = 0.375
	DefaultVerbosity      = 1

	// DefaultAutoboxBuffer is the padding in Angstrom added to each ligand
	// extent dimension when the box is derived from ligands.
	DefaultAutoboxBuffer = 4.0
)

// DefaultWeights returns the stock weight sets for all scoring functions.
func DefaultWeights() docking.Weights {
	return docking.Weights{
		Vina: docking.VinaWeights{
			Gauss1:      -0.035579,
			Gauss2:      -0.005156,
			Repulsion:   0.840245,
			Hydrophobic: -0.035069,
			Hydrogen:    -0.587439,
			Glue:        50,
			Rot:         0.05846,
		},
		Vinardo: docking.VinardoWeights{
			Gauss1:      -0.045,
			Repulsion:   0.8,
			Hydrophobic: -0.035,
			Hydrogen:    -0.600,
			Glue:        50,
			Rot:         0.05846,
		},
		AD4: docking.AD4Weights{
			VDW:   0.1662,
			HB:    0.1209,
			Elec:  0.1406,
			Dsolv: 0.1322,
			Glue:  50,
			Rot:   0.2983,
		},
	}
}

// NewRawOptions returns RawOptions populated with defaults and nothing marked
// as provided.
func NewRawOptions() *RawOptions {
	w := DefaultWeights()
	return &RawOptions{
		Scoring:        string(DefaultScoring),
		Spacing:        DefaultSpacing,
		Exhaustiveness: DefaultExhaustiveness,
		NumModes:       DefaultNumModes,
		MinRMSD:        DefaultMinRMSD,
		EnergyRange:    DefaultEnergyRange,
		Verbosity:      DefaultVerbosity,

		WeightGauss1:      w.Vina.Gauss1,
		WeightGauss2:      w.Vina.Gauss2,
		WeightRepulsion:   w.Vina.Repulsion,
		WeightHydrophobic: w.Vina.Hydrophobic,
		WeightHydrogen:    w.Vina.Hydrogen,
		WeightRot:         w.Vina.Rot,

		WeightVinardoGauss1:      w.Vinardo.Gauss1,
		WeightVinardoRepulsion:   w.Vinardo.Repulsion,
		WeightVinardoHydrophobic: w.Vinardo.Hydrophobic,
		WeightVinardoHydrogen:    w.Vinardo.Hydrogen,
		WeightVinardoRot:         w.Vinardo.Rot,

		WeightAD4VDW:   w.AD4.VDW,
		WeightAD4HB:    w.AD4.HB,
		WeightAD4Elec:  w.AD4.Elec,
		WeightAD4Dsolv: w.AD4.Dsolv,
		WeightAD4Rot:   w.AD4.Rot,
		WeightGlue:     w.Vina.Glue,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Search-mode presets
// ─────────────────────────────────────────────────────────────────────────────

// SearchPreset fixes exhaustiveness and max_step together.
type SearchPreset struct {
	Exhaustiveness int
	MaxStep        int
}

// SearchPresets are the named --search_mode settings.
var SearchPresets = map[string]SearchPreset{
	"fast":    {Exhaustiveness: 256, MaxStep: 15},
	"balance": {Exhaustiveness: 1024, MaxStep: 20},
	"detail":  {Exhaustiveness: 2048, MaxStep: 20},
}

// ─────────────────────────────────────────────────────────────────────────────
// Integration defaults
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultLogFormat = "console"

	DefaultEngineBinary    = "vina"
	DefaultEngineGPUBinary = "unidock-engine"

	DefaultMetricsJob = "unidock"

	DefaultMinIOPrefix = "poses"

	DefaultKafkaTopic = "unidock.batches"

	DefaultLeaseTTLSeconds = 30
	DefaultLeaseKeyPrefix  = "unidock:lock:gpu:"
)

// ApplyDefaults fills zero-value fields of cfg.  Explicit values are kept.
func ApplyDefaults(cfg *IntegrationConfig) {
	if cfg == nil {
		return
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Engine.Binary == "" {
		cfg.Engine.Binary = DefaultEngineBinary
	}
	if cfg.Engine.GPUBinary == "" {
		cfg.Engine.GPUBinary = DefaultEngineGPUBinary
	}
	if cfg.Metrics.Job == "" {
		cfg.Metrics.Job = DefaultMetricsJob
	}
	if cfg.MinIO.Prefix == "" {
		cfg.MinIO.Prefix = DefaultMinIOPrefix
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Redis.LeaseTTLSeconds == 0 {
		cfg.Redis.LeaseTTLSeconds = DefaultLeaseTTLSeconds
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultLeaseKeyPrefix
	}
}

//Personal.AI order the ending
