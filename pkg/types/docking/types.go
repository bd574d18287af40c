// Package docking defines the plain value types shared by every layer of
// Uni-Dock: search-space geometry, scoring-function selectors, execution
// modes, search-effort parameters and per-family scoring weights.  No
// orchestration logic lives here.
package docking

import (
	"fmt"
	"math"
)

// ─────────────────────────────────────────────────────────────────────────────
// Geometry
// ─────────────────────────────────────────────────────────────────────────────

// Vec3 is a point or extent in Angstrom.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Box is an axis-aligned search space given by its center and edge lengths.
type Box struct {
	Center Vec3 `json:"center"`
	Size   Vec3 `json:"size"`
}

// Volume returns the box volume in cubic Angstrom.
func (b Box) Volume() float64 {
	return b.Size.X * b.Size.Y * b.Size.Z
}

// Valid reports whether every edge is strictly positive and finite.
func (b Box) Valid() bool {
	for _, v := range []float64{b.Size.X, b.Size.Y, b.Size.Z} {
		if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// Extent is the axis-aligned bounds of a set of coordinates.
type Extent struct {
	Min Vec3
	Max Vec3
}

// EmptyExtent returns an extent that any Include call replaces.
func EmptyExtent() Extent {
	inf := math.Inf(1)
	return Extent{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// Empty reports whether no point has been included.
func (e Extent) Empty() bool {
	return e.Min.X > e.Max.X
}

// Include grows the extent to contain p.
func (e Extent) Include(p Vec3) Extent {
	e.Min = Vec3{math.Min(e.Min.X, p.X), math.Min(e.Min.Y, p.Y), math.Min(e.Min.Z, p.Z)}
	e.Max = Vec3{math.Max(e.Max.X, p.X), math.Max(e.Max.Y, p.Y), math.Max(e.Max.Z, p.Z)}
	return e
}

// Union returns the smallest extent containing both e and o.
func (e Extent) Union(o Extent) Extent {
	if o.Empty() {
		return e
	}
	return e.Include(o.Min).Include(o.Max)
}

// Box returns the search box covering the extent with padding added to
// every dimension (padding/2 on each side).
func (e Extent) Box(padding float64) Box {
	return Box{
		Center: Vec3{(e.Min.X + e.Max.X) / 2, (e.Min.Y + e.Max.Y) / 2, (e.Min.Z + e.Max.Z) / 2},
		Size: Vec3{
			e.Max.X - e.Min.X + padding,
			e.Max.Y - e.Min.Y + padding,
			e.Max.Z - e.Min.Z + padding,
		},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ScoringFunction
// ─────────────────────────────────────────────────────────────────────────────

// ScoringFunction selects the energy model.
type ScoringFunction string

const (
	ScoringVina    ScoringFunction = "vina"
	ScoringVinardo ScoringFunction = "vinardo"
	ScoringAD4     ScoringFunction = "ad4"
)

// Family groups scoring functions by the per-atom state they carry on device.
type Family string

const (
	FamilyVina Family = "vina"
	FamilyAD4  Family = "ad4"
)

// ParseScoringFunction validates a scoring function name.
func ParseScoringFunction(s string) (ScoringFunction, error) {
	switch ScoringFunction(s) {
	case ScoringVina, ScoringVinardo, ScoringAD4:
		return ScoringFunction(s), nil
	}
	return "", fmt.Errorf("scoring function %s unknown", s)
}

// Family returns the memory-model family of sf.
func (sf ScoringFunction) Family() Family {
	if sf == ScoringAD4 {
		return FamilyAD4
	}
	return FamilyVina
}

// ─────────────────────────────────────────────────────────────────────────────
// Mode
// ─────────────────────────────────────────────────────────────────────────────

// Mode is the terminal operation of a run.  Exactly one applies.
type Mode int

const (
	ModeGlobalSearch Mode = iota
	ModeRandomize
	ModeScoreOnly
	ModeLocalOnly
)

func (m Mode) String() string {
	switch m {
	case ModeRandomize:
		return "randomize_only"
	case ModeScoreOnly:
		return "score_only"
	case ModeLocalOnly:
		return "local_only"
	default:
		return "global_search"
	}
}

// ResolveMode applies randomize > score_only > local_only > global search.
func ResolveMode(randomize, scoreOnly, localOnly bool) Mode {
	switch {
	case randomize:
		return ModeRandomize
	case scoreOnly:
		return ModeScoreOnly
	case localOnly:
		return ModeLocalOnly
	default:
		return ModeGlobalSearch
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Search parameters
// ─────────────────────────────────────────────────────────────────────────────

// SearchParams carries search-effort settings passed to the engine.
type SearchParams struct {
	Exhaustiveness int     `json:"exhaustiveness"`
	NumModes       int     `json:"num_modes"`
	MinRMSD        float64 `json:"min_rmsd"`
	MaxEvals       int     `json:"max_evals"`
	MaxStep        int     `json:"max_step"`
	EnergyRange    float64 `json:"energy_range"`
	Seed           int64   `json:"seed"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Weights
// ─────────────────────────────────────────────────────────────────────────────

// VinaWeights are the Vina energy term weights.
type VinaWeights struct {
	Gauss1      float64 `json:"gauss1"`
	Gauss2      float64 `json:"gauss2"`
	Repulsion   float64 `json:"repulsion"`
	Hydrophobic float64 `json:"hydrophobic"`
	Hydrogen    float64 `json:"hydrogen"`
	Glue        float64 `json:"glue"`
	Rot         float64 `json:"rot"`
}

// VinardoWeights are the Vinardo energy term weights.
type VinardoWeights struct {
	Gauss1      float64 `json:"gauss1"`
	Repulsion   float64 `json:"repulsion"`
	Hydrophobic float64 `json:"hydrophobic"`
	Hydrogen    float64 `json:"hydrogen"`
	Glue        float64 `json:"glue"`
	Rot         float64 `json:"rot"`
}

// AD4Weights are the AutoDock4.2 energy term weights.
type AD4Weights struct {
	VDW   float64 `json:"vdw"`
	HB    float64 `json:"hb"`
	Elec  float64 `json:"elec"`
	Dsolv float64 `json:"dsolv"`
	Glue  float64 `json:"glue"`
	Rot   float64 `json:"rot"`
}

// Weights holds all three weight sets; only the one matching the active
// scoring function is applied.
type Weights struct {
	Vina    VinaWeights    `json:"vina"`
	Vinardo VinardoWeights `json:"vinardo"`
	AD4     AD4Weights     `json:"ad4"`
}

//Personal.AI order the ending
