package vina

import (
	"strconv"

	"github.com/turtacn/Uni-Dock/pkg/types/docking"
)

// state is the receptor, map and scoring setup shared by an engine and every
// batch context forked from it.  It is copied by value on fork.
type state struct {
	scoring docking.ScoringFunction
	weights docking.Weights

	receptor string
	flex     string

	maps      string
	box       docking.Box
	hasBox    bool
	spacing   float64
	forceEven bool
	mapsReady bool
	writeMaps string

	cpu       int
	verbosity int
	noRefine  bool
	gpu       bool
}

func ff(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// commonArgs renders the shared state as engine flags.
func (s *state) commonArgs() []string {
	args := []string{"--scoring", string(s.scoring)}
	if s.receptor != "" {
		args = append(args, "--receptor", s.receptor)
	}
	if s.flex != "" {
		args = append(args, "--flex", s.flex)
	}
	if s.maps != "" {
		args = append(args, "--maps", s.maps)
	} else if s.hasBox {
		args = append(args,
			"--center_x", ff(s.box.Center.X), "--center_y", ff(s.box.Center.Y), "--center_z", ff(s.box.Center.Z),
			"--size_x", ff(s.box.Size.X), "--size_y", ff(s.box.Size.Y), "--size_z", ff(s.box.Size.Z),
			"--spacing", ff(s.spacing))
		if s.forceEven {
			args = append(args, "--force_even_voxels")
		}
	}
	if s.writeMaps != "" {
		args = append(args, "--write_maps", s.writeMaps)
	}
	args = append(args, s.weightArgs()...)
	if s.cpu > 0 {
		args = append(args, "--cpu", strconv.Itoa(s.cpu))
	}
	if s.noRefine {
		args = append(args, "--no_refine")
	}
	args = append(args, "--verbosity", strconv.Itoa(s.verbosity))
	return args
}

func (s *state) weightArgs() []string {
	w := s.weights
	switch s.scoring {
	case docking.ScoringVinardo:
		return []string{
			"--weight_vinardo_gauss1", ff(w.Vinardo.Gauss1),
			"--weight_vinardo_repulsion", ff(w.Vinardo.Repulsion),
			"--weight_vinardo_hydrophobic", ff(w.Vinardo.Hydrophobic),
			"--weight_vinardo_hydrogen", ff(w.Vinardo.Hydrogen),
			"--weight_glue", ff(w.Vinardo.Glue),
			"--weight_rot", ff(w.Vinardo.Rot),
		}
	case docking.ScoringAD4:
		return []string{
			"--weight_ad4_vdw", ff(w.AD4.VDW),
			"--weight_ad4_hb", ff(w.AD4.HB),
			"--weight_ad4_elec", ff(w.AD4.Elec),
			"--weight_ad4_dsolv", ff(w.AD4.Dsolv),
			"--weight_glue", ff(w.AD4.Glue),
			"--weight_ad4_rot", ff(w.AD4.Rot),
		}
	default:
		return []string{
			"--weight_gauss1", ff(w.Vina.Gauss1),
			"--weight_gauss2", ff(w.Vina.Gauss2),
			"--weight_repulsion", ff(w.Vina.Repulsion),
			"--weight_hydrophobic", ff(w.Vina.Hydrophobic),
			"--weight_hydrogen", ff(w.Vina.Hydrogen),
			"--weight_glue", ff(w.Vina.Glue),
			"--weight_rot", ff(w.Vina.Rot),
		}
	}
}

// searchArgs renders search-effort settings.  Zero max_evals, max_step and
// seed are left to the engine's heuristics.
func searchArgs(p docking.SearchParams, withMaxStep bool) []string {
	args := []string{
		"--exhaustiveness", strconv.Itoa(p.Exhaustiveness),
		"--num_modes", strconv.Itoa(p.NumModes),
		"--min_rmsd", ff(p.MinRMSD),
		"--energy_range", ff(p.EnergyRange),
	}
	if p.MaxEvals > 0 {
		args = append(args, "--max_evals", strconv.Itoa(p.MaxEvals))
	}
	if withMaxStep && p.MaxStep > 0 {
		args = append(args, "--max_step", strconv.Itoa(p.MaxStep))
	}
	if p.Seed != 0 {
		args = append(args, "--seed", strconv.FormatInt(p.Seed, 10))
	}
	return args
}

//Personal.AI order the ending
