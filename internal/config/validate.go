package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/turtacn/Uni-Dock/pkg/errors"
	"github.com/turtacn/Uni-Dock/pkg/types/docking"
)

// FileSystem is the file access validation needs.  Checks that fail before
// any of these calls never touch the disk.
type FileSystem interface {
	IsDir(path string) bool
	ReadFile(path string) ([]byte, error)
}

// OSFileSystem is the FileSystem backed by the os package.
type OSFileSystem struct{}

// IsDir reports whether path names an existing directory.
func (OSFileSystem) IsDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// ReadFile reads the whole file at path.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Validate cross-checks raw and produces the immutable RunConfiguration.
// Rules run in a fixed order and the first violation is returned:
//
//  1. receptor and maps are mutually exclusive
//  2. a search_mode preset overrides exhaustiveness and max_step
//  3. scoring-function requirements
//  4. ligand source selection and output directory
//  5. output naming for single ligands
//  6. ligand index folding into the GPU batch list
//  7. search box completeness
//  8. numeric ranges
func Validate(raw *RawOptions, fs FileSystem) (*RunConfiguration, error) {
	if raw == nil {
		return nil, errors.Configuration("no options supplied")
	}
	if fs == nil {
		fs = OSFileSystem{}
	}
	cfg := &RunConfiguration{
		Receptor:        raw.Receptor,
		Flex:            raw.Flex,
		Maps:            raw.Maps,
		Autobox:         raw.Autobox,
		AutoboxBuffer:   DefaultAutoboxBuffer,
		Spacing:         raw.Spacing,
		ForceEvenVoxels: raw.ForceEvenVoxels,
		WriteMaps:       raw.WriteMaps,
		Mode:            docking.ResolveMode(raw.RandomizeOnly, raw.ScoreOnly, raw.LocalOnly),
		NoRefine:        raw.NoRefine,
		CPU:             raw.CPU,
		MaxGPUMemoryMiB: raw.MaxGPUMemory,
		Verbosity:       raw.Verbosity,
		Out:             raw.Out,
		Search: docking.SearchParams{
			Exhaustiveness: raw.Exhaustiveness,
			NumModes:       raw.NumModes,
			MinRMSD:        raw.MinRMSD,
			MaxEvals:       raw.MaxEvals,
			MaxStep:        raw.MaxStep,
			EnergyRange:    raw.EnergyRange,
			Seed:           raw.Seed,
		},
		Weights: weightsFrom(raw),
	}
	if !raw.Has(FlagReceptor) {
		cfg.Receptor = ""
	}
	if !raw.Has(FlagMaps) {
		cfg.Maps = ""
	}

	// 1
	if raw.Has(FlagReceptor) && raw.Has(FlagMaps) {
		return nil, errors.Configuration("Cannot specify both receptor and affinity maps at the same time, --flex argument is allowed with receptor or maps.")
	}

	// 2
	if raw.Has(FlagSearchMode) {
		preset, ok := SearchPresets[raw.SearchMode]
		if !ok {
			return nil, errors.Configurationf("Search mode %s unknown (expected fast, balance or detail).", raw.SearchMode)
		}
		cfg.Search.Exhaustiveness = preset.Exhaustiveness
		cfg.Search.MaxStep = preset.MaxStep
	}

	// 3
	sf, err := docking.ParseScoringFunction(raw.Scoring)
	if err != nil {
		return nil, errors.Configurationf("Scoring function %s unknown.", raw.Scoring)
	}
	cfg.Scoring = sf
	switch sf {
	case docking.ScoringVina, docking.ScoringVinardo:
		if !raw.Has(FlagReceptor) && !raw.Has(FlagMaps) {
			return nil, errors.Configuration("The receptor or affinity maps must be specified.")
		}
	case docking.ScoringAD4:
		if raw.Has(FlagReceptor) {
			return nil, errors.Configuration("No receptor allowed, only --flex argument with the AD4 scoring function.")
		}
		if !raw.Has(FlagMaps) {
			return nil, errors.Configuration("Affinity maps are missing.")
		}
	}

	// 4
	hasLigand := raw.Has(FlagLigand)
	hasBatch := raw.Has(FlagBatch)
	hasGPU := raw.Has(FlagGPUBatch)
	hasIndex := raw.Has(FlagLigandIndex)
	switch {
	case !hasLigand && !hasBatch && !hasGPU && !hasIndex:
		return nil, errors.Configuration("Missing ligand(s).")
	case hasLigand && (hasBatch || hasGPU):
		return nil, errors.Configuration("Can't use both --ligand and --batch arguments simultaneously.")
	case hasLigand && hasIndex:
		return nil, errors.Configuration("Can't use both --ligand and --ligand_index arguments simultaneously.")
	case hasBatch && hasGPU:
		return nil, errors.Configuration("Can't use both --batch and --gpu_batch arguments simultaneously.")
	}
	batchMode := hasBatch || hasGPU || hasIndex
	if batchMode {
		if !raw.Has(FlagDir) || raw.Dir == "" {
			return nil, errors.Configuration("Need to specify an output directory for batch mode.")
		}
		if !fs.IsDir(raw.Dir) {
			return nil, errors.FileAccess(raw.Dir, false, fmt.Errorf("directory %s does not exist", raw.Dir))
		}
		cfg.Dir = raw.Dir
	} else if raw.Has(FlagDir) {
		cfg.Warnings = append(cfg.Warnings, "In ligand mode, --dir argument is ignored.")
	}

	// 5
	if hasLigand {
		if cfg.Mode != docking.ModeScoreOnly && !raw.Has(FlagOut) {
			switch len(raw.Ligands) {
			case 1:
				cfg.Out = docking.DefaultOutputName(raw.Ligands[0], "")
			default:
				return nil, errors.Configuration("Output name must be defined when docking simultaneously multiple ligands.")
			}
		}
		cfg.Sources = append(cfg.Sources, LigandSource{Kind: SingleSet, Paths: cloneStrings(raw.Ligands)})
	}
	if hasBatch {
		cfg.Sources = append(cfg.Sources, LigandSource{Kind: CpuBatch, Paths: cloneStrings(raw.Batch)})
	}

	// 6
	gpuPaths := cloneStrings(raw.GPUBatch)
	if hasIndex {
		indexed, err := ReadLigandIndex(fs, raw.LigandIndex)
		if err != nil {
			return nil, err
		}
		gpuPaths = append(gpuPaths, indexed...)
		if hasBatch {
			cfg.Warnings = append(cfg.Warnings, "Ligands from --ligand_index always run on the GPU path; --batch ligands run separately on the CPU.")
		}
	}
	if hasGPU || hasIndex {
		cfg.Sources = append(cfg.Sources, LigandSource{Kind: GpuBatch, Paths: gpuPaths})
	}
	if err := checkOutputCollisions(cfg); err != nil {
		return nil, err
	}

	// 7
	if err := resolveBox(raw, cfg, hasLigand || hasBatch); err != nil {
		return nil, err
	}

	// 8
	if err := checkRanges(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveBox(raw *RawOptions, cfg *RunConfiguration, cpuPath bool) error {
	boxFlags := []string{FlagCenterX, FlagCenterY, FlagCenterZ, FlagSizeX, FlagSizeY, FlagSizeZ}
	var missing []string
	for _, f := range boxFlags {
		if !raw.Has(f) {
			missing = append(missing, "--"+f)
		}
	}
	if len(missing) == 0 {
		cfg.HasBox = true
		cfg.Box = docking.Box{
			Center: docking.Vec3{X: raw.CenterX, Y: raw.CenterY, Z: raw.CenterZ},
			Size:   docking.Vec3{X: raw.SizeX, Y: raw.SizeY, Z: raw.SizeZ},
		}
		if !cfg.Box.Valid() {
			return errors.Configuration("Search space sizes must be positive.")
		}
	}

	// ad4 and --maps never compute maps, so no box is needed.
	if cfg.UsesMaps() {
		return nil
	}
	if cpuPath && cfg.Autobox && (cfg.Mode == docking.ModeScoreOnly || cfg.Mode == docking.ModeLocalOnly) {
		cfg.HasBox = false
		return nil
	}
	if !cpuPath && cfg.Mode != docking.ModeGlobalSearch {
		// The GPU path rejects this mode later with a notice.
		return nil
	}
	if !cfg.HasBox {
		return errors.Configurationf("Search space is incomplete, missing %s.", strings.Join(missing, ", "))
	}
	return nil
}

// checkOutputCollisions rejects ligand sets in which two inputs map to the
// same pose file.  Batch outputs are named after the input's base name only,
// so a/x.pdbqt and b/x.pdbqt collide in --dir.
func checkOutputCollisions(cfg *RunConfiguration) error {
	if cfg.Mode == docking.ModeScoreOnly {
		return nil
	}
	seen := make(map[string]string)
	for _, s := range cfg.Sources {
		for _, p := range s.Paths {
			var name string
			switch {
			case s.Kind != SingleSet:
				name = docking.DefaultOutputName(p, cfg.Dir)
			case len(s.Paths) > 1:
				name = docking.PrefixedOutputName(cfg.Out, p)
			default:
				continue
			}
			if prev, ok := seen[name]; ok {
				return errors.Configurationf("Ligands %s and %s would both be written to %s.", prev, p, name)
			}
			seen[name] = p
		}
	}
	return nil
}

func checkRanges(cfg *RunConfiguration) error {
	switch {
	case cfg.Search.Exhaustiveness < 1:
		return errors.Configuration("Exhaustiveness must be 1 or greater.")
	case cfg.Search.NumModes < 1:
		return errors.Configuration("num_modes must be 1 or greater.")
	case cfg.Search.MaxEvals < 0 || cfg.Search.MaxStep < 0:
		return errors.Configuration("max_evals and max_step must not be negative.")
	case cfg.Search.MinRMSD < 0 || cfg.Search.EnergyRange < 0:
		return errors.Configuration("min_rmsd and energy_range must not be negative.")
	case !(cfg.Spacing > 0) || math.IsInf(cfg.Spacing, 0):
		return errors.Configuration("Grid spacing must be positive.")
	case cfg.CPU < 0:
		return errors.Configuration("cpu must not be negative.")
	case cfg.MaxGPUMemoryMiB < 0:
		return errors.Configuration("max_gpu_memory must not be negative.")
	case cfg.Verbosity < 0 || cfg.Verbosity > 2:
		return errors.Configuration("Verbosity must be 0, 1 or 2.")
	}
	return nil
}

func weightsFrom(raw *RawOptions) docking.Weights {
	return docking.Weights{
		Vina: docking.VinaWeights{
			Gauss1:      raw.WeightGauss1,
			Gauss2:      raw.WeightGauss2,
			Repulsion:   raw.WeightRepulsion,
			Hydrophobic: raw.WeightHydrophobic,
			Hydrogen:    raw.WeightHydrogen,
			Glue:        raw.WeightGlue,
			Rot:         raw.WeightRot,
		},
		Vinardo: docking.VinardoWeights{
			Gauss1:      raw.WeightVinardoGauss1,
			Repulsion:   raw.WeightVinardoRepulsion,
			Hydrophobic: raw.WeightVinardoHydrophobic,
			Hydrogen:    raw.WeightVinardoHydrogen,
			Glue:        raw.WeightGlue,
			Rot:         raw.WeightVinardoRot,
		},
		AD4: docking.AD4Weights{
			VDW:   raw.WeightAD4VDW,
			HB:    raw.WeightAD4HB,
			Elec:  raw.WeightAD4Elec,
			Dsolv: raw.WeightAD4Dsolv,
			Glue:  raw.WeightGlue,
			Rot:   raw.WeightAD4Rot,
		},
	}
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// ReadLigandIndex reads a ligand index file: whitespace-separated paths, any
// number per line.
func ReadLigandIndex(fs FileSystem, path string) ([]string, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errors.FileAccess(path, true, err)
	}
	return strings.Fields(string(data)), nil
}

//Personal.AI order the ending
