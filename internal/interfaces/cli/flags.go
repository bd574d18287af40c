package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/turtacn/Uni-Dock/internal/config"
)

// Ambient flags that do not map onto RawOptions.
const (
	flagLogLevel    = "log_level"
	flagMetricsFile = "metrics_file"
)

// multiTokenFlags accept several values after a single flag name.
var multiTokenFlags = map[string]bool{
	config.FlagLigand:   true,
	config.FlagBatch:    true,
	config.FlagGPUBatch: true,
}

// NormalizeArgs rewrites "--ligand a b c" as "--ligand a --ligand b --ligand c"
// so repeated-value flags parse with pflag.  Arguments after a bare "--" are
// left alone.
func NormalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	current := ""
	// pending is set while current still waits for its first value.
	pending := false
	for i, a := range args {
		switch {
		case a == "--":
			return append(out, args[i:]...)
		case strings.HasPrefix(a, "-"):
			name, _, hasValue := strings.Cut(strings.TrimLeft(a, "-"), "=")
			current, pending = "", false
			if multiTokenFlags[name] {
				current, pending = name, !hasValue
			}
			out = append(out, a)
		case pending:
			pending = false
			out = append(out, a)
		case current != "":
			out = append(out, "--"+current, a)
		default:
			out = append(out, a)
		}
	}
	return out
}

// flagGroup is one titled section of the usage text.
type flagGroup struct {
	title string
	set   *pflag.FlagSet
	// advanced groups only appear in --help_advanced.
	advanced bool
	// optionFile groups may also be given in a --config file.
	optionFile bool
}

// cliFlags holds every value the command line can set.
type cliFlags struct {
	raw *config.RawOptions

	configPath   string
	logLevel     string
	metricsFile  string
	help         bool
	helpAdvanced bool
	version      bool

	groups []flagGroup
}

func newCLIFlags() *cliFlags {
	f := &cliFlags{raw: config.NewRawOptions()}
	r := f.raw

	input := f.group("Input", false, true)
	input.StringVar(&r.Receptor, config.FlagReceptor, "", "rigid part of the receptor (PDBQT)")
	input.StringVar(&r.Flex, config.FlagFlex, "", "flexible side chains, if any (PDBQT)")
	input.StringArrayVar(&r.Ligands, config.FlagLigand, nil, "ligand (PDBQT)")
	input.StringVar(&r.LigandIndex, config.FlagLigandIndex, "", "file containing paths to ligands")
	input.StringArrayVar(&r.Batch, config.FlagBatch, nil, "batch ligand (PDBQT)")
	input.StringArrayVar(&r.GPUBatch, config.FlagGPUBatch, nil, "gpu batch ligand (PDBQT)")
	input.StringVar(&r.Scoring, config.FlagScoring, r.Scoring, "scoring function (ad4, vina or vinardo)")

	search := f.group("Search space", false, true)
	search.StringVar(&r.Maps, config.FlagMaps, "", "affinity maps for the autodock4.2 (ad4) or vina scoring function")
	search.Float64Var(&r.CenterX, config.FlagCenterX, 0, "X coordinate of the center (Angstrom)")
	search.Float64Var(&r.CenterY, config.FlagCenterY, 0, "Y coordinate of the center (Angstrom)")
	search.Float64Var(&r.CenterZ, config.FlagCenterZ, 0, "Z coordinate of the center (Angstrom)")
	search.Float64Var(&r.SizeX, config.FlagSizeX, 0, "size in the X dimension (Angstrom)")
	search.Float64Var(&r.SizeY, config.FlagSizeY, 0, "size in the Y dimension (Angstrom)")
	search.Float64Var(&r.SizeZ, config.FlagSizeZ, 0, "size in the Z dimension (Angstrom)")
	search.BoolVar(&r.Autobox, config.FlagAutobox, false, "set maps dimensions based on input ligand(s) (for --score_only and --local_only)")

	output := f.group("Output", false, true)
	output.StringVar(&r.Out, config.FlagOut, "", "output models (PDBQT), the default is chosen based on the ligand file name")
	output.StringVar(&r.Dir, config.FlagDir, "", "output directory for batch mode")
	output.StringVar(&r.WriteMaps, config.FlagWriteMap, "", "output filename (directory + prefix name) for maps")

	adv := f.group("Advanced options", true, true)
	adv.BoolVar(&r.ScoreOnly, config.FlagScoreOnly, false, "score only - search space can be omitted")
	adv.BoolVar(&r.LocalOnly, config.FlagLocalOnly, false, "do local search only")
	adv.BoolVar(&r.NoRefine, config.FlagNoRefine, false, "do not use explicit receptor atoms for refinement, local-only and score-only jobs")
	adv.BoolVar(&r.ForceEvenVoxels, config.FlagEvenVox, false, "calculated grid maps will have an even number of voxels in each dimension")
	adv.BoolVar(&r.RandomizeOnly, config.FlagRandomizeOnly, false, "randomize input, attempting to avoid clashes")
	adv.Float64Var(&r.WeightGauss1, config.FlagWeightGauss1, r.WeightGauss1, "gauss_1 weight")
	adv.Float64Var(&r.WeightGauss2, config.FlagWeightGauss2, r.WeightGauss2, "gauss_2 weight")
	adv.Float64Var(&r.WeightRepulsion, config.FlagWeightRepulsion, r.WeightRepulsion, "repulsion weight")
	adv.Float64Var(&r.WeightHydrophobic, config.FlagWeightHydrophobic, r.WeightHydrophobic, "hydrophobic weight")
	adv.Float64Var(&r.WeightHydrogen, config.FlagWeightHydrogen, r.WeightHydrogen, "Hydrogen bond weight")
	adv.Float64Var(&r.WeightRot, config.FlagWeightRot, r.WeightRot, "N_rot weight")
	adv.Float64Var(&r.WeightVinardoGauss1, config.FlagWeightVinardoGauss1, r.WeightVinardoGauss1, "Vinardo gauss_1 weight")
	adv.Float64Var(&r.WeightVinardoRepulsion, config.FlagWeightVinardoRepulsion, r.WeightVinardoRepulsion, "Vinardo repulsion weight")
	adv.Float64Var(&r.WeightVinardoHydrophobic, config.FlagWeightVinardoHydrophobic, r.WeightVinardoHydrophobic, "Vinardo hydrophobic weight")
	adv.Float64Var(&r.WeightVinardoHydrogen, config.FlagWeightVinardoHydrogen, r.WeightVinardoHydrogen, "Vinardo Hydrogen bond weight")
	adv.Float64Var(&r.WeightVinardoRot, config.FlagWeightVinardoRot, r.WeightVinardoRot, "Vinardo N_rot weight")
	adv.Float64Var(&r.WeightAD4VDW, config.FlagWeightAD4VDW, r.WeightAD4VDW, "ad4_vdw weight")
	adv.Float64Var(&r.WeightAD4HB, config.FlagWeightAD4HB, r.WeightAD4HB, "ad4_hb weight")
	adv.Float64Var(&r.WeightAD4Elec, config.FlagWeightAD4Elec, r.WeightAD4Elec, "ad4_elec weight")
	adv.Float64Var(&r.WeightAD4Dsolv, config.FlagWeightAD4Dsolv, r.WeightAD4Dsolv, "ad4_dsolv weight")
	adv.Float64Var(&r.WeightAD4Rot, config.FlagWeightAD4Rot, r.WeightAD4Rot, "ad4_rot weight")
	adv.Float64Var(&r.WeightGlue, config.FlagWeightGlue, r.WeightGlue, "macrocycle glue weight")

	misc := f.group("Misc (optional)", false, true)
	misc.IntVar(&r.CPU, config.FlagCPU, 0, "the number of CPUs to use (0 detects the number of CPUs)")
	misc.Int64Var(&r.Seed, config.FlagSeed, 0, "explicit random seed")
	misc.IntVar(&r.Exhaustiveness, config.FlagExhaustiveness, r.Exhaustiveness, "exhaustiveness of the global search (roughly proportional to time): 1+")
	misc.IntVar(&r.MaxEvals, config.FlagMaxEvals, 0, "number of evaluations in each MC run (0 uses heuristics)")
	misc.IntVar(&r.NumModes, config.FlagNumModes, r.NumModes, "maximum number of binding modes to generate")
	misc.Float64Var(&r.MinRMSD, config.FlagMinRMSD, r.MinRMSD, "minimum RMSD between output poses")
	misc.Float64Var(&r.EnergyRange, config.FlagEnergyRange, r.EnergyRange, "maximum energy difference between the best binding mode and the worst one displayed (kcal/mol)")
	misc.Float64Var(&r.Spacing, config.FlagSpacing, r.Spacing, "grid spacing (Angstrom)")
	misc.IntVar(&r.Verbosity, config.FlagVerbosity, r.Verbosity, "verbosity (0=no output, 1=normal, 2=verbose)")
	misc.IntVar(&r.MaxStep, config.FlagMaxStep, 0, "maximum number of steps in each MC run (0 uses heuristics)")
	misc.IntVar(&r.MaxGPUMemory, config.FlagMaxGPUMemory, 0, "maximum gpu memory to use in MiB (0 uses all available memory)")
	misc.StringVar(&r.SearchMode, config.FlagSearchMode, "", "search preset (fast, balance, detail) fixing exhaustiveness and search steps")

	cfg := f.group("Configuration file (optional)", false, false)
	cfg.StringVar(&f.configPath, config.FlagConfig, "", "the above options can be put here")

	ops := f.group("Logging and metrics (optional)", true, false)
	ops.StringVar(&f.logLevel, flagLogLevel, "", "log level (debug, info, warn, error); derived from --verbosity when unset")
	ops.StringVar(&f.metricsFile, flagMetricsFile, "", "write run metrics in Prometheus text format to this file")

	info := f.group("Information (optional)", false, false)
	info.BoolVar(&f.help, config.FlagHelp, false, "display usage summary")
	info.BoolVar(&f.helpAdvanced, config.FlagHelpAdvanced, false, "display usage summary with advanced options")
	info.BoolVar(&f.version, config.FlagVersion, false, "display program version")

	return f
}

func (f *cliFlags) group(title string, advanced, optionFile bool) *pflag.FlagSet {
	set := pflag.NewFlagSet(title, pflag.ContinueOnError)
	set.SortFlags = false
	f.groups = append(f.groups, flagGroup{title: title, set: set, advanced: advanced, optionFile: optionFile})
	return set
}

// register adds every group to fs.
func (f *cliFlags) register(fs *pflag.FlagSet) {
	fs.SortFlags = false
	for _, g := range f.groups {
		fs.AddFlagSet(g.set)
	}
}

// optionFileFlag reports whether name may appear in an option file.
func (f *cliFlags) optionFileFlag(name string) bool {
	for _, g := range f.groups {
		if g.optionFile && g.set.Lookup(name) != nil {
			return true
		}
	}
	return false
}

// usage writes the grouped flag listing.  Advanced groups are included only
// when advanced is set.
func (f *cliFlags) usage(w io.Writer, advanced bool) {
	fmt.Fprintln(w)
	for _, g := range f.groups {
		if g.advanced && !advanced {
			continue
		}
		fmt.Fprintf(w, "%s:\n%s\n", g.title, g.set.FlagUsagesWrapped(100))
	}
}

//Personal.AI order the ending
