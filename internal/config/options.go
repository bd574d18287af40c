package config

// Flag names shared by the command line, option files and validation messages.
const (
	FlagReceptor    = "receptor"
	FlagFlex        = "flex"
	FlagLigand      = "ligand"
	FlagLigandIndex = "ligand_index"
	FlagBatch       = "batch"
	FlagGPUBatch    = "gpu_batch"
	FlagScoring     = "scoring"

	FlagMaps     = "maps"
	FlagCenterX  = "center_x"
	FlagCenterY  = "center_y"
	FlagCenterZ  = "center_z"
	FlagSizeX    = "size_x"
	FlagSizeY    = "size_y"
	FlagSizeZ    = "size_z"
	FlagAutobox  = "autobox"
	FlagSpacing  = "spacing"
	FlagEvenVox  = "force_even_voxels"
	FlagOut      = "out"
	FlagDir      = "dir"
	FlagWriteMap = "write_maps"

	FlagScoreOnly     = "score_only"
	FlagLocalOnly     = "local_only"
	FlagRandomizeOnly = "randomize_only"
	FlagNoRefine      = "no_refine"

	FlagWeightGauss1      = "weight_gauss1"
	FlagWeightGauss2      = "weight_gauss2"
	FlagWeightRepulsion   = "weight_repulsion"
	FlagWeightHydrophobic = "weight_hydrophobic"
	FlagWeightHydrogen    = "weight_hydrogen"
	FlagWeightRot         = "weight_rot"

	FlagWeightVinardoGauss1      = "weight_vinardo_gauss1"
	FlagWeightVinardoRepulsion   = "weight_vinardo_repulsion"
	FlagWeightVinardoHydrophobic = "weight_vinardo_hydrophobic"
	FlagWeightVinardoHydrogen    = "weight_vinardo_hydrogen"
	FlagWeightVinardoRot         = "weight_vinardo_rot"

	FlagWeightAD4VDW   = "weight_ad4_vdw"
	FlagWeightAD4HB    = "weight_ad4_hb"
	FlagWeightAD4Elec  = "weight_ad4_elec"
	FlagWeightAD4Dsolv = "weight_ad4_dsolv"
	FlagWeightAD4Rot   = "weight_ad4_rot"
	FlagWeightGlue     = "weight_glue"

	FlagCPU            = "cpu"
	FlagSeed           = "seed"
	FlagExhaustiveness = "exhaustiveness"
	FlagMaxEvals       = "max_evals"
	FlagNumModes       = "num_modes"
	FlagMinRMSD        = "min_rmsd"
	FlagEnergyRange    = "energy_range"
	FlagVerbosity      = "verbosity"
	FlagMaxStep        = "max_step"
	FlagMaxGPUMemory   = "max_gpu_memory"
	FlagSearchMode     = "search_mode"

	FlagConfig       = "config"
	FlagHelp         = "help"
	FlagHelpAdvanced = "help_advanced"
	FlagVersion      = "version"
)

// RawOptions holds every user-supplied docking option exactly as given, before
// cross-validation.  Provided records which options were explicitly set on
// the command line or in an option file; defaults never count as provided.
type RawOptions struct {
	Receptor    string
	Flex        string
	Ligands     []string
	LigandIndex string
	Batch       []string
	GPUBatch    []string
	Scoring     string

	Maps            string
	CenterX         float64
	CenterY         float64
	CenterZ         float64
	SizeX           float64
	SizeY           float64
	SizeZ           float64
	Autobox         bool
	Spacing         float64
	ForceEvenVoxels bool

	Out       string
	Dir       string
	WriteMaps string

	ScoreOnly     bool
	LocalOnly     bool
	RandomizeOnly bool
	NoRefine      bool

	WeightGauss1      float64
	WeightGauss2      float64
	WeightRepulsion   float64
	WeightHydrophobic float64
	WeightHydrogen    float64
	WeightRot         float64

	WeightVinardoGauss1      float64
	WeightVinardoRepulsion   float64
	WeightVinardoHydrophobic float64
	WeightVinardoHydrogen    float64
	WeightVinardoRot         float64

	WeightAD4VDW   float64
	WeightAD4HB    float64
	WeightAD4Elec  float64
	WeightAD4Dsolv float64
	WeightAD4Rot   float64
	WeightGlue     float64

	CPU            int
	Seed           int64
	Exhaustiveness int
	MaxEvals       int
	NumModes       int
	MinRMSD        float64
	EnergyRange    float64
	Verbosity      int
	MaxStep        int
	MaxGPUMemory   int
	SearchMode     string

	provided map[string]bool
}

// MarkProvided records that name was explicitly supplied.
func (o *RawOptions) MarkProvided(name string) {
	if o.provided == nil {
		o.provided = make(map[string]bool)
	}
	o.provided[name] = true
}

// Has reports whether name was explicitly supplied.
func (o *RawOptions) Has(name string) bool {
	return o.provided[name]
}

//Personal.AI order the ending
