package config

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/Uni-Dock/pkg/errors"
	"github.com/turtacn/Uni-Dock/pkg/types/docking"
)

// recordingFS is an in-memory FileSystem that counts every access.
type recordingFS struct {
	dirs  map[string]bool
	files map[string]string
	calls int
}

func newRecordingFS() *recordingFS {
	return &recordingFS{dirs: map[string]bool{}, files: map[string]string{}}
}

func (f *recordingFS) IsDir(path string) bool {
	f.calls++
	return f.dirs[path]
}

func (f *recordingFS) ReadFile(path string) ([]byte, error) {
	f.calls++
	s, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: no such file or directory", path)
	}
	return []byte(s), nil
}

// opts builds RawOptions from defaults, applying each setter and marking the
// named flag as provided.
type opt func(o *RawOptions)

func set(name string, apply func(o *RawOptions)) opt {
	return func(o *RawOptions) {
		apply(o)
		o.MarkProvided(name)
	}
}

func receptor(p string) opt {
	return set(FlagReceptor, func(o *RawOptions) { o.Receptor = p })
}
func maps(p string) opt { return set(FlagMaps, func(o *RawOptions) { o.Maps = p }) }
func ligands(p ...string) opt {
	return set(FlagLigand, func(o *RawOptions) { o.Ligands = p })
}
func batch(p ...string) opt { return set(FlagBatch, func(o *RawOptions) { o.Batch = p }) }
func gpuBatch(p ...string) opt {
	return set(FlagGPUBatch, func(o *RawOptions) { o.GPUBatch = p })
}
func index(p string) opt { return set(FlagLigandIndex, func(o *RawOptions) { o.LigandIndex = p }) }
func dir(p string) opt   { return set(FlagDir, func(o *RawOptions) { o.Dir = p }) }
func out(p string) opt   { return set(FlagOut, func(o *RawOptions) { o.Out = p }) }
func scoring(s string) opt {
	return set(FlagScoring, func(o *RawOptions) { o.Scoring = s })
}
func scoreOnly() opt { return set(FlagScoreOnly, func(o *RawOptions) { o.ScoreOnly = true }) }
func localOnly() opt { return set(FlagLocalOnly, func(o *RawOptions) { o.LocalOnly = true }) }
func autobox() opt   { return set(FlagAutobox, func(o *RawOptions) { o.Autobox = true }) }
func searchMode(m string) opt {
	return set(FlagSearchMode, func(o *RawOptions) { o.SearchMode = m })
}

func box() opt {
	return func(o *RawOptions) {
		o.CenterX, o.CenterY, o.CenterZ = 1, 2, 3
		o.SizeX, o.SizeY, o.SizeZ = 20, 22, 24
		for _, f := range []string{FlagCenterX, FlagCenterY, FlagCenterZ, FlagSizeX, FlagSizeY, FlagSizeZ} {
			o.MarkProvided(f)
		}
	}
}

func build(opts ...opt) *RawOptions {
	o := NewRawOptions()
	for _, apply := range opts {
		apply(o)
	}
	return o
}

func TestValidate_ReceptorAndMapsRejectedBeforeFileIO(t *testing.T) {
	fs := newRecordingFS()
	raw := build(receptor("r.pdbqt"), maps("grid"), gpuBatch("a.pdbqt"), dir("out"), index("idx.txt"))

	_, err := Validate(raw, fs)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeConfiguration))
	assert.Contains(t, err.Error(), "Cannot specify both receptor and affinity maps")
	assert.Zero(t, fs.calls, "no file access may happen before rule 1 fails")
}

func TestValidate_AD4RequiresMapsAndForbidsReceptor(t *testing.T) {
	tests := []struct {
		name    string
		opts    []opt
		wantErr string
	}{
		{"receptor present", []opt{scoring("ad4"), receptor("r.pdbqt"), ligands("a.pdbqt"), box()}, "No receptor allowed"},
		{"maps missing", []opt{scoring("ad4"), ligands("a.pdbqt"), box()}, "Affinity maps are missing"},
		{"flex only with maps", []opt{scoring("ad4"), maps("grid"), set(FlagFlex, func(o *RawOptions) { o.Flex = "f.pdbqt" }), ligands("a.pdbqt")}, ""},
		{"maps only", []opt{scoring("ad4"), maps("grid"), ligands("a.pdbqt")}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Validate(build(tt.opts...), newRecordingFS())
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, docking.ScoringAD4, cfg.Scoring)
				assert.True(t, cfg.UsesMaps())
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_VinaFamilyNeedsReceptorOrMaps(t *testing.T) {
	for _, sf := range []string{"vina", "vinardo"} {
		_, err := Validate(build(scoring(sf), ligands("a.pdbqt"), box()), newRecordingFS())
		require.Error(t, err, sf)
		assert.Contains(t, err.Error(), "The receptor or affinity maps must be specified")

		cfg, err := Validate(build(scoring(sf), maps("grid"), ligands("a.pdbqt")), newRecordingFS())
		require.NoError(t, err, sf)
		assert.False(t, cfg.HasReceptor())
	}

	_, err := Validate(build(scoring("dock6"), receptor("r"), ligands("a.pdbqt"), box()), newRecordingFS())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Scoring function dock6 unknown")
}

func TestValidate_SearchModePresets(t *testing.T) {
	tests := []struct {
		mode       string
		exh, steps int
	}{
		{"fast", 256, 15},
		{"balance", 1024, 20},
		{"detail", 2048, 20},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			raw := build(receptor("r"), ligands("a.pdbqt"), box(), searchMode(tt.mode),
				set(FlagExhaustiveness, func(o *RawOptions) { o.Exhaustiveness = 3 }))
			cfg, err := Validate(raw, newRecordingFS())
			require.NoError(t, err)
			assert.Equal(t, tt.exh, cfg.Search.Exhaustiveness)
			assert.Equal(t, tt.steps, cfg.Search.MaxStep)
		})
	}

	_, err := Validate(build(receptor("r"), ligands("a.pdbqt"), box(), searchMode("turbo")), newRecordingFS())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Search mode turbo unknown")
}

func TestValidate_LigandSourceExclusivity(t *testing.T) {
	fs := newRecordingFS()
	fs.dirs["out"] = true

	tests := []struct {
		name    string
		opts    []opt
		wantErr string
	}{
		{"none", nil, "Missing ligand(s)"},
		{"ligand and batch", []opt{ligands("a.pdbqt"), batch("b.pdbqt"), dir("out")}, "Can't use both --ligand and --batch"},
		{"ligand and gpu batch", []opt{ligands("a.pdbqt"), gpuBatch("b.pdbqt"), dir("out")}, "Can't use both --ligand and --batch"},
		{"ligand and index", []opt{ligands("a.pdbqt"), index("idx"), dir("out")}, "--ligand_index"},
		{"batch and gpu batch", []opt{batch("a.pdbqt"), gpuBatch("b.pdbqt"), dir("out")}, "--batch and --gpu_batch"},
		{"batch without dir", []opt{batch("a.pdbqt")}, "Need to specify an output directory"},
		{"index without dir", []opt{index("idx")}, "Need to specify an output directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := build(append([]opt{receptor("r"), box()}, tt.opts...)...)
			_, err := Validate(raw, fs)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeConfiguration))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_MissingOutputDirectoryIsFileAccessError(t *testing.T) {
	_, err := Validate(build(receptor("r"), box(), gpuBatch("a.pdbqt"), dir("nowhere")), newRecordingFS())

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeFileWrite))
	var ae *errors.AppError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "nowhere", ae.Path)
	assert.False(t, ae.ForReading)
}

func TestValidate_DirIgnoredInLigandMode(t *testing.T) {
	cfg, err := Validate(build(receptor("r"), box(), ligands("a.pdbqt"), dir("whatever")), newRecordingFS())
	require.NoError(t, err)
	assert.Empty(t, cfg.Dir)
	assert.Contains(t, cfg.Warnings, "In ligand mode, --dir argument is ignored.")
}

func TestValidate_OutputNaming(t *testing.T) {
	t.Run("single ligand derives name", func(t *testing.T) {
		cfg, err := Validate(build(receptor("r"), box(), ligands("lig/x.pdbqt")), newRecordingFS())
		require.NoError(t, err)
		assert.Equal(t, "lig/x_out.pdbqt", cfg.Out)
	})
	t.Run("explicit out kept", func(t *testing.T) {
		cfg, err := Validate(build(receptor("r"), box(), ligands("x.pdbqt"), out("mine.pdbqt")), newRecordingFS())
		require.NoError(t, err)
		assert.Equal(t, "mine.pdbqt", cfg.Out)
	})
	t.Run("multiple ligands need out", func(t *testing.T) {
		_, err := Validate(build(receptor("r"), box(), ligands("a.pdbqt", "b.pdbqt")), newRecordingFS())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Output name must be defined")
	})
	t.Run("score only needs no out", func(t *testing.T) {
		cfg, err := Validate(build(receptor("r"), box(), ligands("a.pdbqt", "b.pdbqt", "c.pdbqt"), scoreOnly()), newRecordingFS())
		require.NoError(t, err)
		assert.Empty(t, cfg.Out)
		assert.Equal(t, docking.ModeScoreOnly, cfg.Mode)
	})
}

func TestValidate_IndexAppendsAfterExplicitGPUBatch(t *testing.T) {
	fs := newRecordingFS()
	fs.dirs["out"] = true
	fs.files["idx.txt"] = "i1.pdbqt i2.pdbqt\ni3.pdbqt\n\n  i4.pdbqt\ti5.pdbqt\n"

	cfg, err := Validate(build(receptor("r"), box(), gpuBatch("g1.pdbqt", "g2.pdbqt"), index("idx.txt"), dir("out")), fs)

	require.NoError(t, err)
	src, ok := cfg.Source(GpuBatch)
	require.True(t, ok)
	assert.Equal(t, []string{"g1.pdbqt", "g2.pdbqt", "i1.pdbqt", "i2.pdbqt", "i3.pdbqt", "i4.pdbqt", "i5.pdbqt"}, src.Paths)
	assert.Equal(t, 7, cfg.LigandCount())
}

func TestValidate_IndexWithCPUBatchKeepsBothSources(t *testing.T) {
	fs := newRecordingFS()
	fs.dirs["out"] = true
	fs.files["idx.txt"] = "i1.pdbqt"

	cfg, err := Validate(build(receptor("r"), box(), batch("c1.pdbqt"), index("idx.txt"), dir("out")), fs)

	require.NoError(t, err)
	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, CpuBatch, cfg.Sources[0].Kind)
	assert.Equal(t, GpuBatch, cfg.Sources[1].Kind)
	assert.Equal(t, []string{"i1.pdbqt"}, cfg.Sources[1].Paths)
	assert.Len(t, cfg.Warnings, 1)
}

func TestValidate_CollidingOutputNames(t *testing.T) {
	fs := newRecordingFS()
	fs.dirs["out"] = true
	fs.files["idx.txt"] = "lib2/x.pdbqt\n"

	tests := []struct {
		name string
		opts []opt
	}{
		{"gpu batch", []opt{gpuBatch("lib1/x.pdbqt", "y.pdbqt", "lib2/x.pdbqt")}},
		{"index repeats gpu batch", []opt{gpuBatch("lib1/x.pdbqt"), index("idx.txt")}},
		{"cpu batch and index share dir", []opt{batch("lib1/x.pdbqt"), index("idx.txt")}},
		{"same file twice", []opt{batch("x.pdbqt", "x.pdbqt")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(build(append([]opt{receptor("r"), box(), dir("out")}, tt.opts...)...), fs)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeConfiguration), "got %v", err)
			assert.Contains(t, err.Error(), "x_out.pdbqt")
		})
	}

	t.Run("prefixed out names", func(t *testing.T) {
		_, err := Validate(build(receptor("r"), box(), ligands("a/x.pdbqt", "b/x.pdbqt"), out("res.pdbqt")), fs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "res_x.pdbqt")
	})

	t.Run("score only writes nothing", func(t *testing.T) {
		_, err := Validate(build(receptor("r"), box(), dir("out"), batch("lib1/x.pdbqt", "lib2/x.pdbqt"), scoreOnly()), fs)
		require.NoError(t, err)
	})

	t.Run("distinct names pass", func(t *testing.T) {
		_, err := Validate(build(receptor("r"), box(), dir("out"), gpuBatch("lib1/x.pdbqt", "lib2/y.pdbqt")), fs)
		require.NoError(t, err)
	})
}

func TestValidate_UnreadableIndex(t *testing.T) {
	fs := newRecordingFS()
	fs.dirs["out"] = true

	_, err := Validate(build(receptor("r"), box(), index("missing.txt"), dir("out")), fs)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeFileRead))
}

func TestValidate_SearchBox(t *testing.T) {
	t.Run("explicit box required for computed maps", func(t *testing.T) {
		raw := build(receptor("r"), ligands("a.pdbqt"), set(FlagCenterX, func(o *RawOptions) { o.CenterX = 1 }))
		_, err := Validate(raw, newRecordingFS())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--center_y")
	})
	t.Run("autobox with score only", func(t *testing.T) {
		cfg, err := Validate(build(receptor("r"), ligands("a.pdbqt"), autobox(), scoreOnly()), newRecordingFS())
		require.NoError(t, err)
		assert.True(t, cfg.Autobox)
		assert.False(t, cfg.HasBox)
		assert.Equal(t, DefaultAutoboxBuffer, cfg.AutoboxBuffer)
	})
	t.Run("autobox with local only", func(t *testing.T) {
		_, err := Validate(build(receptor("r"), ligands("a.pdbqt"), autobox(), localOnly()), newRecordingFS())
		require.NoError(t, err)
	})
	t.Run("autobox ignored for global search", func(t *testing.T) {
		_, err := Validate(build(receptor("r"), ligands("a.pdbqt"), autobox()), newRecordingFS())
		require.Error(t, err)
	})
	t.Run("gpu batch with score only skips box", func(t *testing.T) {
		fs := newRecordingFS()
		fs.dirs["out"] = true
		cfg, err := Validate(build(receptor("r"), gpuBatch("a.pdbqt"), dir("out"), scoreOnly()), fs)
		require.NoError(t, err)
		assert.Equal(t, docking.ModeScoreOnly, cfg.Mode)
	})
	t.Run("non-positive size", func(t *testing.T) {
		raw := build(receptor("r"), ligands("a.pdbqt"), box(), set(FlagSizeX, func(o *RawOptions) { o.SizeX = 0 }))
		_, err := Validate(raw, newRecordingFS())
		require.Error(t, err)
	})
}

func TestValidate_NumericRanges(t *testing.T) {
	tests := []struct {
		name  string
		apply func(o *RawOptions)
	}{
		{"exhaustiveness", func(o *RawOptions) { o.Exhaustiveness = 0 }},
		{"num_modes", func(o *RawOptions) { o.NumModes = 0 }},
		{"spacing", func(o *RawOptions) { o.Spacing = 0 }},
		{"cpu", func(o *RawOptions) { o.CPU = -1 }},
		{"max_gpu_memory", func(o *RawOptions) { o.MaxGPUMemory = -5 }},
		{"verbosity", func(o *RawOptions) { o.Verbosity = 3 }},
		{"max_evals", func(o *RawOptions) { o.MaxEvals = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := build(receptor("r"), ligands("a.pdbqt"), box(), tt.apply)
			_, err := Validate(raw, newRecordingFS())
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeConfiguration))
		})
	}
}

func TestValidate_CarriesSettings(t *testing.T) {
	raw := build(receptor("r.pdbqt"), ligands("a.pdbqt"), box(),
		set(FlagSeed, func(o *RawOptions) { o.Seed = 42 }),
		set(FlagMaxGPUMemory, func(o *RawOptions) { o.MaxGPUMemory = 8000 }),
		set(FlagWeightGlue, func(o *RawOptions) { o.WeightGlue = 30 }),
	)
	cfg, err := Validate(raw, newRecordingFS())
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Search.Seed)
	assert.Equal(t, 8000, cfg.MaxGPUMemoryMiB)
	assert.Equal(t, DefaultExhaustiveness, cfg.Search.Exhaustiveness)
	assert.Equal(t, DefaultNumModes, cfg.Search.NumModes)
	assert.Equal(t, 30.0, cfg.Weights.Vina.Glue)
	assert.Equal(t, 30.0, cfg.Weights.AD4.Glue)
	assert.Equal(t, DefaultWeights().Vina.Repulsion, cfg.Weights.Vina.Repulsion)
	assert.Equal(t, docking.Box{
		Center: docking.Vec3{X: 1, Y: 2, Z: 3},
		Size:   docking.Vec3{X: 20, Y: 22, Z: 24},
	}, cfg.Box)
}

//Personal.AI order the ending
