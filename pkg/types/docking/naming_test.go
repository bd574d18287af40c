package docking

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultOutputName(t *testing.T) {
	tests := []struct {
		name, input, dir, want string
	}{
		{"next to input", "lig/a.pdbqt", "", "lig/a_out.pdbqt"},
		{"no extension", "lig/a", "", "lig/a_out.pdbqt"},
		{"into dir", "lig/a.pdbqt", "out", filepath.Join("out", "a_out.pdbqt")},
		{"dotted stem", "x/1abc.ligand.pdbqt", "o", filepath.Join("o", "1abc.ligand_out.pdbqt")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultOutputName(tt.input, tt.dir))
		})
	}
}

func TestPrefixedOutputName(t *testing.T) {
	assert.Equal(t, "res/run_a.pdbqt", PrefixedOutputName("res/run.pdbqt", "lig/a.pdbqt"))
	assert.Equal(t, "run_b.pdbqt", PrefixedOutputName("run", "b.pdbqt"))
	assert.Equal(t, "b", Stem("/x/y/b.pdbqt"))
}

//Personal.AI order the ending
