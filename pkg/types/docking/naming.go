package docking

import (
	"path/filepath"
	"strings"
)

const (
	// PoseExtension is the ligand and pose file extension.
	PoseExtension = ".pdbqt"
	outputSuffix  = "_out" + PoseExtension
)

// Stem returns the file name of path without directory and without a
// trailing .pdbqt extension.
func Stem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), PoseExtension)
}

// DefaultOutputName derives the pose output path for a ligand input.  With an
// empty dir the output sits next to the input; otherwise it is placed in dir
// under the input's base name.
//
//	DefaultOutputName("lig/a.pdbqt", "")    == "lig/a_out.pdbqt"
//	DefaultOutputName("lig/a.pdbqt", "out") == "out/a_out.pdbqt"
func DefaultOutputName(input, dir string) string {
	if dir == "" {
		return strings.TrimSuffix(input, PoseExtension) + outputSuffix
	}
	return filepath.Join(dir, Stem(input)+outputSuffix)
}

// PrefixedOutputName derives the output path for one of several ligands that
// share an explicit --out name: "<out stem>_<ligand stem>.pdbqt" next to out.
func PrefixedOutputName(out, input string) string {
	base := strings.TrimSuffix(out, PoseExtension)
	return base + "_" + Stem(input) + PoseExtension
}

//Personal.AI order the ending
