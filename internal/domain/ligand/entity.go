// Package ligand holds the in-memory ligand model used for batch planning,
// the PDBQT reader that produces it, and the concurrent loader that parses a
// whole ligand set before scheduling.
package ligand

import (
	"github.com/turtacn/Uni-Dock/pkg/types/docking"
)

// Atom is one ATOM/HETATM record.
type Atom struct {
	Serial int
	Name   string
	// Type is the AutoDock atom type column (C, A, OA, HD, ...).
	Type   string
	Coord  docking.Vec3
	Hetero bool
}

// Ligand pairs a source path with its parsed model.  It is created once per
// run, handed to exactly one batch, and never modified afterwards.
type Ligand struct {
	Path  string
	Atoms []Atom
	// Torsions is the TORSDOF value, or -1 when the record is absent.
	Torsions int
	// Energies holds "REMARK VINA RESULT" affinities in model order; only
	// docked output files carry them.
	Energies []float64
	// Family is the scoring family whose atom typing the model was read for.
	Family docking.Family
}

// AtomCount is the number of atoms in the first model.
func (l *Ligand) AtomCount() int {
	return len(l.Atoms)
}

// Extent returns the coordinate bounds of the first model.
func (l *Ligand) Extent() docking.Extent {
	e := docking.EmptyExtent()
	for _, a := range l.Atoms {
		e = e.Include(a.Coord)
	}
	return e
}

// TypeSet returns the distinct atom types present, in first-seen order.
func (l *Ligand) TypeSet() []string {
	seen := make(map[string]bool, 8)
	var out []string
	for _, a := range l.Atoms {
		if !seen[a.Type] {
			seen[a.Type] = true
			out = append(out, a.Type)
		}
	}
	return out
}

// UnionExtent returns the bounds covering every ligand.
func UnionExtent(ligs []*Ligand) docking.Extent {
	e := docking.EmptyExtent()
	for _, l := range ligs {
		e = e.Union(l.Extent())
	}
	return e
}

// Paths returns the source paths of ligs in order.
func Paths(ligs []*Ligand) []string {
	out := make([]string, len(ligs))
	for i, l := range ligs {
		out[i] = l.Path
	}
	return out
}

//Personal.AI order the ending
