package ligand

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/turtacn/Uni-Dock/pkg/errors"
	"github.com/turtacn/Uni-Dock/pkg/types/docking"
)

// vinaResultPrefix starts the energy line of every docked model.
const vinaResultPrefix = "REMARK VINA RESULT:"

// ParseFile reads the PDBQT file at path.
func ParseFile(path string, family docking.Family) (*Ligand, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.FileAccess(path, true, err)
	}
	defer f.Close()
	return Parse(f, path, family)
}

// Parse reads a PDBQT stream.  Atoms are taken from the first model only;
// VINA RESULT energies are collected from every model.  A stream without
// atoms is rejected.
func Parse(r io.Reader, path string, family docking.Family) (*Ligand, error) {
	lig := &Ligand{Path: path, Torsions: -1, Family: family}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	firstModelDone := false
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, vinaResultPrefix):
			e, err := parseResultEnergy(line)
			if err != nil {
				return nil, parseError(path, lineNo, err)
			}
			lig.Energies = append(lig.Energies, e)
		case strings.HasPrefix(line, "ENDMDL"):
			firstModelDone = true
		case firstModelDone:
			continue
		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
			a, err := parseAtom(line)
			if err != nil {
				return nil, parseError(path, lineNo, err)
			}
			lig.Atoms = append(lig.Atoms, a)
		case strings.HasPrefix(line, "TORSDOF"):
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				if n, err := strconv.Atoi(fields[1]); err == nil {
					lig.Torsions = n
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.FileAccess(path, true, err)
	}
	if len(lig.Atoms) == 0 {
		return nil, errors.New(errors.ErrCodeLigandParse, "ligand has no atoms").WithDetail(path)
	}
	return lig, nil
}

// ReadResultEnergies returns the VINA RESULT affinity of every model in a
// docked pose file.
func ReadResultEnergies(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.FileAccess(path, true, err)
	}
	defer f.Close()

	var out []float64
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if !strings.HasPrefix(sc.Text(), vinaResultPrefix) {
			continue
		}
		e, err := parseResultEnergy(sc.Text())
		if err != nil {
			return nil, parseError(path, lineNo, err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.FileAccess(path, true, err)
	}
	return out, nil
}

// parseAtom reads the fixed PDB columns for serial, name and coordinates and
// the AutoDock type that follows the charge column.
func parseAtom(line string) (Atom, error) {
	if len(line) < 54 {
		return Atom{}, fmt.Errorf("atom record too short (%d columns)", len(line))
	}
	var a Atom
	a.Hetero = strings.HasPrefix(line, "HETATM")
	a.Serial, _ = strconv.Atoi(strings.TrimSpace(line[6:11]))
	a.Name = strings.TrimSpace(line[12:16])

	var xyz [3]float64
	for i, span := range [3][2]int{{30, 38}, {38, 46}, {46, 54}} {
		v, err := strconv.ParseFloat(strings.TrimSpace(line[span[0]:span[1]]), 64)
		if err != nil {
			return Atom{}, fmt.Errorf("bad coordinate %q", line[span[0]:span[1]])
		}
		xyz[i] = v
	}
	a.Coord = docking.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}

	if len(line) >= 78 {
		a.Type = strings.TrimSpace(line[77:])
	}
	if a.Type == "" {
		fields := strings.Fields(line)
		a.Type = fields[len(fields)-1]
	}
	return a, nil
}

func parseResultEnergy(line string) (float64, error) {
	fields := strings.Fields(strings.TrimPrefix(line, vinaResultPrefix))
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty VINA RESULT record")
	}
	return strconv.ParseFloat(fields[0], 64)
}

func parseError(path string, line int, cause error) error {
	return errors.New(errors.ErrCodeLigandParse, "ligand could not be parsed").
		WithDetail(fmt.Sprintf("%s:%d", path, line)).
		WithCause(cause)
}

//Personal.AI order the ending
