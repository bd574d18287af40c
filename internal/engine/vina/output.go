package vina

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/Uni-Dock/internal/engine"
	"github.com/turtacn/Uni-Dock/pkg/errors"
)

var scoreLabels = []struct {
	prefix string
	set    func(t *engine.ScoreTerms, v float64)
}{
	{"Estimated Free Energy of Binding", func(t *engine.ScoreTerms, v float64) { t.Total = v }},
	{"(1) Final Intermolecular Energy", func(t *engine.ScoreTerms, v float64) { t.Intermolecular = v }},
	{"(2) Final Total Internal Energy", func(t *engine.ScoreTerms, v float64) { t.Intramolecular = v }},
	{"(3) Torsional Free Energy", func(t *engine.ScoreTerms, v float64) { t.Torsional = v }},
	{"(4) Unbound System's Energy", func(t *engine.ScoreTerms, v float64) { t.Unbound = v }},
}

// parseScore extracts the energy breakdown from score_only or local_only
// output.  When the engine prints several blocks the last one wins.
func parseScore(stdout []byte) (engine.ScoreTerms, error) {
	var terms engine.ScoreTerms
	found := false
	sc := bufio.NewScanner(bytes.NewReader(stdout))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		for _, l := range scoreLabels {
			if !strings.HasPrefix(line, l.prefix) {
				continue
			}
			v, err := valueAfterColon(line)
			if err != nil {
				return engine.ScoreTerms{}, errors.New(errors.ErrCodeEngineOutput, "unreadable score line").
					WithDetail(line).WithCause(err)
			}
			l.set(&terms, v)
			if l.prefix == scoreLabels[0].prefix {
				found = true
			}
		}
	}
	if !found {
		return engine.ScoreTerms{}, errors.New(errors.ErrCodeEngineOutput, "engine printed no free energy estimate")
	}
	return terms, nil
}

func valueAfterColon(line string) (float64, error) {
	i := strings.Index(line, ":")
	if i < 0 {
		return 0, fmt.Errorf("missing ':'")
	}
	fields := strings.Fields(line[i+1:])
	if len(fields) == 0 {
		return 0, fmt.Errorf("missing value")
	}
	return strconv.ParseFloat(fields[0], 64)
}

var (
	internalErrRe = regexp.MustCompile(`An internal error occurred in (\S+)\((\d+)\)`)
	memoryErrRe   = regexp.MustCompile(`(?i)insufficient memory|out of memory|cudaErrorMemoryAllocation|bad_alloc`)
	fileErrRe     = regexp.MustCompile(`could not open "([^"]+)" for (reading|writing)`)
)

// classify turns a failed engine run into the matching error category.
func classify(binary string, stderr []byte, runErr error) error {
	text := string(stderr)
	if m := internalErrRe.FindStringSubmatch(text); m != nil {
		line, _ := strconv.Atoi(m[2])
		return errors.EngineInternal(m[1], line, "invariant violated inside the docking engine").WithCause(runErr)
	}
	if memoryErrRe.MatchString(text) {
		return errors.ResourceExhausted("engine allocation failed").WithDetail(lastLine(text)).WithCause(runErr)
	}
	if m := fileErrRe.FindStringSubmatch(text); m != nil {
		return errors.FileAccess(m[1], m[2] == "reading", runErr)
	}
	return errors.Wrap(runErr, errors.ErrCodeEngineExec, binary+" failed").WithDetail(lastLine(text))
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "\n"); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

//Personal.AI order the ending
