package ligand

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/Uni-Dock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Uni-Dock/pkg/errors"
	"github.com/turtacn/Uni-Dock/pkg/types/docking"
)

// ParseFunc parses one ligand file.
type ParseFunc func(path string, family docking.Family) (*Ligand, error)

// Failure records a ligand whose content could not be parsed and was
// skipped.
type Failure struct {
	Path string
	Err  error
}

// Loader parses a ligand set concurrently.
type Loader struct {
	workers int
	parse   ParseFunc
	logger  logging.Logger
}

// NewLoader returns a Loader running at most workers parses at once.
// workers <= 0 uses the number of CPUs.
func NewLoader(workers int, logger logging.Logger) *Loader {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Loader{workers: workers, parse: ParseFile, logger: logger}
}

// WithParser replaces the file parser.
func (l *Loader) WithParser(p ParseFunc) *Loader {
	l.parse = p
	return l
}

type indexed struct {
	idx int
	lig *Ligand
}

// LoadAll parses every path.  Parses complete in any order and are appended
// to a shared slice under a mutex; the result is then re-associated with the
// input order.  Ligands with unparsable content are logged, reported in
// failures and skipped.  A file that cannot be read aborts the load with its
// FileAccess error, as does context cancellation.
func (l *Loader) LoadAll(ctx context.Context, paths []string, family docking.Family) ([]*Ligand, []Failure, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	var (
		mu       sync.Mutex
		parsed   = make([]indexed, 0, len(paths))
		failures []Failure
	)

	for i, path := range paths {
		i, path := i, path
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lig, err := l.parse(path, family)
			if errors.IsCode(err, errors.ErrCodeFileRead) {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, Failure{Path: path, Err: err})
				return nil
			}
			parsed = append(parsed, indexed{idx: i, lig: lig})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	sort.Slice(parsed, func(a, b int) bool { return parsed[a].idx < parsed[b].idx })
	out := make([]*Ligand, len(parsed))
	for i, p := range parsed {
		out[i] = p.lig
	}

	sort.Slice(failures, func(a, b int) bool { return failures[a].Path < failures[b].Path })
	for _, f := range failures {
		l.logger.Warn("skipping unparsable ligand", logging.String("path", f.Path), logging.Err(f.Err))
	}
	l.logger.Debug("ligands parsed",
		logging.Int("requested", len(paths)),
		logging.Int("parsed", len(out)),
		logging.Int("skipped", len(failures)),
		logging.Int("workers", l.workers))
	return out, failures, nil
}

//Personal.AI order the ending
