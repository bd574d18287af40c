package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/turtacn/Uni-Dock/internal/config"
	"github.com/turtacn/Uni-Dock/internal/engine"
	"github.com/turtacn/Uni-Dock/internal/engine/vina"
	"github.com/turtacn/Uni-Dock/internal/infrastructure/gpu"
	"github.com/turtacn/Uni-Dock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Uni-Dock/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// VersionString is the banner printed before anything else.
func VersionString() string {
	return fmt.Sprintf("Uni-Dock %s (commit: %s, built: %s)", Version, GitCommit, BuildDate)
}

// Runtime carries the process-level collaborators of a run.  Zero fields fall
// back to the real implementations.
type Runtime struct {
	Stdout     io.Writer
	Stderr     io.Writer
	FileSystem config.FileSystem

	// NewEngine builds the docking engine for a validated run.
	NewEngine func(opts vina.Options, logger logging.Logger) engine.Engine
	Prober    gpu.Prober
	// Logger replaces the logger built from --log_level and the log.* settings.
	Logger logging.Logger
	RunID  func() string
}

func (rt *Runtime) withDefaults() *Runtime {
	out := *rt
	if out.Stdout == nil {
		out.Stdout = os.Stdout
	}
	if out.Stderr == nil {
		out.Stderr = os.Stderr
	}
	if out.FileSystem == nil {
		out.FileSystem = config.OSFileSystem{}
	}
	if out.NewEngine == nil {
		out.NewEngine = func(opts vina.Options, logger logging.Logger) engine.Engine {
			return vina.New(opts, nil, logger)
		}
	}
	if out.RunID == nil {
		out.RunID = uuid.NewString
	}
	return &out
}

// NewRootCommand creates the unidock command.  Flags keep their underscore
// spelling; multi-value flags must be passed through NormalizeArgs first.
func NewRootCommand(rt *Runtime) *cobra.Command {
	if rt == nil {
		rt = &Runtime{}
	}
	rt = rt.withDefaults()
	flags := newCLIFlags()

	cmd := &cobra.Command{
		Use:   "unidock",
		Short: "Uni-Dock - GPU-batched molecular docking driver",
		Long: "Uni-Dock docks ligands against a receptor with the Vina family of scoring\n" +
			"functions, packing GPU batches to fit the accelerator's free memory.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return errors.ParseFailure("command line", fmt.Errorf("too many positional options have been specified on the command line"))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocking(cmd, rt, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(rt.Stdout)
	cmd.SetErr(rt.Stderr)
	flags.register(cmd.Flags())

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.ParseFailure("command line", err)
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		out := c.OutOrStdout()
		fmt.Fprintln(out, VersionString())
		flags.usage(out, false)
	})
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		flags.usage(c.ErrOrStderr(), false)
		return nil
	})
	return cmd
}

// Execute runs the command line and returns the process exit status.
func Execute(ctx context.Context, args []string) int {
	cmd := NewRootCommand(nil)
	cmd.SetArgs(NormalizeArgs(args))
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		PrintError(cmd, err)
	}
	return errors.ExitCode(err)
}

// PrintError writes the user-facing rendering of err to stderr.  Parse
// errors are followed by the usage summary.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	w := cmd.ErrOrStderr()
	fmt.Fprint(w, errors.UserMessage(err))
	if errors.IsCode(err, errors.ErrCodeOptionParse) {
		fmt.Fprint(w, "\nCorrect usage:\n")
		_ = cmd.Usage()
	}
}

// mergeOptionFile reads --config and applies every option the command line
// did not set.  Integration settings come from the file's sections, or from
// the environment alone when no file is given.
func mergeOptionFile(fs *pflag.FlagSet, flags *cliFlags) (*config.IntegrationConfig, error) {
	if flags.configPath == "" {
		return config.LoadIntegrationsFromEnv()
	}
	of, err := config.ReadOptionFile(flags.configPath, flags.optionFileFlag)
	if err != nil {
		return nil, err
	}
	for _, name := range of.Names() {
		if fs.Changed(name) {
			continue
		}
		for _, v := range of.Flags[name] {
			if err := fs.Set(name, v); err != nil {
				return nil, errors.ParseFailure("configuration file", err)
			}
		}
	}
	return of.Integrations()
}

// newLogger builds the run logger.  --log_level wins over the log.level
// setting, which wins over the level implied by --verbosity.
func newLogger(integ *config.IntegrationConfig, flags *cliFlags) (logging.Logger, error) {
	lc := integ.Log
	switch {
	case flags.logLevel != "":
		lc.Level = logging.Level(flags.logLevel)
	case lc.Level == "":
		lc.Level = logging.LevelFromVerbosity(flags.raw.Verbosity)
	}
	if lc.Format == "" {
		lc.Format = config.DefaultLogFormat
	}
	return logging.NewLogger(lc)
}

//Personal.AI order the ending
