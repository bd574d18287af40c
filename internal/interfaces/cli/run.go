package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/turtacn/Uni-Dock/internal/application/docking"
	"github.com/turtacn/Uni-Dock/internal/config"
	"github.com/turtacn/Uni-Dock/internal/domain/ligand"
	"github.com/turtacn/Uni-Dock/internal/engine/vina"
	"github.com/turtacn/Uni-Dock/internal/infrastructure/gpu"
	"github.com/turtacn/Uni-Dock/internal/infrastructure/monitoring/logging"
)

// runDocking is the body of the root command: option file merge, the
// information flags, validation and finally the dispatcher.
func runDocking(cmd *cobra.Command, rt *Runtime, flags *cliFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, VersionString())

	integ, err := mergeOptionFile(cmd.Flags(), flags)
	if err != nil {
		return err
	}
	if flags.helpAdvanced {
		flags.usage(out, true)
		return nil
	}
	if flags.version {
		return nil
	}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		flags.raw.MarkProvided(f.Name)
	})

	logger := rt.Logger
	if logger == nil {
		if logger, err = newLogger(integ, flags); err != nil {
			return err
		}
	}

	cfg, err := config.Validate(flags.raw, rt.FileSystem)
	if err != nil {
		return err
	}

	runID := rt.RunID()
	logger = logger.With(logging.String("run_id", runID))
	logger.Debug("configuration validated", logging.Int("ligands", cfg.LigandCount()), logging.String("scoring", string(cfg.Scoring)))

	metricsFile := flags.metricsFile
	if metricsFile == "" {
		metricsFile = integ.Metrics.TextfilePath
	}
	wired := wireIntegrations(ctx, integ, metricsFile, runID, logger)
	defer wired.close()

	prober := rt.Prober
	if prober == nil {
		prober = gpu.NewSMIProber("", nil, logger)
	}
	eng := rt.NewEngine(vina.Options{
		Binary:    integ.Engine.Binary,
		GPUBinary: integ.Engine.GPUBinary,
		WorkDir:   integ.Engine.WorkDir,
		Scoring:   cfg.Scoring,
		CPU:       cfg.CPU,
		Verbosity: cfg.Verbosity,
		NoRefine:  cfg.NoRefine,
	}, logger)

	dispatcher := docking.NewDispatcher(docking.Dependencies{
		Engine:   eng,
		Prober:   prober,
		Loader:   ligand.NewLoader(cfg.CPU, logger),
		Locker:   wired.locker,
		Reporter: docking.NewReporter(out, runID, logger, wired.sinks...),
		Logger:   logger,
	})
	outcome, err := dispatcher.Run(ctx, cfg)
	if err != nil {
		logger.Debug("run failed", logging.Err(err))
		return err
	}
	if outcome.Unsupported {
		logger.Info("nothing to run")
	}
	return nil
}

//Personal.AI order the ending
