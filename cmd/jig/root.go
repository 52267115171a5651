package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chazu/jig/internal/config"
	"github.com/chazu/jig/pkg/attach"
	"github.com/chazu/jig/pkg/kernel/sdfx"
)

// Version is set via -ldflags.
var Version = "dev"

// app carries the state shared by the commands of one invocation.
type app struct {
	cfgFile string
	verbose bool
	format  string

	cfg *config.Config
	log *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "jig",
		Short: "Evaluate geometric attachment scripts",
		Long: `jig evaluates scripts that place objects by attaching them to the
geometry of other objects, and lists the attachment modes a set of
references supports.

Examples:
  jig eval bracket.jig            Evaluate, recompute and print placements
  jig eval -o doc.cbor part.jig   Also write a CBOR snapshot
  jig modes --dim plane vertex vertex vertex`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/jig/config.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVarP(&a.format, "format", "f", "", "output format: yaml, json or text")

	root.AddCommand(newEvalCmd(a), newModesCmd(a))
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration and installs the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, used, err := config.Load(config.LoadOptions{ConfigFilePath: a.cfgFile})
	if err != nil {
		return err
	}
	if a.format != "" {
		if !slices.Contains(config.Formats, a.format) {
			return fmt.Errorf("unknown format %q (want one of %v)", a.format, config.Formats)
		}
		cfg.Output.Format = a.format
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "jig",
		Level:  level,
	})
	a.log = logger
	attach.SetLogger(slog.New(logger))
	if used != "" {
		logger.Debug("loaded config", "path", used)
	}
	return nil
}

// kernel builds the geometry kernel from the solver settings.
func (a *app) kernel() *sdfx.SdfxKernel {
	return sdfx.New(
		sdfx.WithSamples(a.cfg.Solver.Samples),
		sdfx.WithMassGrid(a.cfg.Solver.MassGrid),
		sdfx.WithTolerance(a.cfg.Solver.Tolerance),
	)
}
