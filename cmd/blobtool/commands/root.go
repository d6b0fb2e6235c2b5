// Package commands implements the blobtool command tree.
package commands

import (
	"fmt"

	"github.com/born-ml/blob/internal/alloc"
	"github.com/born-ml/blob/internal/config"
	"github.com/born-ml/blob/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const version = "v0.1.0"

// env is the state shared by subcommands once configuration is loaded.
type env struct {
	cfgFile   string
	kind      string
	trace     bool
	logLevel  string
	log       *logrus.Logger
	allocator alloc.Allocator
	release   func()
}

// NewRootCmd builds the blobtool command tree.
func NewRootCmd() *cobra.Command {
	root, _ := newRootCmd()
	return root
}

func newRootCmd() (*cobra.Command, *env) {
	e := &env{}

	root := &cobra.Command{
		Use:   "blobtool",
		Short: "Inspect typed blobs through reinterpreting proxies",
		Long: `blobtool builds typed memory blobs and reads them back through
zero-copy proxies of another element type, at a chosen offset and length.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			e.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&e.cfgFile, "config", "", "config file (default is ./blobtool.yaml)")
	flags.StringVar(&e.kind, "allocator", "", "allocator kind: heap, mmap or webgpu")
	flags.BoolVar(&e.trace, "trace", false, "log every allocator call")
	flags.StringVar(&e.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newViewCmd(e),
		newTokensCmd(e),
		newPrecisionsCmd(),
		newVersionCmd(),
	)
	return root, e
}

// Execute runs the root command.
func Execute() error {
	root, e := newRootCmd()
	// PersistentPostRun is skipped when a command fails.
	defer e.close()
	return root.Execute()
}

// setup loads configuration, applies flag overrides and builds the allocator.
func (e *env) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(e.cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("allocator") {
		cfg.Allocator.Kind = e.kind
	}
	if cmd.Flags().Changed("trace") {
		cfg.Allocator.Trace = e.trace
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = e.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	e.log, err = logging.New(cfg.Logging.Level, cfg.Logging.File, cfg.Logging.Console)
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	a, err := alloc.New(cfg.Allocator.Kind)
	if err != nil {
		return fmt.Errorf("creating %s allocator: %w", cfg.Allocator.Kind, err)
	}
	if r, ok := a.(interface{ Release() }); ok {
		e.release = r.Release
	}
	if cfg.Allocator.Trace {
		a = alloc.NewTraced(a, e.log.WithField("allocator", cfg.Allocator.Kind))
	}
	e.allocator = a
	e.log.WithField("allocator", cfg.Allocator.Kind).Debug("configured")
	return nil
}

// close releases allocator resources. It is safe to call more than once.
func (e *env) close() {
	if e.release != nil {
		e.release()
		e.release = nil
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "blobtool %s\n", version)
		},
	}
}
