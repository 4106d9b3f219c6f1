package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/you-not-fish/psi/internal/config"
	"github.com/you-not-fish/psi/internal/diag"
)

// errFailed reports that a command already printed its diagnostics.
var errFailed = errors.New("failed")

// app holds the state shared by all subcommands.
type app struct {
	stdout, stderr io.Writer

	// flags
	cfgFile string
	verbose bool
	color   string

	cfg     *config.Config
	logger  *log.Logger
	printer *diag.Printer
}

// run executes psic with args and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "psic",
		Short: "PSI Pascal front end",
		Long: `psic scans, parses and type-checks PSI programs.

Configuration is read from --config or ./psic.toml when present.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./psic.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().StringVar(&a.color, "color", "", "color diagnostics: auto, always or never")

	root.AddCommand(
		a.checkCmd(),
		a.parseCmd(),
		a.tokensCmd(),
		a.printCmd(),
		a.watchCmd(),
		a.versionCmd(),
	)
	return root
}

// setup loads the configuration and applies the command line overrides.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.color != "" {
		cfg.Diagnostics.Color = a.color
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.logger = log.NewWithOptions(a.stderr, log.Options{
		Level:  level,
		Prefix: "psic",
	})
	a.printer = &diag.Printer{Color: useColor(cfg.Diagnostics.Color, a.stderr)}
	a.logger.Debug("config loaded", "file", a.cfgFile, "jobs", cfg.Jobs(), "color", cfg.Diagnostics.Color)
	return nil
}

// useColor resolves a color setting for output written to w.
func useColor(setting string, w io.Writer) bool {
	switch setting {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// context returns the command context carrying the logger.
func (a *app) context(cmd *cobra.Command) context.Context {
	return log.WithContext(cmd.Context(), a.logger)
}

// report renders err and returns errFailed.
func (a *app) report(err error) error {
	if rerr := a.printer.Render(a.stderr, err); rerr != nil {
		return rerr
	}
	return errFailed
}
