// Package cli implements the codelang command-line driver.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"codelang/pkg/config"
	"codelang/pkg/lang"
	"codelang/pkg/logging"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// ExitError carries the process status for failures that happen after the
// command line was accepted.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps an Execute result to a process status: 0 on success, 1 when
// a program or its file failed, 2 for command-line misuse.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 2
}

// app holds the state shared by every subcommand of one invocation.
type app struct {
	cfgFile string
	verbose bool
	noColor bool

	cfg     *config.Config
	log     *slog.Logger
	runID   string
	logFile *os.File
}

// Execute runs the root command against os.Args.
func Execute() error {
	a := &app{}
	return a.execute(a.rootCmd())
}

func (a *app) execute(root *cobra.Command) error {
	err := root.Execute()
	if a.logFile != nil {
		a.logFile.Close()
	}
	if err != nil {
		a.report(root.ErrOrStderr(), err)
	}
	return err
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "codelang",
		Short: "Interpreter for the BEGIN CODE / END CODE teaching language",
		Long: `codelang lexes, parses, checks and runs programs written in the
BEGIN CODE / END CODE teaching language.

Commands:
  run     - execute a program, reading SCAN input from stdin
  check   - parse and check a program without running it
  tokens  - print the token stream
  ast     - print the parsed syntax tree`,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $"+config.EnvVar+" or ./codelang.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output (debug logging)")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored diagnostics")

	root.AddCommand(a.runCmd(), a.checkCmd(), a.tokensCmd(), a.astCmd(), a.versionCmd())
	return root
}

// setup loads the configuration and builds the run logger once the
// command line has been accepted.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := config.Resolve(a.cfgFile)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}
	if a.noColor {
		cfg.Output.Color = false
	}
	a.cfg = cfg

	logCfg := logging.DefaultLoggerConfig("codelang")
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logCfg.Output = cmd.ErrOrStderr()
	if a.verbose {
		logCfg.Level = "debug"
	}
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return &ExitError{Code: 1, Err: fmt.Errorf("failed to open log file: %w", err)}
		}
		a.logFile = f
		logCfg.AdditionalOutputs = []io.Writer{f}
	}

	a.runID = uuid.New().String()
	a.log = logging.NewLogger(logCfg).With("run", a.runID)
	a.log.Debug("configuration loaded", "source", cfg.Source, "command", cmd.Name())
	return nil
}

// PipelineOptions maps the interpreter section of cfg onto lang options.
// Stdin and Stdout are left for the caller.
func PipelineOptions(cfg *config.Config, log *slog.Logger) lang.Options {
	return lang.Options{
		StrictLines: cfg.Interpreter.StrictLines,
		Parse:       lang.ParseOptions{Batch: cfg.Interpreter.BatchErrors},
		Run: lang.RunOptions{
			Logger:   log,
			MaxSteps: cfg.Interpreter.MaxSteps,
		},
	}
}

func (a *app) options(cmd *cobra.Command) lang.Options {
	opts := PipelineOptions(a.cfg, a.log)
	opts.Run.Stdin = cmd.InOrStdin()
	opts.Run.Stdout = cmd.OutOrStdout()
	return opts
}

// report writes err to w. Faults are styled, one per line, so a batch
// result lists every fault it collected.
func (a *app) report(w io.Writer, err error) {
	color := (a.cfg == nil || a.cfg.Output.Color) && !a.noColor
	st := newStyles(w, color)

	found := faults(err)
	if len(found) == 0 {
		fmt.Fprintln(w, st.Fault.Render("Error:"), err)
		if ExitCode(err) == 2 {
			fmt.Fprintln(w, st.Muted.Render("Run 'codelang --help' for usage."))
		}
		return
	}

	for _, f := range found {
		fmt.Fprintln(w, st.Fault.Render(f.Error()), st.Kind.Render("("+f.Kind.String()+")"))
	}
	if a.log != nil {
		a.log.Debug("run failed", "faults", len(found))
	}
}

// faults flattens err, including errors.Join results, into its faults.
func faults(err error) []*lang.Fault {
	if err == nil {
		return nil
	}
	if f, ok := err.(*lang.Fault); ok {
		return []*lang.Fault{f}
	}
	switch x := err.(type) {
	case interface{ Unwrap() []error }:
		var out []*lang.Fault
		for _, e := range x.Unwrap() {
			out = append(out, faults(e)...)
		}
		return out
	case interface{ Unwrap() error }:
		return faults(x.Unwrap())
	}
	return nil
}
