package cli

import (
	"fmt"
	"runtime"

	"codelang/pkg/lang"
	"codelang/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0"
	GitCommit = "development"
	BuildDate = "unknown"
)

// pipelineFlags are the per-invocation overrides of the interpreter section.
type pipelineFlags struct {
	maxSteps int
	batch    bool
	lenient  bool
}

func (pf *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&pf.maxSteps, "max-steps", 0, "statement execution limit, 0 for unlimited (overrides interpreter.max_steps)")
	cmd.Flags().BoolVar(&pf.batch, "batch", false, "report every undeclared variable instead of stopping at the first")
	cmd.Flags().BoolVar(&pf.lenient, "lenient", false, "allow several statements on one line")
}

func (pf *pipelineFlags) apply(cmd *cobra.Command, opts *lang.Options) error {
	if cmd.Flags().Changed("max-steps") {
		if pf.maxSteps < 0 {
			return &ExitError{Code: 2, Err: fmt.Errorf("--max-steps must be >= 0, got %d", pf.maxSteps)}
		}
		opts.Run.MaxSteps = pf.maxSteps
	}
	if pf.batch {
		opts.Parse.Batch = true
	}
	if pf.lenient {
		opts.StrictLines = false
	}
	return nil
}

// load reads the program named on the command line.
func (a *app) load(path string) (string, error) {
	src, full, err := utils.ReadSource(path)
	if err != nil {
		return "", &ExitError{Code: 1, Err: err}
	}
	a.log.Debug("source loaded", "path", full, "bytes", len(src))
	return src, nil
}

func (a *app) runCmd() *cobra.Command {
	var pf pipelineFlags
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a program",
		Long: `Runs a program. DISPLAY output goes to stdout and SCAN reads
comma-separated values from stdin, one line per SCAN statement.

Examples:
  codelang run grades.code
  echo "J, 80, 2.5" | codelang run grades.code
  codelang run --max-steps 10000 loop.code`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.load(args[0])
			if err != nil {
				return err
			}
			opts := a.options(cmd)
			if err := pf.apply(cmd, &opts); err != nil {
				return err
			}
			if err := lang.Run(src, opts); err != nil {
				return &ExitError{Code: 1, Err: err}
			}
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	var pf pipelineFlags
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Parse and check a program without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.load(args[0])
			if err != nil {
				return err
			}
			opts := a.options(cmd)
			if err := pf.apply(cmd, &opts); err != nil {
				return err
			}
			prog, err := lang.Compile(src, opts)
			if err != nil {
				return &ExitError{Code: 1, Err: err}
			}
			st := newStyles(cmd.OutOrStdout(), a.cfg.Output.Color)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d declarations, %d statements\n",
				st.Success.Render("OK"), args[0], len(prog.Decls.List), prog.Statements)
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}

func (a *app) tokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.load(args[0])
			if err != nil {
				return err
			}
			tokens, err := lang.Lex(src)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Tokens (%d)\n", len(tokens))
			for _, tok := range tokens {
				fmt.Fprintln(out, " ", tok)
			}
			if err != nil {
				return &ExitError{Code: 1, Err: err}
			}
			return nil
		},
	}
}

func (a *app) astCmd() *cobra.Command {
	var pf pipelineFlags
	cmd := &cobra.Command{
		Use:   "ast <file>",
		Short: "Print the syntax tree of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.load(args[0])
			if err != nil {
				return err
			}
			opts := a.options(cmd)
			if err := pf.apply(cmd, &opts); err != nil {
				return err
			}
			prog, err := lang.Compile(src, opts)
			if err != nil {
				return &ExitError{Code: 1, Err: err}
			}
			fmt.Fprint(cmd.OutOrStdout(), prog)
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "codelang v%s\n", Version)
			fmt.Fprintf(out, "  Git Commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  Build Date: %s\n", BuildDate)
			fmt.Fprintf(out, "  Go Version: %s\n", runtime.Version())
			fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
