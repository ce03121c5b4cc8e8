package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"arithlex/internal/version"
)

// errLexical marks a run that produced at least one lexical error. The
// diagnostics are already printed, so main only sets the exit status.
var errLexical = errors.New("lexical errors")

// newRootCmd builds the command tree with its persistent flags. The returned
// finish func closes the tracer; call it after Execute.
func newRootCmd() (*cobra.Command, func()) {
	var cleanupTrace func()

	root := &cobra.Command{
		Use:           "arithlex",
		Short:         "Tokenizer for arithmetic expressions",
		Long:          `arithlex splits arithmetic expressions into number and operator tokens and reports illegal characters`,
		Version:       version.Info(false),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyProjectConfig(cmd); err != nil {
				return err
			}
			if err := setupColor(cmd); err != nil {
				return err
			}
			cleanup, err := setupTracing(cmd)
			if err != nil {
				return err
			}
			cleanupTrace = cleanup
			return nil
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	// Глобальные флаги
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	root.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	root.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|file)")
	root.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	root.PersistentFlags().String("config", "", "path to arithlex.toml (default: search upwards from the working directory)")

	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())

	// PersistentPostRun is skipped when RunE fails, so the tracer is closed by finish.
	finish := func() {
		if cleanupTrace != nil {
			cleanupTrace()
			cleanupTrace = nil
		}
	}
	return root, finish
}

// main runs the root command. Lexical errors exit with status 1 without an
// extra message; other failures are printed first.
func main() {
	root, finish := newRootCmd()
	err := root.Execute()
	finish()
	if err != nil {
		if !errors.Is(err, errLexical) {
			fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto", "":
		color.NoColor = !isTerminal(os.Stdout) || os.Getenv("NO_COLOR") != ""
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

// useColor reports whether diagnostics written to f should be colored.
func useColor(cmd *cobra.Command, f *os.File) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color") //nolint:errcheck
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return f != nil && isTerminal(f) && os.Getenv("NO_COLOR") == ""
	}
}
