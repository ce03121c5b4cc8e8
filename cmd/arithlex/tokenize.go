package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"arithlex/internal/diag"
	"arithlex/internal/diagfmt"
	"arithlex/internal/driver"
	"arithlex/internal/trace"
)

type outputFormat string

const (
	formatPretty  outputFormat = "pretty"
	formatList    outputFormat = "list"
	formatJSON    outputFormat = "json"
	formatMsgpack outputFormat = "msgpack"
)

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case formatPretty, formatList, formatJSON, formatMsgpack:
		return f, nil
	case "":
		return formatPretty, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected pretty|list|json|msgpack)", s)
	}
}

type tokenizeFlags struct {
	expr    string
	format  string
	collect bool
	eof     bool
	cache   bool
	jobs    int
	ui      string
	short   bool
}

func newTokenizeCmd() *cobra.Command {
	var f tokenizeFlags
	cmd := &cobra.Command{
		Use:   "tokenize [file|dir|-]",
		Short: "Tokenize arithmetic expressions",
		Long: `Tokenize splits an expression into IntLit, FloatLit and operator tokens.
The input is a file, every *.expr file under a directory, standard input
("-" or no argument) or the text given with --expr. The exit status is 1
when an illegal character was found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenize(cmd, args, &f)
		},
	}
	cmd.Flags().StringVarP(&f.expr, "expr", "e", "", "tokenize this text instead of a file")
	cmd.Flags().StringVar(&f.format, "format", "pretty", "output format (pretty|list|json|msgpack)")
	cmd.Flags().BoolVar(&f.collect, "collect", false, "report every illegal character instead of stopping at the first")
	cmd.Flags().BoolVar(&f.eof, "eof", false, "append an EOF token")
	cmd.Flags().BoolVar(&f.cache, "cache", false, "reuse token streams from the on-disk cache")
	cmd.Flags().IntVar(&f.jobs, "jobs", 0, "parallel workers for directories (0 = number of CPUs)")
	cmd.Flags().StringVar(&f.ui, "ui", "auto", "progress view for directories (auto|on|off)")
	cmd.Flags().BoolVar(&f.short, "short", false, "print one line per diagnostic")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string, f *tokenizeFlags) error {
	format, err := parseOutputFormat(f.format)
	if err != nil {
		return err
	}
	root := cmd.Root().PersistentFlags()
	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := root.GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := root.GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	showProgress, err := progressViewWanted(f.ui, cmd.ErrOrStderr(), quiet)
	if err != nil {
		return err
	}

	opts := driver.Options{
		Collect:        f.collect,
		EmitEOF:        f.eof,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           f.jobs,
	}
	if f.cache {
		cache, cacheErr := driver.OpenTokenCache("arithlex")
		if cacheErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: token cache disabled: %v\n", cacheErr)
		} else {
			opts.Cache = cache
		}
	}

	r := &renderer{
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
		format:  format,
		quiet:   quiet,
		timings: timings,
		short:   f.short,
		pretty: diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			Context:   1,
			ShowNotes: f.collect,
			ShowFixes: f.collect,
		},
		json: diagfmt.JSONOpts{
			Max:          maxDiagnostics,
			IncludeFixes: true,
		},
	}

	ctx := cmd.Context()
	var results []*driver.TokenizeResult
	switch {
	case cmd.Flags().Changed("expr"):
		if len(args) > 0 {
			return fmt.Errorf("--expr cannot be combined with a path argument")
		}
		results = append(results, driver.TokenizeSource(ctx, "<expr>", f.expr, opts))
	case len(args) == 0 || args[0] == "-":
		data, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("read stdin: %w", readErr)
		}
		results = append(results, driver.TokenizeSource(ctx, "<stdin>", string(data), opts))
	default:
		path := args[0]
		st, statErr := os.Stat(path)
		if statErr != nil {
			return statErr
		}
		if st.IsDir() {
			results, err = tokenizeDirectory(cmd, path, opts, showProgress)
			if err != nil {
				return err
			}
		} else {
			res, tokErr := driver.Tokenize(ctx, path, opts)
			if tokErr != nil {
				return tokErr
			}
			results = append(results, res)
		}
	}

	failed, err := r.render(results)
	if err != nil {
		return err
	}
	trace.Point(trace.FromContext(ctx), trace.ScopeDriver, "summary",
		fmt.Sprintf("%d sources, %d failed", len(results), failed), trace.CurrentSpan(ctx))
	if failed > 0 {
		dumpTraceOnFailure(cmd)
		return errLexical
	}
	return nil
}

func tokenizeDirectory(cmd *cobra.Command, dir string, opts driver.Options, showProgress bool) ([]*driver.TokenizeResult, error) {
	ctx := cmd.Context()
	var (
		dirResults []driver.TokenizeDirResult
		err        error
	)
	if showProgress {
		files, listErr := driver.ListExprFiles(dir)
		if listErr != nil {
			return nil, listErr
		}
		_, dirResults, err = runTokenizeDirWithUI(ctx, cmd.ErrOrStderr(), dir, files, opts)
	} else {
		_, dirResults, err = driver.TokenizeDir(ctx, dir, opts)
	}
	if err != nil {
		return nil, err
	}
	results := make([]*driver.TokenizeResult, 0, len(dirResults))
	for _, dr := range dirResults {
		results = append(results, dr.Result)
	}
	return results, nil
}

type renderer struct {
	out, errOut io.Writer
	format      outputFormat
	quiet       bool
	timings     bool
	short       bool
	pretty      diagfmt.PrettyOpts
	json        diagfmt.JSONOpts
}

// render prints every result and returns how many of them failed.
func (r *renderer) render(results []*driver.TokenizeResult) (int, error) {
	failed := 0
	var docs []diagfmt.TokenizeOutput
	for _, res := range results {
		if res.Failed() {
			failed++
		}
		res.Bag.Dedup()
		res.Bag.Sort()

		switch r.format {
		case formatJSON:
			doc := diagfmt.BuildTokenizeOutput(res.Path, res.Tokens, res.Err, res.Bag, r.json)
			doc.Cached = res.Cached
			docs = append(docs, doc)
		case formatMsgpack:
			if err := diagfmt.FormatTokensMsgpack(r.out, res.Tokens); err != nil {
				return failed, err
			}
			if err := r.diagnostics(res); err != nil {
				return failed, err
			}
		default:
			if len(results) > 1 && !r.quiet {
				if _, err := fmt.Fprintf(r.out, "== %s ==\n", res.Path); err != nil {
					return failed, err
				}
			}
			if err := r.tokens(res); err != nil {
				return failed, err
			}
			if err := r.diagnostics(res); err != nil {
				return failed, err
			}
		}
		if r.timings && res.Timing != nil {
			if _, err := io.WriteString(r.errOut, res.Timing.Summary()); err != nil {
				return failed, err
			}
		}
	}
	if r.format == formatJSON {
		if err := diagfmt.FormatTokenizeJSON(r.out, docs); err != nil {
			return failed, err
		}
	}
	if len(results) > 1 && !r.quiet {
		if _, err := fmt.Fprintf(r.errOut, "%d files, %d with errors\n", len(results), failed); err != nil {
			return failed, err
		}
	}
	return failed, nil
}

func (r *renderer) tokens(res *driver.TokenizeResult) error {
	if res.Err != nil || res.File == nil {
		return nil
	}
	if r.format == formatList {
		return diagfmt.FormatTokensList(r.out, res.Tokens)
	}
	return diagfmt.FormatTokensPretty(r.out, res.Tokens)
}

// diagnostics prints the fail-fast error in its canonical form and every
// other diagnostic through the pretty formatter, then how many the bag limit
// held back.
func (r *renderer) diagnostics(res *driver.TokenizeResult) error {
	if err := r.listDiagnostics(res); err != nil {
		return err
	}
	if n := res.Bag.Dropped(); n > 0 {
		_, err := fmt.Fprintf(r.errOut, "%d more diagnostics not shown (limit %d)\n", n, res.Bag.Cap())
		return err
	}
	return nil
}

func (r *renderer) listDiagnostics(res *driver.TokenizeResult) error {
	if r.short {
		if res.Bag.Len() == 0 {
			return nil
		}
		_, err := fmt.Fprintln(r.errOut, diag.FormatShortDiagnostics(res.Bag.Items(), r.pretty.ShowNotes))
		return err
	}
	rest := res.Bag
	if res.Err != nil {
		rest = diag.NewBag(max(res.Bag.Len(), 1))
		for _, d := range res.Bag.Items() {
			if d.Code != res.Err.Code || d.Primary != res.Err.Span() {
				rest.Add(d)
			}
		}
	}
	if err := diagfmt.Pretty(r.errOut, rest, r.pretty); err != nil {
		return err
	}
	if res.Err != nil {
		return diagfmt.PrettyLexError(r.errOut, res.Err, r.pretty)
	}
	return nil
}
