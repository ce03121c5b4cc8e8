package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root, finish := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	// color detection would otherwise depend on the terminal running the tests
	root.SetArgs(append([]string{"--color", "off"}, args...))
	err := root.Execute()
	finish()
	return out.String(), errOut.String(), err
}

// isolate runs the test in an empty directory so no arithlex.toml above the
// package directory leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, ".cache"))
	return dir
}

func TestTokenizeExprList(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "", "tokenize", "--expr", "3.14 + 2", "--format", "list")
	require.NoError(t, err)
	require.Equal(t, "Tokens: [FloatLit(\"3.14\"), Plus, IntLit(\"2\")]\n", out)
}

func TestTokenizeExprPretty(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "", "tokenize", "-e", "(1)", "--eof")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[1], `IntLit     "1"`)
	require.Contains(t, lines[3], "EOF")
}

func TestTokenizeIllegalCharacterExitsWithError(t *testing.T) {
	isolate(t)
	out, errOut, err := run(t, "", "tokenize", "--expr", "1 $")
	require.ErrorIs(t, err, errLexical)
	require.Empty(t, out)
	require.Contains(t, errOut, "IllegalCharacter: '$'\nFile <expr>, line 1")
}

func TestTokenizeCollectJSON(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "", "tokenize", "--collect", "--expr", "1 $ 2 #", "--format", "json")
	require.ErrorIs(t, err, errLexical)

	var doc struct {
		File        string           `json:"file"`
		Tokens      []map[string]any `json:"tokens"`
		Diagnostics []map[string]any `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Equal(t, "<expr>", doc.File)
	require.Len(t, doc.Tokens, 2)
	require.Len(t, doc.Diagnostics, 2)
	require.Equal(t, "LEX1001", doc.Diagnostics[0]["code"])
}

func TestTokenizeStdin(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "7 / 2", "tokenize", "-", "--format", "list")
	require.NoError(t, err)
	require.Equal(t, "Tokens: [IntLit(\"7\"), Slash, IntLit(\"2\")]\n", out)
}

func TestTokenizeExprWithPathIsRejected(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "", "tokenize", "--expr", "1", "file.expr")
	require.Error(t, err)
	require.NotErrorIs(t, err, errLexical)
}

func TestTokenizeDirectoryJSON(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.expr"), []byte("1 + 1"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.expr"), []byte("2 ! 2"), 0o600))

	out, errOut, err := run(t, "", "tokenize", dir, "--format", "json", "--ui", "off", "--jobs", "2")
	require.ErrorIs(t, err, errLexical)
	require.Contains(t, errOut, "2 files, 1 with errors")

	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 2)
	require.NotContains(t, docs[0], "error")
	require.Contains(t, docs[1], "error")
}

func TestTokenizeCache(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "", "tokenize", "--cache", "--expr", "4 * 4", "--format", "json")
	require.NoError(t, err)
	out, _, err := run(t, "", "tokenize", "--cache", "--expr", "4 * 4", "--format", "json")
	require.NoError(t, err)
	require.Contains(t, out, `"cached": true`)
}

func TestTokenizeTimings(t *testing.T) {
	isolate(t)
	_, errOut, err := run(t, "", "--timings", "tokenize", "--expr", "1")
	require.NoError(t, err)
	require.Contains(t, errOut, "timings:")
	require.Contains(t, errOut, "lex")
}

func TestTokenizeTrace(t *testing.T) {
	isolate(t)
	_, errOut, err := run(t, "", "--trace", "-", "--trace-level", "phase", "tokenize", "--expr", "1")
	require.NoError(t, err)
	require.Contains(t, errOut, "→ tokenize")
	require.Contains(t, errOut, "→ lex")
	require.Contains(t, errOut, "← tokenize")
}

func TestTraceErrorLevelDumpsOnFailure(t *testing.T) {
	isolate(t)
	_, errOut, err := run(t, "", "--trace-level", "error", "tokenize", "--expr", "?")
	require.ErrorIs(t, err, errLexical)
	require.Contains(t, errOut, "trace: recent events")
	require.Contains(t, errOut, "• illegal ('?')")
}

func TestInvalidTraceLevel(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "", "--trace-level", "loud", "tokenize", "--expr", "1")
	require.Error(t, err)
}

func TestVersionJSON(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "", "version", "--format", "json", "--full")
	require.NoError(t, err)
	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Equal(t, "arithlex", payload["tool"])
	require.Equal(t, "unknown", payload["git_commit"])
}

func TestVersionRejectsUnknownFormat(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "", "version", "--format", "yaml")
	require.Error(t, err)
}

func TestTokenizeShortDiagnostics(t *testing.T) {
	isolate(t)
	_, errOut, err := run(t, "", "tokenize", "--collect", "--short", "--expr", "1 $\n2 $")
	require.ErrorIs(t, err, errLexical)
	require.Equal(t,
		"error LEX1001 <expr>:1:3 Illegal character '$'\nerror LEX1001 <expr>:2:3 Illegal character '$'\n",
		errOut)
}

func TestTokenizeReportsDiagnosticLimit(t *testing.T) {
	isolate(t)
	_, errOut, err := run(t, "", "--max-diagnostics", "1", "tokenize", "--collect", "--short", "--expr", "@ # $")
	require.ErrorIs(t, err, errLexical)
	require.Equal(t,
		"error LEX1001 <expr>:1:1 Illegal character '@'\n2 more diagnostics not shown (limit 1)\n",
		errOut)
}

func TestTokenizeCollectShowsDecimalPointNote(t *testing.T) {
	isolate(t)
	_, errOut, err := run(t, "", "tokenize", "--collect", "--short", "--expr", "1.5.2")
	require.ErrorIs(t, err, errLexical)
	require.Equal(t,
		"note LEX1001 <expr>:1:1 a number has at most one decimal point\nerror LEX1001 <expr>:1:4 Illegal character '.'\n",
		errOut)
}

func TestProgressViewWanted(t *testing.T) {
	var buf bytes.Buffer
	cases := []struct {
		value string
		quiet bool
		want  bool
	}{
		{"auto", false, false},
		{"", false, false},
		{"ON", true, true},
		{"off", false, false},
	}
	for _, c := range cases {
		got, err := progressViewWanted(c.value, &buf, c.quiet)
		require.NoError(t, err, c.value)
		require.Equal(t, c.want, got, c.value)
	}

	_, err := progressViewWanted("sometimes", &buf, false)
	require.ErrorContains(t, err, "auto|on|off")
}

func TestTokenizeRejectsUnknownUIMode(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "", "tokenize", "--ui", "sometimes", "--expr", "1")
	require.ErrorContains(t, err, "invalid --ui value")
}
