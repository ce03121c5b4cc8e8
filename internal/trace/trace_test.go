package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestRecorder(t *testing.T, level Level, format Format, size int) (*Recorder, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	r, err := NewRecorder(Config{Level: level, Format: format, Output: &buf, RingSize: size})
	require.NoError(t, err)
	return r, &buf
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":      LevelOff,
		"off":   LevelOff,
		"error": LevelError,
		"Phase": LevelPhase,
		"FILE":  LevelFile,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseLevel("detail")
	require.ErrorContains(t, err, "off|error|phase|file")
}

func TestLevelStreams(t *testing.T) {
	require.False(t, LevelOff.Streams(ScopeDriver))
	require.False(t, LevelError.Streams(ScopeDriver))
	require.True(t, LevelPhase.Streams(ScopeDriver))
	require.True(t, LevelPhase.Streams(ScopePass))
	require.False(t, LevelPhase.Streams(ScopeFile))
	require.True(t, LevelFile.Streams(ScopeFile))
}

func TestScopeAndLevelNames(t *testing.T) {
	require.Equal(t, "pass", ScopePass.String())
	require.Equal(t, "unknown", Scope(0).String())
	require.Equal(t, "file", LevelFile.String())
	require.Equal(t, "unknown", Level(9).String())
}

func TestRecorderText(t *testing.T) {
	r, buf := newTestRecorder(t, LevelPhase, FormatText, 0)

	span := Begin(r, ScopePass, "lex", 0)
	span.WithExtra("tokens", "3").WithExtra("file", "a.expr")
	span.End("ok")

	Begin(r, ScopeFile, "file:a.expr", span.ID()).End("")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "→ lex")
	require.Contains(t, lines[1], "← lex (ok) {file=a.expr, tokens=3} ")
	require.True(t, strings.HasSuffix(lines[1], "ms"))

	// the file span was not streamed but is still buffered
	require.Len(t, r.Recent(), 4)
}

func TestRecorderNDJSON(t *testing.T) {
	r, buf := newTestRecorder(t, LevelFile, FormatNDJSON, 0)

	Point(r, ScopeFile, "cache", "hit", 7)

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	require.Equal(t, "point", ev["kind"])
	require.Equal(t, "file", ev["scope"])
	require.Equal(t, "cache", ev["name"])
	require.Equal(t, "hit", ev["detail"])
	require.InDelta(t, 7, ev["parent_id"], 0)
	require.NotContains(t, ev, "elapsed_us")
}

func TestRecorderRingWraps(t *testing.T) {
	r, _ := newTestRecorder(t, LevelError, FormatText, 3)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopePass, name, "", 0)
	}

	recent := r.Recent()
	require.Len(t, recent, 3)
	require.Equal(t, "c", recent[0].Name)
	require.Equal(t, "d", recent[1].Name)
	require.Equal(t, "e", recent[2].Name)
}

func TestErrorLevelStreamsNothingButDumps(t *testing.T) {
	tr, err := New(Config{Level: LevelError, Format: FormatText, Output: new(bytes.Buffer)})
	require.NoError(t, err)
	r, ok := tr.(*Recorder)
	require.True(t, ok)

	span := Begin(r, ScopePass, "lex", 0)
	Point(r, ScopeFile, "illegal", "'$'", span.ID())
	span.End("")
	require.Empty(t, r.w.(*bytes.Buffer).String())

	var dump bytes.Buffer
	require.NoError(t, r.DumpRecent(&dump))
	require.Equal(t, 3, strings.Count(dump.String(), "\n"))
	require.Contains(t, dump.String(), "• illegal ('$')")
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	require.NoError(t, err)
	require.Equal(t, Nop, tr)
	require.Zero(t, Begin(tr, ScopeDriver, "tokenize", 0).ID())
	require.Zero(t, Begin(nil, ScopeDriver, "tokenize", 0).End(""))
}

func TestContextPropagation(t *testing.T) {
	require.Equal(t, Nop, FromContext(context.Background()))

	r, _ := newTestRecorder(t, LevelFile, FormatText, 16)
	ctx := WithTracer(context.Background(), r)
	require.Equal(t, Tracer(r), FromContext(ctx))

	ctx, parent := StartSpan(ctx, ScopeDriver, "tokenize")
	require.Equal(t, parent.ID(), CurrentSpan(ctx))

	_, child := StartSpan(ctx, ScopePass, "lex")
	child.End("")
	parent.End("")

	recent := r.Recent()
	require.Len(t, recent, 4)
	require.Equal(t, parent.ID(), recent[1].ParentID)
	require.Equal(t, "lex", recent[1].Name)
	require.Equal(t, KindSpanEnd, recent[3].Kind)
	require.GreaterOrEqual(t, recent[3].Elapsed, recent[2].Elapsed)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("ndjson")
	require.NoError(t, err)
	require.Equal(t, FormatNDJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatAuto, f)

	_, err = ParseFormat("xml")
	require.Error(t, err)

	require.Equal(t, FormatNDJSON, resolveFormat(FormatAuto, "run.jsonl"))
	require.Equal(t, FormatText, resolveFormat(FormatAuto, "-"))
}
