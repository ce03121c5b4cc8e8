package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Tracer receives events. Implementations must be safe for concurrent use:
// directory runs emit from several workers.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	Close() error
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)  {}
func (nopTracer) Level() Level { return LevelOff }
func (nopTracer) Close() error { return nil }

// Nop discards everything.
var Nop Tracer = nopTracer{}

// Config holds tracer configuration.
type Config struct {
	Level      Level
	Format     Format    // FormatAuto picks one from OutputPath
	Output     io.Writer // overrides OutputPath
	OutputPath string    // "-" or "" for stderr
	RingSize   int       // recent events kept for DumpRecent (default 1024)
}

const defaultRingSize = 1024

// Recorder streams the events its level admits and keeps the most recent
// events of every scope in a ring, so a failed run can show what led to it
// even when nothing was streamed.
type Recorder struct {
	mu     sync.Mutex
	level  Level
	format Format
	w      io.Writer
	closer io.Closer // set only when the recorder opened the output itself

	ring []Event
	next int
	full bool
}

// New returns Nop for LevelOff and a Recorder otherwise.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	r, err := NewRecorder(cfg)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// NewRecorder builds a Recorder regardless of level.
func NewRecorder(cfg Config) (*Recorder, error) {
	size := cfg.RingSize
	if size <= 0 {
		size = defaultRingSize
	}
	r := &Recorder{
		level:  cfg.Level,
		format: resolveFormat(cfg.Format, cfg.OutputPath),
		ring:   make([]Event, size),
	}
	switch {
	case cfg.Output != nil:
		r.w = cfg.Output
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		r.w = os.Stderr
	default:
		f, err := os.Create(cfg.OutputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open trace output: %w", err)
		}
		r.w, r.closer = f, f
	}
	return r, nil
}

func resolveFormat(f Format, path string) Format {
	if f != FormatAuto {
		return f
	}
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".jsonl") {
		return FormatNDJSON
	}
	return FormatText
}

// Emit records ev in the ring and streams it when the level admits its scope.
// Write errors are ignored; tracing never fails a run.
func (r *Recorder) Emit(ev *Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ring[r.next] = *ev
	r.next = (r.next + 1) % len(r.ring)
	if r.next == 0 {
		r.full = true
	}

	if r.level.Streams(ev.Scope) {
		_, _ = r.w.Write(FormatEvent(ev, r.format))
	}
}

// Level returns the streaming level.
func (r *Recorder) Level() Level { return r.level }

// Recent returns the buffered events, oldest first.
func (r *Recorder) Recent() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.full {
		return append([]Event(nil), r.ring[:r.next]...)
	}
	out := make([]Event, 0, len(r.ring))
	out = append(out, r.ring[r.next:]...)
	return append(out, r.ring[:r.next]...)
}

// DumpRecent writes the buffered events to w in the recorder's format.
func (r *Recorder) DumpRecent(w io.Writer) error {
	for _, ev := range r.Recent() {
		if _, err := w.Write(FormatEvent(&ev, r.format)); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes buffered writers and closes a file the recorder opened.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return err
		}
	}
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
