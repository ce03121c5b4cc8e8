package trace

import (
	"fmt"
	"strings"
	"time"
)

// Scope is the granularity of an event. A run nests them in order:
// one driver span per command, pass spans inside it, file spans inside a
// directory pass.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // tokenize, version, init
	ScopePass                    // load, lex
	ScopeFile                    // one source of a directory run
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopePass:   "pass",
	ScopeFile:   "file",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Level selects which scopes are streamed while the run is in progress.
type Level uint8

const (
	LevelOff   Level = iota // no tracer at all
	LevelError              // stream nothing, keep recent events for a failure dump
	LevelPhase              // stream driver and pass events
	LevelFile               // stream everything, including per-file events
)

var levelNames = [...]string{
	LevelOff:   "off",
	LevelError: "error",
	LevelPhase: "phase",
	LevelFile:  "file",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a --trace-level value. Case is ignored.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelOff, nil
	}
	for l, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// Streams reports whether events of scope are written out at this level.
func (l Level) Streams(scope Scope) bool {
	switch l {
	case LevelPhase:
		return scope <= ScopePass
	case LevelFile:
		return scope <= ScopeFile
	default:
		return false
	}
}

// Kind is what an event marks.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64        // 0 for the driver span
	Name     string        // "tokenize", "load", "lex", "file:a.expr", "illegal"
	Detail   string        // "3 tokens", "'$'"
	Elapsed  time.Duration // span length, set on KindSpanEnd
	Extra    map[string]string
}
