package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"arithlex/internal/diag"
	"arithlex/internal/source"
	"arithlex/internal/token"
)

// Current schema version - increment when tokenPayload format changes
const tokenCacheSchemaVersion uint16 = 2

// CacheKey identifies a cached token stream: file content plus the options
// that change the lexer's output.
type CacheKey [32]byte

// TokenCache stores token streams on disk keyed by content hash.
// Thread-safe for concurrent access.
type TokenCache struct {
	mu  sync.RWMutex
	dir string
}

type cachedPos struct {
	Offset uint32
	Line   uint32
	Col    uint32
	Byte   uint32
}

type cachedToken struct {
	Kind  uint8
	Text  string
	Start cachedPos
	End   cachedPos
}

type cachedEdit struct {
	Start   cachedPos
	End     cachedPos
	NewText string
}

type cachedFix struct {
	Title string
	Edits []cachedEdit
}

type cachedNote struct {
	Start cachedPos
	End   cachedPos
	Msg   string
}

type cachedDiag struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    cachedPos
	End      cachedPos
	Notes    []cachedNote
	Fixes    []cachedFix
}

type cachedLexError struct {
	Start   cachedPos
	End     cachedPos
	Code    uint16
	Message string
}

// tokenPayload is the msgpack document written per key. Positions are stored
// without their source name and text; both are restored from the file.
type tokenPayload struct {
	Schema uint16
	Path   string
	Tokens []cachedToken
	Err    *cachedLexError
	Diags  []cachedDiag
}

// OpenTokenCache opens the cache under $XDG_CACHE_HOME/app (or ~/.cache/app).
func OpenTokenCache(app string) (*TokenCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewTokenCache(filepath.Join(base, app))
}

// NewTokenCache opens a cache rooted at dir, creating it if needed.
func NewTokenCache(dir string) (*TokenCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create token cache: %w", err)
	}
	return &TokenCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *TokenCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func cacheKey(file *source.File, opts Options) CacheKey {
	h := sha256.New()
	var hdr [4]byte
	hdr[0] = byte(tokenCacheSchemaVersion >> 8)
	hdr[1] = byte(tokenCacheSchemaVersion)
	if opts.Collect {
		hdr[2] = 1
	}
	if opts.EmitEOF {
		hdr[3] = 1
	}
	h.Write(hdr[:])
	h.Write(file.Hash[:])
	var key CacheKey
	copy(key[:], h.Sum(nil))
	return key
}

func (c *TokenCache) pathFor(key CacheKey) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "tokens", hexKey[:2], hexKey+".mp")
}

// Store writes the tokens and failures of res under key.
func (c *TokenCache) Store(key CacheKey, res *TokenizeResult) error {
	if c == nil || res == nil {
		return nil
	}
	payload := toPayload(res)

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp) //nolint:errcheck

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close() //nolint:errcheck
		return fmt.Errorf("encode token cache entry: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic replace
	return os.Rename(tmp, p)
}

// Load fills res from the entry under key. It reports false on a miss or a
// stale schema; decode failures are returned as errors.
func (c *TokenCache) Load(key CacheKey, file *source.File, res *TokenizeResult) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close() //nolint:errcheck

	var payload tokenPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return false, fmt.Errorf("decode token cache entry: %w", err)
	}
	if payload.Schema != tokenCacheSchemaVersion {
		return false, nil
	}
	fromPayload(&payload, file, res)
	return true, nil
}

// DropAll removes every cached entry.
func (c *TokenCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// Entries counts the cached token streams.
func (c *TokenCache) Entries() (uint32, error) {
	if c == nil {
		return 0, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	err := filepath.WalkDir(filepath.Join(c.dir, "tokens"), func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return filepath.SkipAll
			}
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".mp" {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return safecast.Conv[uint32](n)
}

func packPos(p source.Position) cachedPos {
	return cachedPos{Offset: p.Offset, Line: p.Line, Col: p.Col, Byte: p.Byte}
}

func (p cachedPos) unpack(name, text string) source.Position {
	return source.Position{
		Offset: p.Offset,
		Line:   p.Line,
		Col:    p.Col,
		Byte:   p.Byte,
		Name:   name,
		Text:   text,
	}
}

func toPayload(res *TokenizeResult) *tokenPayload {
	payload := &tokenPayload{
		Schema: tokenCacheSchemaVersion,
		Tokens: make([]cachedToken, len(res.Tokens)),
	}
	if res.File != nil {
		payload.Path = res.File.Path
	}
	for i, tok := range res.Tokens {
		payload.Tokens[i] = cachedToken{
			Kind:  uint8(tok.Kind),
			Text:  tok.Text,
			Start: packPos(tok.Span.Start),
			End:   packPos(tok.Span.End),
		}
	}
	if res.Err != nil {
		payload.Err = &cachedLexError{
			Start:   packPos(res.Err.Start),
			End:     packPos(res.Err.End),
			Code:    uint16(res.Err.Code),
			Message: res.Err.Message,
		}
	}
	if res.Bag != nil {
		for _, d := range res.Bag.Items() {
			// Cache warnings describe this run, not the file.
			if d.Code == diag.IOCacheError {
				continue
			}
			cd := cachedDiag{
				Severity: uint8(d.Severity),
				Code:     uint16(d.Code),
				Message:  d.Message,
				Start:    packPos(d.Primary.Start),
				End:      packPos(d.Primary.End),
			}
			for _, n := range d.Notes {
				cd.Notes = append(cd.Notes, cachedNote{Start: packPos(n.Span.Start), End: packPos(n.Span.End), Msg: n.Msg})
			}
			for _, fix := range d.Fixes {
				cf := cachedFix{Title: fix.Title}
				for _, e := range fix.Edits {
					cf.Edits = append(cf.Edits, cachedEdit{
						Start:   packPos(e.Span.Start),
						End:     packPos(e.Span.End),
						NewText: e.NewText,
					})
				}
				cd.Fixes = append(cd.Fixes, cf)
			}
			payload.Diags = append(payload.Diags, cd)
		}
	}
	return payload
}

func fromPayload(payload *tokenPayload, file *source.File, res *TokenizeResult) {
	name, text := file.Path, file.Text()
	if payload.Err == nil {
		res.Tokens = make([]token.Token, len(payload.Tokens))
		for i, ct := range payload.Tokens {
			res.Tokens[i] = token.Token{
				Kind: token.Kind(ct.Kind),
				Span: source.NewSpan(ct.Start.unpack(name, text), ct.End.unpack(name, text)),
				Text: ct.Text,
			}
		}
	} else {
		res.Tokens = nil
		res.Err = &diag.LexError{
			Start:   payload.Err.Start.unpack(name, text),
			End:     payload.Err.End.unpack(name, text),
			Code:    diag.Code(payload.Err.Code),
			Message: payload.Err.Message,
		}
	}
	for _, cd := range payload.Diags {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  source.NewSpan(cd.Start.unpack(name, text), cd.End.unpack(name, text)),
		}
		for _, cn := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{
				Span: source.NewSpan(cn.Start.unpack(name, text), cn.End.unpack(name, text)),
				Msg:  cn.Msg,
			})
		}
		for _, cf := range cd.Fixes {
			fix := diag.Fix{Title: cf.Title}
			for _, e := range cf.Edits {
				fix.Edits = append(fix.Edits, diag.FixEdit{
					Span:    source.NewSpan(e.Start.unpack(name, text), e.End.unpack(name, text)),
					NewText: e.NewText,
				})
			}
			d.Fixes = append(d.Fixes, fix)
		}
		res.Bag.Add(d)
	}
}
