package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"arithlex/internal/diag"
	"arithlex/internal/observ"
	"arithlex/internal/source"
	"arithlex/internal/trace"
)

// SourceExt is the extension TokenizeDir looks for.
const SourceExt = ".expr"

// TokenizeDirResult is the outcome for one file of a directory run.
type TokenizeDirResult struct {
	Path   string        // path of the file as walked
	FileID source.FileID // ID in the shared FileSet, meaningful only if Result.File != nil
	Result *TokenizeResult
}

// ListExprFiles returns every *.expr file under dir in sorted order.
func ListExprFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Sorted for deterministic output
	sort.Strings(files)
	return files, nil
}

// TokenizeDir tokenizes every *.expr file under dir in parallel.
// Results are indexed like ListExprFiles; unreadable files get an
// IOLoadFileError diagnostic instead of failing the run.
func TokenizeDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []TokenizeDirResult, error) {
	files, err := ListExprFiles(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("list %s: %w", dir, err)
	}

	fileSet := source.NewFileSet()
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx)

	// Files are loaded up front; the FileSet is read-only while workers run.
	loadSpan := trace.Begin(tracer, trace.ScopePass, "load", parent)
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error)
	loadTimes := make(map[string]time.Duration, len(files))
	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		started := time.Now()
		fileID, err := fileSet.Load(path)
		loadTimes[path] = time.Since(started)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
	}
	loadSpan.WithExtra("files", fmt.Sprint(len(files))).End("")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each goroutine writes only its own index.
	results := make([]TokenizeDirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			fileCtx, span := trace.StartSpan(gctx, trace.ScopeFile, "file:"+path)
			started := time.Now()
			emit(opts.Progress, Event{File: path, Stage: StageLex, Status: StatusWorking})

			if loadErr, failed := loadErrors[path]; failed {
				bag := diag.NewBag(opts.maxDiagnostics())
				at := source.Position{Name: path}
				bag.Add(diag.NewError(diag.IOLoadFileError, source.NewSpan(at, at),
					"failed to load file: "+loadErr.Error()))
				results[i] = TokenizeDirResult{
					Path:   path,
					Result: &TokenizeResult{Path: path, FileSet: fileSet, Bag: bag},
				}
				span.End("load failed")
				emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr, Elapsed: time.Since(started)})
				return nil
			}

			fileID := fileIDs[path]
			timer := observ.NewTimer()
			timer.Add("load", loadTimes[path], "")
			res := tokenizeFile(fileCtx, fileSet.Get(fileID), opts, timer)
			res.FileSet = fileSet
			results[i] = TokenizeDirResult{Path: path, FileID: fileID, Result: res}

			status := StatusDone
			var evErr error
			if res.Failed() {
				status = StatusError
				if res.Err != nil {
					evErr = res.Err
				}
			}
			span.End(string(status))
			emit(opts.Progress, Event{File: path, Stage: StageLex, Status: status, Err: evErr, Elapsed: time.Since(started)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}

	return fileSet, results, nil
}
