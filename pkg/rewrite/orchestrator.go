package rewrite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
)

// Orchestrator walks a directory tree and rewrites every entry that
// references the source identifier. A run is a single sequential pass.
type Orchestrator struct {
	fs         afero.Fs
	logger     hclog.Logger
	sink       Sink
	classifier Classifier
}

// Option is a functional option for creating an Orchestrator.
type Option func(*Orchestrator)

// WithFs sets the filesystem. The default is the OS filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(o *Orchestrator) {
		o.fs = fsys
	}
}

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithSink sets the notification callbacks.
func WithSink(sink Sink) Option {
	return func(o *Orchestrator) {
		o.sink = sink
	}
}

// WithClassifier replaces the extension table.
func WithClassifier(c Classifier) Option {
	return func(o *Orchestrator) {
		o.classifier = c
	}
}

// NewOrchestrator creates a new orchestrator.
func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		fs:         afero.NewOsFs(),
		logger:     hclog.NewNullLogger(),
		classifier: DefaultClassifier(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run validates both identifiers, then rewrites the tree under root. An
// invalid identifier returns an *entityid.FormatError before the
// filesystem is touched.
//
// Per-entry failures are recorded in the Result and do not stop the walk;
// see Result.Err. The returned error is non-nil only when the run could not
// start or ctx was cancelled, in which case the partial Result is returned
// too.
func (o *Orchestrator) Run(ctx context.Context, root, source, target string) (*Result, error) {
	job, err := NewJob(source, target)
	if err != nil {
		return nil, err
	}
	return o.RunJob(ctx, root, job)
}

// RunJob is Run with an already parsed job.
func (o *Orchestrator) RunJob(ctx context.Context, root string, job Job) (*Result, error) {
	root = filepath.Clean(root)
	info, err := o.fs.Stat(root)
	if err != nil {
		return nil, accessError("stat", root, err)
	}
	if !info.IsDir() {
		return nil, accessError("walk", root, fmt.Errorf("not a directory"))
	}

	logger := o.logger.Named("walk")
	files := NewFileRewriter(o.fs, job, o.sink, logger.Named("files"))
	w := &walker{
		fs:         o.fs,
		files:      files,
		dispatcher: NewDispatcher(o.classifier, files, o.sink, logger.Named("dispatch")),
		sink:       o.sink,
		logger:     logger,
		result: &Result{
			Root:      root,
			Source:    job.Source.String(),
			Target:    job.Target.String(),
			StartedAt: time.Now(),
		},
	}

	logger.Info("starting rewrite", "root", root, "source", job.Source, "target", job.Target)
	err = w.walkDir(ctx, root)
	w.result.Duration = time.Since(w.result.StartedAt)

	logger.Info("rewrite completed",
		"scanned", w.result.Scanned,
		"modified", w.result.Modified,
		"changed", w.result.Changed,
		"renamed", w.result.Renamed,
		"failed", w.result.Failed,
		"duration", w.result.Duration,
	)
	if err != nil {
		logger.Warn("rewrite interrupted", "error", err)
		return w.result, err
	}
	return w.result, nil
}

// Run rewrites the tree under root on the OS filesystem.
func Run(ctx context.Context, root, source, target string, sink Sink) (*Result, error) {
	return NewOrchestrator(WithSink(sink)).Run(ctx, root, source, target)
}

type walker struct {
	fs         afero.Fs
	files      *FileRewriter
	dispatcher *Dispatcher
	sink       Sink
	logger     hclog.Logger
	result     *Result
}

// walkDir handles dir bottom-up: every subdirectory is walked under its
// original name, then the files of dir are dispatched, and only then are
// the immediate subdirectories renamed. dir itself is renamed by the
// caller, after this returns, so no pending path is ever stale.
func (w *walker) walkDir(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		w.logger.Error("failed to list directory", "path", dir, "error", err)
		w.result.addError(accessError("list", dir, err))
		return nil
	}

	var files, dirs []os.FileInfo
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e)
		} else {
			files = append(files, e)
		}
	}

	for _, d := range dirs {
		if err := w.walkDir(ctx, filepath.Join(dir, d.Name())); err != nil {
			return err
		}
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(dir, f.Name())
		w.result.Scanned++
		w.sink.scan(path)
		w.result.addFile(w.dispatcher.Dispatch(ctx, path))
	}

	for _, d := range dirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(dir, d.Name())
		newPath, err := w.files.RewriteName(path)
		if err != nil {
			w.logger.Error("failed to rename directory", "path", path, "error", err)
		}
		if err != nil || newPath != path {
			w.result.addDir(DirOutcome{
				Path:      path,
				FinalPath: newPath,
				Renamed:   newPath != path,
				Err:       err,
			})
		}
	}
	return nil
}
