package rewrite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Class is the processing class of a file, chosen by extension.
type Class string

const (
	ClassIgnored Class = ""
	ClassText    Class = "text"
	ClassTag     Class = "tag"
	ClassRegion  Class = "region"
)

// Classifier maps lowercased extensions, including the leading dot, to a
// class.
type Classifier map[string]Class

// DefaultClassifier returns the stock extension table.
func DefaultClassifier() Classifier {
	return Classifier{
		".txt":   ClassText,
		".json":  ClassText,
		".json5": ClassText,
		".yaml":  ClassText,
		".yml":   ClassText,
		".dat":   ClassTag,
		".mcc":   ClassTag,
		".mca":   ClassRegion,
	}
}

// Classify returns the class for path, ClassIgnored if its extension is
// unknown.
func (c Classifier) Classify(path string) Class {
	return c[strings.ToLower(filepath.Ext(path))]
}

// FileContext carries one file through its processor.
type FileContext struct {
	// OriginalPath is where the walk found the file.
	OriginalPath string

	// Path is the current location; processors update it after a rename.
	Path string

	Class          Class
	ContentChanged bool
}

// Renamed reports whether the processor moved the file.
func (fc *FileContext) Renamed() bool {
	return fc.Path != fc.OriginalPath
}

// Processor rewrites one class of file.
type Processor interface {
	// Process rewrites content and name of fc.Path.
	Process(ctx context.Context, fc *FileContext) error

	// Name returns the processor name for logging.
	Name() string
}

// TextProcessor rewrites the body of a text file, then its name. A rename
// that is bound to conflict is detected before the body is touched.
type TextProcessor struct {
	Files *FileRewriter
}

func (p *TextProcessor) Name() string { return "text" }

func (p *TextProcessor) Process(ctx context.Context, fc *FileContext) error {
	if _, err := p.Files.PlanName(fc.Path); err != nil {
		return err
	}

	changed, err := p.Files.RewriteContent(fc.Path)
	if err != nil {
		return err
	}
	fc.ContentChanged = changed

	newPath, err := p.Files.RewriteName(fc.Path)
	if err != nil {
		return err
	}
	fc.Path = newPath
	return nil
}

// TagProcessor renames a tag file first, then rewrites its document, so a
// failure while decoding never leaves the new content under the old name.
type TagProcessor struct {
	Files *FileRewriter
}

func (p *TagProcessor) Name() string { return "tag" }

func (p *TagProcessor) Process(ctx context.Context, fc *FileContext) error {
	newPath, err := p.Files.RewriteName(fc.Path)
	if err != nil {
		return err
	}
	fc.Path = newPath

	changed, err := p.Files.RewriteTagFile(fc.Path)
	if err != nil {
		return err
	}
	fc.ContentChanged = changed
	return nil
}

// RegionProcessor is TagProcessor for region files.
type RegionProcessor struct {
	Files *FileRewriter
}

func (p *RegionProcessor) Name() string { return "region" }

func (p *RegionProcessor) Process(ctx context.Context, fc *FileContext) error {
	newPath, err := p.Files.RewriteName(fc.Path)
	if err != nil {
		return err
	}
	fc.Path = newPath

	changed, err := p.Files.RewriteRegionFile(ctx, fc.Path)
	if err != nil {
		return err
	}
	fc.ContentChanged = changed
	return nil
}

// Dispatcher routes files to the processor registered for their class.
type Dispatcher struct {
	classifier Classifier
	processors map[Class]Processor
	sink       Sink
	logger     hclog.Logger
}

// NewDispatcher wires the stock processors around files.
func NewDispatcher(classifier Classifier, files *FileRewriter, sink Sink, logger hclog.Logger) *Dispatcher {
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Dispatcher{
		classifier: classifier,
		processors: map[Class]Processor{
			ClassText:   &TextProcessor{Files: files},
			ClassTag:    &TagProcessor{Files: files},
			ClassRegion: &RegionProcessor{Files: files},
		},
		sink:   sink,
		logger: logger,
	}
}

// Dispatch processes one file. Files of an ignored class return nil. A
// processor error is logged and returned in the outcome. A processor
// stopped by ctx yields an Interrupted outcome with no error, since the
// walk reports the cancellation itself. OnModify fires whenever the
// processor completed, whether or not the content changed.
func (d *Dispatcher) Dispatch(ctx context.Context, path string) *FileOutcome {
	class := d.classifier.Classify(path)
	if class == ClassIgnored {
		return nil
	}
	proc, ok := d.processors[class]
	if !ok {
		return &FileOutcome{
			Path:      path,
			FinalPath: path,
			Class:     class,
			Err:       fmt.Errorf("no processor registered for class %q", class),
		}
	}

	fc := &FileContext{OriginalPath: path, Path: path, Class: class}
	err := proc.Process(ctx, fc)
	outcome := &FileOutcome{
		Path:           fc.OriginalPath,
		FinalPath:      fc.Path,
		Class:          class,
		ContentChanged: fc.ContentChanged,
		Renamed:        fc.Renamed(),
		Err:            err,
	}
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		d.logger.Debug("processing interrupted", "processor", proc.Name(), "path", path)
		outcome.Err = nil
		outcome.Interrupted = true
		return outcome
	}
	if err != nil {
		d.logger.Error("failed to process file", "processor", proc.Name(), "path", path, "error", err)
		return outcome
	}

	d.logger.Trace("processed file", "processor", proc.Name(), "path", fc.Path, "changed", fc.ContentChanged)
	outcome.Processed = true
	d.sink.modify(fc.Path)
	return outcome
}
