package rewrite

import (
	"time"

	"github.com/hashicorp/go-multierror"
)

// FileOutcome is the result of dispatching one file.
type FileOutcome struct {
	Path      string
	FinalPath string
	Class     Class

	// Processed is true when the processor completed and OnModify fired.
	Processed      bool
	ContentChanged bool
	Renamed        bool

	// Interrupted is true when the run was cancelled while the file was
	// being processed. Its content was not written.
	Interrupted bool
	Err         error
}

// DirOutcome is the result of applying the name rule to one directory.
type DirOutcome struct {
	Path      string
	FinalPath string
	Renamed   bool
	Err       error
}

// Result summarizes a run.
type Result struct {
	Root   string
	Source string
	Target string

	// Scanned counts every file seen, including ignored ones.
	Scanned int

	// Modified counts OnModify notifications.
	Modified int

	// Changed counts files whose content was rewritten.
	Changed int

	// Renamed counts renamed files and directories.
	Renamed int

	// Failed counts entries that were skipped because of an error.
	Failed int

	Files []FileOutcome
	Dirs  []DirOutcome

	// Errors holds list failures that are not tied to a file or rename.
	Errors []error

	StartedAt time.Time
	Duration  time.Duration
}

func (r *Result) addFile(o *FileOutcome) {
	if o == nil {
		return
	}
	r.Files = append(r.Files, *o)
	if o.Processed {
		r.Modified++
	}
	if o.ContentChanged {
		r.Changed++
	}
	if o.Renamed {
		r.Renamed++
	}
	if o.Err != nil {
		r.Failed++
	}
}

func (r *Result) addDir(o DirOutcome) {
	r.Dirs = append(r.Dirs, o)
	if o.Renamed {
		r.Renamed++
	}
	if o.Err != nil {
		r.Failed++
	}
}

func (r *Result) addError(err error) {
	r.Errors = append(r.Errors, err)
	r.Failed++
}

// Err aggregates every per-entry error of the run, or returns nil for a
// clean run.
func (r *Result) Err() error {
	var merr *multierror.Error
	for _, f := range r.Files {
		if f.Err != nil {
			merr = multierror.Append(merr, f.Err)
		}
	}
	for _, d := range r.Dirs {
		if d.Err != nil {
			merr = multierror.Append(merr, d.Err)
		}
	}
	for _, err := range r.Errors {
		merr = multierror.Append(merr, err)
	}
	return merr.ErrorOrNil()
}
