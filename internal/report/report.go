// Package report writes a YAML summary of a rewrite run.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/uuid-redirector/pkg/rewrite"
)

// Report is the serialized form of a run.
type Report struct {
	Root      string      `yaml:"root"`
	Source    string      `yaml:"source"`
	Target    string      `yaml:"target"`
	StartedAt time.Time   `yaml:"started_at"`
	Duration  string      `yaml:"duration"`
	Totals    Totals      `yaml:"totals"`
	Files     []FileEntry `yaml:"files,omitempty"`
	Dirs      []DirEntry  `yaml:"directories,omitempty"`
	Errors    []string    `yaml:"errors,omitempty"`
}

// Totals mirrors the counters of a run.
type Totals struct {
	Scanned  int `yaml:"scanned"`
	Modified int `yaml:"modified"`
	Changed  int `yaml:"changed"`
	Renamed  int `yaml:"renamed"`
	Failed   int `yaml:"failed"`
}

// FileEntry describes one dispatched file.
type FileEntry struct {
	Path        string `yaml:"path"`
	FinalPath   string `yaml:"final_path,omitempty"`
	Class       string `yaml:"class"`
	Changed     bool   `yaml:"changed"`
	Interrupted bool   `yaml:"interrupted,omitempty"`
	Error       string `yaml:"error,omitempty"`
}

// DirEntry describes one renamed or failed directory.
type DirEntry struct {
	Path      string `yaml:"path"`
	FinalPath string `yaml:"final_path,omitempty"`
	Error     string `yaml:"error,omitempty"`
}

// New builds a report from a run result. Unchanged paths are omitted from
// FinalPath.
func New(result *rewrite.Result) *Report {
	r := &Report{
		Root:      result.Root,
		Source:    result.Source,
		Target:    result.Target,
		StartedAt: result.StartedAt.UTC(),
		Duration:  result.Duration.String(),
		Totals: Totals{
			Scanned:  result.Scanned,
			Modified: result.Modified,
			Changed:  result.Changed,
			Renamed:  result.Renamed,
			Failed:   result.Failed,
		},
	}

	for _, f := range result.Files {
		entry := FileEntry{
			Path:        f.Path,
			Class:       string(f.Class),
			Changed:     f.ContentChanged,
			Interrupted: f.Interrupted,
			Error:       errString(f.Err),
		}
		if f.Renamed {
			entry.FinalPath = f.FinalPath
		}
		r.Files = append(r.Files, entry)
	}
	for _, d := range result.Dirs {
		entry := DirEntry{Path: d.Path, Error: errString(d.Err)}
		if d.Renamed {
			entry.FinalPath = d.FinalPath
		}
		r.Dirs = append(r.Dirs, entry)
	}
	for _, err := range result.Errors {
		r.Errors = append(r.Errors, err.Error())
	}
	return r
}

// Marshal encodes the report as YAML.
func (r *Report) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("error encoding report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("error encoding report: %w", err)
	}
	return buf.Bytes(), nil
}

// Write encodes result and writes it to path on fsys.
func Write(fsys afero.Fs, path string, result *rewrite.Result) error {
	data, err := New(result).Marshal()
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	return nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
