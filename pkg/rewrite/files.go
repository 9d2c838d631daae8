package rewrite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/uuid-redirector/pkg/nbt"
	"github.com/hashicorp-forge/uuid-redirector/pkg/region"
)

// FileRewriter applies a job to individual files and names on a
// filesystem. Nothing is written unless the whole file was read, rewritten
// and re-encoded in memory first.
type FileRewriter struct {
	fs     afero.Fs
	text   *TextRewriter
	tags   *TagRewriter
	sink   Sink
	logger hclog.Logger
}

// NewFileRewriter returns a FileRewriter for job on fsys. A nil logger
// discards output.
func NewFileRewriter(fsys afero.Fs, job Job, sink Sink, logger hclog.Logger) *FileRewriter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &FileRewriter{
		fs:     fsys,
		text:   NewTextRewriter(job),
		tags:   NewTagRewriter(job),
		sink:   sink,
		logger: logger,
	}
}

// PlanName returns the path the name rule would give path, without
// touching the filesystem beyond a Stat of the new path. A target that
// already exists as a different entry is an ErrRenameConflict.
func (w *FileRewriter) PlanName(path string) (string, error) {
	dir, name := filepath.Split(path)
	newName, n := w.text.Rewrite(name)
	if n == 0 || newName == name {
		return path, nil
	}
	newPath := filepath.Join(dir, newName)

	existing, err := w.fs.Stat(newPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newPath, nil
		}
		return path, accessError("stat", newPath, err)
	}

	// On a case-insensitive filesystem a case-only rename finds the entry
	// itself under the new name.
	if strings.EqualFold(name, newName) {
		if current, err := w.fs.Stat(path); err == nil && os.SameFile(current, existing) {
			return newPath, nil
		}
	}
	return path, &EntryError{Op: "rename", Path: path, Kind: ErrRenameConflict, Err: fmt.Errorf("%s exists", newPath)}
}

// RewriteName applies the text rule to the final path component. When the
// name changes the entry is renamed within its parent, OnRename fires and
// the new path is returned; otherwise path is returned untouched.
func (w *FileRewriter) RewriteName(path string) (string, error) {
	newPath, err := w.PlanName(path)
	if err != nil || newPath == path {
		return path, err
	}

	if err := w.fs.Rename(path, newPath); err != nil {
		return path, accessError("rename", path, err)
	}
	w.logger.Debug("renamed entry", "from", path, "to", newPath)
	w.sink.rename(path, newPath)
	return newPath, nil
}

// RewriteContent rewrites a UTF-8 text file in place. The file is only
// written when its content changed; the return value reports whether it
// did.
func (w *FileRewriter) RewriteContent(path string) (bool, error) {
	info, err := w.fs.Stat(path)
	if err != nil {
		return false, accessError("stat", path, err)
	}
	data, err := afero.ReadFile(w.fs, path)
	if err != nil {
		return false, accessError("read", path, err)
	}
	if !utf8.Valid(data) {
		return false, decodeError("read", path, errors.New("content is not valid UTF-8"))
	}

	out, n := w.text.Rewrite(string(data))
	if n == 0 {
		return false, nil
	}
	if err := afero.WriteFile(w.fs, path, []byte(out), info.Mode().Perm()); err != nil {
		return false, accessError("write", path, err)
	}
	w.logger.Debug("rewrote text content", "path", path, "replacements", n)
	return true, nil
}

// RewriteTagFile rewrites a single binary tag document, keeping its
// compression. The file is only written when an identifier was replaced.
func (w *FileRewriter) RewriteTagFile(path string) (bool, error) {
	info, err := w.fs.Stat(path)
	if err != nil {
		return false, accessError("stat", path, err)
	}
	data, err := afero.ReadFile(w.fs, path)
	if err != nil {
		return false, accessError("read", path, err)
	}
	doc, err := nbt.Decode(data)
	if err != nil {
		return false, decodeError("decode", path, err)
	}

	n := w.tags.Rewrite(doc.Root)
	if n == 0 {
		return false, nil
	}
	out, err := doc.Encode()
	if err != nil {
		return false, decodeError("encode", path, err)
	}
	if err := afero.WriteFile(w.fs, path, out, info.Mode().Perm()); err != nil {
		return false, accessError("write", path, err)
	}
	w.logger.Debug("rewrote tag document", "path", path, "replacements", n, "compression", doc.Compression)
	return true, nil
}

// RewriteRegionFile rewrites every chunk of a region file. Chunks stored
// in external .mcc files are skipped here; those files are rewritten on
// their own. ctx is checked between chunks.
func (w *FileRewriter) RewriteRegionFile(ctx context.Context, path string) (bool, error) {
	info, err := w.fs.Stat(path)
	if err != nil {
		return false, accessError("stat", path, err)
	}
	data, err := afero.ReadFile(w.fs, path)
	if err != nil {
		return false, accessError("read", path, err)
	}
	file, err := region.Parse(data)
	if err != nil {
		return false, decodeError("decode", path, err)
	}

	total := 0
	for _, chunk := range file.Chunks {
		if chunk == nil || chunk.External {
			continue
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}
		doc, err := chunk.Document()
		if err != nil {
			return false, decodeError("decode", path, err)
		}
		n := w.tags.Rewrite(doc.Root)
		if n == 0 {
			continue
		}
		if err := chunk.SetDocument(doc); err != nil {
			return false, decodeError("encode", path, err)
		}
		total += n
	}
	if total == 0 {
		return false, nil
	}

	out, err := file.Bytes()
	if err != nil {
		return false, decodeError("encode", path, err)
	}
	if err := afero.WriteFile(w.fs, path, out, info.Mode().Perm()); err != nil {
		return false, accessError("write", path, err)
	}
	w.logger.Debug("rewrote region", "path", path, "replacements", total, "chunks", file.Len())
	return true, nil
}
