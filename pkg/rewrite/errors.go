package rewrite

import (
	"errors"
	"fmt"
)

var (
	// ErrFileAccess marks a failed list, read, write or rename.
	ErrFileAccess = errors.New("file access error")

	// ErrDecode marks text that is not UTF-8 or binary data that does not
	// parse as tag data.
	ErrDecode = errors.New("decode error")

	// ErrRenameConflict marks a rename whose target name already exists.
	ErrRenameConflict = errors.New("rename target already exists")
)

// EntryError is a failure confined to one filesystem entry. It matches its
// Kind and its cause with errors.Is.
type EntryError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *EntryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *EntryError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func accessError(op, path string, err error) error {
	return &EntryError{Op: op, Path: path, Kind: ErrFileAccess, Err: err}
}

func decodeError(op, path string, err error) error {
	return &EntryError{Op: op, Path: path, Kind: ErrDecode, Err: err}
}
