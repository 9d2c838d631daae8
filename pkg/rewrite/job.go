package rewrite

import (
	"fmt"

	"github.com/hashicorp-forge/uuid-redirector/pkg/entityid"
)

// Job is the identifier pair of one run. It is built once and never
// changes.
type Job struct {
	Source entityid.ID
	Target entityid.ID
}

// NewJob parses both identifiers. Either may be canonical or raw, in any
// case; invalid text yields an *entityid.FormatError.
func NewJob(source, target string) (Job, error) {
	src, err := entityid.Parse(source)
	if err != nil {
		return Job{}, fmt.Errorf("source identifier: %w", err)
	}
	dst, err := entityid.Parse(target)
	if err != nil {
		return Job{}, fmt.Errorf("target identifier: %w", err)
	}
	return Job{Source: src, Target: dst}, nil
}
