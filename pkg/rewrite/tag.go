package rewrite

import (
	"strings"

	"github.com/hashicorp-forge/uuid-redirector/pkg/entityid"
	"github.com/hashicorp-forge/uuid-redirector/pkg/nbt"
)

const (
	mostSuffix  = "UUIDMost"
	leastSuffix = "UUIDLeast"
)

// TagRewriter replaces a job's source identifier inside a tag tree. It
// recognizes two encodings: a pair of longs named <prefix>UUIDMost and
// <prefix>UUIDLeast, and a 4-element array or list of 32-bit ints.
type TagRewriter struct {
	job Job
}

// NewTagRewriter returns a rewriter for job.
func NewTagRewriter(job Job) *TagRewriter {
	return &TagRewriter{job: job}
}

// Rewrite walks tag depth-first, rewriting matches in place, and returns
// the number of identifiers replaced.
func (r *TagRewriter) Rewrite(tag nbt.Tag) int {
	switch v := tag.(type) {
	case *nbt.Compound:
		return r.compound(v)
	case *nbt.List:
		return r.list(v)
	case nbt.IntArray:
		if len(v) == 4 && r.replaceWords(v) {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func (r *TagRewriter) compound(c *nbt.Compound) int {
	n := 0
	for _, name := range c.Names() {
		if strings.HasSuffix(name, mostSuffix) {
			leastName := strings.TrimSuffix(name, mostSuffix) + leastSuffix
			if r.replacePair(c, name, leastName) {
				n++
			}
		}
		v, _ := c.Get(name)
		n += r.Rewrite(v)
	}
	return n
}

func (r *TagRewriter) replacePair(c *nbt.Compound, mostName, leastName string) bool {
	mostTag, _ := c.Get(mostName)
	leastTag, ok := c.Get(leastName)
	if !ok {
		return false
	}
	most, ok := mostTag.(nbt.Long)
	if !ok {
		return false
	}
	least, ok := leastTag.(nbt.Long)
	if !ok {
		return false
	}
	if !entityid.FromHalves(int64(most), int64(least)).Equal(r.job.Source) {
		return false
	}
	newMost, newLeast := r.job.Target.Halves()
	c.Set(mostName, nbt.Long(newMost))
	c.Set(leastName, nbt.Long(newLeast))
	return true
}

func (r *TagRewriter) list(l *nbt.List) int {
	if l.ElemType == nbt.TagInt && len(l.Items) == 4 {
		var words [4]int32
		for i, item := range l.Items {
			v, ok := item.(nbt.Int)
			if !ok {
				return 0
			}
			words[i] = int32(v)
		}
		if !entityid.FromWords(words).Equal(r.job.Source) {
			return 0
		}
		for i, w := range r.job.Target.Words() {
			l.Items[i] = nbt.Int(w)
		}
		return 1
	}

	n := 0
	for _, item := range l.Items {
		n += r.Rewrite(item)
	}
	return n
}

// replaceWords overwrites a 4-element int array in place when it encodes
// the source identifier.
func (r *TagRewriter) replaceWords(arr nbt.IntArray) bool {
	if !entityid.FromWords([4]int32(arr)).Equal(r.job.Source) {
		return false
	}
	target := r.job.Target.Words()
	copy(arr, target[:])
	return true
}
