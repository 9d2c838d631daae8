package rewrite

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// uuidShape matches 32 hex digits with optional hyphens at the canonical
// group boundaries. Word boundaries are checked separately by isWordRune,
// because RE2's \b only knows ASCII word characters.
const uuidShape = `(?i)[0-9a-f]{8}-?[0-9a-f]{4}-?[0-9a-f]{4}-?[0-9a-f]{4}-?[0-9a-f]{12}`

// TextRewriter replaces occurrences of a job's source identifier in text.
// The same rule serves file bodies, file names and directory names.
type TextRewriter struct {
	pattern *regexp.Regexp
	source  string
	target  string
}

// NewTextRewriter compiles the matcher for job.
func NewTextRewriter(job Job) *TextRewriter {
	return &TextRewriter{
		pattern: regexp.MustCompile(uuidShape),
		source:  job.Source.Raw(),
		target:  job.Target.String(),
	}
}

// Rewrite returns s with every UUID-shaped substring equal to the source
// identifier replaced by the canonical target, and the number of
// replacements. A candidate must not touch a letter, digit or underscore
// on either side, in any script. Other UUID-shaped substrings keep their
// original casing and hyphenation.
func (r *TextRewriter) Rewrite(s string) (string, int) {
	var b strings.Builder
	n, last, pos := 0, 0, 0
	for pos < len(s) {
		loc := r.pattern.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if !isBoundary(s, start, end) {
			// Candidates start on an ASCII hex digit, so stepping one byte
			// stays on a rune boundary.
			pos = start + 1
			continue
		}
		pos = end
		if strings.ToLower(strings.ReplaceAll(s[start:end], "-", "")) != r.source {
			continue
		}
		b.WriteString(s[last:start])
		b.WriteString(r.target)
		last = end
		n++
	}
	if n == 0 {
		return s, 0
	}
	b.WriteString(s[last:])
	return b.String(), n
}

func isBoundary(s string, start, end int) bool {
	if start > 0 {
		if before, _ := utf8.DecodeLastRuneInString(s[:start]); isWordRune(before) {
			return false
		}
	}
	if end < len(s) {
		if after, _ := utf8.DecodeRuneInString(s[end:]); isWordRune(after) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
