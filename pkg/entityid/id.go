package entityid

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RawLength is the number of hex digits in the raw form.
const RawLength = 32

// FormatError reports identifier text that is not 32 hex digits once
// hyphens are removed.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid UUID format %q: %s", e.Input, e.Reason)
}

// ID is a 128-bit player or entity identifier.
type ID struct {
	value uuid.UUID
}

// Normalize strips hyphens and lowercases text, returning the 32-digit raw
// form. Any other length or a non-hex character is a *FormatError.
func Normalize(text string) (string, error) {
	raw := strings.ToLower(strings.ReplaceAll(text, "-", ""))
	if len(raw) != RawLength {
		return "", &FormatError{
			Input:  text,
			Reason: fmt.Sprintf("expected %d hex digits, got %d characters", RawLength, len(raw)),
		}
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", &FormatError{
				Input:  text,
				Reason: fmt.Sprintf("non-hex character %q", c),
			}
		}
	}
	return raw, nil
}

// Canonicalize validates raw via Normalize and returns the hyphenated
// lowercase form.
func Canonicalize(raw string) (string, error) {
	n, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	return n[:8] + "-" + n[8:12] + "-" + n[12:16] + "-" + n[16:20] + "-" + n[20:], nil
}

// Parse parses canonical or raw identifier text in any case.
func Parse(text string) (ID, error) {
	raw, err := Normalize(text)
	if err != nil {
		return ID{}, err
	}
	u, err := uuid.Parse(raw)
	if err != nil {
		return ID{}, &FormatError{Input: text, Reason: err.Error()}
	}
	return ID{value: u}, nil
}

// MustParse parses an identifier, panicking on error.
// This is useful for test fixtures and constants where the value is known valid.
func MustParse(text string) ID {
	id, err := Parse(text)
	if err != nil {
		panic(fmt.Sprintf("invalid UUID: %s: %v", text, err))
	}
	return id
}

// FromHalves builds an identifier from the most and least significant
// 64-bit halves.
func FromHalves(most, least int64) ID {
	var id ID
	binary.BigEndian.PutUint64(id.value[:8], uint64(most))
	binary.BigEndian.PutUint64(id.value[8:], uint64(least))
	return id
}

// FromWords builds an identifier from four 32-bit words, most significant
// first.
func FromWords(words [4]int32) ID {
	var id ID
	for i, w := range words {
		binary.BigEndian.PutUint32(id.value[i*4:], uint32(w))
	}
	return id
}

// String returns the canonical form.
func (id ID) String() string {
	return id.value.String()
}

// Raw returns the 32 lowercase hex digits.
func (id ID) Raw() string {
	return hex.EncodeToString(id.value[:])
}

// Halves returns the most and least significant 64-bit halves as stored in
// a UUIDMost/UUIDLeast long pair.
func (id ID) Halves() (most, least int64) {
	return int64(binary.BigEndian.Uint64(id.value[:8])), int64(binary.BigEndian.Uint64(id.value[8:]))
}

// Words returns the identifier as four 32-bit words, most significant first.
func (id ID) Words() [4]int32 {
	var words [4]int32
	for i := range words {
		words[i] = int32(binary.BigEndian.Uint32(id.value[i*4:]))
	}
	return words
}

// IsZero returns true if this is the nil identifier.
func (id ID) IsZero() bool {
	return id.value == uuid.Nil
}

// Equal returns true if both identifiers have the same raw form.
func (id ID) Equal(other ID) bool {
	return id.value == other.value
}

// MarshalText implements encoding.TextMarshaler using the canonical form.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
