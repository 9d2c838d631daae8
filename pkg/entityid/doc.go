// Package entityid normalizes, validates and formats the 128-bit
// identifiers that saved world data uses to reference players and
// entities.
//
// # Representations
//
// An identifier has two textual forms:
//
//  1. Canonical: "0123abcd-4567-89ab-cdef-0123456789ab", lowercase with
//     hyphens at offsets 8, 13, 18 and 23.
//
//  2. Raw: the same 32 lowercase hex digits without hyphens.
//
// Input is accepted in either form, in any case, and with hyphens in any
// position; every hyphen is stripped before validation. Two identifiers
// are equal when their raw forms are equal.
//
// Binary tag data stores the same value in two more shapes, exposed by
// [ID.Halves] and [ID.Words]:
//
//	most, least := id.Halves()  // "FooUUIDMost" / "FooUUIDLeast" longs
//	words := id.Words()         // 4-element int array
//
// Both are the big-endian split of the 16 identifier bytes, so formatting
// the parts as fixed-width hex and concatenating them yields [ID.Raw].
package entityid
