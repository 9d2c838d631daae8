// Package nbt reads and writes binary tag documents, the typed tree format
// used for level.dat, player data and region chunks.
//
// A document is one named root tag, usually a *Compound, optionally wrapped
// in gzip or zlib. [Decode] detects the wrapping and [Document.Encode]
// reproduces it. LZ4 block streams, used by newer region chunks, can be
// read but not written.
//
// Compounds remember entry order and strings keep their raw bytes, so an
// unmodified tree marshals back to the bytes it was read from.
//
// Tags form a closed set of types; code that walks a tree type-switches on
// them:
//
//	switch v := tag.(type) {
//	case *nbt.Compound:
//		for _, name := range v.Names() { ... }
//	case *nbt.List:
//		for _, item := range v.Items { ... }
//	case nbt.IntArray:
//		...
//	}
package nbt
