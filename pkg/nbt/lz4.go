package nbt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// Chunks written with LZ4 use the block stream of lz4-java: a sequence of
// blocks, each with a 21-byte header, usually ended by an empty block.
var lz4Magic = []byte("LZ4Block")

const (
	lz4HeaderSize = 21
	lz4MethodRaw  = 0x10
	lz4MethodLZ4  = 0x20
)

// ErrLZ4Write is returned when encoding a document with CompressionLZ4.
// Only reading is supported; callers re-encode such data with zlib.
var ErrLZ4Write = errors.New("nbt: writing lz4 streams is not supported")

// decompressLZ4 reads an lz4-java block stream. Block checksums are not
// verified; the decoded tag tree is validated instead.
func decompressLZ4(data []byte) ([]byte, error) {
	var out []byte
	for len(data) > 0 {
		if len(data) < lz4HeaderSize || !bytes.Equal(data[:len(lz4Magic)], lz4Magic) {
			return nil, fmt.Errorf("nbt: lz4 stream: bad block header")
		}
		method := data[8] & 0xf0
		compressed := int(int32(binary.LittleEndian.Uint32(data[9:])))
		original := int(int32(binary.LittleEndian.Uint32(data[13:])))
		data = data[lz4HeaderSize:]

		if compressed < 0 || original < 0 || compressed > len(data) {
			return nil, fmt.Errorf("nbt: lz4 stream: bad block length")
		}
		if original == 0 {
			return out, nil
		}

		block := data[:compressed]
		data = data[compressed:]
		switch method {
		case lz4MethodRaw:
			if compressed != original {
				return nil, fmt.Errorf("nbt: lz4 stream: raw block of %d bytes claims %d", compressed, original)
			}
			out = append(out, block...)
		case lz4MethodLZ4:
			buf := make([]byte, original)
			n, err := lz4.UncompressBlock(block, buf)
			if err != nil {
				return nil, fmt.Errorf("nbt: lz4 stream: %w", err)
			}
			if n != original {
				return nil, fmt.Errorf("nbt: lz4 stream: got %d bytes, expected %d", n, original)
			}
			out = append(out, buf...)
		default:
			return nil, fmt.Errorf("nbt: lz4 stream: unknown block method %#x", method)
		}
	}
	return out, nil
}
