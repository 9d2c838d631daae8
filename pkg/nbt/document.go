package nbt

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// Compression identifies how a document is wrapped on disk. The values
// match the compression byte of region file chunks.
type Compression byte

const (
	CompressionGzip Compression = 1
	CompressionZlib Compression = 2
	CompressionNone Compression = 3
	CompressionLZ4  Compression = 4
)

// String returns the human-readable name of a compression scheme.
func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionZlib:
		return "zlib"
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", byte(c))
	}
}

// DetectCompression inspects the leading bytes of data. Uncompressed data
// starts with a tag type byte, which never collides with the gzip magic,
// a zlib header or the lz4 block magic.
func DetectCompression(data []byte) Compression {
	if bytes.HasPrefix(data, lz4Magic) {
		return CompressionLZ4
	}
	if len(data) >= 2 {
		if data[0] == 0x1f && data[1] == 0x8b {
			return CompressionGzip
		}
		if data[0]&0x0f == 8 && data[0]>>4 >= 1 && data[0]>>4 <= 7 &&
			(uint16(data[0])<<8|uint16(data[1]))%31 == 0 {
			return CompressionZlib
		}
	}
	return CompressionNone
}

// Decompress unwraps data compressed with c.
func Decompress(data []byte, c Compression) ([]byte, error) {
	var r io.ReadCloser
	var err error
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
		r, err = gzip.NewReader(bytes.NewReader(data))
	case CompressionZlib:
		r, err = zlib.NewReader(bytes.NewReader(data))
	case CompressionLZ4:
		return decompressLZ4(data)
	default:
		return nil, fmt.Errorf("nbt: unsupported compression %s", c)
	}
	if err != nil {
		return nil, fmt.Errorf("nbt: %s header: %w", c, err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("nbt: %s stream: %w", c, err)
	}
	return out, nil
}

// Compress wraps data with c.
func Compress(data []byte, c Compression) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
		w = gzip.NewWriter(&buf)
	case CompressionZlib:
		w = zlib.NewWriter(&buf)
	case CompressionLZ4:
		return nil, ErrLZ4Write
	default:
		return nil, fmt.Errorf("nbt: unsupported compression %s", c)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("nbt: %s write: %w", c, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("nbt: %s close: %w", c, err)
	}
	return buf.Bytes(), nil
}

// Document is a named root tag together with the compression it was read
// with, so it can be written back the same way.
type Document struct {
	Name        string
	Root        Tag
	Compression Compression
}

// Decode detects the compression of data and decodes the root tag.
func Decode(data []byte) (*Document, error) {
	return DecodeWith(data, DetectCompression(data))
}

// DecodeWith decodes data that is known to be compressed with c.
func DecodeWith(data []byte, c Compression) (*Document, error) {
	raw, err := Decompress(data, c)
	if err != nil {
		return nil, err
	}
	name, root, err := Unmarshal(raw)
	if err != nil {
		return nil, err
	}
	return &Document{Name: name, Root: root, Compression: c}, nil
}

// Encode serializes and compresses the document.
func (d *Document) Encode() ([]byte, error) {
	raw, err := Marshal(d.Name, d.Root)
	if err != nil {
		return nil, err
	}
	return Compress(raw, d.Compression)
}
