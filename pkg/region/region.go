// Package region reads and writes Anvil region files (.mca): a 32x32 grid
// of chunk slots, each holding one compressed binary tag document.
//
// The file starts with two 4 KiB header sectors. The first holds one
// location entry per slot (3-byte sector offset, 1-byte sector count), the
// second one timestamp per slot. Chunk data follows in whole sectors as a
// 4-byte length, a compression byte and the compressed payload. A
// compression byte with the high bit set marks a chunk stored in a
// separate .mcc file; such slots carry no payload here.
package region

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hashicorp-forge/uuid-redirector/pkg/nbt"
)

const (
	// SectorSize is the allocation unit of a region file.
	SectorSize = 4096

	// ChunkCount is the number of chunk slots in a region.
	ChunkCount = 1024

	headerSize   = 2 * SectorSize
	externalFlag = 0x80
	maxSectors   = 0xff
)

// ErrExternal is returned when decoding a chunk whose payload lives in a
// separate .mcc file.
var ErrExternal = errors.New("region: chunk is stored externally")

// Chunk is one occupied slot.
type Chunk struct {
	Index     int
	Timestamp uint32

	// Compression is the raw compression byte without the external flag.
	Compression byte
	External    bool
	Payload     []byte
}

// File is a parsed region. Empty slots are nil.
type File struct {
	Chunks [ChunkCount]*Chunk
}

// Parse reads a region file. A zero-length input is an empty region.
func Parse(data []byte) (*File, error) {
	f := &File{}
	if len(data) == 0 {
		return f, nil
	}
	if len(data) < headerSize {
		return nil, fmt.Errorf("region: file is %d bytes, shorter than the %d byte header", len(data), headerSize)
	}

	for i := 0; i < ChunkCount; i++ {
		loc := binary.BigEndian.Uint32(data[i*4:])
		if loc == 0 {
			continue
		}
		offset := int(loc>>8) * SectorSize
		if offset < headerSize || offset+5 > len(data) {
			return nil, fmt.Errorf("region: chunk %d has offset %d outside the file", i, offset)
		}

		length := int(binary.BigEndian.Uint32(data[offset:]))
		if length < 1 || offset+4+length > len(data) {
			return nil, fmt.Errorf("region: chunk %d has invalid length %d", i, length)
		}
		kind := data[offset+4]

		c := &Chunk{
			Index:       i,
			Timestamp:   binary.BigEndian.Uint32(data[SectorSize+i*4:]),
			Compression: kind &^ externalFlag,
			External:    kind&externalFlag != 0,
		}
		if !c.External {
			c.Payload = make([]byte, length-1)
			copy(c.Payload, data[offset+5:offset+4+length])
		}
		f.Chunks[i] = c
	}
	return f, nil
}

// Len returns the number of occupied slots.
func (f *File) Len() int {
	n := 0
	for _, c := range f.Chunks {
		if c != nil {
			n++
		}
	}
	return n
}

// Bytes lays the region out again, packing chunks in slot order directly
// after the header. An empty region encodes to zero bytes.
func (f *File) Bytes() ([]byte, error) {
	if f.Len() == 0 {
		return nil, nil
	}

	out := make([]byte, headerSize)
	sector := 2
	for i, c := range f.Chunks {
		if c == nil {
			continue
		}
		kind := c.Compression
		var payload []byte
		if c.External {
			kind |= externalFlag
		} else {
			payload = c.Payload
		}

		size := 5 + len(payload)
		count := (size + SectorSize - 1) / SectorSize
		if count > maxSectors {
			return nil, fmt.Errorf("region: chunk %d needs %d sectors, limit is %d", i, count, maxSectors)
		}

		binary.BigEndian.PutUint32(out[i*4:], uint32(sector)<<8|uint32(count))
		binary.BigEndian.PutUint32(out[SectorSize+i*4:], c.Timestamp)

		out = binary.BigEndian.AppendUint32(out, uint32(1+len(payload)))
		out = append(out, kind)
		out = append(out, payload...)
		out = append(out, make([]byte, count*SectorSize-size)...)
		sector += count
	}
	return out, nil
}

// Document decodes the chunk payload.
func (c *Chunk) Document() (*nbt.Document, error) {
	if c.External {
		return nil, ErrExternal
	}
	doc, err := nbt.DecodeWith(c.Payload, nbt.Compression(c.Compression))
	if err != nil {
		return nil, fmt.Errorf("chunk %d: %w", c.Index, err)
	}
	return doc, nil
}

// SetDocument replaces the payload with doc, compressed the way the chunk
// was. LZ4 chunks are written back with zlib, which the game reads from
// the compression byte like any other chunk.
func (c *Chunk) SetDocument(doc *nbt.Document) error {
	if c.External {
		return ErrExternal
	}
	if nbt.Compression(c.Compression) == nbt.CompressionLZ4 {
		c.Compression = byte(nbt.CompressionZlib)
	}
	doc.Compression = nbt.Compression(c.Compression)
	payload, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("chunk %d: %w", c.Index, err)
	}
	c.Payload = payload
	return nil
}
