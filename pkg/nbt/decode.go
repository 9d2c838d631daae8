package nbt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// MaxDepth bounds list and compound nesting while decoding.
const MaxDepth = 512

// ErrTruncated is returned when the input ends inside a tag.
var ErrTruncated = errors.New("nbt: unexpected end of data")

// SyntaxError describes malformed tag data at a byte offset.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("nbt: %s at offset %d", e.Msg, e.Offset)
}

// Unmarshal decodes one uncompressed named root tag. Trailing bytes after
// the root tag are an error.
func Unmarshal(data []byte) (name string, root Tag, err error) {
	d := &decoder{buf: data}
	typ, err := d.tagType()
	if err != nil {
		return "", nil, err
	}
	if typ == TagEnd {
		return "", nil, d.syntaxError("root tag is TAG_End")
	}
	name, err = d.string()
	if err != nil {
		return "", nil, err
	}
	root, err = d.payload(typ, 0)
	if err != nil {
		return "", nil, err
	}
	if d.off != len(d.buf) {
		return "", nil, d.syntaxError(fmt.Sprintf("%d trailing bytes", len(d.buf)-d.off))
	}
	return name, root, nil
}

type decoder struct {
	buf []byte
	off int
}

func (d *decoder) syntaxError(msg string) error {
	return &SyntaxError{Offset: d.off, Msg: msg}
}

func (d *decoder) take(n int) ([]byte, error) {
	if n < 0 || len(d.buf)-d.off < n {
		return nil, ErrTruncated
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *decoder) tagType() (TagType, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	t := TagType(b[0])
	if t > TagLongArray {
		d.off--
		return 0, d.syntaxError(fmt.Sprintf("unknown tag type %d", b[0]))
	}
	return t, nil
}

func (d *decoder) u16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *decoder) u32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (d *decoder) u64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (d *decoder) length() (int, error) {
	n, err := d.u32()
	if err != nil {
		return 0, err
	}
	if int32(n) < 0 {
		return 0, d.syntaxError(fmt.Sprintf("negative length %d", int32(n)))
	}
	return int(n), nil
}

// string reads a length-prefixed string. The bytes are kept as-is, so
// modified UTF-8 survives a decode/encode cycle unchanged.
func (d *decoder) string() (string, error) {
	n, err := d.u16()
	if err != nil {
		return "", err
	}
	b, err := d.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *decoder) payload(typ TagType, depth int) (Tag, error) {
	switch typ {
	case TagByte:
		b, err := d.take(1)
		if err != nil {
			return nil, err
		}
		return Byte(int8(b[0])), nil
	case TagShort:
		v, err := d.u16()
		return Short(int16(v)), err
	case TagInt:
		v, err := d.u32()
		return Int(int32(v)), err
	case TagLong:
		v, err := d.u64()
		return Long(int64(v)), err
	case TagFloat:
		v, err := d.u32()
		return Float(math.Float32frombits(v)), err
	case TagDouble:
		v, err := d.u64()
		return Double(math.Float64frombits(v)), err
	case TagByteArray:
		n, err := d.length()
		if err != nil {
			return nil, err
		}
		b, err := d.take(n)
		if err != nil {
			return nil, err
		}
		out := make(ByteArray, n)
		copy(out, b)
		return out, nil
	case TagString:
		s, err := d.string()
		return String(s), err
	case TagIntArray:
		n, err := d.length()
		if err != nil {
			return nil, err
		}
		b, err := d.take(n * 4)
		if err != nil {
			return nil, err
		}
		out := make(IntArray, n)
		for i := range out {
			out[i] = int32(binary.BigEndian.Uint32(b[i*4:]))
		}
		return out, nil
	case TagLongArray:
		n, err := d.length()
		if err != nil {
			return nil, err
		}
		b, err := d.take(n * 8)
		if err != nil {
			return nil, err
		}
		out := make(LongArray, n)
		for i := range out {
			out[i] = int64(binary.BigEndian.Uint64(b[i*8:]))
		}
		return out, nil
	case TagList:
		return d.list(depth + 1)
	case TagCompound:
		return d.compound(depth + 1)
	default:
		return nil, d.syntaxError(fmt.Sprintf("unexpected %s", typ))
	}
}

func (d *decoder) list(depth int) (*List, error) {
	if depth > MaxDepth {
		return nil, d.syntaxError("nesting too deep")
	}
	elem, err := d.tagType()
	if err != nil {
		return nil, err
	}
	n, err := d.length()
	if err != nil {
		return nil, err
	}
	if elem == TagEnd && n > 0 {
		return nil, d.syntaxError("non-empty list of TAG_End")
	}
	if n == 0 {
		return &List{ElemType: elem}, nil
	}
	// Every element takes at least one byte.
	capHint := n
	if rem := len(d.buf) - d.off; capHint > rem {
		capHint = rem
	}
	l := &List{ElemType: elem, Items: make([]Tag, 0, capHint)}
	for i := 0; i < n; i++ {
		item, err := d.payload(elem, depth)
		if err != nil {
			return nil, err
		}
		l.Items = append(l.Items, item)
	}
	return l, nil
}

func (d *decoder) compound(depth int) (*Compound, error) {
	if depth > MaxDepth {
		return nil, d.syntaxError("nesting too deep")
	}
	c := NewCompound()
	for {
		typ, err := d.tagType()
		if err != nil {
			return nil, err
		}
		if typ == TagEnd {
			return c, nil
		}
		name, err := d.string()
		if err != nil {
			return nil, err
		}
		v, err := d.payload(typ, depth)
		if err != nil {
			return nil, err
		}
		c.Set(name, v)
	}
}
