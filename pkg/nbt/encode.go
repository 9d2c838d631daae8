package nbt

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Marshal encodes root as an uncompressed named root tag.
func Marshal(name string, root Tag) ([]byte, error) {
	if root == nil {
		return nil, fmt.Errorf("nbt: nil root tag")
	}
	e := &encoder{}
	e.buf = append(e.buf, byte(root.Type()))
	if err := e.string(name); err != nil {
		return nil, err
	}
	if err := e.payload(root); err != nil {
		return nil, err
	}
	return e.buf, nil
}

type encoder struct {
	buf []byte
}

func (e *encoder) string(s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("nbt: string of %d bytes exceeds %d", len(s), math.MaxUint16)
	}
	e.buf = binary.BigEndian.AppendUint16(e.buf, uint16(len(s)))
	e.buf = append(e.buf, s...)
	return nil
}

func (e *encoder) length(n int) error {
	if n > math.MaxInt32 {
		return fmt.Errorf("nbt: length %d exceeds %d", n, math.MaxInt32)
	}
	e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(n))
	return nil
}

func (e *encoder) payload(tag Tag) error {
	switch v := tag.(type) {
	case Byte:
		e.buf = append(e.buf, byte(v))
	case Short:
		e.buf = binary.BigEndian.AppendUint16(e.buf, uint16(v))
	case Int:
		e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(v))
	case Long:
		e.buf = binary.BigEndian.AppendUint64(e.buf, uint64(v))
	case Float:
		e.buf = binary.BigEndian.AppendUint32(e.buf, math.Float32bits(float32(v)))
	case Double:
		e.buf = binary.BigEndian.AppendUint64(e.buf, math.Float64bits(float64(v)))
	case ByteArray:
		if err := e.length(len(v)); err != nil {
			return err
		}
		e.buf = append(e.buf, v...)
	case String:
		return e.string(string(v))
	case IntArray:
		if err := e.length(len(v)); err != nil {
			return err
		}
		for _, x := range v {
			e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(x))
		}
	case LongArray:
		if err := e.length(len(v)); err != nil {
			return err
		}
		for _, x := range v {
			e.buf = binary.BigEndian.AppendUint64(e.buf, uint64(x))
		}
	case *List:
		return e.list(v)
	case *Compound:
		return e.compound(v)
	default:
		return fmt.Errorf("nbt: cannot encode %T", tag)
	}
	return nil
}

func (e *encoder) list(l *List) error {
	if l.ElemType == TagEnd && len(l.Items) > 0 {
		return fmt.Errorf("nbt: non-empty list of TAG_End")
	}
	e.buf = append(e.buf, byte(l.ElemType))
	if err := e.length(len(l.Items)); err != nil {
		return err
	}
	for i, item := range l.Items {
		if item == nil || item.Type() != l.ElemType {
			return fmt.Errorf("nbt: list item %d is %T, list holds %s", i, item, l.ElemType)
		}
		if err := e.payload(item); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) compound(c *Compound) error {
	for _, name := range c.names {
		v := c.values[name]
		if v == nil {
			return fmt.Errorf("nbt: compound entry %q is nil", name)
		}
		e.buf = append(e.buf, byte(v.Type()))
		if err := e.string(name); err != nil {
			return err
		}
		if err := e.payload(v); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, byte(TagEnd))
	return nil
}
