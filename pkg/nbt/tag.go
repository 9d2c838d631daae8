package nbt

import "fmt"

// TagType is the one-byte type id that prefixes every tag on the wire.
type TagType byte

const (
	TagEnd TagType = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
	TagLongArray
)

// String returns the conventional name of the tag type.
func (t TagType) String() string {
	switch t {
	case TagEnd:
		return "TAG_End"
	case TagByte:
		return "TAG_Byte"
	case TagShort:
		return "TAG_Short"
	case TagInt:
		return "TAG_Int"
	case TagLong:
		return "TAG_Long"
	case TagFloat:
		return "TAG_Float"
	case TagDouble:
		return "TAG_Double"
	case TagByteArray:
		return "TAG_Byte_Array"
	case TagString:
		return "TAG_String"
	case TagList:
		return "TAG_List"
	case TagCompound:
		return "TAG_Compound"
	case TagIntArray:
		return "TAG_Int_Array"
	case TagLongArray:
		return "TAG_Long_Array"
	default:
		return fmt.Sprintf("TAG_Unknown(%d)", byte(t))
	}
}

// Tag is a node of a document tree. The set of implementations is closed:
// Byte, Short, Int, Long, Float, Double, ByteArray, String, IntArray,
// LongArray, *List and *Compound.
type Tag interface {
	Type() TagType
	isTag()
}

type (
	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	ByteArray []byte
	String    string
	IntArray  []int32
	LongArray []int64
)

func (Byte) Type() TagType      { return TagByte }
func (Short) Type() TagType     { return TagShort }
func (Int) Type() TagType       { return TagInt }
func (Long) Type() TagType      { return TagLong }
func (Float) Type() TagType     { return TagFloat }
func (Double) Type() TagType    { return TagDouble }
func (ByteArray) Type() TagType { return TagByteArray }
func (String) Type() TagType    { return TagString }
func (IntArray) Type() TagType  { return TagIntArray }
func (LongArray) Type() TagType { return TagLongArray }
func (*List) Type() TagType     { return TagList }
func (*Compound) Type() TagType { return TagCompound }

func (Byte) isTag()      {}
func (Short) isTag()     {}
func (Int) isTag()       {}
func (Long) isTag()      {}
func (Float) isTag()     {}
func (Double) isTag()    {}
func (ByteArray) isTag() {}
func (String) isTag()    {}
func (IntArray) isTag()  {}
func (LongArray) isTag() {}
func (*List) isTag()     {}
func (*Compound) isTag() {}

// List is an ordered sequence of tags that all have type ElemType. An empty
// list keeps the element type it was read with.
type List struct {
	ElemType TagType
	Items    []Tag
}

// NewList returns a list of the given element type.
func NewList(elemType TagType, items ...Tag) *List {
	return &List{ElemType: elemType, Items: items}
}

// Len returns the number of items.
func (l *List) Len() int {
	return len(l.Items)
}

// Compound maps unique names to tags and remembers insertion order, so a
// decoded compound encodes back in the order it was read.
type Compound struct {
	names  []string
	values map[string]Tag
}

// NewCompound returns an empty compound.
func NewCompound() *Compound {
	return &Compound{values: make(map[string]Tag)}
}

// Get returns the tag stored under name.
func (c *Compound) Get(name string) (Tag, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Set stores tag under name. A new name is appended; an existing name keeps
// its position.
func (c *Compound) Set(name string, tag Tag) {
	if c.values == nil {
		c.values = make(map[string]Tag)
	}
	if _, ok := c.values[name]; !ok {
		c.names = append(c.names, name)
	}
	c.values[name] = tag
}

// Names returns the entry names in order.
func (c *Compound) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of entries.
func (c *Compound) Len() int {
	return len(c.names)
}
