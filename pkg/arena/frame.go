package arena

import (
	"fmt"
	"strings"
)

// DataType is the payload tag carried by a frame.
type DataType int

const (
	Int DataType = iota
	Ptr
	Bool
)

// NumDataTypes is the number of payload tags.
const NumDataTypes = int(Bool) + 1

// DataTypes lists every tag in declaration order.
func DataTypes() []DataType {
	return []DataType{Int, Ptr, Bool}
}

func (t DataType) String() string {
	switch t {
	case Int:
		return "Int"
	case Ptr:
		return "Ptr"
	case Bool:
		return "Bool"
	default:
		return fmt.Sprintf("DataType(%d)", int(t))
	}
}

// ParseDataType converts a tag name (case-insensitive) into a DataType.
func ParseDataType(s string) (DataType, error) {
	for _, t := range DataTypes() {
		if strings.EqualFold(strings.TrimSpace(s), t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown data type %q", s)
}

// Index addresses a slot in the arena.
type Index int

// Nil is returned where an index is absent.
const Nil Index = -1

// Frame is one stack element together with the index of the element below it.
// The zero value has no back-link; Prev is only meaningful when HasPrev is set.
type Frame struct {
	Type    DataType
	Prev    Index
	HasPrev bool
}

// Above returns a frame of type t linked to prev.
func Above(t DataType, prev Index) Frame {
	return Frame{Type: t, Prev: prev, HasPrev: true}
}

// Previous returns the back-link, if any.
func (f Frame) Previous() (Index, bool) {
	if !f.HasPrev {
		return Nil, false
	}
	return f.Prev, true
}
