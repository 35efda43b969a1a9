package toml

import "fmt"

// Array is an ordered sequence of values. It is either a literal array or an
// array of tables built from [[header]] statements.
type Array struct {
	elems      []*entry
	tableArray bool

	// homogeneous rejects elements whose type differs from the first.
	homogeneous bool
}

func newArray(homogeneous bool) *Array {
	return &Array{homogeneous: homogeneous}
}

func newTableArray() *Array {
	return &Array{tableArray: true}
}

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.elems) }

// IsEmpty reports whether the array has no elements.
func (a *Array) IsEmpty() bool { return len(a.elems) == 0 }

// Get returns the element at index i. It panics if i is out of range.
func (a *Array) Get(i int) any { return a.elems[i].value }

// InputPositionOf returns where element i was defined. It panics if i is out
// of range.
func (a *Array) InputPositionOf(i int) Position { return a.elems[i].pos }

// IsTableArray reports whether the array was built from [[header]]
// statements.
func (a *Array) IsTableArray() bool { return a.tableArray }

// ToSlice converts the array to plain Go slices and maps, recursively.
func (a *Array) ToSlice() []any {
	out := make([]any, len(a.elems))
	for i, e := range a.elems {
		out[i] = plain(e.value)
	}
	return out
}

// append adds v to the array. It panics if v is not a TOML value and returns
// a *ParseError if the array is homogeneous and v's type does not fit.
func (a *Array) append(v any, pos Position) error {
	typ, ok := TypeOf(v)
	if !ok {
		panic(fmt.Sprintf("toml: unsupported value type %T", v))
	}
	if a.tableArray && typ != TypeTable {
		panic(fmt.Sprintf("toml: cannot add a %s to an array of tables", typ))
	}
	if a.homogeneous && len(a.elems) > 0 {
		first, _ := TypeOf(a.elems[0].value)
		if first != typ {
			return newParseError(pos, "Cannot add a %s to an array containing %ss", typ, first)
		}
	}
	a.elems = append(a.elems, &entry{value: v, pos: pos})
	return nil
}
