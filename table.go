package toml

import "fmt"

type entry struct {
	value any
	pos   Position
}

// Table is an insertion-ordered mapping from keys to values. Tables returned
// from Parse are read-only.
type Table struct {
	keys    []string
	entries map[string]*entry

	// defined is false while the table exists only as an intermediate
	// segment of a longer path.
	defined bool
	// inline tables are closed once their literal ends.
	inline bool
}

func newTable(defined bool) *Table {
	return &Table{entries: map[string]*entry{}, defined: defined}
}

// Len returns the number of direct entries.
func (t *Table) Len() int { return len(t.keys) }

// IsEmpty reports whether the table has no entries.
func (t *Table) IsEmpty() bool { return len(t.keys) == 0 }

// Keys returns the direct keys in insertion order.
func (t *Table) Keys() []string { return append([]string(nil), t.keys...) }

// IsDefined reports whether the table was targeted directly by a header, an
// inline table or an assignment, rather than only created on the way to a
// longer path.
func (t *Table) IsDefined() bool { return t.defined }

// Get returns the value at a dotted key such as `a."b.c".d`, or nil if there
// is none. A key that cannot be parsed reports as absent.
func (t *Table) Get(dottedKey string) any {
	v, _ := t.getDotted(dottedKey)
	return v
}

// Contains reports whether a value exists at the dotted key.
func (t *Table) Contains(dottedKey string) bool {
	_, ok := t.getDotted(dottedKey)
	return ok
}

func (t *Table) getDotted(dottedKey string) (any, bool) {
	path, err := ParseDottedKey(dottedKey)
	if err != nil {
		return nil, false
	}
	return t.GetPath(path)
}

// GetPath returns the value at path. The empty path addresses t itself.
func (t *Table) GetPath(path []string) (any, bool) {
	if len(path) == 0 {
		return t, true
	}
	e := t.lookup(path)
	if e == nil {
		return nil, false
	}
	return e.value, true
}

// InputPositionOf returns where the value at the dotted key was defined.
func (t *Table) InputPositionOf(dottedKey string) (Position, bool) {
	path, err := ParseDottedKey(dottedKey)
	if err != nil {
		return Position{}, false
	}
	return t.InputPositionOfPath(path)
}

// InputPositionOfPath returns where the value at path was defined. The empty
// path is the start of the document.
func (t *Table) InputPositionOfPath(path []string) (Position, bool) {
	if len(path) == 0 {
		return Position{Line: 1, Column: 1}, true
	}
	e := t.lookup(path)
	if e == nil {
		return Position{}, false
	}
	return e.pos, true
}

func (t *Table) lookup(path []string) *entry {
	table := t
	for _, key := range path[:len(path)-1] {
		e, ok := table.entries[key]
		if !ok {
			return nil
		}
		sub, ok := e.value.(*Table)
		if !ok {
			return nil
		}
		table = sub
	}
	return table.entries[path[len(path)-1]]
}

// PathEntry is a value with its full path from the table it was listed from.
type PathEntry struct {
	Path  []string
	Value any
}

// EntryPathSet lists every value reachable through nested tables, depth
// first in insertion order. Tables themselves are listed before their
// contents only when includeTables is set. Arrays are not descended into.
func (t *Table) EntryPathSet(includeTables bool) []PathEntry {
	var out []PathEntry
	t.walk(nil, includeTables, func(path []string, v any) {
		out = append(out, PathEntry{Path: path, Value: v})
	})
	return out
}

// KeyPathSet lists the paths of EntryPathSet.
func (t *Table) KeyPathSet(includeTables bool) [][]string {
	var out [][]string
	t.walk(nil, includeTables, func(path []string, _ any) {
		out = append(out, path)
	})
	return out
}

// DottedKeySet lists the paths of EntryPathSet as canonical dotted keys.
func (t *Table) DottedKeySet(includeTables bool) []string {
	var out []string
	t.walk(nil, includeTables, func(path []string, _ any) {
		out = append(out, JoinKeyPath(path))
	})
	return out
}

func (t *Table) walk(prefix []string, includeTables bool, fn func([]string, any)) {
	for _, key := range t.keys {
		path := append(append(make([]string, 0, len(prefix)+1), prefix...), key)
		v := t.entries[key].value
		sub, ok := v.(*Table)
		if !ok {
			fn(path, v)
			continue
		}
		if includeTables {
			fn(path, v)
		}
		sub.walk(path, includeTables, fn)
	}
}

// ToMap converts the table to plain Go maps and slices, recursively.
func (t *Table) ToMap() map[string]any {
	m := make(map[string]any, len(t.keys))
	for _, key := range t.keys {
		m[key] = plain(t.entries[key].value)
	}
	return m
}

func plain(v any) any {
	switch v := v.(type) {
	case *Table:
		return v.ToMap()
	case *Array:
		return v.ToSlice()
	}
	return v
}

// GetAs returns the value at the dotted key if it exists and has type T.
func GetAs[T any](t *Table, dottedKey string) (T, bool) {
	v, ok := t.Get(dottedKey).(T)
	return v, ok
}

func (t *Table) put(key string, v any, pos Position) {
	t.keys = append(t.keys, key)
	t.entries[key] = &entry{value: v, pos: pos}
}

// set inserts v at path, creating missing intermediate tables as implicit.
// The walk never passes through an array of tables. Tables it creates are
// appended to created when that is non-nil. On error t is unchanged.
func (t *Table) set(path []string, v any, pos Position, created *[]*Table) error {
	if len(path) == 0 {
		panic("toml: set with empty path")
	}
	if _, ok := TypeOf(v); !ok {
		panic(fmt.Sprintf("toml: unsupported value type %T", v))
	}
	parent, err := t.ensureTable(path[:len(path)-1], pos, false, created)
	if err != nil {
		return err
	}
	key := path[len(path)-1]
	if prev, ok := parent.entries[key]; ok {
		return newParseError(pos, "%s previously defined at %s", JoinKeyPath(path), prev.pos)
	}
	parent.put(key, v, pos)
	return nil
}

// createTable returns the table at path for a [header], creating it as
// defined or promoting an implicit one. The entry position of a promoted
// table moves to the header.
func (t *Table) createTable(path []string, pos Position) (*Table, error) {
	if len(path) == 0 {
		return t, nil
	}
	parent, err := t.ensureTable(path[:len(path)-1], pos, true, nil)
	if err != nil {
		return nil, err
	}
	key := path[len(path)-1]
	e, ok := parent.entries[key]
	if !ok {
		sub := newTable(true)
		parent.put(key, sub, pos)
		return sub, nil
	}
	if sub, isTable := e.value.(*Table); isTable && !sub.defined {
		sub.defined = true
		e.pos = pos
		return sub, nil
	}
	return nil, newParseError(pos, "%s previously defined at %s", JoinKeyPath(path), e.pos)
}

// createTableArray appends a new table to the array of tables at path for a
// [[header]], creating the array if needed.
func (t *Table) createTableArray(path []string, pos Position) (*Table, error) {
	if len(path) == 0 {
		panic("toml: createTableArray with empty path")
	}
	parent, err := t.ensureTable(path[:len(path)-1], pos, true, nil)
	if err != nil {
		return nil, err
	}
	key := path[len(path)-1]
	e, ok := parent.entries[key]
	if !ok {
		e = &entry{value: newTableArray(), pos: pos}
		parent.keys = append(parent.keys, key)
		parent.entries[key] = e
	}
	arr, isArray := e.value.(*Array)
	if !isArray {
		return nil, newParseError(pos, "%s is not an array (previously defined at %s)", JoinKeyPath(path), e.pos)
	}
	if !arr.tableArray {
		return nil, newParseError(pos, "%s previously defined as a literal array at %s", JoinKeyPath(path), e.pos)
	}
	sub := newTable(true)
	_ = arr.append(sub, pos)
	return sub, nil
}

// ensureTable returns the table at path, creating missing segments as
// implicit tables. Segments are only created past the end of the existing
// tree, so a failed walk leaves t unchanged.
func (t *Table) ensureTable(path []string, pos Position, followTableArrays bool, created *[]*Table) (*Table, error) {
	table := t
	for i, key := range path {
		e, ok := table.entries[key]
		if !ok {
			for _, k := range path[i:] {
				sub := newTable(false)
				table.put(k, sub, pos)
				if created != nil {
					*created = append(*created, sub)
				}
				table = sub
			}
			return table, nil
		}
		next := step(e.value, followTableArrays)
		if next == nil {
			return nil, newParseError(pos, "%s is not a table (previously defined at %s)", JoinKeyPath(path[:i+1]), e.pos)
		}
		if next.inline {
			return nil, newParseError(pos, "%s is an inline table (previously defined at %s)", JoinKeyPath(path[:i+1]), e.pos)
		}
		table = next
	}
	return table, nil
}

// step returns the table a path walk continues into from v: v itself when it
// is a table, or the last element of an array of tables when allowed.
func step(v any, followTableArrays bool) *Table {
	switch v := v.(type) {
	case *Table:
		return v
	case *Array:
		if followTableArrays && v.tableArray && v.Len() > 0 {
			last, _ := v.Get(v.Len() - 1).(*Table)
			return last
		}
	}
	return nil
}
