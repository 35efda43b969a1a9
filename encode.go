package toml

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// WriteTOML writes a *Table or *Array as TOML. Within each table, plain
// values come first in insertion order, followed by sub-tables and arrays of
// tables as [header] and [[header]] sections, also in insertion order.
// Parsing the output yields a tree equal to v.
func WriteTOML(w io.Writer, v any) error {
	tw := &tomlWriter{w: bufio.NewWriter(w)}
	switch v := v.(type) {
	case *Table:
		tw.table(v, nil, 0)
	case *Array:
		tw.array(v, 0)
		tw.w.WriteByte('\n')
	default:
		return fmt.Errorf("%w: %T", ErrInvalidValueType, v)
	}
	return tw.w.Flush()
}

// ToTOML returns the table as TOML.
func (t *Table) ToTOML() string {
	var b strings.Builder
	_ = WriteTOML(&b, t)
	return b.String()
}

// ToTOML returns the array as TOML.
func (a *Array) ToTOML() string {
	var b strings.Builder
	_ = WriteTOML(&b, a)
	return b.String()
}

type tomlWriter struct {
	w *bufio.Writer
}

func (tw *tomlWriter) pad(depth int) {
	for i := 0; i < depth*2; i++ {
		tw.w.WriteByte(' ')
	}
}

func (tw *tomlWriter) key(k string) {
	var b strings.Builder
	writeKey(&b, k)
	tw.w.WriteString(b.String())
}

// isSection reports whether v is written as a [header] or [[header]].
func isSection(v any) bool {
	switch v := v.(type) {
	case *Table:
		return true
	case *Array:
		return onlyTables(v)
	}
	return false
}

// onlyTables reports whether a is non-empty and holds nothing but tables.
func onlyTables(a *Array) bool {
	if a.IsEmpty() {
		return false
	}
	for _, e := range a.elems {
		if _, ok := e.value.(*Table); !ok {
			return false
		}
	}
	return true
}

func (tw *tomlWriter) table(t *Table, path []string, depth int) {
	var sections []string
	for _, k := range t.keys {
		v := t.entries[k].value
		if isSection(v) {
			sections = append(sections, k)
			continue
		}
		tw.pad(depth)
		tw.key(k)
		tw.w.WriteString(" = ")
		tw.value(v, depth)
		tw.w.WriteByte('\n')
	}

	for _, k := range sections {
		sub := append(append(make([]string, 0, len(path)+1), path...), k)
		switch v := t.entries[k].value.(type) {
		case *Table:
			tw.pad(depth)
			tw.w.WriteString("[" + JoinKeyPath(sub) + "]\n")
			tw.table(v, sub, depth+1)
		case *Array:
			for _, e := range v.elems {
				tw.pad(depth)
				tw.w.WriteString("[[" + JoinKeyPath(sub) + "]]\n")
				tw.table(e.value.(*Table), sub, depth+1)
			}
		}
	}
}

// array writes a literal array, one element per line.
func (tw *tomlWriter) array(a *Array, depth int) {
	if a.IsEmpty() {
		tw.w.WriteString("[]")
		return
	}
	tw.w.WriteString("[\n")
	for i, e := range a.elems {
		tw.pad(depth + 1)
		tw.value(e.value, depth+1)
		if i < len(a.elems)-1 {
			tw.w.WriteByte(',')
		}
		tw.w.WriteByte('\n')
	}
	tw.pad(depth)
	tw.w.WriteByte(']')
}

// value writes a value in key = value position. Tables are written inline.
func (tw *tomlWriter) value(v any, depth int) {
	switch v := v.(type) {
	case *Array:
		tw.array(v, depth)
	case *Table:
		tw.inlineTable(v)
	default:
		tw.w.WriteString(scalarTOML(v))
	}
}

func (tw *tomlWriter) inlineTable(t *Table) {
	if t.IsEmpty() {
		tw.w.WriteString("{}")
		return
	}
	tw.w.WriteString("{ ")
	for i, k := range t.keys {
		if i > 0 {
			tw.w.WriteString(", ")
		}
		tw.key(k)
		tw.w.WriteString(" = ")
		tw.inlineValue(t.entries[k].value)
	}
	tw.w.WriteString(" }")
}

// inlineValue writes a value inside an inline table, on a single line.
func (tw *tomlWriter) inlineValue(v any) {
	switch v := v.(type) {
	case *Table:
		tw.inlineTable(v)
	case *Array:
		tw.w.WriteByte('[')
		for i, e := range v.elems {
			if i > 0 {
				tw.w.WriteString(", ")
			}
			tw.inlineValue(e.value)
		}
		tw.w.WriteByte(']')
	default:
		tw.w.WriteString(scalarTOML(v))
	}
}

func scalarTOML(v any) string {
	switch v := v.(type) {
	case string:
		return `"` + Escape(v) + `"`
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatFloat(v)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return localOf(v).String() + formatOffset(v)
	case LocalDateTime:
		return v.String()
	case LocalDate:
		return v.String()
	case LocalTime:
		return v.String()
	}
	panic(fmt.Sprintf("toml: unsupported value type %T", v))
}
