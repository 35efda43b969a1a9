package toml

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// JSONOption configures WriteJSON.
type JSONOption func(*jsonConfig)

type jsonConfig struct {
	indent          int
	typed           bool
	allStrings      bool
	explicitSeconds bool
}

// JSONIndent sets the number of spaces per nesting level. Zero writes
// everything on one line. The default is 2.
func JSONIndent(n int) JSONOption {
	return func(c *jsonConfig) { c.indent = max(n, 0) }
}

// JSONValuesAsObjectsWithType writes every scalar as an object holding its
// type and value, e.g. {"type": "integer", "value": 42}.
func JSONValuesAsObjectsWithType() JSONOption {
	return func(c *jsonConfig) { c.typed = true }
}

// JSONAllValuesAsStrings writes integers, floats and booleans as JSON
// strings.
func JSONAllValuesAsStrings() JSONOption {
	return func(c *jsonConfig) { c.allStrings = true }
}

// JSONExplicitSeconds always writes the seconds of times, even when zero.
func JSONExplicitSeconds() JSONOption {
	return func(c *jsonConfig) { c.explicitSeconds = true }
}

// WriteJSON writes a *Table or *Array as JSON. Keys keep their insertion
// order.
func WriteJSON(w io.Writer, v any, opts ...JSONOption) error {
	cfg := jsonConfig{indent: 2}
	for _, opt := range opts {
		opt(&cfg)
	}
	jw := &jsonWriter{w: bufio.NewWriter(w), cfg: cfg}
	switch v := v.(type) {
	case *Table:
		jw.table(v, 0)
	case *Array:
		jw.array(v, 0)
	default:
		return fmt.Errorf("%w: %T", ErrInvalidValueType, v)
	}
	if cfg.indent > 0 {
		jw.newline()
	}
	return jw.w.Flush()
}

// ToJSON returns the table as JSON.
func (t *Table) ToJSON(opts ...JSONOption) string {
	var b strings.Builder
	_ = WriteJSON(&b, t, opts...)
	return b.String()
}

// ToJSON returns the array as JSON.
func (a *Array) ToJSON(opts ...JSONOption) string {
	var b strings.Builder
	_ = WriteJSON(&b, a, opts...)
	return b.String()
}

type jsonWriter struct {
	w   *bufio.Writer
	cfg jsonConfig
}

func (jw *jsonWriter) newline() {
	if jw.cfg.indent > 0 {
		jw.w.WriteByte('\n')
	}
}

func (jw *jsonWriter) pad(n int) {
	for i := 0; i < n; i++ {
		jw.w.WriteByte(' ')
	}
}

func (jw *jsonWriter) table(t *Table, indent int) {
	if t.IsEmpty() {
		jw.w.WriteString("{}")
		return
	}
	jw.w.WriteByte('{')
	jw.newline()
	for i, key := range t.keys {
		if i > 0 {
			jw.w.WriteByte(',')
			jw.newline()
		}
		jw.pad(indent + jw.cfg.indent)
		jw.w.WriteString(jsonQuote(key))
		jw.w.WriteString(": ")
		jw.value(t.entries[key].value, indent)
	}
	jw.newline()
	jw.pad(indent)
	jw.w.WriteByte('}')
}

func (jw *jsonWriter) array(a *Array, indent int) {
	if a.IsEmpty() {
		jw.w.WriteString("[]")
		return
	}
	jw.w.WriteByte('[')
	jw.newline()
	for i, e := range a.elems {
		if i > 0 {
			jw.w.WriteByte(',')
			jw.newline()
		}
		jw.pad(indent + jw.cfg.indent)
		jw.value(e.value, indent)
	}
	jw.newline()
	jw.pad(indent)
	jw.w.WriteByte(']')
}

// value writes v; indent is the level of the container holding v.
func (jw *jsonWriter) value(v any, indent int) {
	switch v := v.(type) {
	case *Table:
		jw.table(v, indent+jw.cfg.indent)
		return
	case *Array:
		jw.array(v, indent+jw.cfg.indent)
		return
	}
	typ, ok := TypeOf(v)
	if !ok {
		panic(fmt.Sprintf("toml: unsupported value type %T", v))
	}
	text, quoted := jw.scalar(v)
	if quoted || jw.cfg.allStrings {
		text = jsonQuote(text)
	}
	if jw.cfg.typed {
		text = fmt.Sprintf(`{"type": %s, "value": %s}`, jsonQuote(typ.JSONName()), text)
	}
	jw.w.WriteString(text)
}

// scalar renders a scalar and reports whether JSON needs it quoted.
func (jw *jsonWriter) scalar(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case int64:
		return strconv.FormatInt(v, 10), false
	case float64:
		switch {
		case math.IsNaN(v):
			return "nan", true
		case math.IsInf(v, 1):
			return "+inf", true
		case math.IsInf(v, -1):
			return "-inf", true
		}
		return formatFloat(v), false
	case bool:
		return strconv.FormatBool(v), false
	case time.Time:
		return jw.dateTime(v), true
	case LocalDateTime:
		return v.LocalDate.String() + "T" + jw.time(v.LocalTime), true
	case LocalDate:
		return v.String(), true
	case LocalTime:
		return jw.time(v), true
	}
	panic(fmt.Sprintf("toml: unsupported value type %T", v))
}

// time renders HH:MM, HH:MM:SS, or HH:MM:SS with 3, 6 or 9 fraction digits,
// whichever is shortest without losing precision.
func (jw *jsonWriter) time(t LocalTime) string {
	s := fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
	if t.Second == 0 && t.Nanosecond == 0 && !jw.cfg.explicitSeconds {
		return s
	}
	s += fmt.Sprintf(":%02d", t.Second)
	switch {
	case t.Nanosecond == 0:
	case t.Nanosecond%1_000_000 == 0:
		s += fmt.Sprintf(".%03d", t.Nanosecond/1_000_000)
	case t.Nanosecond%1_000 == 0:
		s += fmt.Sprintf(".%06d", t.Nanosecond/1_000)
	default:
		s += fmt.Sprintf(".%09d", t.Nanosecond)
	}
	return s
}

func (jw *jsonWriter) dateTime(t time.Time) string {
	local := localOf(t)
	return local.LocalDate.String() + "T" + jw.time(local.LocalTime) + formatOffset(t)
}

// localOf returns the wall-clock date and time of t in its own zone.
func localOf(t time.Time) LocalDateTime {
	return LocalDateTime{
		LocalDate: LocalDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()},
		LocalTime: LocalTime{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanosecond: t.Nanosecond()},
	}
}

// formatOffset renders the zone offset of t as Z or ±HH:MM.
func formatOffset(t time.Time) string {
	_, secs := t.Zone()
	if secs == 0 {
		return "Z"
	}
	sign := '+'
	if secs < 0 {
		sign = '-'
		secs = -secs
	}
	s := fmt.Sprintf("%c%02d:%02d", sign, secs/3600, secs/60%60)
	if secs%60 != 0 {
		s += fmt.Sprintf(":%02d", secs%60)
	}
	return s
}

// formatFloat renders f in the shortest form that reads back exactly,
// keeping a fraction or exponent so it stays a float.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// jsonQuote quotes s as a JSON string.
func jsonQuote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
