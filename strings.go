package toml

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/maurice/tomltree/internal/syntax"
)

// stringDecoder decodes one quoted string token. Errors are located at the
// offending character inside the token.
type stringDecoder struct {
	raw     string
	pos     syntax.Pos
	version Version
	b       strings.Builder
}

// decodeString decodes a basic, literal, multi-line basic or multi-line
// literal string token, quotes included.
func decodeString(raw string, pos syntax.Pos, version Version) (string, error) {
	d := &stringDecoder{raw: raw, pos: pos, version: version}
	switch {
	case len(raw) >= 6 && strings.HasPrefix(raw, `"""`):
		return d.basic(3, true)
	case len(raw) >= 6 && strings.HasPrefix(raw, "'''"):
		return d.literal(3, true)
	case len(raw) >= 2 && raw[0] == '"':
		return d.basic(1, false)
	case len(raw) >= 2 && raw[0] == '\'':
		return d.literal(1, false)
	}
	return "", d.errorAt(0, "Invalid string")
}

func (d *stringDecoder) errorAt(off int, format string, args ...any) *ParseError {
	return newParseError(toPosition(d.pos.Advance(d.raw[:off])), format, args...)
}

// body returns the byte range of the content, skipping a newline that
// directly follows an opening multi-line delimiter.
func (d *stringDecoder) body(quotes int, multiline bool) (int, int) {
	start, end := quotes, len(d.raw)-quotes
	if multiline {
		switch {
		case strings.HasPrefix(d.raw[start:end], "\n"):
			start++
		case strings.HasPrefix(d.raw[start:end], "\r\n"):
			start += 2
		}
	}
	return start, end
}

func (d *stringDecoder) literal(quotes int, multiline bool) (string, error) {
	start, end := d.body(quotes, multiline)
	for i := start; i < end; {
		r, size, err := d.char(i, end, multiline)
		if err != nil {
			return "", err
		}
		d.b.WriteRune(r)
		i += size
	}
	return d.b.String(), nil
}

func (d *stringDecoder) basic(quotes int, multiline bool) (string, error) {
	start, end := d.body(quotes, multiline)
	for i := start; i < end; {
		if d.raw[i] != '\\' {
			r, size, err := d.char(i, end, multiline)
			if err != nil {
				return "", err
			}
			d.b.WriteRune(r)
			i += size
			continue
		}
		next, err := d.escape(i, end, multiline)
		if err != nil {
			return "", err
		}
		i = next
	}
	return d.b.String(), nil
}

// char validates the unescaped character at i.
func (d *stringDecoder) char(i, end int, multiline bool) (rune, int, error) {
	r, size := utf8.DecodeRuneInString(d.raw[i:end])
	switch {
	case r == utf8.RuneError && size == 1:
		return 0, 0, d.errorAt(i, "Invalid UTF-8 in string")
	case r == '\t':
		if d.version.before(V1_0_0) {
			return 0, 0, d.errorAt(i, "Use \\t to represent a tab in a string (TOML versions before 1.0.0)")
		}
	case r == '\n' && multiline:
	case r == '\r' && multiline:
		if i+1 >= end || d.raw[i+1] != '\n' {
			return 0, 0, d.errorAt(i, "Bare carriage return in string")
		}
	case r < 0x20 || r == 0x7F:
		return 0, 0, d.errorAt(i, "Control character U+%04X in string", r)
	}
	return r, size, nil
}

// escape decodes the escape sequence starting with the backslash at i and
// returns the offset just past it.
//
//nolint:gocyclo
func (d *stringDecoder) escape(i, end int, multiline bool) (int, error) {
	if i+1 >= end {
		return 0, d.errorAt(i, "Invalid escape sequence '\\'")
	}
	c := d.raw[i+1]
	switch c {
	case 'b':
		d.b.WriteByte('\b')
	case 't':
		d.b.WriteByte('\t')
	case 'n':
		d.b.WriteByte('\n')
	case 'f':
		d.b.WriteByte('\f')
	case 'r':
		d.b.WriteByte('\r')
	case '"':
		d.b.WriteByte('"')
	case '\\':
		d.b.WriteByte('\\')
	case 'e':
		if d.version.before(V1_1_0) {
			return 0, d.errorAt(i, "Invalid escape sequence '\\e' (TOML versions before 1.1.0)")
		}
		d.b.WriteByte(0x1B)
	case 'x':
		if d.version.before(V1_1_0) {
			return 0, d.errorAt(i, "Invalid escape sequence '\\x' (TOML versions before 1.1.0)")
		}
		return d.codepoint(i, end, 2)
	case 'u':
		return d.codepoint(i, end, 4)
	case 'U':
		return d.codepoint(i, end, 8)
	case ' ', '\t', '\n', '\r':
		if multiline {
			if next, ok := skipLineEndingBackslash(d.raw[:end], i+1); ok {
				return next, nil
			}
		}
		return 0, d.errorAt(i, "Invalid escape sequence '\\%c'", c)
	default:
		r, _ := utf8.DecodeRuneInString(d.raw[i+1 : end])
		return 0, d.errorAt(i, "Invalid escape sequence '\\%c'", r)
	}
	return i + 2, nil
}

func (d *stringDecoder) codepoint(i, end, digits int) (int, error) {
	hex := d.raw[i+2 : min(i+2+digits, end)]
	if len(hex) != digits {
		return 0, d.errorAt(i, "Invalid unicode escape sequence")
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || n > utf8.MaxRune || (n >= 0xD800 && n <= 0xDFFF) {
		return 0, d.errorAt(i, "Invalid unicode escape sequence")
	}
	d.b.WriteRune(rune(n))
	return i + 2 + digits, nil
}

// skipLineEndingBackslash skips the whitespace and newlines after a
// line-ending backslash. It fails if no newline follows the whitespace.
func skipLineEndingBackslash(s string, i int) (int, bool) {
	sawNewline := false
	for i < len(s) {
		switch s[i] {
		case ' ', '\t':
		case '\n':
			sawNewline = true
		case '\r':
			if i+1 >= len(s) || s[i+1] != '\n' {
				return 0, false
			}
		default:
			return i, sawNewline
		}
		i++
	}
	return i, sawNewline
}

// Escape returns s escaped for use inside a TOML basic string. The result
// is plain ASCII: non-ASCII characters become \u or \U escapes.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		default:
			escapeRune(&b, r)
		}
	}
	return b.String()
}

func escapeRune(b *strings.Builder, r rune) {
	switch {
	case r < 0x20 || r == 0x7F || (r >= 0x80 && r <= 0xFFFF):
		fmt.Fprintf(b, `\u%04X`, r)
	case r > 0xFFFF:
		fmt.Fprintf(b, `\U%08X`, r)
	default:
		b.WriteRune(r)
	}
}
