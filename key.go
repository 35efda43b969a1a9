package toml

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/maurice/tomltree/internal/syntax"
)

var simpleKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func toPosition(p syntax.Pos) Position {
	return Position{Line: p.Line, Column: p.Col}
}

// resolveKey converts a syntax key to its unescaped segments.
func resolveKey(key syntax.Key, version Version) ([]string, error) {
	path := make([]string, 0, len(key))
	for _, part := range key {
		if !part.Quoted {
			path = append(path, strings.TrimSpace(part.Text))
			continue
		}
		s, err := decodeString(part.Text, part.Pos, version)
		if err != nil {
			return nil, err
		}
		path = append(path, s)
	}
	return path, nil
}

// ParseDottedKey splits a dotted key such as `server."host name".port` into
// its segments. Whitespace around segments and dots is ignored. An unquoted
// segment with whitespace inside it is taken literally, as if quoted.
func ParseDottedKey(dottedKey string) ([]string, error) {
	key, err := syntax.ParseKey(quoteSpacedSegments(dottedKey))
	if err != nil {
		return nil, invalidKey(err)
	}
	path, err := resolveKey(key, Head)
	if err != nil {
		return nil, invalidKey(err)
	}
	return path, nil
}

func invalidKey(err error) *ParseError {
	pe := &ParseError{err: ErrInvalidKey}
	switch e := err.(type) {
	case *syntax.Error:
		pe.Message = "Invalid key: " + e.Message
		pe.Position = toPosition(e.Pos())
	case *ParseError:
		pe.Message = "Invalid key: " + e.Message
		pe.Position = e.Position
	default:
		pe.Message = fmt.Sprintf("Invalid key: %v", err)
	}
	return pe
}

// quoteSpacedSegments wraps unquoted segments that contain inner whitespace
// in double quotes. Quoted segments are left alone.
func quoteSpacedSegments(s string) string {
	var segs []string
	var b strings.Builder
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' && quote == '"' && i+1 < len(s) {
				b.WriteByte(c)
				i++
				c = s[i]
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '.':
			segs = append(segs, b.String())
			b.Reset()
			continue
		}
		b.WriteByte(c)
	}
	segs = append(segs, b.String())

	for i, seg := range segs {
		trimmed := strings.TrimSpace(seg)
		if trimmed == "" || strings.ContainsAny(trimmed, `"'`) {
			continue
		}
		if strings.ContainsAny(trimmed, " \t") {
			segs[i] = `"` + Escape(trimmed) + `"`
		}
	}
	return strings.Join(segs, ".")
}

// JoinKeyPath joins segments into a dotted key, quoting and escaping every
// segment that is not a plain bare key.
func JoinKeyPath(path []string) string {
	var b strings.Builder
	for i, seg := range path {
		if i > 0 {
			b.WriteByte('.')
		}
		writeKey(&b, seg)
	}
	return b.String()
}

func writeKey(b *strings.Builder, key string) {
	if simpleKey.MatchString(key) {
		b.WriteString(key)
		return
	}
	b.WriteByte('"')
	b.WriteString(Escape(key))
	b.WriteByte('"')
}

// CanonicalDottedKey parses a dotted key and joins it back in canonical form.
func CanonicalDottedKey(dottedKey string) (string, error) {
	path, err := ParseDottedKey(dottedKey)
	if err != nil {
		return "", err
	}
	return JoinKeyPath(path), nil
}
