package toml

import (
	"unicode/utf8"

	"github.com/maurice/tomltree/internal/syntax"
)

// Result is a parsed document: the root table plus the errors found while
// building it. The tree is complete up to the statements that failed.
type Result struct {
	*Table
	errs ParseErrors
}

// HasErrors reports whether any errors were found.
func (r *Result) HasErrors() bool { return len(r.errs) > 0 }

// Errors returns the errors in the order they were found.
func (r *Result) Errors() ParseErrors { return append(ParseErrors(nil), r.errs...) }

// Err returns the errors as a single error, or nil if there were none.
func (r *Result) Err() error {
	if len(r.errs) == 0 {
		return nil
	}
	return r.Errors()
}

// Parse reads a TOML document from bytes. Malformed input does not make Parse
// fail: the problems are listed on the Result and the rest of the document is
// still built. The error is non-nil only for nil input, an invalid option, or
// a syntax error when FailOnSyntaxError is set.
func Parse(b []byte, opts ...Option) (*Result, error) {
	if b == nil {
		return nil, ErrNilInput
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	s := string(b)

	if off := invalidUTF8(b); off >= 0 {
		pe := newParseError(toPosition(syntax.Pos{Line: 1, Col: 1}.Advance(s[:off])), "Invalid UTF-8 byte sequence")
		pe.Source = s
		return &Result{Table: newTable(true), errs: ParseErrors{pe}}, nil
	}

	doc := syntax.Parse(s)
	if cfg.failFast {
		if errs := doc.Errors(); len(errs) > 0 {
			pe := newParseError(toPosition(errs[0].Pos()), "%s", errs[0].Message)
			pe.Source = s
			return nil, pe
		}
	}
	root, errs := newBuilder(cfg.version, s).build(doc)
	return &Result{Table: root, errs: errs}, nil
}

// ParseString is Parse for a string.
func ParseString(s string, opts ...Option) (*Result, error) {
	return Parse([]byte(s), opts...)
}

// invalidUTF8 returns the offset of the first invalid byte, or -1.
func invalidUTF8(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
