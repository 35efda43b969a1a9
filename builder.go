package toml

import (
	"errors"
	"fmt"

	"github.com/maurice/tomltree/internal/syntax"
)

// builder turns a syntax tree into a document tree in one pass, collecting
// errors as it goes. A statement that fails leaves the tree as it was.
type builder struct {
	root    *Table
	current *Table
	// pending holds tables created implicitly inside inline table values.
	// They are marked defined before the next header.
	pending []*Table
	errs    ParseErrors
	version Version
	source  string
}

func newBuilder(version Version, source string) *builder {
	root := newTable(true)
	return &builder{root: root, current: root, version: version, source: source}
}

func (b *builder) build(doc *syntax.Document) (*Table, ParseErrors) {
	for _, stmt := range doc.Statements {
		b.statement(stmt)
	}
	b.flushPending()
	return b.root, b.errs
}

func (b *builder) report(err error) {
	var pe *ParseError
	if !errors.As(err, &pe) {
		pe = &ParseError{Message: err.Error()}
	}
	pe.Source = b.source
	b.errs = append(b.errs, pe)
}

func (b *builder) statement(n syntax.Node) {
	switch n := n.(type) {
	case *syntax.KeyValue:
		b.keyValue(n)
	case *syntax.Table:
		b.table(n)
	case *syntax.ArrayTable:
		b.arrayTable(n)
	case *syntax.Error:
		b.report(newParseError(toPosition(n.Pos()), "%s", n.Message))
	default:
		panic(fmt.Sprintf("toml: unexpected statement node %T", n))
	}
}

func (b *builder) keyValue(n *syntax.KeyValue) {
	path, v, err := b.entry(n)
	if err != nil {
		b.report(err)
		return
	}
	if err := b.current.set(path, v, toPosition(n.Pos()), nil); err != nil {
		b.report(err)
	}
}

// entry resolves the key and evaluates the value of a key/value pair.
func (b *builder) entry(n *syntax.KeyValue) ([]string, any, error) {
	path, err := resolveKey(n.Key, b.version)
	if err != nil {
		return nil, nil, err
	}
	if len(path) > 1 && b.version.before(V0_5_0) {
		return nil, nil, newParseError(toPosition(n.Pos()), "Dotted keys are not supported")
	}
	v, err := b.value(n.Value)
	if err != nil {
		return nil, nil, err
	}
	return path, v, nil
}

func (b *builder) flushPending() {
	for _, t := range b.pending {
		t.defined = true
	}
	b.pending = nil
}

func (b *builder) header(key syntax.Key, pos syntax.Pos) ([]string, error) {
	if len(key) == 0 {
		return nil, newParseError(toPosition(pos), "Empty table key")
	}
	return resolveKey(key, b.version)
}

func (b *builder) table(n *syntax.Table) {
	b.flushPending()
	path, err := b.header(n.Key, n.Pos())
	if err != nil {
		b.report(err)
		return
	}
	t, err := b.root.createTable(path, toPosition(n.Pos()))
	if err != nil {
		b.report(err)
		return
	}
	b.current = t
}

func (b *builder) arrayTable(n *syntax.ArrayTable) {
	b.flushPending()
	path, err := b.header(n.Key, n.Pos())
	if err != nil {
		b.report(err)
		return
	}
	t, err := b.root.createTableArray(path, toPosition(n.Pos()))
	if err != nil {
		b.report(err)
		return
	}
	b.current = t
}

// value evaluates a value node.
func (b *builder) value(n syntax.Node) (any, error) {
	pos := toPosition(n.Pos())
	switch n := n.(type) {
	case *syntax.String:
		return decodeString(n.Text(), n.Pos(), b.version)
	case *syntax.Integer:
		v, msg := decodeInteger(n.Text())
		if msg != "" {
			return nil, newParseError(pos, "%s", msg)
		}
		return v, nil
	case *syntax.Float:
		v, msg := decodeFloat(n.Text())
		if msg != "" {
			return nil, newParseError(pos, "%s", msg)
		}
		return v, nil
	case *syntax.Boolean:
		v, msg := decodeBoolean(n.Text())
		if msg != "" {
			return nil, newParseError(pos, "%s", msg)
		}
		return v, nil
	case *syntax.DateTime:
		return decodeDateTime(n.Text(), n.Pos(), b.version)
	case *syntax.Array:
		return b.array(n)
	case *syntax.InlineTable:
		return b.inlineTable(n)
	}
	panic(fmt.Sprintf("toml: unexpected value node %T", n))
}

func (b *builder) array(n *syntax.Array) (*Array, error) {
	arr := newArray(b.version.before(V1_0_0))
	for _, el := range n.Elements {
		v, err := b.value(el)
		if err != nil {
			return nil, err
		}
		if err := arr.append(v, toPosition(el.Pos())); err != nil {
			return nil, err
		}
	}
	return arr, nil
}

func (b *builder) inlineTable(n *syntax.InlineTable) (*Table, error) {
	pos := toPosition(n.Pos())
	if b.version.before(V1_1_0) {
		if n.Multiline {
			return nil, newParseError(pos, "Newlines are not allowed in inline tables (TOML versions before 1.1.0)")
		}
		if n.TrailingComma {
			return nil, newParseError(pos, "Trailing commas are not allowed in inline tables (TOML versions before 1.1.0)")
		}
	}
	t := newTable(true)
	for _, kv := range n.Entries {
		path, v, err := b.entry(kv)
		if err != nil {
			return nil, err
		}
		if err := t.set(path, v, toPosition(kv.Pos()), &b.pending); err != nil {
			return nil, err
		}
	}
	t.inline = true
	return t, nil
}
