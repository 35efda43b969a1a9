// Package syntax turns TOML source text into a tree of typed statement and
// value nodes. It checks grammar only: literal contents (escapes, number
// ranges, calendar dates) and table semantics are left to the caller.
package syntax

import (
	"fmt"
	"strings"
)

// Pos is a 1-based line and column. Columns count runes.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Col)
}

// Advance returns the position reached after reading text starting at p.
func (p Pos) Advance(text string) Pos {
	for _, r := range text {
		if r == '\n' {
			p.Line++
			p.Col = 1
			continue
		}
		p.Col++
	}
	return p
}

// NodeType identifies node kinds in the tree.
type NodeType int

const (
	NodeKeyValue NodeType = iota
	NodeTable
	NodeArrayTable
	NodeError
	NodeString
	NodeInteger
	NodeFloat
	NodeBoolean
	NodeDateTime
	NodeArray
	NodeInlineTable
)

// Node is implemented by every statement and value node.
type Node interface {
	Type() NodeType
	Pos() Pos
	Text() string
}

type baseNode struct {
	nodeType NodeType
	pos      Pos
}

func (b *baseNode) Type() NodeType { return b.nodeType }
func (b *baseNode) Pos() Pos       { return b.pos }

// leafNode is the common implementation for literal nodes.
type leafNode struct {
	baseNode
	text string
}

func (n *leafNode) Text() string { return n.text }

func newLeaf(nodeType NodeType, tok Token) leafNode {
	return leafNode{baseNode: baseNode{nodeType: nodeType, pos: tok.Pos}, text: tok.Text}
}

// Literal nodes. Text is the raw source, including quotes for strings.
type (
	String   struct{ leafNode }
	Integer  struct{ leafNode }
	Float    struct{ leafNode }
	Boolean  struct{ leafNode }
	DateTime struct{ leafNode }
)

// KeyPart is one segment of a possibly dotted key.
type KeyPart struct {
	Text   string // raw text including quotes if quoted
	Quoted bool
	Pos    Pos
}

// Key is a simple or dotted key as written.
type Key []KeyPart

func (k Key) String() string {
	var b strings.Builder
	for i, p := range k {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

// KeyValue is a key = value statement, at top level or inside an inline table.
type KeyValue struct {
	baseNode
	Key   Key
	Value Node
}

func (kv *KeyValue) Text() string { return kv.Key.String() + " = " + kv.Value.Text() }

// Table is a [table.header] statement. Key is nil for an empty header.
type Table struct {
	baseNode
	Key Key
}

func (t *Table) Text() string { return "[" + t.Key.String() + "]" }

// ArrayTable is an [[array.of.tables]] statement.
type ArrayTable struct {
	baseNode
	Key Key
}

func (a *ArrayTable) Text() string { return "[[" + a.Key.String() + "]]" }

// Error stands in for a statement that could not be parsed. The parser skips
// to the next line after producing one.
type Error struct {
	baseNode
	Message string
}

func (e *Error) Text() string  { return e.Message }
func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.pos, e.Message) }

// Array is a [v1, v2, ...] literal.
type Array struct {
	baseNode
	Elements []Node
	text     string
}

func (a *Array) Text() string { return a.text }

// InlineTable is a { k = v, ... } literal. Multiline and TrailingComma
// record syntax that only newer TOML versions allow.
type InlineTable struct {
	baseNode
	Entries       []*KeyValue
	Multiline     bool
	TrailingComma bool
	text          string
}

func (n *InlineTable) Text() string { return n.text }

// Document is the ordered list of top-level statements: *KeyValue, *Table,
// *ArrayTable and *Error.
type Document struct {
	Statements []Node
}

// Errors returns the syntax errors in document order.
func (d *Document) Errors() []*Error {
	var out []*Error
	for _, n := range d.Statements {
		if e, ok := n.(*Error); ok {
			out = append(out, e)
		}
	}
	return out
}
