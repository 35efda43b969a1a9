package syntax

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// parser builds the statement tree from a token stream.
type parser struct {
	lex    *lexer
	cur    Token
	source string
}

func newParser(source string) *parser {
	p := &parser{lex: newLexer(source), source: source}
	p.cur = p.lex.Next()
	return p
}

func (p *parser) advance() Token {
	prev := p.cur
	p.cur = p.lex.Next()
	return prev
}

func (p *parser) at(t TokenType) bool { return p.cur.Type == t }

func (p *parser) errorAt(pos Pos, format string, args ...any) *Error {
	return &Error{baseNode: baseNode{nodeType: NodeError, pos: pos}, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) unexpected(want string) *Error {
	if p.at(TokError) {
		return p.errorAt(p.cur.Pos, "unterminated or invalid token %q", p.cur.Text)
	}
	return p.errorAt(p.cur.Pos, "expected %s, found %s", want, p.cur.Type)
}

// Parse parses a complete document. It never fails: statements that cannot be
// parsed become *Error nodes and parsing resumes on the next line.
func Parse(source string) *Document {
	p := newParser(source)
	doc := &Document{}
	for {
		if err := p.skipTrivia(); err != nil {
			doc.Statements = append(doc.Statements, err)
			continue
		}
		if p.at(TokEOF) {
			return doc
		}
		stmt, err := p.parseStatement()
		if err != nil {
			doc.Statements = append(doc.Statements, err)
			p.recover()
			continue
		}
		doc.Statements = append(doc.Statements, stmt)
	}
}

func (p *parser) parseStatement() (Node, *Error) {
	var stmt Node
	var err *Error
	if p.at(TokLBracket) {
		stmt, err = p.parseHeader()
	} else {
		stmt, err = p.parseKeyValue()
	}
	if err != nil {
		return nil, err
	}
	if err := p.endOfLine(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// recover discards the rest of the current line.
func (p *parser) recover() {
	p.lex.valueMode = false
	for !p.at(TokNewline) && !p.at(TokEOF) {
		p.advance()
	}
	if p.at(TokNewline) {
		p.advance()
	}
}

// skipTrivia consumes whitespace, newlines and comments between statements.
func (p *parser) skipTrivia() *Error {
	for p.at(TokWhitespace) || p.at(TokNewline) || p.at(TokComment) {
		tok := p.advance()
		if tok.Type == TokComment {
			if msg := checkComment(tok.Text); msg != "" {
				return p.errorAt(tok.Pos, "%s", msg)
			}
		}
	}
	return nil
}

// endOfLine accepts optional whitespace and a comment, then a newline or EOF.
func (p *parser) endOfLine() *Error {
	if p.at(TokWhitespace) {
		p.advance()
	}
	if p.at(TokComment) {
		tok := p.advance()
		if msg := checkComment(tok.Text); msg != "" {
			return p.errorAt(tok.Pos, "%s", msg)
		}
	}
	switch {
	case p.at(TokNewline):
		p.advance()
		return nil
	case p.at(TokEOF):
		return nil
	}
	return p.unexpected("newline or end of file")
}

// parseHeader handles [ and [[ disambiguation.
func (p *parser) parseHeader() (Node, *Error) {
	open := p.advance()
	arrayTable := false
	if p.at(TokLBracket) && p.cur.Off == open.Off+1 {
		p.advance()
		arrayTable = true
	}

	p.skipWhitespace()
	var key Key
	if !p.at(TokRBracket) {
		var err *Error
		if key, err = p.parseKey(); err != nil {
			return nil, err
		}
		p.skipWhitespace()
	}

	if !p.at(TokRBracket) {
		return nil, p.unexpected("']'")
	}
	closeTok := p.advance()
	if arrayTable {
		if !p.at(TokRBracket) || p.cur.Off != closeTok.Off+1 {
			return nil, p.unexpected("']]'")
		}
		p.advance()
		return &ArrayTable{baseNode: baseNode{nodeType: NodeArrayTable, pos: open.Pos}, Key: key}, nil
	}
	return &Table{baseNode: baseNode{nodeType: NodeTable, pos: open.Pos}, Key: key}, nil
}

func (p *parser) skipWhitespace() {
	if p.at(TokWhitespace) {
		p.advance()
	}
}

// parseKey parses a simple or dotted key.
func (p *parser) parseKey() (Key, *Error) {
	part, err := p.parseSimpleKey()
	if err != nil {
		return nil, err
	}
	key := Key{part}

	for p.at(TokDot) || (p.at(TokWhitespace) && p.lex.peekForDot()) {
		p.skipWhitespace()
		p.advance() // .
		p.skipWhitespace()
		if part, err = p.parseSimpleKey(); err != nil {
			return nil, err
		}
		key = append(key, part)
	}
	return key, nil
}

func (p *parser) parseSimpleKey() (KeyPart, *Error) {
	switch p.cur.Type { //nolint:exhaustive
	case TokBareKey, TokBoolean, TokInteger, TokFloat, TokDateTime:
		tok := p.advance()
		for i, r := range tok.Text {
			if !isBareKeyChar(r) {
				return KeyPart{}, p.errorAt(tok.Pos.Advance(tok.Text[:i]),
					"invalid character %q in bare key %q", r, tok.Text)
			}
		}
		return KeyPart{Text: tok.Text, Pos: tok.Pos}, nil
	case TokBasicString, TokLiteralString:
		tok := p.advance()
		return KeyPart{Text: tok.Text, Quoted: true, Pos: tok.Pos}, nil
	}
	return KeyPart{}, p.unexpected("key")
}

func isBareKeyChar(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9') || r == '-' || r == '_'
}

func (p *parser) parseKeyValue() (*KeyValue, *Error) {
	pos := p.cur.Pos
	key, err := p.parseKey()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if !p.at(TokEquals) {
		return nil, p.unexpected("'='")
	}
	p.lex.valueMode = true // dot is part of floats from here on
	p.advance()
	p.skipWhitespace()

	val, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.lex.valueMode = false

	return &KeyValue{baseNode: baseNode{nodeType: NodeKeyValue, pos: pos}, Key: key, Value: val}, nil
}

func (p *parser) parseValue() (Node, *Error) {
	switch p.cur.Type { //nolint:exhaustive
	case TokBasicString, TokMultiLineBasicStr, TokLiteralString, TokMultiLineLiteralStr:
		return &String{leafNode: newLeaf(NodeString, p.advance())}, nil
	case TokInteger:
		return &Integer{leafNode: newLeaf(NodeInteger, p.advance())}, nil
	case TokFloat:
		return &Float{leafNode: newLeaf(NodeFloat, p.advance())}, nil
	case TokBoolean:
		return &Boolean{leafNode: newLeaf(NodeBoolean, p.advance())}, nil
	case TokDateTime:
		return &DateTime{leafNode: newLeaf(NodeDateTime, p.advance())}, nil
	case TokLBracket:
		return p.parseArray()
	case TokLBrace:
		return p.parseInlineTable()
	}
	return nil, p.unexpected("value")
}

func (p *parser) parseArray() (Node, *Error) {
	open := p.advance()
	arr := &Array{baseNode: baseNode{nodeType: NodeArray, pos: open.Pos}}
	if err := p.skipArrayTrivia(); err != nil {
		return nil, err
	}

	for !p.at(TokRBracket) {
		p.lex.valueMode = true
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Elements = append(arr.Elements, val)
		p.lex.valueMode = true // an inline table element switches to key mode
		if err := p.skipArrayTrivia(); err != nil {
			return nil, err
		}
		if !p.at(TokComma) {
			break
		}
		p.advance()
		if err := p.skipArrayTrivia(); err != nil {
			return nil, err
		}
	}

	if !p.at(TokRBracket) {
		return nil, p.unexpected("',' or ']'")
	}
	closeTok := p.advance()
	arr.text = p.source[open.Off : closeTok.Off+1]
	return arr, nil
}

func (p *parser) skipArrayTrivia() *Error {
	for p.at(TokWhitespace) || p.at(TokComment) || p.at(TokNewline) {
		tok := p.advance()
		if tok.Type == TokComment {
			if msg := checkComment(tok.Text); msg != "" {
				return p.errorAt(tok.Pos, "%s", msg)
			}
		}
	}
	return nil
}

func (p *parser) parseInlineTable() (Node, *Error) {
	p.lex.valueMode = false // keys inside inline table
	open := p.advance()
	tbl := &InlineTable{baseNode: baseNode{nodeType: NodeInlineTable, pos: open.Pos}}
	if err := p.skipInlineTrivia(tbl); err != nil {
		return nil, err
	}

	for !p.at(TokRBrace) {
		kv, err := p.parseKeyValue()
		if err != nil {
			return nil, err
		}
		tbl.Entries = append(tbl.Entries, kv)
		if err := p.skipInlineTrivia(tbl); err != nil {
			return nil, err
		}
		if !p.at(TokComma) {
			break
		}
		p.advance()
		if err := p.skipInlineTrivia(tbl); err != nil {
			return nil, err
		}
		if p.at(TokRBrace) {
			tbl.TrailingComma = true
		}
	}

	if !p.at(TokRBrace) {
		return nil, p.unexpected("',' or '}'")
	}
	closeTok := p.advance()
	tbl.text = p.source[open.Off : closeTok.Off+1]
	return tbl, nil
}

// skipInlineTrivia is skipArrayTrivia for inline tables, noting whether the
// table spans lines or holds comments.
func (p *parser) skipInlineTrivia(tbl *InlineTable) *Error {
	if p.at(TokNewline) || p.at(TokComment) || (p.at(TokWhitespace) && p.lex.peekNewlineOrComment()) {
		tbl.Multiline = true
	}
	return p.skipArrayTrivia()
}

// ParseKey parses src as a standalone key expression (bare, quoted or
// dotted), surrounded by optional whitespace.
func ParseKey(src string) (Key, error) {
	if strings.TrimSpace(src) == "" {
		return nil, &Error{baseNode: baseNode{nodeType: NodeError, pos: Pos{Line: 1, Col: 1}}, Message: "empty key"}
	}
	p := newParser(src)
	p.skipWhitespace()
	key, err := p.parseKey()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if !p.at(TokEOF) {
		return nil, p.errorAt(p.cur.Pos, "unexpected %q after key", p.cur.Text)
	}
	return key, nil
}

// checkComment rejects control characters other than tab in a comment.
func checkComment(s string) string {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return "invalid UTF-8 in comment"
		}
		if r != '\t' && (r < 0x20 || r == 0x7F) {
			return fmt.Sprintf("control character U+%04X in comment", r)
		}
		i += size
	}
	return ""
}
