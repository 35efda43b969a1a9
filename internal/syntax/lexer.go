package syntax

import "strings"

// TokenType identifies lexer token kinds.
type TokenType int

const (
	TokError TokenType = iota - 1

	TokEOF TokenType = iota
	TokNewline
	TokWhitespace
	TokComment

	TokEquals
	TokDot
	TokComma
	TokLBracket
	TokRBracket
	TokLBrace
	TokRBrace

	TokBareKey
	TokBasicString
	TokMultiLineBasicStr
	TokLiteralString
	TokMultiLineLiteralStr
	TokInteger
	TokFloat
	TokBoolean
	TokDateTime
)

var tokenNames = map[TokenType]string{
	TokError:               "invalid input",
	TokEOF:                 "end of input",
	TokNewline:             "newline",
	TokWhitespace:          "whitespace",
	TokComment:             "comment",
	TokEquals:              "'='",
	TokDot:                 "'.'",
	TokComma:               "','",
	TokLBracket:            "'['",
	TokRBracket:            "']'",
	TokLBrace:              "'{'",
	TokRBrace:              "'}'",
	TokBareKey:             "bare key",
	TokBasicString:         "string",
	TokMultiLineBasicStr:   "multi-line string",
	TokLiteralString:       "literal string",
	TokMultiLineLiteralStr: "multi-line literal string",
	TokInteger:             "integer",
	TokFloat:               "float",
	TokBoolean:             "boolean",
	TokDateTime:            "date-time",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return "unknown token"
}

// Token is a lexer token with position.
type Token struct {
	Type TokenType
	Text string
	Off  int // byte offset in source
	Pos  Pos
}

// lexer scans TOML source into tokens. It always emits single brackets
// (never [[/]]); the parser handles array-of-tables disambiguation.
type lexer struct {
	src       string
	off       int
	line      int
	col       int
	valueMode bool // when true, dot is part of numeric tokens
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) atEnd() bool { return l.off >= len(l.src) }

func (l *lexer) peekAt(n int) byte {
	if l.off+n >= len(l.src) {
		return 0
	}
	return l.src[l.off+n]
}

func (l *lexer) peek() byte { return l.peekAt(0) }

func (l *lexer) advance() {
	if l.atEnd() {
		return
	}
	ch := l.src[l.off]
	l.off++
	switch {
	case ch == '\n':
		l.line++
		l.col = 1
	case ch < 0x80 || ch >= 0xC0:
		// continuation bytes do not start a new column
		l.col++
	}
}

func (l *lexer) mark() (int, Pos) { return l.off, Pos{Line: l.line, Col: l.col} }

func (l *lexer) emit(typ TokenType, start int, pos Pos) Token {
	return Token{Type: typ, Text: l.src[start:l.off], Off: start, Pos: pos}
}

// Next returns the next token.
//
//nolint:gocyclo
func (l *lexer) Next() Token {
	start, pos := l.mark()
	if l.atEnd() {
		return Token{Type: TokEOF, Off: start, Pos: pos}
	}

	ch := l.peek()
	switch {
	case ch == '\n' || (ch == '\r' && l.peekAt(1) == '\n'):
		if ch == '\r' {
			l.advance()
		}
		l.advance()
		return l.emit(TokNewline, start, pos)
	case ch == ' ' || ch == '\t':
		for !l.atEnd() && (l.peek() == ' ' || l.peek() == '\t') {
			l.advance()
		}
		return l.emit(TokWhitespace, start, pos)
	case ch == '#':
		for !l.atEnd() && l.peek() != '\n' && !(l.peek() == '\r' && l.peekAt(1) == '\n') {
			l.advance()
		}
		return l.emit(TokComment, start, pos)
	case ch == '"':
		return l.scanQuoted('"', TokBasicString, TokMultiLineBasicStr, true, start, pos)
	case ch == '\'':
		return l.scanQuoted('\'', TokLiteralString, TokMultiLineLiteralStr, false, start, pos)
	}

	if typ, ok := punctuation[ch]; ok {
		l.advance()
		return l.emit(typ, start, pos)
	}
	return l.scanBareOrValue(start, pos)
}

var punctuation = map[byte]TokenType{
	'=': TokEquals,
	'.': TokDot,
	',': TokComma,
	'[': TokLBracket,
	']': TokRBracket,
	'{': TokLBrace,
	'}': TokRBrace,
}

// scanQuoted scans a single or multi-line string delimited by q. Escapes are
// only skipped over; the string decoder interprets them.
func (l *lexer) scanQuoted(q byte, single, multi TokenType, escapes bool, start int, pos Pos) Token {
	l.advance()
	if l.peek() == q && l.peekAt(1) == q {
		l.advance()
		l.advance()
		return l.scanMultiLine(q, multi, escapes, start, pos)
	}
	for !l.atEnd() {
		ch := l.peek()
		if ch == '\n' || ch == '\r' {
			break
		}
		l.advance()
		if escapes && ch == '\\' {
			if !l.atEnd() && l.peek() != '\n' && l.peek() != '\r' {
				l.advance()
			}
			continue
		}
		if ch == q {
			return l.emit(single, start, pos)
		}
	}
	return l.emit(TokError, start, pos)
}

func (l *lexer) scanMultiLine(q byte, typ TokenType, escapes bool, start int, pos Pos) Token {
	for !l.atEnd() {
		ch := l.peek()
		if escapes && ch == '\\' {
			l.advance()
			l.advance()
			continue
		}
		if ch != q {
			l.advance()
			continue
		}
		// Up to two quotes may directly precede the closing delimiter.
		count := 0
		for !l.atEnd() && l.peek() == q && count < 5 {
			l.advance()
			count++
		}
		if count >= 3 {
			return l.emit(typ, start, pos)
		}
	}
	return l.emit(TokError, start, pos)
}

// scanBareOrValue scans bare keys, booleans, numbers, dates, and special floats.
func (l *lexer) scanBareOrValue(start int, pos Pos) Token {
	// In numeric context dot is part of the token (floats, fractional
	// seconds), not a key separator.
	numCtx := l.startsNumeric()

	for !l.atEnd() && !isTokenDelimiter(l.peek(), numCtx) {
		l.advance()
	}
	if l.off == start {
		l.advance()
		return l.emit(TokError, start, pos)
	}

	// Space-separated date-time: "1979-05-27 07:32:00Z".
	if numCtx && isDatePrefix(l.src[start:l.off]) && l.peekSpaceTime() {
		l.advance()
		for !l.atEnd() && !isTokenDelimiter(l.peek(), true) {
			l.advance()
		}
	}

	return l.emit(classifyBareToken(l.src[start:l.off]), start, pos)
}

func (l *lexer) startsNumeric() bool {
	if !l.valueMode {
		return false
	}
	ch := l.peek()
	return isDigit(ch) || ((ch == '+' || ch == '-') && isDigit(l.peekAt(1)))
}

// peekSpaceTime reports whether the next chars are a space followed by HH:.
func (l *lexer) peekSpaceTime() bool {
	return l.peek() == ' ' && isDigit(l.peekAt(1)) && isDigit(l.peekAt(2)) && l.peekAt(3) == ':'
}

// peekForDot reports whether a dot follows the current position, optionally
// preceded by whitespace.
func (l *lexer) peekForDot() bool {
	i := l.off
	for i < len(l.src) && (l.src[i] == ' ' || l.src[i] == '\t') {
		i++
	}
	return i < len(l.src) && l.src[i] == '.'
}

// peekNewlineOrComment reports whether a newline or comment follows the
// current position, optionally preceded by whitespace.
func (l *lexer) peekNewlineOrComment() bool {
	i := l.off
	for i < len(l.src) && (l.src[i] == ' ' || l.src[i] == '\t') {
		i++
	}
	return i < len(l.src) && (l.src[i] == '\n' || l.src[i] == '\r' || l.src[i] == '#')
}

func isTokenDelimiter(ch byte, numericContext bool) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '#', '=', ',', '[', ']', '{', '}', '"', '\'':
		return true
	case '.':
		return !numericContext
	}
	return false
}

// classifyBareToken determines the token type for an unquoted token string.
// Malformed numbers and dates are still classified as such so the literal
// decoder can report a precise error.
func classifyBareToken(s string) TokenType {
	switch {
	case s == "true" || s == "false":
		return TokBoolean
	case isSpecialFloat(s):
		return TokFloat
	case isDateTimeLike(s):
		return TokDateTime
	case looksLikeNumber(s):
		return classifyNumber(s)
	}
	return TokBareKey
}

func isSpecialFloat(s string) bool {
	switch s {
	case "inf", "+inf", "-inf", "nan", "+nan", "-nan":
		return true
	}
	return false
}

func isDateTimeLike(s string) bool {
	if len(s) < 5 || !isDigit(s[0]) {
		return false
	}
	return strings.ContainsRune(s, ':') || strings.Count(s, "-") >= 2
}

func looksLikeNumber(s string) bool {
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	return s != "" && isDigit(s[0])
}

func classifyNumber(s string) TokenType {
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'o' || s[1] == 'b') {
		return TokInteger
	}
	if strings.ContainsAny(s, ".eE") {
		return TokFloat
	}
	return TokInteger
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

// isDatePrefix checks if s looks like YYYY-MM-DD.
func isDatePrefix(s string) bool {
	return len(s) == 10 && isDigit(s[0]) && s[4] == '-' && s[7] == '-'
}
