package template

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType identifies the type of token.
type TokenType int

// TokenType constants for conditional tag tokens.
const (
	TokenText  TokenType = iota // Literal text, including markup the lexer does not own
	TokenIf                     // {{#if path}}
	TokenElse                   // {{#else}}
	TokenEndIf                  // {{/if}}
	TokenEOF                    // End of input
)

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "TEXT"
	case TokenIf:
		return "IF"
	case TokenElse:
		return "ELSE"
	case TokenEndIf:
		return "ENDIF"
	case TokenEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// Position tracks source location for error reporting.
type Position struct {
	File   string
	Line   int
	Column int
}

// Token represents a lexical token.
// Raw is the exact source text; Value holds the dotted path of an IF token.
type Token struct {
	Type   TokenType
	Value  string
	Raw    string
	Offset int // byte offset of Raw in the input
	Pos    Position
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Offset + len(t.Raw)
}

// Lexer splits template text into conditional tags and literal text.
// Interpolation and channel markers are returned as text.
type Lexer struct {
	input    string
	file     string
	pos      int // current position in input
	line     int // current line number (1-based)
	col      int // current column number (1-based)
	lastLine int // line at start of current token
	lastCol  int // column at start of current token
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input, file string) *Lexer {
	return &Lexer{
		input: input,
		file:  file,
		line:  1,
		col:   1,
	}
}

// Tokenize converts the input into a slice of tokens ending with EOF.
// Adjacent text is merged into a single token.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token

	for {
		tok := l.nextToken()
		if tok.Type == TokenText && len(tokens) > 0 && tokens[len(tokens)-1].Type == TokenText {
			tokens[len(tokens)-1].Raw += tok.Raw
			tokens[len(tokens)-1].Value += tok.Value
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}

	return tokens
}

// nextToken returns the next token from the input.
func (l *Lexer) nextToken() Token {
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Offset: l.pos, Pos: l.position()}
	}

	if l.matchString("{{") {
		if tok, ok := l.scanTag(); ok {
			return tok
		}
		// Not a conditional tag: emit the brace as text and keep going
		l.markStart()
		start := l.pos
		l.advance()
		return l.textToken(start)
	}

	return l.scanText()
}

// scanText scans literal text until the next "{{" or EOF.
func (l *Lexer) scanText() Token {
	l.markStart()
	start := l.pos

	for l.pos < len(l.input) && !l.matchString("{{") {
		l.advance()
	}

	return l.textToken(start)
}

func (l *Lexer) textToken(start int) Token {
	raw := l.input[start:l.pos]
	return Token{
		Type:   TokenText,
		Value:  raw,
		Raw:    raw,
		Offset: start,
		Pos:    l.startPosition(),
	}
}

// scanTag tries to read a conditional tag at the current position.
// On failure the lexer state is left unchanged.
func (l *Lexer) scanTag() (Token, bool) {
	rest := l.input[l.pos:]

	var typ TokenType
	var path string
	var n int

	switch {
	case strings.HasPrefix(rest, "{{#else}}"):
		typ, n = TokenElse, len("{{#else}}")
	case strings.HasPrefix(rest, "{{/if}}"):
		typ, n = TokenEndIf, len("{{/if}}")
	case strings.HasPrefix(rest, "{{#if"):
		var ok bool
		path, n, ok = scanIfTag(rest)
		if !ok {
			return Token{}, false
		}
		typ = TokenIf
	default:
		return Token{}, false
	}

	l.markStart()
	start := l.pos
	for l.pos < start+n {
		l.advance()
	}

	return Token{
		Type:   typ,
		Value:  path,
		Raw:    l.input[start:l.pos],
		Offset: start,
		Pos:    l.startPosition(),
	}, true
}

// scanIfTag matches "{{#if", at least one space, a dotted path, optional
// space and "}}". It returns the path and the tag length in bytes.
func scanIfTag(s string) (path string, n int, ok bool) {
	i := len("{{#if")

	spaceStart := i
	i = skipSpace(s, i)
	if i == spaceStart {
		return "", 0, false
	}

	pathStart := i
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isPathRune(r) {
			break
		}
		i += size
	}
	if i == pathStart {
		return "", 0, false
	}
	path = s[pathStart:i]

	i = skipSpace(s, i)
	if !strings.HasPrefix(s[i:], "}}") {
		return "", 0, false
	}
	return path, i + 2, true
}

func skipSpace(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}

// isPathRune reports whether r may appear in a dotted variable path.
func isPathRune(r rune) bool {
	return r == '.' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Helper methods

// advance moves to the next rune, updating position tracking.
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// matchString checks if the input at current position matches s.
func (l *Lexer) matchString(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

// markStart records the start position for the current token.
func (l *Lexer) markStart() {
	l.lastLine = l.line
	l.lastCol = l.col
}

// position returns the current position.
func (l *Lexer) position() Position {
	return Position{File: l.file, Line: l.line, Column: l.col}
}

// startPosition returns the position where the current token started.
func (l *Lexer) startPosition() Position {
	return Position{File: l.file, Line: l.lastLine, Column: l.lastCol}
}
