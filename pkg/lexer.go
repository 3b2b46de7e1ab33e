package ash

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// eof is the sentinel byte value returned by peek/advance once the buffer is
// exhausted. 0 can never appear as a legal source byte (spec.md's grammar
// has no construct that embeds a NUL), so it is safe to reuse as both "end
// of buffer" and (internally) "no next byte" the way the teacher's lexer
// reuses rune(0) for EOF.
const eof byte = 0

// lexerState is a state-machine step: given the lexer, it may emit a Token
// and returns the state to run next. A nil return ends the state machine.
// This mirrors the teacher's lexerState design (go.maqui.dev/pkg/lexer.go)
// generalized from Maqui's smaller state set to Ash's full grammar.
type lexerState func(l *Lexer) lexerState

// Lexer is a single-pass, non-backtracking scanner with one byte of
// lookahead. It is not safe for concurrent use by multiple goroutines, but
// distinct Lexer instances over disjoint buffers may run concurrently
// (spec.md §5).
type Lexer struct {
	filename string
	buffer   []byte
	offset   uint64
	line     uint64
	column   uint64

	// start is the location of the first character of the token currently
	// being scanned. It is captured before the token body is consumed, per
	// spec.md §4.1's "Location propagation".
	start SourceLocation

	sink   Sink
	logger *slog.Logger
	unitID string

	output chan Token
	fatal  *Diagnostic
}

// NewLexer creates a Lexer over buffer, reporting diagnostics through sink
// (nil defaults to a slog-backed sink at logger, which itself defaults to
// slog.Default() when nil — following other_examples/gomib's "logger
// parameter is optional; pass nil to disable/default logging"). filename is
// the logical name recorded in every emitted token's location; it need not
// correspond to an actual file.
func NewLexer(buffer []byte, filename string, logger *slog.Logger, sink Sink) *Lexer {
	if logger == nil {
		logger = slog.Default()
	}
	unitID := uuid.NewString()
	if sink == nil {
		sink = NewSlogSink(logger, unitID)
	}

	l := &Lexer{
		buffer:   buffer,
		filename: filename,
		line:     1,
		column:   1,
		sink:     sink,
		logger:   logger,
		unitID:   unitID,
		output:   make(chan Token, 2),
	}
	l.skipBOM()
	l.logger.Debug("lexer initialized",
		slog.String("unit", l.unitID),
		slog.String("file", filename),
		slog.Int("source_len", len(buffer)))
	return l
}

// skipBOM consumes a leading UTF-8 byte-order mark without emitting a
// token, per spec.md §4.1 (grounded on original_source/hazel's
// buffer[0..3] == EF BB BF check in lexer_lex).
func (l *Lexer) skipBOM() {
	if len(l.buffer) >= 3 && l.buffer[0] == 0xEF && l.buffer[1] == 0xBB && l.buffer[2] == 0xBF {
		l.offset = 3
	}
}

// Chan exposes the lexer's result channel for streaming consumers.
func (l *Lexer) Chan() chan Token { return l.output }

// Do drives the state machine to completion, sending every emitted token on
// the output channel, then closes it. Call it on its own goroutine when
// streaming; Lex (below) wraps this for the common buffered case.
func (l *Lexer) Do() {
	for state := lexStart; state != nil; {
		state = state(l)
	}
	close(l.output)
}

// Lex drives the lexer to completion and returns the full token vector, or
// a *LexError wrapping the single fatal diagnostic if scanning failed. Per
// spec.md §4.1 "Failure semantics", no partial token vector is returned on
// failure. This is the core's public `lex` operation (spec.md §6.4).
func (l *Lexer) Lex() ([]Token, error) {
	go l.Do()

	var tokens []Token
	for tok := range l.output {
		tokens = append(tokens, tok)
	}

	if l.fatal != nil {
		return nil, &LexError{Diagnostic: *l.fatal}
	}
	return tokens, nil
}

// Lex is the package-level convenience form of the core's `lex` operation:
// lex(buffer, filename) -> Result<Vec<Token>, LexError>.
func Lex(buffer []byte, filename string, logger *slog.Logger) ([]Token, error) {
	return NewLexer(buffer, filename, logger, nil).Lex()
}

// --- low-level byte cursor -----------------------------------------------

func (l *Lexer) peek() byte  { return l.peekAt(0) }
func (l *Lexer) peekNext() byte { return l.peekAt(1) }

func (l *Lexer) peekAt(n int) byte {
	idx := int(l.offset) + n
	if idx < 0 || idx >= len(l.buffer) {
		return eof
	}
	return l.buffer[idx]
}

// advance consumes and returns the current byte, updating offset/line/column
// bookkeeping. Column tracking is byte-granular: spec.md's Non-goals
// explicitly exclude Unicode-aware identifier classification, and no
// grammar construct needs rune-granular columns.
func (l *Lexer) advance() byte {
	if l.offset >= uint64(len(l.buffer)) {
		return eof
	}
	b := l.buffer[l.offset]
	l.offset++
	if b == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return b
}

func (l *Lexer) here() SourceLocation {
	return SourceLocation{Offset: l.offset, Line: l.line, Column: l.column, File: l.filename}
}

func (l *Lexer) markStart() { l.start = l.here() }

// rawSince returns the exact source bytes from start up to the current
// cursor position, used for numeric-literal tokens whose Value must be the
// textual slice of the source (spec.md §3.2) rather than a decoded number —
// decoding the radix prefix and underscores belongs at the IntLiteral/
// FloatLiteral AST layer (spec.md §3.3), not here.
func (l *Lexer) rawSince(start SourceLocation) string {
	return string(l.buffer[start.Offset:l.offset])
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isNonZeroDigit(b byte) bool { return b >= '1' && b <= '9' }
func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
func isIdentStart(b byte) bool { return isLetter(b) || b == '_' }
func isIdentCont(b byte) bool  { return isLetter(b) || isDigit(b) || b == '_' }

// emit sends a token of kind k with value val, located at l.start, and
// returns lexStart to continue scanning.
func (l *Lexer) emit(k TokenKind, val string) lexerState {
	tok := Token{Kind: k, Value: val, Loc: l.start}
	l.logger.Debug("token",
		slog.String("unit", l.unitID),
		slog.String("kind", k.String()),
		slog.Uint64("offset", l.start.Offset))
	l.output <- tok
	return lexStart
}

// fail reports a fatal diagnostic through the sink, records it so Lex can
// surface a *LexError, emits the terminal EOF (per spec.md "no further
// tokens" — EOF still closes the stream), and ends the state machine.
func (l *Lexer) fail(kind DiagnosticKind, loc SourceLocation, format string, args ...any) lexerState {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	d := Diagnostic{Kind: kind, Location: loc, Message: msg}
	l.fatal = &d
	l.sink.Report(d)
	return lexEnd
}

// --- states ---------------------------------------------------------------

func lexStart(l *Lexer) lexerState {
	for {
		switch b := l.peek(); {
		case b == eof:
			return lexEnd
		case b == ' ' || b == '\t' || b == '\r':
			l.advance()
			continue
		case b == '\n':
			l.advance()
			continue
		case b == '/' && l.peekNext() == '/':
			l.advance()
			l.advance()
			return lexLineComment
		case b == '/' && l.peekNext() == '*':
			l.markStart()
			l.advance()
			l.advance()
			return lexBlockComment
		case isIdentStart(b):
			l.markStart()
			return lexIdentifier
		case isNonZeroDigit(b):
			l.markStart()
			return lexNumber
		case b == '0':
			l.markStart()
			return lexZeroNumber
		case b == '"':
			l.markStart()
			return lexString
		case b == '\'':
			l.markStart()
			return lexChar
		default:
			l.markStart()
			return lexOperator
		}
	}
}

func lexEnd(l *Lexer) lexerState {
	l.start = l.here()
	l.output <- Token{Kind: TokenEOF, Loc: l.start}
	return nil
}

func lexLineComment(l *Lexer) lexerState {
	for b := l.peek(); b != '\n' && b != eof; b = l.peek() {
		l.advance()
	}
	return lexStart
}

func lexBlockComment(l *Lexer) lexerState {
	start := l.start
	for {
		b := l.peek()
		if b == eof {
			return l.fail(ErrUnterminatedBlockComment, start, "unterminated block comment")
		}
		if b == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return lexStart
		}
		l.advance()
	}
}

func lexIdentifier(l *Lexer) lexerState {
	var sb strings.Builder
	for isIdentCont(l.peek()) {
		sb.WriteByte(l.advance())
	}
	lexeme := sb.String()

	if kind, ok := keywordTable[lexeme]; ok {
		return l.emit(kind, lexeme)
	}
	return l.emit(TokenIdentifier, lexeme)
}

// lexZeroNumber handles a literal starting with '0': 0x/0X hex, 0o/0O octal,
// 0b/0B binary, or the bare integer zero (optionally followed by a
// fractional part, extending spec.md §4.1's float rule — stated there only
// for non-zero-leading literals — to 0.xxx for consistency).
func lexZeroNumber(l *Lexer) lexerState {
	start := l.start
	l.advance() // consume '0'

	switch b := l.peek(); {
	case b == 'x' || b == 'X':
		l.advance()
		return lexBasedDigits(l, start, isHexDigit, "hexadecimal")
	case b == 'o' || b == 'O':
		l.advance()
		return lexBasedDigits(l, start, func(c byte) bool { return c >= '0' && c <= '7' }, "octal")
	case b == 'b' || b == 'B':
		l.advance()
		return lexBasedDigits(l, start, func(c byte) bool { return c == '0' || c == '1' }, "binary")
	case isDigit(b):
		return l.fail(ErrBadNumericLiteral, start, "leading zero must be followed by a base prefix (0x/0o/0b) or nothing")
	case b == '.' && isDigit(l.peekNext()):
		l.advance() // consume '.'
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
		return l.emit(TokenFloatLiteral, l.rawSince(start))
	default:
		return l.emit(TokenIntegerLiteral, l.rawSince(start))
	}
}

// lexBasedDigits scans a run of digits valid for a hex/octal/binary literal
// (underscores permitted between digits), then emits the raw source slice
// starting at the literal's leading '0'.
func lexBasedDigits(l *Lexer, start SourceLocation, valid func(byte) bool, base string) lexerState {
	digits := 0
	for valid(l.peek()) || l.peek() == '_' {
		if l.advance() != '_' {
			digits++
		}
	}
	if digits == 0 {
		return l.fail(ErrBadNumericLiteral, start, "expected at least one %s digit", base)
	}
	return l.emit(TokenIntegerLiteral, l.rawSince(start))
}

// lexNumber handles a literal starting with a non-zero digit: decimal
// integer, or float if a '.' is immediately followed by a digit. The
// emitted token's Value is the raw source slice, underscores included
// (spec.md §3.2); decoding happens when the AST's IntLiteral/FloatLiteral
// node is built (spec.md §3.3).
func lexNumber(l *Lexer) lexerState {
	start := l.start
	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance() // '.'
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
		return l.emit(TokenFloatLiteral, l.rawSince(start))
	}

	return l.emit(TokenIntegerLiteral, l.rawSince(start))
}

// lexString scans a double-quoted string literal, decoding escapes as it
// goes; the empty "" case falls out of the same loop naturally.
func lexString(l *Lexer) lexerState {
	start := l.start
	l.advance() // opening quote

	var sb strings.Builder
	for {
		b := l.peek()
		if b == eof {
			return l.fail(ErrUnterminatedString, start, "unterminated string literal")
		}
		if b == '"' {
			l.advance()
			return l.emit(TokenStringLiteral, sb.String())
		}
		if b == '\\' {
			decoded, ok := l.lexEscape()
			if !ok {
				return lexEnd
			}
			sb.WriteByte(decoded)
			continue
		}
		sb.WriteByte(l.advance())
	}
}

// lexChar scans a single-quoted character literal: exactly one logical
// character (raw byte or escape), then a closing quote.
func lexChar(l *Lexer) lexerState {
	start := l.start
	l.advance() // opening quote

	if l.peek() == '\'' {
		return l.fail(ErrEmptyCharLiteral, start, "empty character literal")
	}

	var value byte
	if l.peek() == '\\' {
		decoded, ok := l.lexEscape()
		if !ok {
			return lexEnd
		}
		value = decoded
	} else {
		if l.peek() == eof {
			return l.fail(ErrUnterminatedChar, start, "unterminated character literal")
		}
		value = l.advance()
	}

	if l.peek() != '\'' {
		if l.peek() == eof {
			return l.fail(ErrUnterminatedChar, start, "unterminated character literal")
		}
		return l.fail(ErrMultiCharCharLiteral, start, "character literal holds more than one character")
	}
	l.advance() // closing quote

	return l.emit(TokenCharLiteral, string(rune(value)))
}

// lexEscape decodes the escape sequence starting at the current '\\' and
// returns the decoded byte. ok is false when a fatal diagnostic was
// reported (the caller should return lexEnd in that case).
func (l *Lexer) lexEscape() (byte, bool) {
	start := l.here()
	l.advance() // consume '\\'
	switch b := l.peek(); b {
	case '\\':
		l.advance()
		return '\\', true
	case '"':
		l.advance()
		return '"', true
	case '\'':
		l.advance()
		return '\'', true
	case 'n':
		l.advance()
		return '\n', true
	case 'r':
		l.advance()
		return '\r', true
	case 't':
		l.advance()
		return '\t', true
	case '0':
		l.advance()
		return 0, true
	case 'x':
		l.advance()
		hi, lo := l.peek(), l.peekNext()
		if !isHexDigit(hi) || !isHexDigit(lo) {
			l.fail(ErrBadEscape, start, "\\x escape requires exactly two hex digits")
			return 0, false
		}
		l.advance()
		l.advance()
		v, _ := strconv.ParseUint(string([]byte{hi, lo}), 16, 8)
		return byte(v), true
	default:
		l.fail(ErrBadEscape, start, "unknown escape sequence")
		return 0, false
	}
}

// lexOperator performs maximal-munch dispatch: try the longest lexeme
// present in operatorTable before falling back to a shorter one.
func lexOperator(l *Lexer) lexerState {
	start := l.start

	if lex, ok := l.tryMunch(3); ok {
		return l.emit(lex.kind, lex.text)
	}
	if lex, ok := l.tryMunch(2); ok {
		return l.emit(lex.kind, lex.text)
	}
	if lex, ok := l.tryMunch(1); ok {
		return l.emit(lex.kind, lex.text)
	}

	bad := l.peek()
	l.advance()
	return l.fail(ErrInvalidCharacter, start, "invalid character %q", rune(bad))
}

type munched struct {
	kind TokenKind
	text string
}

func (l *Lexer) tryMunch(n int) (munched, bool) {
	if int(l.offset)+n > len(l.buffer) {
		return munched{}, false
	}
	text := string(l.buffer[l.offset : int(l.offset)+n])
	kind, ok := operatorTable[text]
	if !ok {
		return munched{}, false
	}
	for i := 0; i < n; i++ {
		l.advance()
	}
	return munched{kind: kind, text: text}, true
}
