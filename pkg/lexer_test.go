package ash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashlang/ash/internal/corpus"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := Lex([]byte(src), "test.ash", nil)
	require.NoError(t, err)
	return toks
}

func kinds(toks []Token) []TokenKind {
	ks := make([]TokenKind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func TestLexEmptyBuffer(t *testing.T) {
	toks := lexAll(t, "")
	require.Len(t, toks, 1)
	assert.Equal(t, TokenEOF, toks[0].Kind)
}

func TestLexWhitespaceOnly(t *testing.T) {
	toks := lexAll(t, "   \t\n\n  \r\n")
	require.Len(t, toks, 1)
	assert.Equal(t, TokenEOF, toks[0].Kind)
}

func TestLexSkipsBOM(t *testing.T) {
	src := "\xEF\xBB\xBFfunc"
	toks := lexAll(t, src)
	require.Len(t, toks, 2)
	assert.Equal(t, TokenFunc, toks[0].Kind)
	assert.Equal(t, uint64(3), toks[0].Loc.Offset)
}

func TestLexIdentifiersAndKeywords(t *testing.T) {
	toks := lexAll(t, "func foo mutable_x _leading")
	assert.Equal(t, []TokenKind{TokenFunc, TokenIdentifier, TokenIdentifier, TokenIdentifier, TokenEOF}, kinds(toks))
	assert.Equal(t, "foo", toks[1].Value)
	assert.Equal(t, "mutable_x", toks[2].Value)
}

func TestLexDecimalIntegerLiteral(t *testing.T) {
	toks := lexAll(t, "42 1_000_000")
	require.Len(t, toks, 3)
	assert.Equal(t, TokenIntegerLiteral, toks[0].Kind)
	assert.Equal(t, "42", toks[0].Value)
	assert.Equal(t, "1_000_000", toks[1].Value)
}

func TestLexFloatLiteral(t *testing.T) {
	toks := lexAll(t, "3.14 0.5")
	require.Len(t, toks, 3)
	assert.Equal(t, TokenFloatLiteral, toks[0].Kind)
	assert.Equal(t, TokenFloatLiteral, toks[1].Kind)
}

func TestLexBareZero(t *testing.T) {
	toks := lexAll(t, "0")
	require.Len(t, toks, 2)
	assert.Equal(t, TokenIntegerLiteral, toks[0].Kind)
	assert.Equal(t, "0", toks[0].Value)
}

func TestLexHexOctalBinaryLiterals(t *testing.T) {
	toks := lexAll(t, "0xFF 0o17 0b101")
	require.Len(t, toks, 4)
	assert.Equal(t, "0xFF", toks[0].Value)
	assert.Equal(t, "0o17", toks[1].Value)
	assert.Equal(t, "0b101", toks[2].Value)
}

func TestLexLeadingZeroFollowedByDigitIsFatal(t *testing.T) {
	_, err := Lex([]byte("0123"), "test.ash", nil)
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, ErrBadNumericLiteral, lexErr.Diagnostic.Kind)
}

func TestLexStringLiteralWithEscapes(t *testing.T) {
	toks := lexAll(t, `"hello\nworld\t\x41"`)
	require.Len(t, toks, 2)
	assert.Equal(t, TokenStringLiteral, toks[0].Kind)
	assert.Equal(t, "hello\nworld\tA", toks[0].Value)
}

func TestLexUnterminatedStringIsFatal(t *testing.T) {
	_, err := Lex([]byte(`"abc`), "test.ash", nil)
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, ErrUnterminatedString, lexErr.Diagnostic.Kind)
}

func TestLexCharLiteral(t *testing.T) {
	toks := lexAll(t, `'a' '\n' '\x41'`)
	require.Len(t, toks, 4)
	assert.Equal(t, "a", toks[0].Value)
	assert.Equal(t, "\n", toks[1].Value)
	assert.Equal(t, "A", toks[2].Value)
}

func TestLexEmptyCharLiteralIsFatal(t *testing.T) {
	_, err := Lex([]byte("''"), "test.ash", nil)
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, ErrEmptyCharLiteral, lexErr.Diagnostic.Kind)
}

func TestLexMultiCharCharLiteralIsFatal(t *testing.T) {
	_, err := Lex([]byte("'ab'"), "test.ash", nil)
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, ErrMultiCharCharLiteral, lexErr.Diagnostic.Kind)
}

func TestLexLineComment(t *testing.T) {
	toks := lexAll(t, "func // a comment\nfoo")
	assert.Equal(t, []TokenKind{TokenFunc, TokenIdentifier, TokenEOF}, kinds(toks))
}

func TestLexBlockComment(t *testing.T) {
	toks := lexAll(t, "func /* multi\nline */ foo")
	assert.Equal(t, []TokenKind{TokenFunc, TokenIdentifier, TokenEOF}, kinds(toks))
}

func TestLexUnterminatedBlockCommentIsFatal(t *testing.T) {
	_, err := Lex([]byte("/* never closes"), "test.ash", nil)
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, ErrUnterminatedBlockComment, lexErr.Diagnostic.Kind)
}

func TestLexMaximalMunchOperators(t *testing.T) {
	toks := lexAll(t, "<<= << < <= <-")
	assert.Equal(t, []TokenKind{
		TokenShiftLeftAssign,
		TokenShiftLeft,
		TokenLess,
		TokenLessEqual,
		TokenLArrow,
		TokenEOF,
	}, kinds(toks))
}

func TestLexEllipsisVsDotDotVsDot(t *testing.T) {
	toks := lexAll(t, "... .. .")
	assert.Equal(t, []TokenKind{TokenEllipsis, TokenDotDot, TokenDot, TokenEOF}, kinds(toks))
}

func TestLexInvalidCharacterIsFatal(t *testing.T) {
	_, err := Lex([]byte("$"), "test.ash", nil)
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, ErrInvalidCharacter, lexErr.Diagnostic.Kind)
}

func TestLexLocationTracksLineAndColumn(t *testing.T) {
	toks := lexAll(t, "func\nfoo")
	require.Len(t, toks, 3)
	assert.Equal(t, uint64(1), toks[0].Loc.Line)
	assert.Equal(t, uint64(1), toks[0].Loc.Column)
	assert.Equal(t, uint64(2), toks[1].Loc.Line)
	assert.Equal(t, uint64(1), toks[1].Loc.Column)
}

var benchResult []Token

func benchmarkLexer(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		b.StopTimer()
		data := corpus.GetRandomTokens(size)
		b.StartTimer()

		toks, err := Lex([]byte(data), "bench.ash", nil)
		if err != nil {
			b.Fatalf("unexpected lex error: %v", err)
		}
		benchResult = toks
	}
}

func BenchmarkLexer100(b *testing.B)    { benchmarkLexer(100, b) }
func BenchmarkLexer1000(b *testing.B)   { benchmarkLexer(1000, b) }
func BenchmarkLexer10000(b *testing.B)  { benchmarkLexer(10000, b) }
func BenchmarkLexer100000(b *testing.B) { benchmarkLexer(100000, b) }

func TestLexFullDeclaration(t *testing.T) {
	toks := lexAll(t, `export func add(a int, b int) -> int { return a + b; }`)
	assert.Equal(t, []TokenKind{
		TokenExport, TokenFunc, TokenIdentifier, TokenLParen,
		TokenIdentifier, TokenIdentifier, TokenComma,
		TokenIdentifier, TokenIdentifier, TokenRParen,
		TokenArrow, TokenIdentifier, TokenLBrace,
		TokenReturn, TokenIdentifier, TokenPlus, TokenIdentifier, TokenSemicolon,
		TokenRBrace, TokenEOF,
	}, kinds(toks))
}
