package ash

import (
	"fmt"
	"log/slog"
)

// DiagnosticKind is the closed taxonomy of fatal lex/parse errors from
// spec.md §7.
type DiagnosticKind uint8

const (
	// Lex errors.
	ErrInvalidCharacter DiagnosticKind = iota
	ErrUnterminatedString
	ErrUnterminatedChar
	ErrEmptyCharLiteral
	ErrMultiCharCharLiteral
	ErrBadEscape
	ErrUnterminatedBlockComment
	ErrBadNumericLiteral

	// Parse errors.
	ErrExpectedToken
	ErrUnexpectedToken
	ErrUnexpectedNull
	ErrConflictingQualifiers
	ErrVariadicNotLast
	ErrMissingReturnType
	ErrMissingMatchSeparator
	ErrDuplicateElseInMatch
)

// String names the diagnostic kind for the "{kind}" slot in the
// user-visible message format (spec.md §7).
func (k DiagnosticKind) String() string {
	switch k {
	case ErrInvalidCharacter:
		return "InvalidCharacter"
	case ErrUnterminatedString:
		return "UnterminatedString"
	case ErrUnterminatedChar:
		return "UnterminatedChar"
	case ErrEmptyCharLiteral:
		return "EmptyCharLiteral"
	case ErrMultiCharCharLiteral:
		return "MultiCharCharLiteral"
	case ErrBadEscape:
		return "BadEscape"
	case ErrUnterminatedBlockComment:
		return "UnterminatedBlockComment"
	case ErrBadNumericLiteral:
		return "BadNumericLiteral"
	case ErrExpectedToken:
		return "ExpectedToken"
	case ErrUnexpectedToken:
		return "UnexpectedToken"
	case ErrUnexpectedNull:
		return "UnexpectedNull"
	case ErrConflictingQualifiers:
		return "ConflictingQualifiers"
	case ErrVariadicNotLast:
		return "VariadicNotLast"
	case ErrMissingReturnType:
		return "MissingReturnType"
	case ErrMissingMatchSeparator:
		return "MissingMatchSeparator"
	case ErrDuplicateElseInMatch:
		return "DuplicateElseInMatch"
	default:
		return "Unknown"
	}
}

// Diagnostic is a single fatal lex/parse error, enriched with the offending
// token's location per spec.md §7 ("Propagation").
type Diagnostic struct {
	Kind     DiagnosticKind
	Location SourceLocation
	Message  string
}

// Error implements the error interface, formatting per spec.md §7's
// "User-visible behavior": "{filename}:{line}:{column}: {kind}: {message}".
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Location.String(), d.Kind, d.Message)
}

// Sink is the core's single external collaborator for fatal errors
// (spec.md §6.3). Report is expected to never return control to the
// caller in the reference C source; in this Go rendition Report logs the
// diagnostic and returns, and the core enforces "abort the unit" itself by
// unwinding to its own Lex/Parse entrypoint (see pkg/lexer.go, pkg/parser.go).
type Sink interface {
	Report(d Diagnostic)
}

// slogSink is the default Sink: it formats and logs every diagnostic at
// LevelError through a *slog.Logger, following playbymail-ottomap's
// cmd/parser and the gomib lexer's use of log/slog for all diagnostic
// output in this retrieval pack.
type slogSink struct {
	logger *slog.Logger
	unitID string
}

// NewSlogSink builds a Sink that logs through logger (nil uses
// slog.Default()), tagging every record with unitID for cross-stage
// correlation (see pkg/unit.go).
func NewSlogSink(logger *slog.Logger, unitID string) Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogSink{logger: logger, unitID: unitID}
}

func (s *slogSink) Report(d Diagnostic) {
	s.logger.Error(d.Error(),
		slog.String("unit", s.unitID),
		slog.String("kind", d.Kind.String()),
		slog.Uint64("offset", d.Location.Offset),
		slog.Uint64("line", d.Location.Line),
		slog.Uint64("column", d.Location.Column),
	)
}

// LexError wraps the single fatal diagnostic a failed Lex call reports,
// matching th13vn-solast-go/pkg/parser's ParserError shape (a typed error
// wrapping the structured diagnostic rather than a bare string).
type LexError struct {
	Diagnostic Diagnostic
}

func (e *LexError) Error() string { return e.Diagnostic.Error() }

// ParseError wraps the single fatal diagnostic a failed Parse call reports.
type ParseError struct {
	Diagnostic Diagnostic
}

func (e *ParseError) Error() string { return e.Diagnostic.Error() }
