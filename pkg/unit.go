package ash

import (
	"log/slog"

	"github.com/google/uuid"
)

// CompilationUnit ties a single source buffer through both lex and parse,
// sharing one correlation ID across both stages so a diagnostic from
// either can be traced back to the same invocation. Adapted from the
// teacher's compiler.go, which piped the same per-invocation ID through
// lexing, parsing, and (there) LLVM codegen; codegen itself is out of
// scope here (spec.md §1).
type CompilationUnit struct {
	Filename string
	Buffer   []byte

	UnitID string
	logger *slog.Logger
	sink   Sink
}

// NewCompilationUnit builds a unit over buffer with a fresh correlation ID,
// which tags every diagnostic either stage reports through the unit's sink.
// The lexer and parser each tag their own debug trace records with their
// own ID, not with UnitID.
func NewCompilationUnit(buffer []byte, filename string, logger *slog.Logger) *CompilationUnit {
	if logger == nil {
		logger = slog.Default()
	}
	unitID := uuid.NewString()
	return &CompilationUnit{
		Filename: filename,
		Buffer:   buffer,
		UnitID:   unitID,
		logger:   logger,
		sink:     NewSlogSink(logger, unitID),
	}
}

// Lex runs the lexer over the unit's buffer.
func (u *CompilationUnit) Lex() ([]Token, error) {
	return NewLexer(u.Buffer, u.Filename, u.logger, u.sink).Lex()
}

// Parse runs lex then parse, short-circuiting on a lex failure. It is the
// convenience entrypoint for callers that want the AST and don't need the
// intermediate token vector.
func (u *CompilationUnit) Parse() (Node, error) {
	tokens, err := u.Lex()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens, u.Filename, u.logger, u.sink).Parse()
}
