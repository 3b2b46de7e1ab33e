package ash

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Parser is a hand-written, predictive, recursive-descent parser over a
// fully buffered token stream. It never backtracks: every production is
// chosen by examining the current token and, where the grammar demands it,
// exactly one further token of lookahead (mirroring the lexer's own
// peek(0)/peek(1) window). Grounded on go.maqui.dev/pkg/parser.go's
// Parser struct and cursor discipline, generalized from Maqui's expression
// grammar to Ash's full statement/declaration grammar.
type Parser struct {
	tokens []Token
	pos    int

	filename string
	sink     Sink
	logger   *slog.Logger
	unitID   string

	fatal *Diagnostic
}

// parseAbort is the private sentinel panicked with by Parser.fail and
// recovered at the Parse entrypoint, implementing spec.md §4.2's "no
// partial AST is exposed on failure" without threading an error return
// through every one of the dozens of parsing functions. The standard
// library's go/parser uses the same panic/recover-at-the-entrypoint shape
// for exactly this reason.
type parseAbort struct{ err *ParseError }

// NewParser builds a Parser over tokens, reporting diagnostics through sink
// (nil defaults to a slog-backed sink at logger, itself defaulting to
// slog.Default()). filename is recorded on the TranslationUnit root;
// diagnostics take their file name from the offending token's location.
func NewParser(tokens []Token, filename string, logger *slog.Logger, sink Sink) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	unitID := uuid.NewString()
	if sink == nil {
		sink = NewSlogSink(logger, unitID)
	}
	return &Parser{
		tokens:   tokens,
		filename: filename,
		sink:     sink,
		logger:   logger,
		unitID:   unitID,
	}
}

// Parse drives the parser to completion, returning the translation unit
// root or a *ParseError describing the single fatal diagnostic. This is
// the core's public `parse` operation (spec.md §6.4).
func (p *Parser) Parse() (node Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			abort, ok := r.(parseAbort)
			if !ok {
				panic(r)
			}
			node = nil
			err = abort.err
		}
	}()
	return p.parseTranslationUnit(), nil
}

// Parse is the package-level convenience form of the core's `parse`
// operation: parse(tokens) -> Result<AstNode, ParseError>.
func Parse(tokens []Token, filename string, logger *slog.Logger) (Node, error) {
	return NewParser(tokens, filename, logger, nil).Parse()
}

// --- core primitives (spec.md §4.2) ----------------------------------

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

// peekNext returns the token one position beyond the current one, the
// single extra token of lookahead the grammar needs to distinguish a few
// productions (a labeled statement from a plain identifier, a typed
// declaration from a bare assignment) that share a one-token prefix.
func (p *Parser) peekNext() Token {
	if p.pos+1 >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos+1]
}

// check reports whether the current token has kind k, without consuming.
func (p *Parser) check(k TokenKind) bool { return p.peek().Kind == k }

// chomp returns the current token and advances the cursor by one. Chomping
// past EOF repeatedly returns the same synthetic EOF token.
func (p *Parser) chomp() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// chompIf consumes the current token if it has kind k and reports whether
// it did.
func (p *Parser) chompIf(k TokenKind) bool {
	if p.check(k) {
		p.chomp()
		return true
	}
	return false
}

// expect consumes the current token if it has kind k; otherwise it reports
// ExpectedToken and aborts the unit.
func (p *Parser) expect(k TokenKind) Token {
	if !p.check(k) {
		found := p.peek()
		p.fail(ErrExpectedToken, found.Loc, "expected %s, found %s", k, found.Kind)
	}
	return p.chomp()
}

// fail reports a fatal diagnostic and unwinds to the Parse entrypoint via
// panic/recover. It never returns to its caller.
func (p *Parser) fail(kind DiagnosticKind, loc SourceLocation, format string, args ...any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	d := Diagnostic{Kind: kind, Location: loc, Message: msg}
	p.fatal = &d
	p.sink.Report(d)
	panic(parseAbort{err: &ParseError{Diagnostic: d}})
}

func (p *Parser) trace(rule string) {
	p.logger.Debug("parse rule",
		slog.String("unit", p.unitID),
		slog.String("rule", rule),
		slog.String("token", p.peek().Kind.String()))
}

// --- top level (spec.md grammar: TranslationUnit, TopLevelDecl) --------

func (p *Parser) parseTranslationUnit() Node {
	p.trace("TranslationUnit")
	loc := p.peek().Loc
	var decls []Node
	for !p.check(TokenEOF) {
		decls = append(decls, p.parseTopLevelDecl())
	}
	return &TranslationUnit{
		base:     mkbase(NodeTranslationUnit, loc),
		Filename: p.filename,
		Decls:    decls,
	}
}

func (p *Parser) parseTopLevelDecl() Node {
	if p.check(TokenFunc) {
		return p.parseFuncDef()
	}
	return p.parseVarDeclStmt()
}

func (p *Parser) parseFuncDef() Node {
	proto := p.parseFuncPrototype()
	body := p.parseBlock("")
	return &FuncDef{base: mkbase(NodeFuncDef, proto.Loc()), Proto: proto, Body: body}
}

// parseFuncPrototype parses `'func' Identifier '(' ParamList? ')' '->' TypeExpr`.
// It is shared between top-level FuncDef and PrimaryTypeExpr's function-type
// alternative.
func (p *Parser) parseFuncPrototype() *FuncPrototype {
	loc := p.expect(TokenFunc).Loc
	name := p.expect(TokenIdentifier)
	p.expect(TokenLParen)

	var params []*ParamDecl
	sawVarArgs := false
	if !p.check(TokenRParen) {
		for {
			pd := p.parseParamDecl()
			if sawVarArgs {
				p.fail(ErrVariadicNotLast, pd.Loc(), "variadic parameter must be the last parameter")
			}
			if pd.IsVarArgs {
				sawVarArgs = true
			}
			params = append(params, pd)
			if !p.chompIf(TokenComma) {
				break
			}
			if p.check(TokenRParen) {
				break
			}
		}
	}
	p.expect(TokenRParen)

	if !p.chompIf(TokenArrow) {
		found := p.peek()
		p.fail(ErrMissingReturnType, found.Loc, "function prototype requires '-> TypeExpr'")
	}
	returnType := p.parseTypeExpr()

	return &FuncPrototype{
		base:       mkbase(NodeFuncPrototype, loc),
		Name:       name.Value,
		Params:     params,
		ReturnType: returnType,
		IsVarArgs:  sawVarArgs,
	}
}

func (p *Parser) parseParamDecl() *ParamDecl {
	loc := p.peek().Loc
	isVarArgs := p.chompIf(TokenEllipsis)
	typeExpr := p.parseTypeExpr()
	name := p.expect(TokenIdentifier)
	return &ParamDecl{
		base:      mkbase(NodeParamDecl, loc),
		Name:      name.Value,
		TypeExpr:  typeExpr,
		IsVarArgs: isVarArgs,
	}
}

// isVarDeclStart reports whether the parser is positioned at the start of a
// VarDecl: an explicit qualifier keyword, or a TypeExpr-then-name pair (two
// consecutive identifiers).
func (p *Parser) isVarDeclStart() bool {
	switch p.peek().Kind {
	case TokenExport, TokenMutable, TokenConst:
		return true
	}
	return p.check(TokenIdentifier) && p.peekNext().Kind == TokenIdentifier
}

// parseVarDeclCore parses `'export'? ('mutable'|'const')? TypeExpr? Identifier
// ('=' Expr)?`, stopping short of the trailing ';' so it can be reused
// inside a LoopC's init clause.
func (p *Parser) parseVarDeclCore() *VarDecl {
	loc := p.peek().Loc
	isExport := p.chompIf(TokenExport)

	var isMutable, isConst bool
	if p.chompIf(TokenMutable) {
		isMutable = true
		if p.check(TokenConst) {
			bad := p.chomp()
			p.fail(ErrConflictingQualifiers, bad.Loc, "cannot combine 'mutable' and 'const'")
		}
	} else if p.chompIf(TokenConst) {
		isConst = true
		if p.check(TokenMutable) {
			bad := p.chomp()
			p.fail(ErrConflictingQualifiers, bad.Loc, "cannot combine 'mutable' and 'const'")
		}
	}

	var typeExpr Node
	if p.check(TokenIdentifier) && p.peekNext().Kind == TokenIdentifier {
		typeExpr = p.parseTypeExpr()
	}
	name := p.expect(TokenIdentifier)

	var init Node
	if p.chompIf(TokenAssign) {
		init = p.parseExpr()
	}

	return &VarDecl{
		base:      mkbase(NodeVarDecl, loc),
		Name:      name.Value,
		TypeExpr:  typeExpr,
		Init:      init,
		IsExport:  isExport,
		IsMutable: isMutable,
		IsConst:   isConst,
	}
}

func (p *Parser) parseVarDeclStmt() Node {
	decl := p.parseVarDeclCore()
	p.expect(TokenSemicolon)
	return decl
}
