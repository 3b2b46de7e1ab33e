package ash

// Statement := VarDecl | DeferStmt | IfStmt | LabeledStmt | LoopStmt
//            | MatchExpr | Branch | Return | AssignmentExpr ';'
func (p *Parser) parseStatement() Node {
	p.trace("Statement")
	tok := p.peek()

	switch tok.Kind {
	case TokenExport, TokenMutable, TokenConst:
		return p.parseVarDeclStmt()
	case TokenDefer:
		return p.parseDeferStmt()
	case TokenIf:
		return p.parseIfExpr()
	case TokenMatch:
		return p.parseMatchExpr()
	case TokenLoop, TokenWhile, TokenInline:
		return p.parseLoopStmt("")
	case TokenBreak, TokenContinue:
		return p.parseBranch()
	case TokenReturn:
		return p.parseReturn()
	case TokenIdentifier:
		if p.peekNext().Kind == TokenColon {
			return p.parseLabeledStmt()
		}
		if p.isVarDeclStart() {
			return p.parseVarDeclStmt()
		}
		return p.parseAssignmentStmt()
	default:
		return p.parseAssignmentStmt()
	}
}

func (p *Parser) parseAssignmentStmt() Node {
	expr := p.parseAssignmentExpr()
	p.expect(TokenSemicolon)
	return expr
}

// Block := '{' Statement* '}'
func (p *Parser) parseBlock(label string) *Block {
	loc := p.expect(TokenLBrace).Loc
	var stmts []Node
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		stmts = append(stmts, p.parseStatement())
	}
	p.expect(TokenRBrace)
	return &Block{base: mkbase(NodeBlock, loc), Label: label, Statements: stmts}
}

// Return := 'return' AssignmentExpr? ';'
func (p *Parser) parseReturn() Node {
	loc := p.expect(TokenReturn).Loc
	var expr Node
	if !p.check(TokenSemicolon) {
		expr = p.parseAssignmentExpr()
	}
	p.expect(TokenSemicolon)
	return &Return{base: mkbase(NodeReturn, loc), Expr: expr}
}

// Branch := ('break'|'continue') (':' Identifier)? AssignmentExpr? ';'
//
// The condensed grammar in spec.md's summary omits Branch's production
// entirely; the ':' Identifier label form here mirrors BlockLabel's own use
// of ':' as the label marker, keeping a label reference unambiguous against
// a break's optional value expression (both would otherwise start with an
// identifier).
func (p *Parser) parseBranch() Node {
	tok := p.chomp()
	kind := BranchBreak
	if tok.Kind == TokenContinue {
		kind = BranchContinue
	}

	label := ""
	if p.chompIf(TokenColon) {
		label = p.expect(TokenIdentifier).Value
	}

	var expr Node
	if !p.check(TokenSemicolon) {
		expr = p.parseAssignmentExpr()
	}
	p.expect(TokenSemicolon)

	return &Branch{base: mkbase(NodeBranch, tok.Loc), BKind: kind, Label: label, Expr: expr}
}

// DeferStmt := 'defer' (Block | AssignmentExpr ';')
func (p *Parser) parseDeferStmt() Node {
	loc := p.expect(TokenDefer).Loc
	var expr Node
	if p.check(TokenLBrace) {
		expr = p.parseBlock("")
	} else {
		expr = p.parseAssignmentExpr()
		p.expect(TokenSemicolon)
	}
	return &Defer{base: mkbase(NodeDefer, loc), Expr: expr}
}

// IfStmt := 'if' '(' Expr ')' BlockExprOrAssign ('else' (Block | Statement))?
//
// Used both in statement position and (via PrimaryTypeExpr) as a plain
// expression; the resulting IfExpr node is identical either way.
func (p *Parser) parseIfExpr() Node {
	loc := p.expect(TokenIf).Loc
	p.expect(TokenLParen)
	cond := p.parseExpr()
	p.expect(TokenRParen)
	then := p.parseBlockExprOrAssign()

	var elseNode Node
	hasElse := p.chompIf(TokenElse)
	if hasElse {
		if p.check(TokenLBrace) {
			elseNode = p.parseBlock("")
		} else {
			elseNode = p.parseStatement()
		}
	}

	return &IfExpr{
		base:      mkbase(NodeIfExpr, loc),
		Condition: cond,
		Then:      then,
		HasElse:   hasElse,
		Else:      elseNode,
	}
}

func (p *Parser) parseBlockExprOrAssign() Node {
	if p.check(TokenLBrace) {
		return p.parseBlock("")
	}
	expr := p.parseAssignmentExpr()
	p.expect(TokenSemicolon)
	return expr
}

// BlockLabel := Identifier ':'
// LabeledStmt := BlockLabel (Block | LoopStmt)
func (p *Parser) parseLabeledStmt() Node {
	label := p.expect(TokenIdentifier).Value
	p.expect(TokenColon)
	if p.check(TokenLBrace) {
		return p.parseBlock(label)
	}
	return p.parseLoopStmt(label)
}

// LoopStmt := 'inline'? (LoopC | LoopWhile | LoopIn)
func (p *Parser) parseLoopStmt(label string) Node {
	isInline := p.chompIf(TokenInline)

	switch p.peek().Kind {
	case TokenWhile:
		return p.parseLoopWhile(isInline, label)
	case TokenLoop:
		return p.parseLoopCOrIn(isInline, label)
	default:
		found := p.peek()
		p.fail(ErrUnexpectedToken, found.Loc, "expected 'loop' or 'while', found %s", found.Kind)
		return nil
	}
}

// LoopWhile := 'while' '(' Expr ')' Block
func (p *Parser) parseLoopWhile(isInline bool, label string) Node {
	loc := p.expect(TokenWhile).Loc
	p.expect(TokenLParen)
	cond := p.parseExpr()
	p.expect(TokenRParen)
	body := p.parseBlock("")
	return &LoopWhile{
		base:     mkbase(NodeLoopWhile, loc),
		Cond:     cond,
		Body:     body,
		IsInline: isInline,
		Label:    label,
	}
}

// LoopC   := 'loop' '(' (VarDecl_noSemi|AssignmentExpr)? ';' Expr? ';' AssignmentExpr? ')' Block
// LoopIn  := 'loop' Expr 'in' Expr Block
func (p *Parser) parseLoopCOrIn(isInline bool, label string) Node {
	loc := p.expect(TokenLoop).Loc

	if p.chompIf(TokenLParen) {
		var init, cond, step Node
		if !p.check(TokenSemicolon) {
			if p.isVarDeclStart() {
				init = p.parseVarDeclCore()
			} else {
				init = p.parseAssignmentExpr()
			}
		}
		p.expect(TokenSemicolon)

		if !p.check(TokenSemicolon) {
			cond = p.parseExpr()
		}
		p.expect(TokenSemicolon)

		if !p.check(TokenRParen) {
			step = p.parseAssignmentExpr()
		}
		p.expect(TokenRParen)

		body := p.parseBlock("")
		return &LoopC{
			base:     mkbase(NodeLoopC, loc),
			Init:     init,
			Cond:     cond,
			Step:     step,
			Body:     body,
			IsInline: isInline,
			Label:    label,
		}
	}

	pattern := p.parseExpr()
	p.expect(TokenIn)
	iterable := p.parseExpr()
	body := p.parseBlock("")
	return &LoopIn{
		base:     mkbase(NodeLoopIn, loc),
		Pattern:  pattern,
		Iterable: iterable,
		Body:     body,
		IsInline: isInline,
		Label:    label,
	}
}

// MatchExpr   := 'match' '('? Expr ')'? '{' MatchBranch (',' MatchBranch)* ','? '}'
// MatchBranch := MatchCase (':' | '=>') AssignmentExpr
// MatchCase   := 'else' | MatchItem (',' MatchItem)*
func (p *Parser) parseMatchExpr() Node {
	loc := p.expect(TokenMatch).Loc
	hasParen := p.chompIf(TokenLParen)
	scrutinee := p.parseExpr()
	if hasParen {
		p.expect(TokenRParen)
	}
	p.expect(TokenLBrace)

	var branches []*MatchBranch
	sawElse := false
	for !p.check(TokenRBrace) {
		branch := p.parseMatchBranch()
		if branch.IsElse {
			if sawElse {
				p.fail(ErrDuplicateElseInMatch, branch.Loc(), "'else' may appear at most once in a match")
			}
			sawElse = true
		} else if sawElse {
			p.fail(ErrDuplicateElseInMatch, branch.Loc(), "'else' must be the last branch in a match")
		}
		branches = append(branches, branch)
		if !p.chompIf(TokenComma) {
			break
		}
		if p.check(TokenRBrace) {
			break
		}
	}
	p.expect(TokenRBrace)

	return &MatchExpr{base: mkbase(NodeMatchExpr, loc), Scrutinee: scrutinee, Branches: branches}
}

func (p *Parser) parseMatchBranch() *MatchBranch {
	loc := p.peek().Loc

	if p.chompIf(TokenElse) {
		p.expectMatchSeparator()
		body := p.parseAssignmentExpr()
		return &MatchBranch{base: mkbase(NodeMatchBranch, loc), IsElse: true, Body: body}
	}

	patterns := []Node{p.parseExpr()}
	for p.chompIf(TokenComma) {
		patterns = append(patterns, p.parseExpr())
	}
	p.expectMatchSeparator()
	body := p.parseAssignmentExpr()

	return &MatchBranch{base: mkbase(NodeMatchBranch, loc), Patterns: patterns, Body: body}
}

func (p *Parser) expectMatchSeparator() {
	if p.chompIf(TokenColon) || p.chompIf(TokenFatArrow) {
		return
	}
	found := p.peek()
	p.fail(ErrMissingMatchSeparator, found.Loc, "expected ':' or '=>' after match case, found %s", found.Kind)
}
