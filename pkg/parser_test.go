package ash

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/require"
)

func parseSrc(t *testing.T, src string) Node {
	t.Helper()
	toks, err := Lex([]byte(src), "test.ash", nil)
	require.NoError(t, err)
	node, err := Parse(toks, "test.ash", nil)
	require.NoError(t, err)
	return node
}

func parseSrcErr(t *testing.T, src string) error {
	t.Helper()
	toks, lexErr := Lex([]byte(src), "test.ash", nil)
	require.NoError(t, lexErr)
	_, err := Parse(toks, "test.ash", nil)
	require.Error(t, err)
	return err
}

func onlyDecl(t *testing.T, node Node) Node {
	t.Helper()
	tu, ok := node.(*TranslationUnit)
	require.True(t, ok)
	require.Len(t, tu.Decls, 1)
	return tu.Decls[0]
}

// Scenario 1: simple variable declaration.
func TestParseSimpleVarDecl(t *testing.T) {
	decl := onlyDecl(t, parseSrc(t, "const Int32 x = 42;"))
	vd, ok := decl.(*VarDecl)
	require.True(t, ok)
	require.Equal(t, "x", vd.Name)
	require.True(t, vd.IsConst)
	require.False(t, vd.IsMutable)

	typeID, ok := vd.TypeExpr.(*Identifier)
	require.True(t, ok)
	require.Equal(t, "Int32", typeID.Name)

	init, ok := vd.Init.(*IntLiteral)
	require.True(t, ok)
	require.Equal(t, int64(42), init.Value)
}

func firstStatementExpr(t *testing.T, src string) Node {
	t.Helper()
	node := parseSrc(t, "func f() -> Int32 { "+src+" }")
	fd := onlyDecl(t, node).(*FuncDef)
	require.Len(t, fd.Body.Statements, 1)
	ret, ok := fd.Body.Statements[0].(*Return)
	require.True(t, ok)
	return ret.Expr
}

// Scenario 2: precedence.
func TestParsePrecedence(t *testing.T) {
	expr := firstStatementExpr(t, "return 1 + 2 * 3;")

	want := &BinaryOp{
		Op:  BinaryAdd,
		Lhs: &IntLiteral{Value: 1},
		Rhs: &BinaryOp{Op: BinaryMul, Lhs: &IntLiteral{Value: 2}, Rhs: &IntLiteral{Value: 3}},
	}
	if diff := deep.Equal(stripLocations(expr), stripLocations(want)); diff != nil {
		t.Errorf("unexpected AST shape: %v", diff)
	}
}

// Scenario 3: left-associativity.
func TestParseLeftAssociativity(t *testing.T) {
	expr := firstStatementExpr(t, "return a - b - c;")

	want := &BinaryOp{
		Op: BinarySub,
		Lhs: &BinaryOp{
			Op:  BinarySub,
			Lhs: &Identifier{Name: "a"},
			Rhs: &Identifier{Name: "b"},
		},
		Rhs: &Identifier{Name: "c"},
	}
	if diff := deep.Equal(stripLocations(expr), stripLocations(want)); diff != nil {
		t.Errorf("unexpected AST shape: %v", diff)
	}
}

// Scenario 4: if/else.
func TestParseIfElse(t *testing.T) {
	node := parseSrc(t, "func f() -> Int32 { if (x == 0) { return 1; } else { return 2; } }")
	fd := onlyDecl(t, node).(*FuncDef)
	require.Len(t, fd.Body.Statements, 1)

	ifExpr, ok := fd.Body.Statements[0].(*IfExpr)
	require.True(t, ok)
	require.True(t, ifExpr.HasElse)

	cond, ok := ifExpr.Condition.(*BinaryOp)
	require.True(t, ok)
	require.Equal(t, BinaryEqual, cond.Op)

	thenBlock, ok := ifExpr.Then.(*Block)
	require.True(t, ok)
	require.Len(t, thenBlock.Statements, 1)

	elseBlock, ok := ifExpr.Else.(*Block)
	require.True(t, ok)
	require.Len(t, elseBlock.Statements, 1)
}

// Scenario 5: function prototype with variadic.
func TestParseVariadicPrototype(t *testing.T) {
	decl := onlyDecl(t, parseSrc(t, "func printf(Str fmt, ... Any args) -> Int32 {}"))
	fd, ok := decl.(*FuncDef)
	require.True(t, ok)

	proto := fd.Proto
	require.Equal(t, "printf", proto.Name)
	require.True(t, proto.IsVarArgs)
	require.Len(t, proto.Params, 2)
	require.False(t, proto.Params[0].IsVarArgs)
	require.True(t, proto.Params[1].IsVarArgs)

	retID, ok := proto.ReturnType.(*Identifier)
	require.True(t, ok)
	require.Equal(t, "Int32", retID.Name)
}

func TestParseVariadicNotLastIsFatal(t *testing.T) {
	err := parseSrcErr(t, "func f(... Any rest, Str fmt) -> Int32 {}")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrVariadicNotLast, pe.Diagnostic.Kind)
}

// Scenario 6: conflicting qualifiers.
func TestParseConflictingQualifiersIsFatal(t *testing.T) {
	err := parseSrcErr(t, "mutable const Int32 x;")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrConflictingQualifiers, pe.Diagnostic.Kind)
}

func TestParseMissingReturnTypeIsFatal(t *testing.T) {
	err := parseSrcErr(t, "func f() {}")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrMissingReturnType, pe.Diagnostic.Kind)
}

func TestParseMatchExpr(t *testing.T) {
	node := parseSrc(t, `func f() -> Int32 {
		return match (x) {
			1, 2 => 10,
			else => 20,
		};
	}`)
	fd := onlyDecl(t, node).(*FuncDef)
	ret := fd.Body.Statements[0].(*Return)
	match, ok := ret.Expr.(*MatchExpr)
	require.True(t, ok)
	require.Len(t, match.Branches, 2)
	require.Len(t, match.Branches[0].Patterns, 2)
	require.False(t, match.Branches[0].IsElse)
	require.True(t, match.Branches[1].IsElse)
}

func TestParseDuplicateElseInMatchIsFatal(t *testing.T) {
	err := parseSrcErr(t, `func f() -> Int32 {
		return match (x) { else => 1, else => 2, };
	}`)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrDuplicateElseInMatch, pe.Diagnostic.Kind)
}

func TestParseElseNotLastInMatchIsFatal(t *testing.T) {
	err := parseSrcErr(t, `func f() -> Int32 {
		return match (x) { else => 1, 2 => 2, };
	}`)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrDuplicateElseInMatch, pe.Diagnostic.Kind)
}

func TestParseMissingMatchSeparatorIsFatal(t *testing.T) {
	err := parseSrcErr(t, `func f() -> Int32 {
		return match (x) { 1 10, };
	}`)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrMissingMatchSeparator, pe.Diagnostic.Kind)
}

func TestParseLabeledLoopAndBreak(t *testing.T) {
	node := parseSrc(t, `func f() -> Int32 {
		outer: loop (mutable Int32 i = 0; i < 10; i += 1) {
			break :outer 1;
		}
	}`)
	fd := onlyDecl(t, node).(*FuncDef)
	loop, ok := fd.Body.Statements[0].(*LoopC)
	require.True(t, ok)
	require.Equal(t, "outer", loop.Label)
	require.NotNil(t, loop.Init)
	require.NotNil(t, loop.Cond)
	require.NotNil(t, loop.Step)

	branch, ok := loop.Body.Statements[0].(*Branch)
	require.True(t, ok)
	require.Equal(t, BranchBreak, branch.BKind)
	require.Equal(t, "outer", branch.Label)
	require.NotNil(t, branch.Expr)
}

func TestParseLoopInAndWhile(t *testing.T) {
	node := parseSrc(t, `func f() -> Int32 {
		loop x in xs {
			continue;
		}
		inline while (true) {
			break;
		}
	}`)
	fd := onlyDecl(t, node).(*FuncDef)
	require.Len(t, fd.Body.Statements, 2)

	loopIn, ok := fd.Body.Statements[0].(*LoopIn)
	require.True(t, ok)
	require.False(t, loopIn.IsInline)

	loopWhile, ok := fd.Body.Statements[1].(*LoopWhile)
	require.True(t, ok)
	require.True(t, loopWhile.IsInline)
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	expr := firstStatementExpr(t, "return a = b = c;")
	top, ok := expr.(*BinaryOp)
	require.True(t, ok)
	require.Equal(t, BinaryAssign, top.Op)

	_, lhsIsID := top.Lhs.(*Identifier)
	require.True(t, lhsIsID)

	rhs, ok := top.Rhs.(*BinaryOp)
	require.True(t, ok)
	require.Equal(t, BinaryAssign, rhs.Op)
}

func TestParseFuncCallAndSlice(t *testing.T) {
	expr := firstStatementExpr(t, "return foo(1, 2)[0..n];")
	slice, ok := expr.(*SliceExpr)
	require.True(t, ok)
	require.NotNil(t, slice.Start)
	require.NotNil(t, slice.End)

	call, ok := slice.ArrayRef.(*FuncCall)
	require.True(t, ok)
	require.Len(t, call.Args, 2)
}

func TestParseInitList(t *testing.T) {
	expr := firstStatementExpr(t, "return {1, 2, 3};")
	list, ok := expr.(*InitList)
	require.True(t, ok)
	require.Len(t, list.Entries, 3)
}

func TestParseDeferBlockAndExpr(t *testing.T) {
	node := parseSrc(t, `func f() -> Int32 {
		defer { x = 1; }
		defer y = 2;
	}`)
	fd := onlyDecl(t, node).(*FuncDef)
	require.Len(t, fd.Body.Statements, 2)

	d1, ok := fd.Body.Statements[0].(*Defer)
	require.True(t, ok)
	_, isBlock := d1.Expr.(*Block)
	require.True(t, isBlock)

	d2, ok := fd.Body.Statements[1].(*Defer)
	require.True(t, ok)
	_, isBinOp := d2.Expr.(*BinaryOp)
	require.True(t, isBinOp)
}

func TestParseEmptyTranslationUnit(t *testing.T) {
	node := parseSrc(t, "")
	tu, ok := node.(*TranslationUnit)
	require.True(t, ok)
	require.Empty(t, tu.Decls)
}

// stripLocations recursively clears every node's base.location so
// go-test/deep can compare AST shape without caring about byte offsets.
func stripLocations(n Node) Node {
	switch v := n.(type) {
	case *BinaryOp:
		c := *v
		c.location = SourceLocation{}
		c.Lhs = stripLocations(c.Lhs)
		c.Rhs = stripLocations(c.Rhs)
		return &c
	case *IntLiteral:
		c := *v
		c.location = SourceLocation{}
		return &c
	case *Identifier:
		c := *v
		c.location = SourceLocation{}
		return &c
	default:
		return n
	}
}
