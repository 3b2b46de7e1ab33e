package ash

// NodeKind tags every AstNode variant. It is the explicit discriminator
// spec.md §3.3 calls out as part of each node's common header; Go's type
// switch over the concrete *FuncDef/*BinaryOp/... types is the primary way
// callers branch on a Node, but Kind() lets code that only needs the tag
// avoid a type assertion.
type NodeKind uint8

const (
	NodeFuncPrototype NodeKind = iota
	NodeFuncDef
	NodeVarDecl
	NodeParamDecl

	NodeBlock
	NodeReturn
	NodeBranch
	NodeDefer

	NodeIfExpr
	NodeLoopC
	NodeLoopWhile
	NodeLoopIn
	NodeMatchExpr
	NodeMatchBranch

	NodeBinaryOp
	NodeUnaryOp
	NodeFuncCall
	NodeSliceExpr
	NodeInitList
	NodeIdentifier
	NodeIntLiteral
	NodeFloatLiteral
	NodeStringLiteral
	NodeCharLiteral
	NodeBoolLiteral
	NodeNullLiteral
	NodeUnreachable

	NodeTranslationUnit
)

var nodeKindNames = map[NodeKind]string{
	NodeFuncPrototype:   "FuncPrototype",
	NodeFuncDef:         "FuncDef",
	NodeVarDecl:         "VarDecl",
	NodeParamDecl:       "ParamDecl",
	NodeBlock:           "Block",
	NodeReturn:          "Return",
	NodeBranch:          "Branch",
	NodeDefer:           "Defer",
	NodeIfExpr:          "IfExpr",
	NodeLoopC:           "LoopC",
	NodeLoopWhile:       "LoopWhile",
	NodeLoopIn:          "LoopIn",
	NodeMatchExpr:       "MatchExpr",
	NodeMatchBranch:     "MatchBranch",
	NodeBinaryOp:        "BinaryOp",
	NodeUnaryOp:         "UnaryOp",
	NodeFuncCall:        "FuncCall",
	NodeSliceExpr:       "SliceExpr",
	NodeInitList:        "InitList",
	NodeIdentifier:      "Identifier",
	NodeIntLiteral:      "IntLiteral",
	NodeFloatLiteral:    "FloatLiteral",
	NodeStringLiteral:   "StringLiteral",
	NodeCharLiteral:     "CharLiteral",
	NodeBoolLiteral:     "BoolLiteral",
	NodeNullLiteral:     "NullLiteral",
	NodeUnreachable:     "Unreachable",
	NodeTranslationUnit: "TranslationUnit",
}

// String names the node kind, used for JSON dumps and trace logging.
func (k NodeKind) String() string {
	if s, ok := nodeKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Node is satisfied by every AST variant: a common header (kind + source
// location) plus a payload shape specific to the variant. There are no
// back-pointers anywhere in the tree, so every child is exclusively owned
// by its parent and the tree is acyclic by construction.
type Node interface {
	Kind() NodeKind
	Loc() SourceLocation
}

// base is embedded by every concrete node to supply the common header.
type base struct {
	kind     NodeKind
	location SourceLocation
}

func (b base) Kind() NodeKind      { return b.kind }
func (b base) Loc() SourceLocation { return b.location }

func mkbase(kind NodeKind, loc SourceLocation) base {
	return base{kind: kind, location: loc}
}

// TranslationUnit is the AST root: a sequence of top-level declarations
// (FuncDef or VarDecl) in source order.
type TranslationUnit struct {
	base
	Filename string
	Decls    []Node
}

// --- Declarations -----------------------------------------------------

// ParamDecl is a single function-prototype parameter. Exactly one
// ParamDecl in a variadic FuncPrototype has IsVarArgs set, and it is
// always the last one (enforced by the parser, reported as
// VariadicNotLast otherwise).
type ParamDecl struct {
	base
	Name       string
	TypeExpr   Node
	IsVarArgs  bool
}

// FuncPrototype is a function's signature: name, parameters, and mandatory
// return type (a missing return type is a parse error, MissingReturnType).
type FuncPrototype struct {
	base
	Name       string
	Params     []*ParamDecl
	ReturnType Node
	IsVarArgs  bool
}

// FuncDef pairs a FuncPrototype with its body block.
type FuncDef struct {
	base
	Proto *FuncPrototype
	Body  *Block
}

// VarDecl declares a variable, optionally exported, and at most one of
// mutable/const (both set is a parse error, ConflictingQualifiers).
type VarDecl struct {
	base
	Name       string
	TypeExpr   Node // nil if omitted
	Init       Node // nil if omitted
	IsExport   bool
	IsMutable  bool
	IsConst    bool
}

// --- Statements ---------------------------------------------------------

// Block is a brace-delimited statement sequence, optionally named by a
// preceding label (BlockLabel). A non-empty Label is required when present
// (never "").
type Block struct {
	base
	Label      string // "" if unlabeled
	Statements []Node
}

// Return is a `return` statement with an optional expression.
type Return struct {
	base
	Expr Node // nil if bare `return`
}

// BranchKind distinguishes break from continue inside a Branch node.
type BranchKind uint8

const (
	BranchBreak BranchKind = iota
	BranchContinue
)

// Branch is a `break`/`continue` statement, optionally naming an enclosing
// label and, for `break`, optionally carrying a value expression. Whether a
// valued break is legal at the point it appears (only inside a labeled
// block) is a later-pass concern, not a parse error (spec.md §4.2).
type Branch struct {
	base
	BKind BranchKind
	Label string // "" if unlabeled
	Expr  Node   // nil if absent
}

// Defer wraps a block-expression-or-assignment-statement to run at scope
// exit.
type Defer struct {
	base
	Expr Node
}

// --- Control-flow expressions -------------------------------------------

// IfExpr is `if (cond) then [else ...]`. HasElse always agrees with
// whether Else is non-nil.
type IfExpr struct {
	base
	Condition Node
	Then      Node
	HasElse   bool
	Else      Node // nil unless HasElse
}

// LoopC is a C-style `loop (init; cond; step) body`.
type LoopC struct {
	base
	Init     Node // nil if omitted
	Cond     Node // nil if omitted
	Step     Node // nil if omitted
	Body     *Block
	IsInline bool
	Label    string
}

// LoopWhile is `while (cond) body`.
type LoopWhile struct {
	base
	Cond     Node
	Body     *Block
	IsInline bool
	Label    string
}

// LoopIn is `loop pattern in iterable body`.
type LoopIn struct {
	base
	Pattern  Node
	Iterable Node
	Body     *Block
	IsInline bool
	Label    string
}

// MatchExpr is `match (scrutinee) { branch, ... }`.
type MatchExpr struct {
	base
	Scrutinee Node
	Branches  []*MatchBranch
}

// MatchBranch is one arm of a MatchExpr: either a comma-separated list of
// pattern expressions, or the catch-all `else` (IsElse true, Patterns nil).
// `else`, if present, appears at most once and must be last (enforced by
// the parser: DuplicateElseInMatch otherwise).
type MatchBranch struct {
	base
	Patterns []Node
	IsElse   bool
	Body     Node
}

// --- Expressions ----------------------------------------------------

// BinaryOpKind enumerates every binary operator the parser can build a
// BinaryOp node for, including the assignment family (parsed by a
// dedicated top-level production, not the precedence-climbing tiers —
// see spec.md §9's resolution of the tier-50 ambiguity).
type BinaryOpKind uint8

const (
	BinaryAdd BinaryOpKind = iota
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryMod
	BinaryShl
	BinaryShr
	BinaryEqual
	BinaryNotEqual
	BinaryLess
	BinaryGreater
	BinaryLessEqual
	BinaryGreaterEqual
	BinaryBitAnd
	BinaryBitOr
	BinaryBitXor
	BinaryLogicalAnd
	BinaryLogicalOr

	BinaryAssign
	BinaryAssignAdd
	BinaryAssignSub
	BinaryAssignMul
	BinaryAssignDiv
	BinaryAssignMod
	BinaryAssignShl
	BinaryAssignShr
	BinaryAssignAnd
	BinaryAssignOr
	BinaryAssignXor
	BinaryAssignTilde
)

// BinaryOp is a binary expression. Lhs and Rhs are always non-nil.
type BinaryOp struct {
	base
	Op  BinaryOpKind
	Lhs Node
	Rhs Node
}

// UnaryOpKind enumerates the PrefixExpr operators.
type UnaryOpKind uint8

const (
	UnaryNegate UnaryOpKind = iota
	UnaryNot
	UnaryBitNot
	UnaryAddressOf
	UnaryTry
)

// UnaryOp is a prefix expression.
type UnaryOp struct {
	base
	Op      UnaryOpKind
	Operand Node
}

// FuncCall is a call suffix applied to a callee expression.
type FuncCall struct {
	base
	Callee Node
	Args   []Node
}

// SliceExpr is the `arr[start..end]` suffix; Start and/or End may be nil.
type SliceExpr struct {
	base
	ArrayRef Node
	Start    Node
	End      Node
}

// InitListKind distinguishes an array literal from a struct literal
// initializer list; both share the same brace-delimited entry-list shape.
type InitListKind uint8

const (
	InitArray InitListKind = iota
	InitStruct
)

// InitList is a `{ e1, e2, ... }` initializer.
type InitList struct {
	base
	ListKind InitListKind
	Entries  []Node
}

// Identifier is a name reference.
type Identifier struct {
	base
	Name string
}

// IntLiteral is a decimal/hex/octal/binary integer literal, already
// decoded (underscores stripped, base applied).
type IntLiteral struct {
	base
	Value int64
}

// FloatLiteral is a decoded floating-point literal.
type FloatLiteral struct {
	base
	Value float64
}

// StringLiteral holds the unescaped content of a string literal.
type StringLiteral struct {
	base
	Value string
}

// CharLiteral holds the single decoded rune of a character literal.
type CharLiteral struct {
	base
	Value rune
}

// BoolLiteral is `true`/`false`.
type BoolLiteral struct {
	base
	Value bool
}

// NullLiteral is the `null` literal; it carries no payload beyond its
// header.
type NullLiteral struct {
	base
}

// Unreachable is the `unreachable` sentinel expression.
type Unreachable struct {
	base
}
