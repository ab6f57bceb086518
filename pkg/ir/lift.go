package ir

import (
	"strings"

	"github.com/google/uuid"

	"github.com/chazu/loaf/pkg/ast"
)

// DefaultPtrLen is the lambda-ptr suffix length Lift uses when called
// with ptrLen <= 0 (e.g. from a test, or any caller that hasn't loaded
// a loaf.toml).
const DefaultPtrLen = 16

// Lift lowers a parsed ast.Tree into a typeless Program. Uniop/Binop
// nodes become App(Id(op), args); true/false identifiers become Bool;
// every Lambda is assigned a fresh Ptr, its hex suffix ptrLen
// characters long (internal/config's "lambda-ptr length"); Module/
// Import statements are dropped (import resolution is an external
// collaborator's job).
func Lift(tree *ast.Tree, ptrLen int) *Program {
	if ptrLen <= 0 {
		ptrLen = DefaultPtrLen
	}
	l := &lifter{ptrLen: ptrLen}
	prog := &Program{}
	for _, stmt := range tree.Stmts {
		switch s := stmt.(type) {
		case *ast.Def:
			prog.Stmts = append(prog.Stmts, &Def{Name: s.Name, Value: l.liftExpr(s.Value), Loc: s.Loc})
		case *ast.ExprStmt:
			prog.Stmts = append(prog.Stmts, &TopExpr{Expr: l.liftExpr(s.Expr), Loc: s.Loc})
		case *ast.Module, *ast.Import:
			// Resolved by the external module/import collaborator; the
			// core IR has no shape for either.
		}
	}
	return prog
}

// lifter carries the one piece of state a lift needs beyond the tree
// itself: how long a fresh lambda ptr's hex suffix should be.
type lifter struct {
	ptrLen int
}

func (l *lifter) liftExpr(e ast.Expr) Expr {
	switch n := e.(type) {
	case *ast.Num:
		return &Num{Lexeme: n.Lexeme, Loc: n.Loc}

	case *ast.Str:
		return &Str{Value: n.Value, Loc: n.Loc}

	case *ast.Symbol:
		return &Symbol{Name: n.Name, Loc: n.Loc}

	case *ast.Id:
		switch n.Name {
		case "true":
			return &Bool{Value: true, Loc: n.Loc}
		case "false":
			return &Bool{Value: false, Loc: n.Loc}
		default:
			return &Id{Name: n.Name, Loc: n.Loc}
		}

	case *ast.Uniop:
		return &App{Fn: &Id{Name: n.Op, Loc: n.Loc}, Args: []Expr{l.liftExpr(n.Operand)}, Loc: n.Loc}

	case *ast.Binop:
		return &App{
			Fn:   &Id{Name: n.Op, Loc: n.Loc},
			Args: []Expr{l.liftExpr(n.Left), l.liftExpr(n.Right)},
			Loc:  n.Loc,
		}

	case *ast.App:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = l.liftExpr(a)
		}
		return &App{Fn: l.liftExpr(n.Callee), Args: args, Loc: n.Loc}

	case *ast.Lambda:
		params := make([]Param, len(n.Params))
		for i, p := range n.Params {
			params[i] = Param{Name: p.Name}
		}
		return &Lambda{Params: params, Body: l.liftExpr(n.Body), Ptr: l.newPtr(), Loc: n.Loc}

	case *ast.Cond:
		return &Cond{Test: l.liftExpr(n.Test), Then: l.liftExpr(n.Then), Else: l.liftExpr(n.Else), Loc: n.Loc}

	case *ast.Let:
		bindings := make([]Binding, len(n.Bindings))
		for i, b := range n.Bindings {
			bindings[i] = Binding{Name: b.Name, Value: l.liftExpr(b.Value)}
		}
		return &Let{Bindings: bindings, Body: l.liftExpr(n.Body), Loc: n.Loc}

	case *ast.Begin:
		exprs := make([]Expr, len(n.Exprs))
		for i, x := range n.Exprs {
			exprs[i] = l.liftExpr(x)
		}
		return &Begin{Exprs: exprs, Loc: n.Loc}

	default:
		panic("ir.liftExpr: unhandled ast node type")
	}
}

// newPtr generates a fresh lambda-XXXX label: "lambda-" followed by
// l.ptrLen alphanumeric characters taken from a UUID with its hyphens
// stripped. Collision-free within a compilation without hand-rolling
// an RNG. ptrLen is clamped to the 32 hex characters a UUID actually
// has to give.
func (l *lifter) newPtr() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	n := l.ptrLen
	if n > len(hex) {
		n = len(hex)
	}
	return "lambda-" + hex[:n]
}
