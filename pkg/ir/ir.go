// Package ir defines the typeless intermediate representation that
// pkg/parser's AST lowers into: the same shape as the surface tree,
// but with Uniop/Binop rewritten into App and every Lambda carrying a
// stable pointer label.
package ir

import "github.com/chazu/loaf/pkg/ast"

// Expr is any typeless-IR expression node.
type Expr interface {
	exprNode()
	Location() ast.Location
}

// Stmt is a top-level program item: a named Def or a bare top-level
// expression (most programs in this language are just one of these,
// e.g. a begin...end block or a let...in expression with no defs at
// all).
type Stmt interface {
	stmtNode()
	Location() ast.Location
}

// Program is a lowered compilation unit. Module and Import statements
// from the AST carry no IR shape and are dropped during Lift.
type Program struct {
	Stmts []Stmt
}

// Param is a lambda formal parameter name.
type Param struct {
	Name string
}

// Binding is one name = value pair inside a Let.
type Binding struct {
	Name  string
	Value Expr
}

type Num struct {
	Lexeme string
	Loc    ast.Location
}

func (n *Num) exprNode()            {}
func (n *Num) Location() ast.Location { return n.Loc }

type Str struct {
	Value string
	Loc   ast.Location
}

func (s *Str) exprNode()            {}
func (s *Str) Location() ast.Location { return s.Loc }

// Bool is synthesized during Lift from the Id "true"/"false"; the
// surface grammar never produces a dedicated boolean token.
type Bool struct {
	Value bool
	Loc   ast.Location
}

func (b *Bool) exprNode()            {}
func (b *Bool) Location() ast.Location { return b.Loc }

type Symbol struct {
	Name string
	Loc  ast.Location
}

func (s *Symbol) exprNode()            {}
func (s *Symbol) Location() ast.Location { return s.Loc }

type Id struct {
	Name string
	Loc  ast.Location
}

func (i *Id) exprNode()            {}
func (i *Id) Location() ast.Location { return i.Loc }

// App is a function application. Every Uniop/Binop from the AST
// lowers into one of these, with the operator name as Fn.
type App struct {
	Fn   Expr
	Args []Expr
	Loc  ast.Location
}

func (a *App) exprNode()            {}
func (a *App) Location() ast.Location { return a.Loc }

// Lambda carries the fresh, globally-unique-within-a-compilation Ptr
// label assigned during Lift ("lambda-" plus Lift's ptrLen hex
// characters, 16 by default) — its entry label, constant-pool reference, and call
// target all key off this one string.
type Lambda struct {
	Params []Param
	Body   Expr
	Ptr    string
	Loc    ast.Location
}

func (l *Lambda) exprNode()            {}
func (l *Lambda) Location() ast.Location { return l.Loc }

type Cond struct {
	Test Expr
	Then Expr
	Else Expr
	Loc  ast.Location
}

func (c *Cond) exprNode()            {}
func (c *Cond) Location() ast.Location { return c.Loc }

type Let struct {
	Bindings []Binding
	Body     Expr
	Loc      ast.Location
}

func (l *Let) exprNode()            {}
func (l *Let) Location() ast.Location { return l.Loc }

type Begin struct {
	Exprs []Expr
	Loc   ast.Location
}

func (b *Begin) exprNode()            {}
func (b *Begin) Location() ast.Location { return b.Loc }

// Def is a top-level name = value binding.
type Def struct {
	Name  string
	Value Expr
	Loc   ast.Location
}

func (d *Def) stmtNode()            {}
func (d *Def) Location() ast.Location { return d.Loc }

// TopExpr lifts a bare top-level expression (the common case: a
// program with no top-level defs at all, just one expression to run).
type TopExpr struct {
	Expr Expr
	Loc  ast.Location
}

func (t *TopExpr) stmtNode()            {}
func (t *TopExpr) Location() ast.Location { return t.Loc }
