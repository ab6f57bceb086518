package ir

import (
	"testing"

	"github.com/chazu/loaf/pkg/ast"
)

func TestLiftBinopBecomesApp(t *testing.T) {
	tree := &ast.Tree{Stmts: []ast.Stmt{
		&ast.ExprStmt{Expr: &ast.Binop{
			Op:    "+",
			Left:  &ast.Num{Lexeme: "1"},
			Right: &ast.Num{Lexeme: "2"},
		}},
	}}

	prog := Lift(tree, 0)
	if len(prog.Stmts) != 1 {
		t.Fatalf("got %d stmts, want 1", len(prog.Stmts))
	}
	top, ok := prog.Stmts[0].(*TopExpr)
	if !ok {
		t.Fatalf("stmt type = %T, want *TopExpr", prog.Stmts[0])
	}
	app, ok := top.Expr.(*App)
	if !ok {
		t.Fatalf("expr type = %T, want *App", top.Expr)
	}
	fn, ok := app.Fn.(*Id)
	if !ok || fn.Name != "+" {
		t.Errorf("app.Fn = %+v, want Id(+)", app.Fn)
	}
	if len(app.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(app.Args))
	}
}

func TestLiftTrueFalseBecomeBool(t *testing.T) {
	tree := &ast.Tree{Stmts: []ast.Stmt{
		&ast.ExprStmt{Expr: &ast.Id{Name: "true"}},
		&ast.ExprStmt{Expr: &ast.Id{Name: "false"}},
	}}
	prog := Lift(tree, 0)
	for i, want := range []bool{true, false} {
		top := prog.Stmts[i].(*TopExpr)
		b, ok := top.Expr.(*Bool)
		if !ok || b.Value != want {
			t.Errorf("stmt[%d] = %+v, want Bool(%v)", i, top.Expr, want)
		}
	}
}

func TestLiftLambdaPtrsAreDistinct(t *testing.T) {
	tree := &ast.Tree{Stmts: []ast.Stmt{
		&ast.Def{Name: "f", Value: &ast.Lambda{Body: &ast.Num{Lexeme: "1"}}},
		&ast.Def{Name: "g", Value: &ast.Lambda{Body: &ast.Num{Lexeme: "2"}}},
	}}
	prog := Lift(tree, 0)
	ptrs := map[string]bool{}
	for _, stmt := range prog.Stmts {
		def := stmt.(*Def)
		lam := def.Value.(*Lambda)
		if ptrs[lam.Ptr] {
			t.Fatalf("duplicate ptr %q", lam.Ptr)
		}
		ptrs[lam.Ptr] = true
		if len(lam.Ptr) != len("lambda-")+16 {
			t.Errorf("ptr %q has unexpected length", lam.Ptr)
		}
	}
}

func TestLiftDropsModuleAndImport(t *testing.T) {
	tree := &ast.Tree{Stmts: []ast.Stmt{
		&ast.Module{Name: "m"},
		&ast.Import{Name: "other"},
		&ast.ExprStmt{Expr: &ast.Num{Lexeme: "1"}},
	}}
	prog := Lift(tree, 0)
	if len(prog.Stmts) != 1 {
		t.Fatalf("got %d stmts, want 1 (module/import dropped)", len(prog.Stmts))
	}
}
