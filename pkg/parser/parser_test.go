package parser

import (
	"testing"

	"github.com/chazu/loaf/pkg/ast"
	"github.com/chazu/loaf/pkg/lexer"
)

// parseOne lexes and parses src, and returns the single resulting
// top-level expression statement's Expr.
func parseOne(t *testing.T, src string) ast.Expr {
	t.Helper()
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	tree, err := Parse(tokens)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(tree.Stmts) != 1 {
		t.Fatalf("got %d stmts, want 1", len(tree.Stmts))
	}
	stmt, ok := tree.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("stmt type = %T, want *ast.ExprStmt", tree.Stmts[0])
	}
	return stmt.Expr
}

// TestPrecedenceRotation checks invariant #3: for infix op1/op2 with
// precedence(op1) > precedence(op2), "a op2 b op1 c" parses as
// Binop(op2, a, Binop(op1, b, c)) — no rotation needed since the
// right-hand nested Binop already binds tighter than the left operator.
func TestPrecedenceRotation(t *testing.T) {
	src := "operator('infix, 80, '+)\noperator('infix, 90, '*)\na + b * c"
	expr := parseOne(t, src)

	top, ok := expr.(*ast.Binop)
	if !ok || top.Op != "+" {
		t.Fatalf("expr = %+v, want top-level Binop(+, ...)", expr)
	}
	if id, ok := top.Left.(*ast.Id); !ok || id.Name != "a" {
		t.Errorf("top.Left = %+v, want Id(a)", top.Left)
	}
	inner, ok := top.Right.(*ast.Binop)
	if !ok || inner.Op != "*" {
		t.Fatalf("top.Right = %+v, want Binop(*, b, c)", top.Right)
	}
	if id, ok := inner.Left.(*ast.Id); !ok || id.Name != "b" {
		t.Errorf("inner.Left = %+v, want Id(b)", inner.Left)
	}
	if id, ok := inner.Right.(*ast.Id); !ok || id.Name != "c" {
		t.Errorf("inner.Right = %+v, want Id(c)", inner.Right)
	}
}

// TestPrecedenceRotationFiresWhenLeftBindsTighter checks the other
// direction of invariant #3's tie-break: "a op1 b op2 c" with
// precedence(op1) > precedence(op2) rotates into ((a op1 b) op2 c)
// rather than a op1 (b op2 c).
func TestPrecedenceRotationFiresWhenLeftBindsTighter(t *testing.T) {
	src := "operator('infix, 80, '+)\noperator('infix, 90, '*)\na * b + c"
	expr := parseOne(t, src)

	top, ok := expr.(*ast.Binop)
	if !ok || top.Op != "+" {
		t.Fatalf("expr = %+v, want top-level Binop(+, ...)", expr)
	}
	inner, ok := top.Left.(*ast.Binop)
	if !ok || inner.Op != "*" {
		t.Fatalf("top.Left = %+v, want Binop(*, a, b)", top.Left)
	}
	if id, ok := inner.Left.(*ast.Id); !ok || id.Name != "a" {
		t.Errorf("inner.Left = %+v, want Id(a)", inner.Left)
	}
	if id, ok := inner.Right.(*ast.Id); !ok || id.Name != "b" {
		t.Errorf("inner.Right = %+v, want Id(b)", inner.Right)
	}
	if id, ok := top.Right.(*ast.Id); !ok || id.Name != "c" {
		t.Errorf("top.Right = %+v, want Id(c)", top.Right)
	}
}

func TestOperatorDeclarationIsDroppedFromTree(t *testing.T) {
	tokens, err := lexer.Tokenize("operator('infix, 80, '+)\na + b")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	tree, err := Parse(tokens)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(tree.Stmts) != 1 {
		t.Fatalf("got %d stmts, want 1 (operator decl dropped)", len(tree.Stmts))
	}
}

func TestBadOperatorDefinitionErrOnWrongArity(t *testing.T) {
	tokens, err := lexer.Tokenize("operator('infix, 80)\na")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	_, err = Parse(tokens)
	if _, ok := err.(*BadOperatorDefinitionErr); !ok {
		t.Fatalf("err = %v (%T), want *BadOperatorDefinitionErr", err, err)
	}
}

func TestBadOperatorDefinitionErrOnPrecedenceOutOfRange(t *testing.T) {
	tokens, err := lexer.Tokenize("operator('infix, 200, '+)\na")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	_, err = Parse(tokens)
	if _, ok := err.(*BadOperatorDefinitionErr); !ok {
		t.Fatalf("err = %v (%T), want *BadOperatorDefinitionErr", err, err)
	}
}

func TestBadOperatorDefinitionErrOnBadFixity(t *testing.T) {
	tokens, err := lexer.Tokenize("operator('sideways, 80, '+)\na")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	_, err = Parse(tokens)
	if _, ok := err.(*BadOperatorDefinitionErr); !ok {
		t.Fatalf("err = %v (%T), want *BadOperatorDefinitionErr", err, err)
	}
}

func TestUnexpectedTokenErrOnLeadingCloseParen(t *testing.T) {
	tokens, err := lexer.Tokenize(")")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	_, err = Parse(tokens)
	uErr, ok := err.(*UnexpectedTokenErr)
	if !ok {
		t.Fatalf("err = %v (%T), want *UnexpectedTokenErr", err, err)
	}
	if uErr.Got.Kind != ast.TokenCloseParen {
		t.Errorf("Got.Kind = %v, want TokenCloseParen", uErr.Got.Kind)
	}
}

func TestUnexpectedEofErrOnUnclosedParen(t *testing.T) {
	tokens, err := lexer.Tokenize("(")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	_, err = Parse(tokens)
	if _, ok := err.(*UnexpectedEofErr); !ok {
		t.Fatalf("err = %v (%T), want *UnexpectedEofErr", err, err)
	}
}

func TestMissingExpectedTokenAfterErrOnCondMissingElse(t *testing.T) {
	tokens, err := lexer.Tokenize("if true then 1")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	_, err = Parse(tokens)
	mErr, ok := err.(*MissingExpectedTokenAfterErr)
	if !ok {
		t.Fatalf("err = %v (%T), want *MissingExpectedTokenAfterErr", err, err)
	}
	if mErr.Want != "else" {
		t.Errorf("Want = %q, want %q", mErr.Want, "else")
	}
}

func TestMissingExpectedTokenAfterErrOnCondMissingThen(t *testing.T) {
	tokens, err := lexer.Tokenize("if true 1 else 2")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	_, err = Parse(tokens)
	mErr, ok := err.(*MissingExpectedTokenAfterErr)
	if !ok {
		t.Fatalf("err = %v (%T), want *MissingExpectedTokenAfterErr", err, err)
	}
	if mErr.Want != "then" {
		t.Errorf("Want = %q, want %q", mErr.Want, "then")
	}
}

func TestEmptyBeginNotAllowedErr(t *testing.T) {
	tokens, err := lexer.Tokenize("begin end")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	_, err = Parse(tokens)
	if _, ok := err.(*EmptyBeginNotAllowedErr); !ok {
		t.Fatalf("err = %v (%T), want *EmptyBeginNotAllowedErr", err, err)
	}
}

func TestParseLambdaWithTypeAnnotations(t *testing.T) {
	expr := parseOne(t, "func (x:Int, y:Bool) = x")

	lam, ok := expr.(*ast.Lambda)
	if !ok {
		t.Fatalf("expr type = %T, want *ast.Lambda", expr)
	}
	if len(lam.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(lam.Params))
	}
	if lam.Params[0].Name != "x" || lam.Params[0].Ty == nil || lam.Params[0].Ty.Name != "Int" {
		t.Errorf("params[0] = %+v, want Name=x Ty.Name=Int", lam.Params[0])
	}
	if lam.Params[1].Name != "y" || lam.Params[1].Ty == nil || lam.Params[1].Ty.Name != "Bool" {
		t.Errorf("params[1] = %+v, want Name=y Ty.Name=Bool", lam.Params[1])
	}
}

func TestParseLambdaWithoutTypeAnnotationsLeavesTyNil(t *testing.T) {
	expr := parseOne(t, "func (x, y) = x")

	lam, ok := expr.(*ast.Lambda)
	if !ok {
		t.Fatalf("expr type = %T, want *ast.Lambda", expr)
	}
	for i, p := range lam.Params {
		if p.Ty != nil {
			t.Errorf("params[%d].Ty = %+v, want nil", i, p.Ty)
		}
	}
}

func TestParseLetWithOneBinding(t *testing.T) {
	expr := parseOne(t, "let x = 1 in x")

	let, ok := expr.(*ast.Let)
	if !ok {
		t.Fatalf("expr type = %T, want *ast.Let", expr)
	}
	if len(let.Bindings) != 1 || let.Bindings[0].Name != "x" {
		t.Errorf("bindings = %+v, want one binding named x", let.Bindings)
	}
}

func TestParseDefWithParamsSugarsToLambda(t *testing.T) {
	tokens, err := lexer.Tokenize("def add(a, b) = a")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	tree, err := Parse(tokens)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	def, ok := tree.Stmts[0].(*ast.Def)
	if !ok {
		t.Fatalf("stmt type = %T, want *ast.Def", tree.Stmts[0])
	}
	lam, ok := def.Value.(*ast.Lambda)
	if !ok {
		t.Fatalf("def.Value type = %T, want *ast.Lambda", def.Value)
	}
	if len(lam.Params) != 2 {
		t.Errorf("got %d params, want 2", len(lam.Params))
	}
}
