// Package parser converts a token stream into a surface ast.Tree using
// a Pratt-style expression engine whose operator table is itself
// mutated, at the top level, by operator(...) declarations.
package parser

import (
	"strings"

	"github.com/chazu/loaf/pkg/ast"
)

// Parser walks a fixed token slice, threading an immutable Syntax
// table that the top-level loop replaces wholesale each time it
// consumes an operator(...) declaration.
type Parser struct {
	tokens []ast.Token
	pos    int
	syntax Syntax
}

// New creates a Parser over tokens, which must be terminated by a
// single ast.TokenEOF (as produced by pkg/lexer.Tokenize).
func New(tokens []ast.Token) *Parser {
	return &Parser{tokens: tokens, syntax: NewSyntax()}
}

// Parse runs the top-level fold described in §4.2: each top-level node
// either extends the syntax table (and is dropped) or is appended to
// the output tree.
func Parse(tokens []ast.Token) (*ast.Tree, error) {
	p := New(tokens)
	tree := &ast.Tree{}

	for !p.atEOF() {
		stmt, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		if decl, ok := asOperatorDecl(stmt); ok {
			syntax, err := p.applyOperatorDecl(decl)
			if err != nil {
				return nil, err
			}
			p.syntax = syntax
			continue
		}
		tree.Stmts = append(tree.Stmts, stmt)
	}
	return tree, nil
}

func (p *Parser) atEOF() bool {
	return p.peek().Kind == ast.TokenEOF
}

func (p *Parser) peek() ast.Token {
	return p.tokens[p.pos]
}

func (p *Parser) advance() ast.Token {
	tok := p.tokens[p.pos]
	if tok.Kind != ast.TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) isId(text string) bool {
	tok := p.peek()
	return tok.Kind == ast.TokenId && tok.Text == text
}

func (p *Parser) expectId(text string) (ast.Token, error) {
	if !p.isId(text) {
		return ast.Token{}, &MissingExpectedTokenErr{Want: text, Got: p.peek(), Loc: p.peek().Loc}
	}
	return p.advance(), nil
}

func (p *Parser) expectKind(kind ast.TokenKind, want string) (ast.Token, error) {
	if p.peek().Kind != kind {
		return ast.Token{}, &MissingExpectedTokenErr{Want: want, Got: p.peek(), Loc: p.peek().Loc}
	}
	return p.advance(), nil
}

// parseTopLevel parses one top-level Stmt: def, module, import, or a
// bare expression (including, syntactically, operator(...) calls,
// which Parse recognizes afterward by shape).
func (p *Parser) parseTopLevel() (ast.Stmt, error) {
	switch {
	case p.isId("def"):
		return p.parseDef()
	case p.isId("module"):
		return p.parseModule()
	case p.isId("import"):
		return p.parseImport()
	default:
		loc := p.peek().Loc
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Expr: expr, Loc: loc}, nil
	}
}

func (p *Parser) parseDef() (ast.Stmt, error) {
	tok, _ := p.expectId("def")
	name, err := p.expectKind(ast.TokenId, "identifier")
	if err != nil {
		return nil, err
	}

	if p.peek().Kind == ast.TokenOpenParen {
		// def name(params) = expr is sugar for def name = func(params) = expr.
		lambdaLoc := p.peek().Loc
		params, err := p.parseParamList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKind(ast.TokenEqual, "="); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Def{
			Name:  name.Text,
			Value: &ast.Lambda{Params: params, Body: body, Loc: lambdaLoc},
			Loc:   tok.Loc,
		}, nil
	}

	if _, err := p.expectKind(ast.TokenEqual, "="); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Def{Name: name.Text, Value: value, Loc: tok.Loc}, nil
}

func (p *Parser) parseModule() (ast.Stmt, error) {
	tok, _ := p.expectId("module")
	name, err := p.expectKind(ast.TokenId, "module name")
	if err != nil {
		return nil, err
	}
	return &ast.Module{Name: name.Text, Loc: tok.Loc}, nil
}

func (p *Parser) parseImport() (ast.Stmt, error) {
	tok, _ := p.expectId("import")
	name, err := p.expectKind(ast.TokenId, "import name")
	if err != nil {
		return nil, err
	}
	return &ast.Import{Name: name.Text, Loc: tok.Loc}, nil
}

// parseExpr implements the continuation loop from §4.2: prefix ops,
// then a loop over postfix/infix/call continuations, with the
// precedence-rotation tie-break on infix chains.
func (p *Parser) parseExpr() (ast.Expr, error) {
	left, err := p.parseUnaryOrPrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()

		if tok.Kind == ast.TokenId {
			if prec, ok := p.syntax.isPostfix(tok.Text); ok {
				_ = prec
				p.advance()
				left = &ast.Uniop{Op: tok.Text, Operand: left, Loc: tok.Loc}
				continue
			}
			if prec, ok := p.syntax.isInfix(tok.Text); ok {
				p.advance()
				rhs, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				if rhsBinop, ok := rhs.(*ast.Binop); ok {
					if rhsPrec, ok2 := p.syntax.isInfix(rhsBinop.Op); ok2 && prec > rhsPrec {
						left = &ast.Binop{
							Op:   rhsBinop.Op,
							Left: &ast.Binop{Op: tok.Text, Left: left, Right: rhsBinop.Left, Loc: tok.Loc},
							Right: rhsBinop.Right,
							Loc:   rhsBinop.Loc,
						}
						continue
					}
				}
				left = &ast.Binop{Op: tok.Text, Left: left, Right: rhs, Loc: tok.Loc}
				continue
			}
		}

		if tok.Kind == ast.TokenOpenParen {
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			left = &ast.App{Callee: left, Args: args, Loc: tok.Loc}
			continue
		}

		return left, nil
	}
}

func (p *Parser) parseUnaryOrPrimary() (ast.Expr, error) {
	tok := p.peek()
	if tok.Kind == ast.TokenId {
		if _, ok := p.syntax.isPrefix(tok.Text); ok {
			p.advance()
			operand, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			return &ast.Uniop{Op: tok.Text, Operand: operand, Loc: tok.Loc}, nil
		}
	}
	return p.parsePrimary()
}

// parsePrimary parses func/if/let/begin forms, parenthesized groups,
// and literals/identifiers. Reserved words are recognized here purely
// by lexeme; the lexer never distinguishes them from ordinary ids.
func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()

	switch {
	case tok.Kind == ast.TokenEOF:
		return nil, &UnexpectedEofErr{Loc: tok.Loc}

	case tok.Kind == ast.TokenNum:
		p.advance()
		return &ast.Num{Lexeme: tok.Text, Loc: tok.Loc}, nil

	case tok.Kind == ast.TokenStr:
		p.advance()
		return &ast.Str{Value: tok.Text, Loc: tok.Loc}, nil

	case tok.Kind == ast.TokenSymbol:
		p.advance()
		return &ast.Symbol{Name: tok.Text, Loc: tok.Loc}, nil

	case tok.Kind == ast.TokenOpenParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKind(ast.TokenCloseParen, ")"); err != nil {
			return nil, err
		}
		return inner, nil

	case tok.Kind == ast.TokenId && tok.Text == "func":
		return p.parseLambda()

	case tok.Kind == ast.TokenId && tok.Text == "if":
		return p.parseCond()

	case tok.Kind == ast.TokenId && tok.Text == "let":
		return p.parseLet()

	case tok.Kind == ast.TokenId && tok.Text == "begin":
		return p.parseBegin()

	case tok.Kind == ast.TokenId && isBoundaryWord(tok.Text):
		// in/then/else/end close an enclosing construct; they can never
		// themselves start a primary expression, so hitting one here
		// means the expression we were asked to parse is missing.
		return nil, &MissingExpectedTokenErr{Want: "expression", Got: tok, Loc: tok.Loc}

	case tok.Kind == ast.TokenId:
		p.advance()
		return &ast.Id{Name: tok.Text, Loc: tok.Loc}, nil

	default:
		return nil, &UnexpectedTokenErr{Got: tok, Loc: tok.Loc}
	}
}

func isBoundaryWord(text string) bool {
	switch text {
	case "in", "then", "else", "end":
		return true
	default:
		return false
	}
}

func (p *Parser) parseLambda() (ast.Expr, error) {
	tok, _ := p.expectId("func")
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKind(ast.TokenEqual, "="); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Lambda{Params: params, Body: body, Loc: tok.Loc}, nil
}

func (p *Parser) parseParamList() ([]ast.Param, error) {
	if _, err := p.expectKind(ast.TokenOpenParen, "("); err != nil {
		return nil, err
	}
	var params []ast.Param
	if p.peek().Kind == ast.TokenCloseParen {
		p.advance()
		return params, nil
	}
	for {
		name, err := p.expectKind(ast.TokenId, "parameter name")
		if err != nil {
			return nil, err
		}
		param := ast.Param{Name: name.Text, Loc: name.Loc}
		if p.peek().Kind == ast.TokenColon {
			p.advance()
			ty, err := p.expectKind(ast.TokenId, "parameter type")
			if err != nil {
				return nil, err
			}
			param.Ty = &ast.Id{Name: ty.Text, Loc: ty.Loc}
		}
		params = append(params, param)
		if p.peek().Kind == ast.TokenComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expectKind(ast.TokenCloseParen, ")"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseArgList() ([]ast.Expr, error) {
	if _, err := p.expectKind(ast.TokenOpenParen, "("); err != nil {
		return nil, err
	}
	var args []ast.Expr
	if p.peek().Kind == ast.TokenCloseParen {
		p.advance()
		return args, nil
	}
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().Kind == ast.TokenComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expectKind(ast.TokenCloseParen, ")"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseCond() (ast.Expr, error) {
	tok, _ := p.expectId("if")
	test, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.isId("then") {
		return nil, &MissingExpectedTokenAfterErr{Want: "then", After: "if condition", Got: p.peek(), Loc: p.peek().Loc}
	}
	p.advance()
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.isId("else") {
		return nil, &MissingExpectedTokenAfterErr{Want: "else", After: "then branch", Got: p.peek(), Loc: p.peek().Loc}
	}
	p.advance()
	elseExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Cond{Test: test, Then: then, Else: elseExpr, Loc: tok.Loc}, nil
}

func (p *Parser) parseLet() (ast.Expr, error) {
	tok, _ := p.expectId("let")

	var bindings []ast.Binding
	for {
		nameTok, err := p.expectKind(ast.TokenId, "binding name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKind(ast.TokenEqual, "="); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, ast.Binding{Name: nameTok.Text, Value: value, Loc: nameTok.Loc})

		if p.isId("in") {
			break
		}
		if p.peek().Kind != ast.TokenId {
			return nil, &MissingExpectedTokenAfterErr{Want: "binding or in", After: "let binding", Got: p.peek(), Loc: p.peek().Loc}
		}
	}

	if _, err := p.expectId("in"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Let{Bindings: bindings, Body: body, Loc: tok.Loc}, nil
}

func (p *Parser) parseBegin() (ast.Expr, error) {
	tok, _ := p.expectId("begin")

	var exprs []ast.Expr
	for !p.isId("end") {
		if p.atEOF() {
			return nil, &UnexpectedEofErr{Loc: p.peek().Loc}
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	p.advance() // consume end

	if len(exprs) == 0 {
		return nil, &EmptyBeginNotAllowedErr{Loc: tok.Loc}
	}
	return &ast.Begin{Exprs: exprs, Loc: tok.Loc}, nil
}

// operatorDecl is the shape of a parsed operator(...) statement,
// extracted from an ExprStmt wrapping App(Id("operator"), [...]).
type operatorDecl struct {
	loc     ast.Location
	fixity  string
	prec    int32
	hasPrec bool
	precLoc ast.Location
	name    string
	nameOK  bool
	fixOK   bool
	args    []ast.Expr
}

// asOperatorDecl reports whether stmt is an App whose callee is the
// bare identifier "operator"; it does not itself validate the
// argument shape (Parse's applyOperatorDecl does, raising
// BadOperatorDefinitionErr on malformed forms).
func asOperatorDecl(stmt ast.Stmt) (*operatorDecl, bool) {
	exprStmt, ok := stmt.(*ast.ExprStmt)
	if !ok {
		return nil, false
	}
	app, ok := exprStmt.Expr.(*ast.App)
	if !ok {
		return nil, false
	}
	callee, ok := app.Callee.(*ast.Id)
	if !ok || callee.Name != "operator" {
		return nil, false
	}
	return &operatorDecl{loc: app.Loc, args: app.Args}, true
}

func (p *Parser) applyOperatorDecl(decl *operatorDecl) (Syntax, error) {
	if len(decl.args) != 3 {
		return Syntax{}, &BadOperatorDefinitionErr{
			Reason: "operator(...) takes exactly 3 arguments: fixity, precedence, name",
			Loc:    decl.loc,
		}
	}

	fixitySym, ok := decl.args[0].(*ast.Symbol)
	if !ok {
		return Syntax{}, &BadOperatorDefinitionErr{Reason: "first argument must be a symbol (prefix/infix/postfix)", Loc: decl.loc}
	}
	fixity := strings.ToLower(fixitySym.Name)
	if fixity != "prefix" && fixity != "infix" && fixity != "postfix" {
		return Syntax{}, &BadOperatorDefinitionErr{Reason: "fixity must be 'prefix, 'infix, or 'postfix", Loc: decl.loc}
	}

	precNum, ok := decl.args[1].(*ast.Num)
	if !ok {
		return Syntax{}, &BadOperatorDefinitionErr{Reason: "second argument must be a precedence literal", Loc: decl.loc}
	}
	prec, err := parsePrecedence(precNum.Lexeme)
	if err != nil || prec < 0 || prec > 99 {
		return Syntax{}, &BadOperatorDefinitionErr{Reason: "precedence must be an integer in 0..99", Loc: precNum.Loc}
	}

	nameSym, ok := decl.args[2].(*ast.Symbol)
	if !ok {
		return Syntax{}, &BadOperatorDefinitionErr{Reason: "third argument must be a symbol naming the operator", Loc: decl.loc}
	}

	switch fixity {
	case "prefix":
		return p.syntax.withPrefix(nameSym.Name, prec), nil
	case "infix":
		return p.syntax.withInfix(nameSym.Name, prec), nil
	default:
		return p.syntax.withPostfix(nameSym.Name, prec), nil
	}
}

func parsePrecedence(lexeme string) (int, error) {
	n := 0
	for _, r := range lexeme {
		if r < '0' || r > '9' {
			return 0, &BadOperatorDefinitionErr{Reason: "precedence must be a non-negative integer"}
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}
