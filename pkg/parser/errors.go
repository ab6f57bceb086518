package parser

import (
	"fmt"

	"github.com/chazu/loaf/pkg/ast"
)

// UnexpectedTokenErr reports a token that cannot begin or continue any
// production the parser was attempting.
type UnexpectedTokenErr struct {
	Got ast.Token
	Loc ast.Location
}

func (e *UnexpectedTokenErr) Error() string {
	return fmt.Sprintf("unexpected token %s at %s", e.Got, e.Loc)
}

func (e *UnexpectedTokenErr) Location() ast.Location { return e.Loc }

// MissingExpectedTokenErr reports that a specific token kind/lexeme was
// required but something else (or nothing) was found.
type MissingExpectedTokenErr struct {
	Want string
	Got  ast.Token
	Loc  ast.Location
}

func (e *MissingExpectedTokenErr) Error() string {
	return fmt.Sprintf("expected %s, got %s at %s", e.Want, e.Got, e.Loc)
}

func (e *MissingExpectedTokenErr) Location() ast.Location { return e.Loc }

// MissingExpectedTokenAfterErr is MissingExpectedTokenErr with the
// preceding construct named, for clearer diagnostics (e.g. "expected
// 'in' after let bindings").
type MissingExpectedTokenAfterErr struct {
	Want  string
	After string
	Got   ast.Token
	Loc   ast.Location
}

func (e *MissingExpectedTokenAfterErr) Error() string {
	return fmt.Sprintf("expected %s after %s, got %s at %s", e.Want, e.After, e.Got, e.Loc)
}

func (e *MissingExpectedTokenAfterErr) Location() ast.Location { return e.Loc }

// UnexpectedEofErr reports running out of tokens mid-production.
type UnexpectedEofErr struct {
	Loc ast.Location
}

func (e *UnexpectedEofErr) Error() string {
	return fmt.Sprintf("unexpected end of input at %s", e.Loc)
}

func (e *UnexpectedEofErr) Location() ast.Location { return e.Loc }

// EmptyBeginNotAllowedErr reports a begin...end with zero expressions.
type EmptyBeginNotAllowedErr struct {
	Loc ast.Location
}

func (e *EmptyBeginNotAllowedErr) Error() string {
	return fmt.Sprintf("begin block must contain at least one expression at %s", e.Loc)
}

func (e *EmptyBeginNotAllowedErr) Location() ast.Location { return e.Loc }

// BadOperatorDefinitionErr reports a malformed top-level operator(...)
// declaration: wrong arity, a fixity other than 'prefix/'infix/'postfix,
// a precedence outside 0..99, or a non-symbol name.
type BadOperatorDefinitionErr struct {
	Reason string
	Loc    ast.Location
}

func (e *BadOperatorDefinitionErr) Error() string {
	return fmt.Sprintf("bad operator declaration at %s: %s", e.Loc, e.Reason)
}

func (e *BadOperatorDefinitionErr) Location() ast.Location { return e.Loc }
