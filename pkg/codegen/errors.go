package codegen

import (
	"strconv"

	"github.com/chazu/loaf/pkg/ast"
)

// BadPushErr reports a Num literal that does not parse as a 32-bit
// integer, even though the lexer already accepted it as a float.
type BadPushErr struct {
	Lexeme string
	Loc    ast.Location
}

func (e *BadPushErr) Error() string {
	return e.Loc.String() + ": cannot push " + strconv.Quote(e.Lexeme) + " as I32"
}

func (e *BadPushErr) Location() ast.Location { return e.Loc }

// BadCallErr reports a call whose callee position could not be
// reduced to a callable reference.
type BadCallErr struct {
	Loc ast.Location
}

func (e *BadCallErr) Error() string {
	return e.Loc.String() + ": callee does not resolve to a callable value"
}

func (e *BadCallErr) Location() ast.Location { return e.Loc }

// UndeclaredIdentifierErr reports an Id with no visible binding.
type UndeclaredIdentifierErr struct {
	Name string
	Loc  ast.Location
}

func (e *UndeclaredIdentifierErr) Error() string {
	return e.Loc.String() + ": undeclared identifier " + strconv.Quote(e.Name)
}

func (e *UndeclaredIdentifierErr) Location() ast.Location { return e.Loc }

// CannotStoreDefErr reports a top-level Def whose value could not be
// reduced to a storable slot.
type CannotStoreDefErr struct {
	Name string
	Loc  ast.Location
}

func (e *CannotStoreDefErr) Error() string {
	return e.Loc.String() + ": cannot store definition " + strconv.Quote(e.Name)
}

func (e *CannotStoreDefErr) Location() ast.Location { return e.Loc }

// LookupErr reports a qualified-name lookup that should have succeeded
// given an earlier Contains check but did not (an internal invariant
// violation, not a user-facing source error).
type LookupErr struct {
	Name string
	Loc  ast.Location
}

func (e *LookupErr) Error() string {
	return e.Loc.String() + ": lookup failed for " + strconv.Quote(e.Name)
}

func (e *LookupErr) Location() ast.Location { return e.Loc }

// InvalidI32Err reports an opcode("...") immediate that does not fit
// in 32 bits.
type InvalidI32Err struct {
	Text string
	Loc  ast.Location
}

func (e *InvalidI32Err) Error() string {
	return e.Loc.String() + ": invalid I32 literal " + strconv.Quote(e.Text)
}

func (e *InvalidI32Err) Location() ast.Location { return e.Loc }
