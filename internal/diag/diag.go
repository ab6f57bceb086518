// Package diag extracts a source location and a one-line message from
// the typed errors raised across the pipeline (lexer, parser, codegen,
// vm), without rendering or formatting anything itself. Pretty-printing
// a diagnostic (source snippets, carets, color) is left to whatever
// calls this package.
package diag

import (
	"fmt"

	"github.com/chazu/loaf/pkg/ast"
	"github.com/chazu/loaf/pkg/vm"
)

// Located is satisfied by every source-position-carrying error in the
// pipeline (lexer.UnclosedStringErr, parser.UnexpectedTokenErr,
// codegen.BadPushErr, and so on).
type Located interface {
	error
	Location() ast.Location
}

// Diagnostic is an error reduced to its useful parts: where in the
// source it happened (if anywhere), and what went wrong. A runtime
// error has no source location, only the program counter it occurred
// at, so HasLoc distinguishes the two cases rather than overloading
// Loc's zero value.
type Diagnostic struct {
	Loc     ast.Location
	HasLoc  bool
	Pc      int
	Message string
}

// Describe reduces any error produced by the lexer, parser, codegen,
// or vm packages into a Diagnostic. Errors with no Location method,
// such as pkg/asm's (which only know their line within an opcode
// string), yield ok=false.
func Describe(err error) (Diagnostic, bool) {
	switch e := err.(type) {
	case nil:
		return Diagnostic{}, false
	case *vm.RuntimeErr:
		return Diagnostic{Pc: e.Pc, Message: e.Message}, true
	case Located:
		return Diagnostic{Loc: e.Location(), HasLoc: true, Message: err.Error()}, true
	default:
		return Diagnostic{}, false
	}
}

// String renders a Diagnostic: "line:col: message" when it carries a
// source location, "pc=N: message" for a bare runtime error.
func (d Diagnostic) String() string {
	if d.HasLoc {
		return d.Loc.String() + ": " + d.Message
	}
	return fmt.Sprintf("pc=%d: %s", d.Pc, d.Message)
}
