package diag

import (
	"testing"

	"github.com/chazu/loaf/pkg/ast"
	"github.com/chazu/loaf/pkg/codegen"
	"github.com/chazu/loaf/pkg/vm"
)

func TestDescribeLocatedError(t *testing.T) {
	err := &codegen.UndeclaredIdentifierErr{Name: "nope", Loc: ast.Location{Line: 3, Col: 5}}
	d, ok := Describe(err)
	if !ok {
		t.Fatal("Describe returned ok=false for a Located error")
	}
	if !d.HasLoc || d.Loc != (ast.Location{Line: 3, Col: 5}) {
		t.Fatalf("got %+v, want HasLoc=true Loc={3 5}", d)
	}
	if d.String() != "3:5: "+err.Error() {
		t.Errorf("String() = %q", d.String())
	}
}

func TestDescribeRuntimeError(t *testing.T) {
	err := &vm.RuntimeErr{Message: "boom", Pc: 12}
	d, ok := Describe(err)
	if !ok {
		t.Fatal("Describe returned ok=false for a RuntimeErr")
	}
	if d.HasLoc {
		t.Errorf("HasLoc = true, want false for a RuntimeErr")
	}
	if d.Pc != 12 || d.Message != "boom" {
		t.Fatalf("got %+v", d)
	}
	if d.String() != "pc=12: boom" {
		t.Errorf("String() = %q", d.String())
	}
}

func TestDescribeUnlocatedErrorIsNotOk(t *testing.T) {
	_, ok := Describe(&unlocatedErr{})
	if ok {
		t.Error("Describe returned ok=true for an error with no Location method")
	}
}

type unlocatedErr struct{}

func (e *unlocatedErr) Error() string { return "plain error" }
