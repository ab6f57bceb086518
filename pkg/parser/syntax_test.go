package parser

import "testing"

func TestNewSyntaxStartsEmpty(t *testing.T) {
	s := NewSyntax()
	if _, ok := s.isPrefix("-"); ok {
		t.Error("isPrefix(-) = true on an empty table")
	}
	if _, ok := s.isInfix("+"); ok {
		t.Error("isInfix(+) = true on an empty table")
	}
	if _, ok := s.isPostfix("!"); ok {
		t.Error("isPostfix(!) = true on an empty table")
	}
}

func TestWithInfixDoesNotMutateReceiver(t *testing.T) {
	s1 := NewSyntax()
	s2 := s1.withInfix("+", 80)

	if _, ok := s1.isInfix("+"); ok {
		t.Error("withInfix mutated its receiver")
	}
	prec, ok := s2.isInfix("+")
	if !ok || prec != 80 {
		t.Errorf("s2.isInfix(+) = (%d, %v), want (80, true)", prec, ok)
	}
}

func TestPrefixInfixPostfixAreIndependentTables(t *testing.T) {
	s := NewSyntax().withPrefix("-", 95).withPostfix("!", 70)

	if _, ok := s.isInfix("-"); ok {
		t.Error("registering - as prefix leaked into the infix table")
	}
	if _, ok := s.isInfix("!"); ok {
		t.Error("registering ! as postfix leaked into the infix table")
	}
	if prec, ok := s.isPrefix("-"); !ok || prec != 95 {
		t.Errorf("isPrefix(-) = (%d, %v), want (95, true)", prec, ok)
	}
	if prec, ok := s.isPostfix("!"); !ok || prec != 70 {
		t.Errorf("isPostfix(!) = (%d, %v), want (70, true)", prec, ok)
	}
}

func TestWithInfixOverwritesSamePrecedence(t *testing.T) {
	s := NewSyntax().withInfix("+", 80).withInfix("+", 50)
	prec, ok := s.isInfix("+")
	if !ok || prec != 50 {
		t.Errorf("isInfix(+) = (%d, %v), want (50, true) after re-registering", prec, ok)
	}
}
