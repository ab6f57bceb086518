package bytecode

import (
	"strings"
	"testing"
)

func TestInstrString(t *testing.T) {
	tests := []struct {
		in   Instr
		want string
	}{
		{Push(TypeI32, I32(7)), "push I32 7"},
		{CallOp("fact"), "call fact"},
		{StwOp(RegEbp), "stw Ebp"},
		{HaltOp(), "halt"},
	}
	for _, tc := range tests {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("Instr.String() = %q, want %q", got, tc.want)
		}
	}
}

func TestValueTruthy(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{I32(0), false},
		{I32(5), true},
		{Bool(false), false},
		{Bool(true), true},
		{Str("x"), true},
	}
	for _, tc := range tests {
		if got := tc.v.Truthy(); got != tc.want {
			t.Errorf("%v.Truthy() = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestDisassembleLayout(t *testing.T) {
	codes := []Code{
		LabelCode("main"),
		InstrCode(Push(TypeI32, I32(1))),
		InstrCode(HaltOp()),
		ValueCode(TypeStr, "s0", Str("hi")),
	}
	out := Disassemble(codes)
	for _, want := range []string{"main:", "push I32 1", "halt", "value Str s0"} {
		if !strings.Contains(out, want) {
			t.Errorf("Disassemble output missing %q:\n%s", want, out)
		}
	}
}

func TestOpcodeByName(t *testing.T) {
	op, ok := OpcodeByName("frame")
	if !ok || op != OpFrame {
		t.Errorf("OpcodeByName(%q) = (%v, %v), want (OpFrame, true)", "frame", op, ok)
	}
	if _, ok := OpcodeByName("nope"); ok {
		t.Errorf("OpcodeByName(%q) unexpectedly found", "nope")
	}
}
