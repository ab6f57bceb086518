package bytecode

import "strconv"

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	VI32 ValueKind = iota
	VBool
	VStr
	VSymbol
	VId
	VScope
)

// Value is the runtime value variant: I32(int32) | Bool | Str(string) |
// Symbol(name) | Id(label) | Scope(label). Id and Scope are symbolic
// references resolved through the code stream rather than boxed
// pointers, matching the copy-by-value, no-GC data model.
type Value struct {
	Kind ValueKind
	I32  int32
	Bool bool
	Str  string // holds the Str payload, or the Symbol/Id/Scope name/label
}

func I32(v int32) Value     { return Value{Kind: VI32, I32: v} }
func Bool(v bool) Value     { return Value{Kind: VBool, Bool: v} }
func Str(v string) Value    { return Value{Kind: VStr, Str: v} }
func Symbol(name string) Value { return Value{Kind: VSymbol, Str: name} }
func Id(label string) Value { return Value{Kind: VId, Str: label} }
func Scope(label string) Value { return Value{Kind: VScope, Str: label} }

func (v Value) String() string {
	switch v.Kind {
	case VI32:
		return strconv.FormatInt(int64(v.I32), 10)
	case VBool:
		return strconv.FormatBool(v.Bool)
	case VStr:
		return strconv.Quote(v.Str)
	case VSymbol:
		return "'" + v.Str
	case VId:
		return "Id(" + v.Str + ")"
	case VScope:
		return "Scope(" + v.Str + ")"
	default:
		return "?"
	}
}

// Truthy implements the VM's notion of a conditional test: I32(0) and
// False are false, everything else is true (§8 S3's "if n treats
// non-zero as true").
func (v Value) Truthy() bool {
	switch v.Kind {
	case VI32:
		return v.I32 != 0
	case VBool:
		return v.Bool
	default:
		return true
	}
}
