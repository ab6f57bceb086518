// Package asm implements the embedded micro-assembler: a restricted
// syntax inside opcode("...") strings that the opcode generator
// (pkg/codegen) inlines verbatim wherever it appears in call position.
// It shares pkg/bytecode's Opcode enum with the main generator, so
// anything the generator can emit, an opcode("...") string can spell
// too.
package asm

import (
	"strconv"
	"strings"

	"github.com/chazu/loaf/pkg/bytecode"
	"github.com/chazu/loaf/pkg/scope"
)

// UnknownUserOpcodeErr reports a mnemonic that isn't in the shared
// Opcode table.
type UnknownUserOpcodeErr struct {
	Mnemonic string
	Line     int
}

func (e *UnknownUserOpcodeErr) Error() string {
	return "unknown opcode " + strconv.Quote(e.Mnemonic) + " on line " + strconv.Itoa(e.Line)
}

// OpcodeSyntaxErr reports a line that doesn't parse as a label or a
// recognized instruction shape.
type OpcodeSyntaxErr struct {
	Line int
	Text string
}

func (e *OpcodeSyntaxErr) Error() string {
	return "bad opcode syntax on line " + strconv.Itoa(e.Line) + ": " + strconv.Quote(e.Text)
}

// Line is one parsed element of an opcode("...") body: a label header
// or an instruction. Codegen wraps each into the surrounding section
// via bytecode.GroupedLabelItem / bytecode.GroupedInstr.
type Line struct {
	IsLabel bool
	Label   string
	Instr   bytecode.Instr
}

var typeNames = map[string]bytecode.Type{
	"i32":    bytecode.TypeI32,
	"bool":   bytecode.TypeBool,
	"str":    bytecode.TypeStr,
	"symbol": bytecode.TypeSymbol,
	"id":     bytecode.TypeId,
	"scope":  bytecode.TypeScope,
	"const":  bytecode.TypeConst,
	"ref":    bytecode.TypeRef,
}

var registerNames = map[string]bytecode.Register{
	"pc":  bytecode.RegPc,
	"esp": bytecode.RegEsp,
	"ebp": bytecode.RegEbp,
	"lr":  bytecode.RegLr,
	"jm":  bytecode.RegJm,
	"rt":  bytecode.RegRt,
}

// Assemble parses an opcode("...") body into a sequence of Lines.
// Identifier operands (jump/call targets, Load/Store names) are
// resolved through sc: names already bound in the surrounding IR
// scope get their real qualified name, and anything else is treated
// as a label local to this embedded block, namespaced under sc's own
// section so a label declared and used only within one opcode string
// resolves consistently without colliding with another.
func Assemble(src string, sc scope.Scope) ([]Line, error) {
	var lines []Line
	for i, raw := range strings.Split(src, "\n") {
		lineNo := i + 1
		text := stripComment(raw)
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if label, ok := asLabelHeader(text); ok {
			lines = append(lines, Line{IsLabel: true, Label: resolveName(sc, label)})
			continue
		}

		instr, err := parseInstruction(text, lineNo, sc)
		if err != nil {
			return nil, err
		}
		lines = append(lines, Line{Instr: instr})
	}
	return lines, nil
}

func stripComment(line string) string {
	if i := strings.Index(line, "//"); i >= 0 {
		return line[:i]
	}
	return line
}

func asLabelHeader(text string) (string, bool) {
	if !strings.HasSuffix(text, ":") {
		return "", false
	}
	name := strings.TrimSuffix(text, ":")
	if strings.ContainsAny(name, " \t") || name == "" {
		return "", false
	}
	return name, true
}

func resolveName(sc scope.Scope, name string) string {
	if q, ok := sc.Qualified2(name); ok {
		return q
	}
	return sc.Section() + "." + name
}

func parseInstruction(text string, lineNo int, sc scope.Scope) (bytecode.Instr, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return bytecode.Instr{}, &OpcodeSyntaxErr{Line: lineNo, Text: text}
	}
	mnemonic := strings.ToLower(fields[0])
	op, ok := bytecode.OpcodeByName(mnemonic)
	if !ok {
		return bytecode.Instr{}, &UnknownUserOpcodeErr{Mnemonic: fields[0], Line: lineNo}
	}
	rest := fields[1:]
	info := op.Info()

	instr := bytecode.Instr{Op: op}

	if info.HasRegister {
		if len(rest) == 0 {
			return bytecode.Instr{}, &OpcodeSyntaxErr{Line: lineNo, Text: text}
		}
		reg, ok := registerNames[strings.ToLower(rest[0])]
		if !ok {
			return bytecode.Instr{}, &OpcodeSyntaxErr{Line: lineNo, Text: text}
		}
		instr.Register = reg
		instr.HasRegister = true
		rest = rest[1:]
		if len(rest) > 0 {
			v, err := parseOperandValue(rest[0], sc)
			if err != nil {
				return bytecode.Instr{}, &OpcodeSyntaxErr{Line: lineNo, Text: text}
			}
			instr.Operand = bytecode.ImmOperand(v)
			instr.HasOperand = true
		}
		return instr, nil
	}

	if info.HasType {
		if len(rest) == 0 {
			return bytecode.Instr{}, &OpcodeSyntaxErr{Line: lineNo, Text: text}
		}
		t, ok := typeNames[strings.ToLower(rest[0])]
		if !ok {
			return bytecode.Instr{}, &OpcodeSyntaxErr{Line: lineNo, Text: text}
		}
		instr.Type = t
		instr.HasType = true
		rest = rest[1:]
	}

	if info.HasOperand {
		if len(rest) == 0 {
			return bytecode.Instr{}, &OpcodeSyntaxErr{Line: lineNo, Text: text}
		}
		tok := rest[0]
		if op == bytecode.OpJz || op == bytecode.OpJmp || op == bytecode.OpCall {
			instr.Operand = bytecode.LabelOperand(resolveName(sc, tok))
		} else if op == bytecode.OpLoad || op == bytecode.OpStore {
			instr.Operand = bytecode.LabelOperand(resolveName(sc, tok))
		} else {
			v, err := parseOperandValue(tok, sc)
			if err != nil {
				return bytecode.Instr{}, &OpcodeSyntaxErr{Line: lineNo, Text: text}
			}
			instr.Operand = bytecode.ImmOperand(v)
		}
		instr.HasOperand = true
	}

	return instr, nil
}

// parseOperandValue parses a Push/Frame-style operand: #N for an I32
// immediate, true/false for a Bool immediate, or a bare name resolved
// as an identifier reference.
func parseOperandValue(tok string, sc scope.Scope) (bytecode.Value, error) {
	switch {
	case strings.HasPrefix(tok, "#"):
		n, err := strconv.ParseInt(tok[1:], 10, 32)
		if err != nil {
			return bytecode.Value{}, err
		}
		return bytecode.I32(int32(n)), nil
	case tok == "true":
		return bytecode.Bool(true), nil
	case tok == "false":
		return bytecode.Bool(false), nil
	default:
		return bytecode.Id(resolveName(sc, tok)), nil
	}
}
