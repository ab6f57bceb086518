package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble renders a final code list as text using the same
// mnemonics, type names and register names as pkg/asm's opcode("...")
// strings — a debugging aid, nothing here is re-parsed. The output is
// not accepted by pkg/asm as it stands: each instruction line carries
// its index, and I32 immediates are printed without asm's '#' prefix.
func Disassemble(codes []Code) string {
	var b strings.Builder
	for i, c := range codes {
		switch c.Kind {
		case CodeLabel:
			fmt.Fprintf(&b, "%s:\n", c.Label)
		case CodeValue:
			fmt.Fprintf(&b, "\tvalue %s %s %s\n", c.ValueType, c.ValueLabel, c.ValuePayload)
		default:
			fmt.Fprintf(&b, "%4d\t%s\n", i, c.Instr)
		}
	}
	return b.String()
}
