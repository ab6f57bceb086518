// Package bytecode defines the instruction, value, and opcode
// vocabulary shared by the generator (pkg/codegen), the embedded
// assembler (pkg/asm), and the VM (pkg/vm).
package bytecode

// Opcode identifies an instruction's operation. The set matches the
// VM ABI and embedded-assembly surface one-for-one: anything the
// generator can emit, opcode("...") strings can also spell.
type Opcode byte

const (
	OpPush Opcode = iota
	OpAdd
	OpSub
	OpLoad
	OpStore
	OpJz
	OpJmp
	OpCall
	OpCall0
	OpRet
	OpMov
	OpStw
	OpLdw
	OpSwap
	OpFrame
	OpFrameInit
	OpConcat
	OpPrintln
	OpHalt
)

// OpcodeInfo describes an opcode's mnemonic and operand shape, mirroring
// the enum+metadata-table idiom used throughout this implementation's
// instruction vocabulary.
type OpcodeInfo struct {
	Name        string
	HasType     bool // operand 1 is a Type tag
	HasOperand  bool // operand 2 is present (immediate, label, or register)
	HasRegister bool // operand 2 is a Register rather than a generic Operand
}

var opcodeInfo = map[Opcode]OpcodeInfo{
	OpPush:      {Name: "push", HasType: true, HasOperand: true},
	OpAdd:       {Name: "add", HasType: true},
	OpSub:       {Name: "sub", HasType: true},
	OpLoad:      {Name: "load", HasType: true, HasOperand: true},
	OpStore:     {Name: "store", HasType: true, HasOperand: true},
	OpJz:        {Name: "jz", HasOperand: true},
	OpJmp:       {Name: "jmp", HasOperand: true},
	OpCall:      {Name: "call", HasOperand: true},
	OpCall0:     {Name: "call0"},
	OpRet:       {Name: "ret"},
	OpMov:       {Name: "mov", HasOperand: true, HasRegister: true},
	OpStw:       {Name: "stw", HasOperand: true, HasRegister: true},
	OpLdw:       {Name: "ldw", HasOperand: true, HasRegister: true},
	OpSwap:      {Name: "swap"},
	OpFrame:     {Name: "frame", HasOperand: true},
	OpFrameInit: {Name: "frameinit", HasOperand: true},
	OpConcat:    {Name: "concat"},
	OpPrintln:   {Name: "println"},
	OpHalt:      {Name: "halt"},
}

// Info returns the metadata for op. The zero OpcodeInfo is returned for
// an opcode value outside the defined set.
func (op Opcode) Info() OpcodeInfo {
	return opcodeInfo[op]
}

func (op Opcode) String() string {
	if info, ok := opcodeInfo[op]; ok {
		return info.Name
	}
	return "unknown"
}

// OpcodeByName looks up an Opcode by its assembly mnemonic, case
// sensitive, as used both by the disassembler's output and by
// pkg/asm's mnemonic table.
func OpcodeByName(name string) (Opcode, bool) {
	for op, info := range opcodeInfo {
		if info.Name == name {
			return op, true
		}
	}
	return 0, false
}

// Type tags a Push/Load/Store/Value operand's runtime kind.
type Type int

const (
	TypeI32 Type = iota
	TypeBool
	TypeStr
	TypeSymbol
	TypeId
	TypeScope
	TypeConst
	TypeRef
)

var typeNames = map[Type]string{
	TypeI32:    "I32",
	TypeBool:   "Bool",
	TypeStr:    "Str",
	TypeSymbol: "Symbol",
	TypeId:     "Id",
	TypeScope:  "Scope",
	TypeConst:  "Const",
	TypeRef:    "Ref",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "Unknown"
}

// Register identifies one of the VM's six registers.
type Register int

const (
	RegPc Register = iota
	RegEsp
	RegEbp
	RegLr
	RegJm
	RegRt
)

var registerNames = map[Register]string{
	RegPc:  "Pc",
	RegEsp: "Esp",
	RegEbp: "Ebp",
	RegLr:  "Lr",
	RegJm:  "Jm",
	RegRt:  "Rt",
}

func (r Register) String() string {
	if s, ok := registerNames[r]; ok {
		return s
	}
	return "Unknown"
}
