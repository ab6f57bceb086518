package bytecode

// ItemKind tags the variant held by an Item, the generator's
// intermediate instruction stream (§3's "Instruction stream
// (intermediate)"): Grouped(section, instr-or-label), Value(ty, label,
// payload), or a bare Label not yet bound to a section.
type ItemKind int

const (
	ItemGrouped ItemKind = iota
	ItemValue
	ItemLabel
)

// Item is one element of the generator's pre-layout instruction
// stream. Grouped items carry a Section and either an Instr or a
// label header (GroupedLabel); Value items are constant-pool entries;
// bare Label items are placed during layout, not generation.
type Item struct {
	Kind ItemKind

	Section      string // ItemGrouped
	GroupedLabel string // ItemGrouped, set instead of Instr for a Label(name) header
	Instr        Instr  // ItemGrouped, set when GroupedLabel == ""

	ValueType    Type   // ItemValue
	ValueLabel   string // ItemValue
	ValuePayload Value  // ItemValue

	Label string // ItemLabel
}

// GroupedInstr wraps instr under section.
func GroupedInstr(section string, instr Instr) Item {
	return Item{Kind: ItemGrouped, Section: section, Instr: instr}
}

// GroupedLabelItem wraps a bare label header under section.
func GroupedLabelItem(section, label string) Item {
	return Item{Kind: ItemGrouped, Section: section, GroupedLabel: label}
}

// ValueItem is a constant-pool entry.
func ValueItem(t Type, label string, payload Value) Item {
	return Item{Kind: ItemValue, ValueType: t, ValueLabel: label, ValuePayload: payload}
}

// LabelItem is a bare, not-yet-grouped label.
func LabelItem(label string) Item {
	return Item{Kind: ItemLabel, Label: label}
}

// CodeKind tags the variant held by a Code, the final flattened
// instruction list the VM executes.
type CodeKind int

const (
	CodeInstr CodeKind = iota
	CodeLabel
	CodeValue
)

// Code is one element of the final, flattened code stream: an
// instruction, a label header, or a constant-pool value.
type Code struct {
	Kind CodeKind

	Instr Instr // CodeInstr

	Label string // CodeLabel

	ValueType    Type   // CodeValue
	ValueLabel   string // CodeValue
	ValuePayload Value  // CodeValue
}

func InstrCode(in Instr) Code              { return Code{Kind: CodeInstr, Instr: in} }
func LabelCode(label string) Code          { return Code{Kind: CodeLabel, Label: label} }
func ValueCode(t Type, label string, v Value) Code {
	return Code{Kind: CodeValue, ValueType: t, ValueLabel: label, ValuePayload: v}
}

func (c Code) String() string {
	switch c.Kind {
	case CodeInstr:
		return c.Instr.String()
	case CodeLabel:
		return c.Label + ":"
	case CodeValue:
		return "value " + c.ValueType.String() + " " + c.ValueLabel + " " + c.ValuePayload.String()
	default:
		return "?"
	}
}
