package codegen

import "github.com/chazu/loaf/pkg/bytecode"

// layout runs the post-processing passes over the generator's
// intermediate Item stream and flattens the result into the final
// Code list the VM executes: deduped, framed, then sectioned, which
// also does the labeling (the Label("main") header).
func layout(items []bytecode.Item) []bytecode.Code {
	items = deduped(items)
	items = framed(items)
	return sectioned(items)
}

// deduped drops any second constant-pool Value sharing an
// already-seen label, keeping the first.
func deduped(items []bytecode.Item) []bytecode.Item {
	seen := map[string]bool{}
	out := make([]bytecode.Item, 0, len(items))
	for _, it := range items {
		if it.Kind == bytecode.ItemValue {
			if seen[it.ValueLabel] {
				continue
			}
			seen[it.ValueLabel] = true
		}
		out = append(out, it)
	}
	return out
}

// framed rewrites every FrameInit placeholder into Frame, deferred
// until after deduped/regroup so earlier passes could still see the
// placeholder distinctly if they needed to.
func framed(items []bytecode.Item) []bytecode.Item {
	out := make([]bytecode.Item, len(items))
	copy(out, items)
	for i, it := range out {
		if it.Kind == bytecode.ItemGrouped && it.GroupedLabel == "" && it.Instr.Op == bytecode.OpFrameInit {
			in := it.Instr
			in.Op = bytecode.OpFrame
			out[i].Instr = in
		}
	}
	return out
}

// sectioned partitions Grouped items by section and flattens to the
// final Code list: main's instructions (with a Label("main") header
// nothing else emits explicitly), then Halt, then every other
// section's instructions in first-seen order (each already opens with
// its own entry label, emitted directly by the generator rather than
// by this pass — see codegen.go's genLambdaBody), then all
// constant-pool values.
func sectioned(items []bytecode.Item) []bytecode.Code {
	var mainItems []bytecode.Item
	var order []string
	bySection := map[string][]bytecode.Item{}
	var values []bytecode.Item

	for _, it := range items {
		switch it.Kind {
		case bytecode.ItemGrouped:
			if it.Section == "main" {
				mainItems = append(mainItems, it)
				continue
			}
			if _, ok := bySection[it.Section]; !ok {
				order = append(order, it.Section)
			}
			bySection[it.Section] = append(bySection[it.Section], it)
		case bytecode.ItemValue:
			values = append(values, it)
		case bytecode.ItemLabel:
			mainItems = append(mainItems, it)
		}
	}

	var out []bytecode.Code
	out = append(out, bytecode.LabelCode("main"))
	out = append(out, flattenGrouped(mainItems)...)
	out = append(out, bytecode.InstrCode(bytecode.HaltOp()))
	for _, section := range order {
		out = append(out, flattenGrouped(bySection[section])...)
	}
	for _, v := range values {
		out = append(out, bytecode.ValueCode(v.ValueType, v.ValueLabel, v.ValuePayload))
	}
	return out
}

func flattenGrouped(items []bytecode.Item) []bytecode.Code {
	out := make([]bytecode.Code, 0, len(items))
	for _, it := range items {
		switch it.Kind {
		case bytecode.ItemGrouped:
			if it.GroupedLabel != "" {
				out = append(out, bytecode.LabelCode(it.GroupedLabel))
			} else {
				out = append(out, bytecode.InstrCode(it.Instr))
			}
		case bytecode.ItemLabel:
			out = append(out, bytecode.LabelCode(it.Label))
		}
	}
	return out
}
