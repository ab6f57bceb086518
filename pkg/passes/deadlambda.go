// Package passes holds IR-to-IR transformations run after lowering.
package passes

import "github.com/chazu/loaf/pkg/ir"

// DeadLambdaElimination drops top-level Def(name, Lambda, _) bindings
// whose name is never referenced anywhere else in the program.
//
// This runs exactly one pass, not to a fixed point: a lambda kept
// alive only by another lambda that is itself otherwise unused will
// not be pruned, and shadowed identifiers are not distinguished from
// the top-level name they shadow. Both are known limitations carried
// over deliberately, not bugs to fix here.
func DeadLambdaElimination(prog *ir.Program) *ir.Program {
	defined := map[string]bool{}
	for _, stmt := range prog.Stmts {
		if def, ok := stmt.(*ir.Def); ok {
			if _, isLambda := def.Value.(*ir.Lambda); isLambda {
				defined[def.Name] = true
			}
		}
	}

	called := map[string]bool{}
	for _, stmt := range prog.Stmts {
		switch s := stmt.(type) {
		case *ir.Def:
			collectIds(s.Value, called)
		case *ir.TopExpr:
			collectIds(s.Expr, called)
		}
	}

	unnecessary := map[string]bool{}
	for name := range defined {
		if !called[name] {
			unnecessary[name] = true
		}
	}
	if len(unnecessary) == 0 {
		return prog
	}

	out := &ir.Program{}
	for _, stmt := range prog.Stmts {
		if def, ok := stmt.(*ir.Def); ok && unnecessary[def.Name] {
			continue
		}
		out.Stmts = append(out.Stmts, stmt)
	}
	return out
}

func collectIds(e ir.Expr, into map[string]bool) {
	switch n := e.(type) {
	case *ir.Id:
		into[n.Name] = true
	case *ir.App:
		collectIds(n.Fn, into)
		for _, a := range n.Args {
			collectIds(a, into)
		}
	case *ir.Lambda:
		collectIds(n.Body, into)
	case *ir.Cond:
		collectIds(n.Test, into)
		collectIds(n.Then, into)
		collectIds(n.Else, into)
	case *ir.Let:
		for _, b := range n.Bindings {
			collectIds(b.Value, into)
		}
		collectIds(n.Body, into)
	case *ir.Begin:
		for _, x := range n.Exprs {
			collectIds(x, into)
		}
	}
}
