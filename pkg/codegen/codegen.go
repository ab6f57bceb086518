// Package codegen lowers typeless IR into the generator's
// intermediate instruction stream (pkg/bytecode.Item) and then
// flattens that stream into the final list of pkg/bytecode.Code the VM
// executes. It is the one component that threads pkg/scope, invokes
// pkg/asm for opcode("...") escapes, and owns the call convention.
package codegen

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/chazu/loaf/pkg/asm"
	"github.com/chazu/loaf/pkg/bytecode"
	"github.com/chazu/loaf/pkg/ir"
	"github.com/chazu/loaf/pkg/scope"
)

// Generator accumulates the intermediate Item stream across a single
// program's generation. Not safe for concurrent use, and not reusable
// across programs.
type Generator struct {
	items []bytecode.Item
	seen  map[string]bool // pool labels already pushed, for an early dedupe of identical literals
}

// Generate lowers prog into the final, laid-out code stream.
func Generate(prog *ir.Program) ([]bytecode.Code, error) {
	g := &Generator{seen: map[string]bool{}}
	_, root := scope.NewTree("main")

	for _, stmt := range prog.Stmts {
		if def, ok := stmt.(*ir.Def); ok {
			root.Define(def.Name, def.Value)
		}
	}

	for _, stmt := range prog.Stmts {
		if err := g.genStmt(stmt, root); err != nil {
			return nil, err
		}
	}

	return layout(g.items), nil
}

func (g *Generator) emit(item bytecode.Item) {
	g.items = append(g.items, item)
}

func (g *Generator) emitInstr(section string, in bytecode.Instr) {
	g.emit(bytecode.GroupedInstr(section, in))
}

func (g *Generator) emitLabel(section, label string) {
	g.emit(bytecode.GroupedLabelItem(section, label))
}

func (g *Generator) emitValue(t bytecode.Type, label string, v bytecode.Value) {
	if g.seen[label] {
		return
	}
	g.seen[label] = true
	g.emit(bytecode.ValueItem(t, label, v))
}

func (g *Generator) genStmt(stmt ir.Stmt, sc scope.Scope) error {
	switch s := stmt.(type) {
	case *ir.Def:
		return g.genDef(s, sc)
	case *ir.TopExpr:
		return g.genExpr(s.Expr, sc.Section(), sc)
	default:
		panic("codegen: unreachable stmt kind")
	}
}

func (g *Generator) genDef(def *ir.Def, sc scope.Scope) error {
	if lam, ok := def.Value.(*ir.Lambda); ok {
		// scoped(name) keeps the body inline in sc.Section() rather than
		// forking it off, so a guard Jmp has to skip over it: nothing else
		// in that section jumps OVER a Def's body to reach what follows,
		// and the body must only ever be entered via Call(lam.Ptr).
		inner := sc.Scoped(def.Name)
		skip := "skip-" + lam.Ptr
		g.emitInstr(sc.Section(), bytecode.JmpOp(skip))
		if err := g.genLambdaBody(lam, inner); err != nil {
			return err
		}
		g.emitLabel(sc.Section(), skip)
		name := sc.Qualified(def.Name)
		g.emitValue(bytecode.TypeRef, name, bytecode.Id(name))
		return nil
	}

	if err := g.genExpr(def.Value, sc.Section(), sc); err != nil {
		return err
	}
	g.emitInstr(sc.Section(), bytecode.StoreOp(bytecode.TypeI32, sc.Qualified(def.Name)))
	return nil
}

// genExpr generates e's code into section, using sc for name
// resolution. section and sc.Section() usually agree; they diverge
// only transiently while a Let's "unique" sub-scope is being generated
// into, before its regroup step folds it back.
func (g *Generator) genExpr(e ir.Expr, section string, sc scope.Scope) error {
	switch n := e.(type) {
	case *ir.Num:
		v, err := strconv.ParseInt(n.Lexeme, 10, 32)
		if err != nil {
			return &BadPushErr{Lexeme: n.Lexeme, Loc: n.Loc}
		}
		g.emitInstr(section, bytecode.Push(bytecode.TypeI32, bytecode.I32(int32(v))))
		return nil

	case *ir.Bool:
		g.emitInstr(section, bytecode.Push(bytecode.TypeBool, bytecode.Bool(n.Value)))
		return nil

	case *ir.Str:
		label := contentLabel("str", n.Value)
		g.emitValue(bytecode.TypeStr, label, bytecode.Str(n.Value))
		g.emitInstr(section, bytecode.PushConst(label))
		return nil

	case *ir.Symbol:
		label := contentLabel("symbol", n.Name)
		g.emitValue(bytecode.TypeSymbol, label, bytecode.Symbol(n.Name))
		g.emitInstr(section, bytecode.PushConst(label))
		return nil

	case *ir.Id:
		if !sc.Contains(n.Name) {
			return &UndeclaredIdentifierErr{Name: n.Name, Loc: n.Loc}
		}
		g.emitInstr(section, bytecode.LoadOp(bytecode.TypeI32, sc.Qualified(n.Name)))
		return nil

	case *ir.Lambda:
		return g.genLambda(n, section, sc)

	case *ir.App:
		return g.genApp(n, section, sc)

	case *ir.Cond:
		return g.genCond(n, section, sc)

	case *ir.Let:
		return g.genLet(n, section, sc)

	case *ir.Begin:
		for _, sub := range n.Exprs {
			if err := g.genExpr(sub, section, sc); err != nil {
				return err
			}
		}
		return nil

	default:
		panic("codegen: unreachable expr kind")
	}
}

// genLambda generates an anonymous (non-top-level-Def) lambda: its own
// body lives in a freshly forked section, and the enclosing section
// receives a Scope(ptr) reference to it, the value an enclosing let
// binding, cond branch, or begin tail picks up.
func (g *Generator) genLambda(lam *ir.Lambda, section string, sc scope.Scope) error {
	inner := sc.Forked(lam.Ptr)
	if err := g.genLambdaBody(lam, inner); err != nil {
		return err
	}
	g.emitValue(bytecode.TypeRef, lam.Ptr, bytecode.Id(lam.Ptr))
	g.emitInstr(section, bytecode.PushScope(lam.Ptr))
	return nil
}

// genLambdaBody emits a lambda's entry label and call-convention
// prologue/epilogue around its body, into sc's own section.
func (g *Generator) genLambdaBody(lam *ir.Lambda, sc scope.Scope) error {
	section := sc.Section()
	g.emitLabel(section, lam.Ptr)

	g.emitInstr(section, bytecode.FrameInitOp(int32(len(lam.Params))))
	for i := len(lam.Params) - 1; i >= 0; i-- {
		p := lam.Params[i]
		sc.Define(p.Name, &ir.Id{Name: p.Name})
		g.emitInstr(section, bytecode.SwapOp())
		g.emitInstr(section, bytecode.StoreOp(bytecode.TypeI32, sc.Qualified(p.Name)))
	}
	g.emitInstr(section, bytecode.StwOp(bytecode.RegEbp))
	g.emitInstr(section, bytecode.StwOp(bytecode.RegEsp))
	g.emitInstr(section, bytecode.LdwOp(bytecode.RegEbp))

	if err := g.genExpr(lam.Body, section, sc); err != nil {
		return err
	}

	g.emitInstr(section, bytecode.LdwOp(bytecode.RegRt))
	g.emitInstr(section, bytecode.StwOp(bytecode.RegEbp))
	g.emitInstr(section, bytecode.LdwOp(bytecode.RegEsp))
	g.emitInstr(section, bytecode.LdwOp(bytecode.RegEbp))
	g.emitInstr(section, bytecode.StwOp(bytecode.RegRt))
	g.emitInstr(section, bytecode.SwapOp())
	g.emitInstr(section, bytecode.RetOp())
	return nil
}

// genApp dispatches on fn's shape per the call-site table: the
// opcode("...") escape, the println builtin (compiled to a Println
// instruction that prints its last argument), the primitive + / -
// operators (the only two
// with a dedicated VM instruction; any other operator name must be
// bound by user code, typically in terms of those two, or via its own
// opcode("...") body), a bound identifier, a literal lambda generated
// inline at the call site, and finally the indirect "call result of
// an expression" forms that land a callable reference in Jm first.
func (g *Generator) genApp(app *ir.App, section string, sc scope.Scope) error {
	if id, ok := app.Fn.(*ir.Id); ok && id.Name == "opcode" {
		return g.genOpcodeEscape(app, section, sc)
	}

	if id, ok := app.Fn.(*ir.Id); ok {
		if id.Name == "println" && !sc.Contains(id.Name) {
			for _, a := range app.Args {
				if err := g.genExpr(a, section, sc); err != nil {
					return err
				}
			}
			g.emitInstr(section, bytecode.PrintlnOp())
			return nil
		}

		if (id.Name == "+" || id.Name == "-") && !sc.Contains(id.Name) {
			for _, a := range app.Args {
				if err := g.genExpr(a, section, sc); err != nil {
					return err
				}
			}
			if id.Name == "+" {
				g.emitInstr(section, bytecode.AddOp(bytecode.TypeI32))
			} else {
				g.emitInstr(section, bytecode.SubOp(bytecode.TypeI32))
			}
			return nil
		}

		if sc.Contains(id.Name) {
			for _, a := range app.Args {
				if err := g.genExpr(a, section, sc); err != nil {
					return err
				}
			}
			target, ok := sc.CallTarget(id.Name)
			if !ok {
				return &LookupErr{Name: id.Name, Loc: id.Loc}
			}
			g.emitInstr(section, bytecode.CallOp(target))
			return nil
		}
		return &UndeclaredIdentifierErr{Name: id.Name, Loc: id.Loc}
	}

	if lam, ok := app.Fn.(*ir.Lambda); ok {
		for _, a := range app.Args {
			if err := g.genExpr(a, section, sc); err != nil {
				return err
			}
		}
		inner := sc.Forked(lam.Ptr)
		if err := g.genLambdaBody(lam, inner); err != nil {
			return err
		}
		g.emitInstr(section, bytecode.CallOp(lam.Ptr))
		return nil
	}

	switch app.Fn.(type) {
	case *ir.Let, *ir.Cond, *ir.Begin, *ir.App:
		for _, a := range app.Args {
			if err := g.genExpr(a, section, sc); err != nil {
				return err
			}
		}
		if err := g.genExpr(app.Fn, section, sc); err != nil {
			return err
		}
		g.emitInstr(section, bytecode.MovReg(bytecode.RegJm))
		g.emitInstr(section, bytecode.Call0Op())
		return nil
	}

	return &BadCallErr{Loc: app.Loc}
}

// genOpcodeEscape inlines an embedded-assembly literal directly into
// the caller's section.
func (g *Generator) genOpcodeEscape(app *ir.App, section string, sc scope.Scope) error {
	if len(app.Args) != 1 {
		return &BadCallErr{Loc: app.Loc}
	}
	str, ok := app.Args[0].(*ir.Str)
	if !ok {
		return &BadCallErr{Loc: app.Loc}
	}
	lines, err := asm.Assemble(str.Value, sc)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if line.IsLabel {
			g.emitLabel(section, line.Label)
		} else {
			g.emitInstr(section, line.Instr)
		}
	}
	return nil
}

func (g *Generator) genCond(c *ir.Cond, section string, sc scope.Scope) error {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:4]
	thenLabel := "then-" + suffix
	elseLabel := "else-" + suffix
	doneLabel := "done-" + suffix

	if err := g.genExpr(c.Test, section, sc); err != nil {
		return err
	}
	g.emitInstr(section, bytecode.JzOp(elseLabel))
	g.emitLabel(section, thenLabel)
	if err := g.genExpr(c.Then, section, sc); err != nil {
		return err
	}
	g.emitInstr(section, bytecode.JmpOp(doneLabel))
	g.emitLabel(section, elseLabel)
	if err := g.genExpr(c.Else, section, sc); err != nil {
		return err
	}
	g.emitLabel(section, doneLabel)
	return nil
}

// genLet generates a Let's bindings and body under a private, unique
// scope/section so each binding's name resolves to a fresh qualified
// slot, then regroups the resulting instructions back onto the
// enclosing section — the one place this implementation keeps the
// source's scope/section conflation, by design note (see §4.6/§9
// "regroup hack").
func (g *Generator) genLet(l *ir.Let, section string, sc scope.Scope) error {
	inner := sc.Unique()
	innerSection := inner.Section()

	for _, b := range l.Bindings {
		inner.Define(b.Name, b.Value)
		if err := g.genExpr(b.Value, innerSection, inner); err != nil {
			return err
		}
		g.emitInstr(innerSection, bytecode.StoreOp(bytecode.TypeI32, inner.Qualified(b.Name)))
	}
	if err := g.genExpr(l.Body, innerSection, inner); err != nil {
		return err
	}

	g.regroup(innerSection, section)
	return nil
}

func (g *Generator) regroup(from, to string) {
	for i := range g.items {
		if g.items[i].Kind == bytecode.ItemGrouped && g.items[i].Section == from {
			g.items[i].Section = to
		}
	}
}

func contentLabel(kind, value string) string {
	return kind + ":" + value
}
