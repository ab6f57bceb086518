// Package vm executes the final, flattened bytecode.Code stream: one
// global value stack, six registers, a frame stack for named locals,
// and a fetch/decode/execute loop dispatching per opcode.
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"

	"github.com/chazu/loaf/pkg/bytecode"
)

// Registers holds the machine's six named registers. Pc/Esp/Ebp/Lr are
// conventionally address-like (carried as I32), Jm/Rt carry arbitrary
// runtime values (a callable Scope(ptr) reference, a shuttled return
// value, or whatever a raw opcode("...") body puts there).
type Registers struct {
	Pc  int
	Esp bytecode.Value
	Ebp bytecode.Value
	Lr  bytecode.Value
	Jm  bytecode.Value
	Rt  bytecode.Value
}

func (r *Registers) get(reg bytecode.Register) bytecode.Value {
	switch reg {
	case bytecode.RegPc:
		return bytecode.I32(int32(r.Pc))
	case bytecode.RegEsp:
		return r.Esp
	case bytecode.RegEbp:
		return r.Ebp
	case bytecode.RegLr:
		return r.Lr
	case bytecode.RegJm:
		return r.Jm
	case bytecode.RegRt:
		return r.Rt
	default:
		return bytecode.Value{}
	}
}

func (r *Registers) set(reg bytecode.Register, v bytecode.Value) {
	switch reg {
	case bytecode.RegEsp:
		r.Esp = v
	case bytecode.RegEbp:
		r.Ebp = v
	case bytecode.RegLr:
		r.Lr = v
	case bytecode.RegJm:
		r.Jm = v
	case bytecode.RegRt:
		r.Rt = v
	}
}

// RuntimeErr reports a failure during execution: an invalid dispatch,
// an exhausted stack guard, or a malformed operand. It carries enough
// of the machine's state for a diagnostic printer to render the
// offending instruction in context.
type RuntimeErr struct {
	Message  string
	Instr    bytecode.Code
	Codes    []bytecode.Code
	Pc       int
	Registers Registers
}

func (e *RuntimeErr) Error() string {
	return fmt.Sprintf("runtime error at pc=%d (%s): %s", e.Pc, e.Instr.String(), e.Message)
}

// dispatch is the outcome of executing one instruction without error,
// grounded on the source's Cont/Stop/Error dispatch actions: Cont and
// Stop are values here, and Error is step's non-nil error return.
type dispatch int

const (
	dispatchCont dispatch = iota
	dispatchStop
)

// Machine is one VM instance: a value stack, registers, and a frame
// stack of named locals. Call/Ret push and pop the return address as
// an ordinary I32 value on the data stack itself — it is what the
// prologue's Swap shuttles past each incoming argument, and what the
// epilogue's final Swap brings back to the top for Ret to consume.
// Not safe to run concurrently with itself.
type Machine struct {
	codes     []bytecode.Code
	labels    map[string]int
	constants map[string]bytecode.Value

	stack  []bytecode.Value
	frames []map[string]bytecode.Value

	reg Registers

	Out io.Writer

	// MaxFrames guards against unbounded recursion; 0 means use the
	// default (see NewMachine).
	MaxFrames int

	// Trace, when true, logs each dispatched instruction via
	// commonlog at debug level.
	Trace bool
}

const defaultMaxFrames = 10000

// NewMachine builds a Machine over a final, flattened code stream.
func NewMachine(codes []bytecode.Code) *Machine {
	m := &Machine{
		codes:     codes,
		labels:    map[string]int{},
		constants: map[string]bytecode.Value{},
		Out:       os.Stdout,
		MaxFrames: defaultMaxFrames,
	}
	for i, c := range codes {
		switch c.Kind {
		case bytecode.CodeLabel:
			m.labels[c.Label] = i
		case bytecode.CodeValue:
			m.constants[c.ValueLabel] = c.ValuePayload
		}
	}
	return m
}

// Run executes from pc 0 until Halt, or until a RuntimeErr occurs. It
// returns the final value stack, with the program's result (if any)
// on top.
func (m *Machine) Run() ([]bytecode.Value, error) {
	m.frames = append(m.frames, map[string]bytecode.Value{})
	for {
		if m.reg.Pc < 0 || m.reg.Pc >= len(m.codes) {
			return nil, &RuntimeErr{Message: "pc out of bounds", Pc: m.reg.Pc, Codes: m.codes, Registers: m.reg}
		}
		code := m.codes[m.reg.Pc]
		if m.Trace {
			commonlog.NewDebugMessage(1, fmt.Sprintf("pc=%d %s", m.reg.Pc, code.String()))
		}

		d, err := m.step(code)
		if err != nil {
			return m.stack, err
		}
		if d == dispatchStop {
			return m.stack, nil
		}
	}
}

func (m *Machine) step(code bytecode.Code) (dispatch, error) {
	switch code.Kind {
	case bytecode.CodeLabel:
		m.reg.Pc++
		return dispatchCont, nil
	case bytecode.CodeValue:
		m.reg.Pc++
		return dispatchCont, nil
	}

	in := code.Instr
	if in.Op == bytecode.OpHalt {
		return dispatchStop, nil
	}

	if err := m.exec(in, code); err != nil {
		return 0, err
	}
	return dispatchCont, nil
}

func (m *Machine) exec(in bytecode.Instr, code bytecode.Code) error {
	switch in.Op {
	case bytecode.OpPush:
		m.push(m.resolvePush(in))
		m.reg.Pc++

	case bytecode.OpAdd:
		b, a := m.pop(), m.pop()
		m.push(bytecode.I32(a.I32 + b.I32))
		m.reg.Pc++

	case bytecode.OpSub:
		b, a := m.pop(), m.pop()
		m.push(bytecode.I32(a.I32 - b.I32))
		m.reg.Pc++

	case bytecode.OpLoad:
		v, ok := m.lookupLocal(in.Operand.Label)
		if !ok {
			return m.runtimeErr("undefined local "+in.Operand.Label, code)
		}
		m.push(v)
		m.reg.Pc++

	case bytecode.OpStore:
		m.storeLocal(in.Operand.Label, m.pop())
		m.reg.Pc++

	case bytecode.OpJz:
		v := m.pop()
		if !v.Truthy() {
			target, ok := m.labels[in.Operand.Label]
			if !ok {
				return m.runtimeErr("unknown label "+in.Operand.Label, code)
			}
			m.reg.Pc = target
			return nil
		}
		m.reg.Pc++

	case bytecode.OpJmp:
		target, ok := m.labels[in.Operand.Label]
		if !ok {
			return m.runtimeErr("unknown label "+in.Operand.Label, code)
		}
		m.reg.Pc = target

	case bytecode.OpCall:
		target, ok := m.labels[in.Operand.Label]
		if !ok {
			return m.runtimeErr("unknown call target "+in.Operand.Label, code)
		}
		m.push(bytecode.I32(int32(m.reg.Pc + 1)))
		m.reg.Pc = target

	case bytecode.OpCall0:
		target, ok := m.labels[m.reg.Jm.Str]
		if !ok {
			return m.runtimeErr("unknown call target in Jm: "+m.reg.Jm.Str, code)
		}
		m.push(bytecode.I32(int32(m.reg.Pc + 1)))
		m.reg.Pc = target

	case bytecode.OpRet:
		if len(m.frames) <= 1 {
			return m.runtimeErr("return with empty call stack", code)
		}
		retAddr := m.pop()
		m.frames = m.frames[:len(m.frames)-1]
		m.reg.Pc = int(retAddr.I32)

	case bytecode.OpMov:
		if in.HasOperand {
			m.reg.set(in.Register, in.Operand.Imm)
		} else {
			m.reg.set(in.Register, m.pop())
		}
		m.reg.Pc++

	case bytecode.OpStw:
		m.push(m.reg.get(in.Register))
		m.reg.Pc++

	case bytecode.OpLdw:
		m.reg.set(in.Register, m.pop())
		m.reg.Pc++

	case bytecode.OpSwap:
		n := len(m.stack)
		if n < 2 {
			return m.runtimeErr("swap on a stack shorter than two", code)
		}
		m.stack[n-1], m.stack[n-2] = m.stack[n-2], m.stack[n-1]
		m.reg.Pc++

	case bytecode.OpFrame, bytecode.OpFrameInit:
		maxFrames := m.MaxFrames
		if maxFrames <= 0 {
			maxFrames = defaultMaxFrames
		}
		if len(m.frames) >= maxFrames {
			return m.runtimeErr("max call depth exceeded", code)
		}
		m.frames = append(m.frames, map[string]bytecode.Value{})
		m.reg.Pc++

	case bytecode.OpConcat:
		b, a := m.pop(), m.pop()
		m.push(bytecode.Str(a.Str + b.Str))
		m.reg.Pc++

	case bytecode.OpPrintln:
		fmt.Fprintln(m.Out, m.pop().String())
		m.reg.Pc++

	default:
		return m.runtimeErr("unhandled opcode "+in.Op.String(), code)
	}
	return nil
}

// lookupLocal searches the frame stack innermost-first, so a
// recursive call's own locals shadow its caller's same-named slot
// without the two colliding in a single flat namespace.
func (m *Machine) lookupLocal(label string) (bytecode.Value, bool) {
	for i := len(m.frames) - 1; i >= 0; i-- {
		if v, ok := m.frames[i][label]; ok {
			return v, true
		}
	}
	return bytecode.Value{}, false
}

func (m *Machine) storeLocal(label string, v bytecode.Value) {
	m.frames[len(m.frames)-1][label] = v
}

// resolvePush computes the value a Push(T, v) actually lands on the
// stack: T picks how the operand's label (when it carries one) is
// reified — a constant-pool lookup for Const, a fresh Scope reference
// for Scope, or the literal immediate for everything else.
func (m *Machine) resolvePush(in bytecode.Instr) bytecode.Value {
	switch in.Type {
	case bytecode.TypeConst:
		if v, ok := m.constants[in.Operand.Imm.Str]; ok {
			return v
		}
		return in.Operand.Imm
	case bytecode.TypeScope:
		return bytecode.Scope(in.Operand.Imm.Str)
	default:
		return in.Operand.Imm
	}
}

func (m *Machine) push(v bytecode.Value) { m.stack = append(m.stack, v) }

func (m *Machine) pop() bytecode.Value {
	if len(m.stack) == 0 {
		return bytecode.Value{}
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v
}

func (m *Machine) runtimeErr(message string, code bytecode.Code) error {
	return &RuntimeErr{Message: message, Instr: code, Codes: m.codes, Pc: m.reg.Pc, Registers: m.reg}
}
