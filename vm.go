package main

import "errors"

// VM is the whole state of one running program. Every operation takes it by
// pointer; nothing about a run lives outside of it.
type VM struct {
	Core

	// The operand stack holds intermediate and final values; its top is the
	// end of the slice.
	stack []Value

	// The environment is the single flat namespace that def binds names in,
	// and that any word not naming a builtin gets resolved against.
	env environ

	// The capture stack holds blocks still under construction, innermost
	// last. While it is non-empty, every dispatched value gets appended to
	// the innermost block instead of taking effect.
	blocks []Block

	noPrelude bool
	natives   []Native
}

var (
	errStackUnderflow  = errors.New("stack underflow")
	errUnbalancedBlock = errors.New("unbalanced }")
	errDivideByZero    = errors.New("division by zero")
)

type undefinedError string

func (name undefinedError) Error() string { return "undefined operation " + string(name) }

func (vm *VM) push(val Value) {
	vm.stack = append(vm.stack, val)
}

func (vm *VM) pop() (val Value) {
	i := len(vm.stack) - 1
	if i < 0 {
		vm.halt(errStackUnderflow)
	}
	val, vm.stack[i] = vm.stack[i], nil
	vm.stack = vm.stack[:i]
	return val
}

func (vm *VM) peek() Value {
	i := len(vm.stack) - 1
	if i < 0 {
		vm.halt(errStackUnderflow)
	}
	return vm.stack[i]
}

func (vm *VM) popNum() Num {
	n, err := asNum(vm.pop())
	vm.haltif(err)
	return n
}

func (vm *VM) popBlock() Block {
	b, err := asBlock(vm.pop())
	vm.haltif(err)
	return b
}

func (vm *VM) popSymbol() Symbol {
	s, err := asSymbol(vm.pop())
	vm.haltif(err)
	return s
}

// The block capture stack assembles nested blocks one word at a time, so
// that input may stream in without any lookahead.

// openBlock starts a new innermost block, regardless of how many others are
// still open.
func (vm *VM) openBlock() {
	vm.blocks = append(vm.blocks, Block{})
	vm.logf("{", "open depth:%v", len(vm.blocks))
}

// closeBlock finishes the innermost block, and dispatches it like any other
// value: it lands in the enclosing block if there is one, or on the operand
// stack otherwise.
func (vm *VM) closeBlock() {
	i := len(vm.blocks) - 1
	if i < 0 {
		vm.halt(errUnbalancedBlock)
	}
	block := vm.blocks[i]
	vm.blocks[i] = nil
	vm.blocks = vm.blocks[:i]
	if vm.logfn != nil {
		vm.logf("}", "close depth:%v %v", i, formatValue(block))
	}
	vm.dispatch(block)
}
