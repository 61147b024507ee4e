package main

import (
	"strconv"
	"strings"
)

// parseWord classifies a single non-empty, non-delimiter word.
func parseWord(word string) Value {
	if n, err := strconv.ParseInt(word, 10, 32); err == nil {
		return Num(n)
	}
	if len(word) > 1 && word[0] == '/' {
		return Symbol(word[1:])
	}
	return Op(word)
}

func (vm *VM) execLine(line string) {
	for _, word := range strings.Fields(line) {
		vm.exec(word)
	}
}

func (vm *VM) exec(word string) {
	vm.logf(">", "%q", word)
	switch word {
	case "":
		return
	case "{":
		vm.openBlock()
	case "}":
		vm.closeBlock()
	default:
		vm.dispatch(parseWord(word))
	}
	if vm.logfn != nil && len(vm.blocks) == 0 {
		vm.logf(">", "stack: %v", formatValues(vm.stack))
	}
}

// dispatch either captures code into the innermost open block, or gives it
// effect: ops resolve against the builtins and then the environment, all
// other values are pushed as data.
func (vm *VM) dispatch(code Value) {
	if i := len(vm.blocks) - 1; i >= 0 {
		vm.blocks[i] = append(vm.blocks[i], code)
		return
	}

	op, isOp := code.(Op)
	if !isOp {
		vm.push(code)
		return
	}

	if bc, isBuiltin := builtinCodes[string(op)]; isBuiltin {
		vm.logf("@", "%v", builtinNames[bc])
		builtinTable[bc](vm)
		return
	}

	val, defined := vm.env.lookup(string(op))
	if !defined {
		vm.halt(undefinedError(op))
	}
	if vm.logfn != nil {
		vm.logf("@", "%v -> %v", op, formatValue(val))
	}
	vm.call(val)
}

// call gives effect to a value bound in the environment: blocks and natives
// run, anything else is pushed.
func (vm *VM) call(val Value) {
	switch impl := val.(type) {
	case Block:
		if vm.logfn != nil {
			defer vm.withLogPrefix("  ")()
		}
		vm.run(impl)
	case Native:
		impl.Fn(vm)
	default:
		vm.push(val)
	}
}

// run dispatches every value of a block in order.
// There is no depth limit: a block that calls itself unconditionally
// exhausts the Go stack, which is fatal to the whole process.
func (vm *VM) run(block Block) {
	for _, code := range block {
		vm.dispatch(code)
	}
}
