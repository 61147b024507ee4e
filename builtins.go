package main

//// Builtin operations

// Builtins are resolved by exact name before the environment is consulted,
// so they can never be redefined. Binary operations pop their right hand
// operand first.

// + pops rhs then lhs, and pushes lhs + rhs.
func (vm *VM) add() { rhs, lhs := vm.popNum(), vm.popNum(); vm.push(lhs + rhs) }

// - pops rhs then lhs, and pushes lhs - rhs.
func (vm *VM) sub() { rhs, lhs := vm.popNum(), vm.popNum(); vm.push(lhs - rhs) }

// * pops rhs then lhs, and pushes lhs * rhs.
func (vm *VM) mul() { rhs, lhs := vm.popNum(), vm.popNum(); vm.push(lhs * rhs) }

// / pops rhs then lhs, and pushes lhs / rhs truncated toward zero; a zero
// rhs halts.
func (vm *VM) div() {
	rhs, lhs := vm.popNum(), vm.popNum()
	if rhs == 0 {
		vm.halt(errDivideByZero)
	}
	vm.push(lhs / rhs)
}

// < pops rhs then lhs, and pushes 1 if lhs < rhs, 0 otherwise.
func (vm *VM) less() { rhs, lhs := vm.popNum(), vm.popNum(); vm.push(boolNum(lhs < rhs)) }

// dup pushes a copy of the top of stack.
func (vm *VM) dup() { vm.push(vm.peek()) }

// swap exchanges the top two stack elements.
func (vm *VM) swap() { b, a := vm.pop(), vm.pop(); vm.push(b); vm.push(a) }

// def pops a value, then a /symbol, and binds the symbol's name to the value,
// replacing any prior binding.
func (vm *VM) def() {
	val := vm.pop()
	name := vm.popSymbol()
	vm.env.define(string(name), val)
	if vm.logfn != nil {
		vm.logf("=", "%v = %v", name, formatValue(val))
	}
}

// puts pops a value and writes its textual form as a line of output.
func (vm *VM) puts() { vm.writeLine(vm.pop().String()) }

// if pops a false block, a true block, and a condition block. It runs the
// condition and pops the number it leaves: any nonzero number (negatives
// included) runs the true block, zero runs the false block.
func (vm *VM) ifElse() {
	onFalse, onTrue, cond := vm.popBlock(), vm.popBlock(), vm.popBlock()
	vm.run(cond)
	if vm.popNum() != 0 {
		vm.run(onTrue)
	} else {
		vm.run(onFalse)
	}
}

const (
	builtinAdd  = iota // +      binary integer operation on the stack
	builtinSub         // -      binary integer operation on the stack
	builtinMul         // *      binary integer operation on the stack
	builtinDiv         // /      binary integer operation on the stack
	builtinLess        // <      compare the top two stack elements
	builtinDup         // dup    copy the top stack element
	builtinSwap        // swap   exchange the top two stack elements
	builtinDef         // def    bind a symbol to a value
	builtinPuts        // puts   output one value
	builtinIf          // if     run one of two blocks, chosen by a third

	builtinMax
)

var (
	builtinTable [builtinMax]func(vm *VM)
	builtinNames [builtinMax]string
	builtinCodes map[string]int
)

func init() {
	builtinTable = [...]func(vm *VM){
		(*VM).add,
		(*VM).sub,
		(*VM).mul,
		(*VM).div,
		(*VM).less,
		(*VM).dup,
		(*VM).swap,
		(*VM).def,
		(*VM).puts,
		(*VM).ifElse,
	}

	builtinNames = [...]string{
		"+",
		"-",
		"*",
		"/",
		"<",
		"dup",
		"swap",
		"def",
		"puts",
		"if",
	}

	builtinCodes = make(map[string]int, len(builtinNames))
	for code, name := range builtinNames {
		builtinCodes[name] = code
	}
}

func boolNum(b bool) Num {
	if b {
		return 1
	}
	return 0
}
