package main

// The prelude is a set of natives bound into the environment of every new
// machine. Unlike builtins, these are ordinary bindings: def may replace them.
var prelude = []Native{
	{"drop", func(vm *VM) { vm.pop() }},
	{"over", func(vm *VM) { b, a := vm.pop(), vm.pop(); vm.push(a); vm.push(b); vm.push(a) }},
	{"rot", func(vm *VM) { c, b, a := vm.pop(), vm.pop(), vm.pop(); vm.push(b); vm.push(c); vm.push(a) }},
	{"exec", func(vm *VM) { vm.run(vm.popBlock()) }},
	{"pstack", func(vm *VM) { vm.writeLine(formatValues(vm.stack)) }},
}

func (vm *VM) bindNatives() {
	if !vm.noPrelude {
		for _, native := range prelude {
			vm.env.define(native.Name, native)
		}
	}
	for _, native := range vm.natives {
		vm.env.define(native.Name, native)
	}
	vm.natives = nil
}
