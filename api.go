package main

import (
	"context"
	"io"
	"strings"

	"github.com/gakuakachi/gostack/internal/fileinput"
	"github.com/gakuakachi/gostack/internal/panicerr"
)

// New constructs a fresh machine: an empty operand stack, an environment
// holding only natives, and no open blocks.
func New(opts ...VMOption) *VM {
	var vm VM
	defaultOptions.apply(&vm)
	VMOptions(opts...).apply(&vm)
	vm.bindNatives()
	return &vm
}

// Exec processes one word against the machine, then flushes any output.
// Any fault halts processing of the word and is returned; the machine should
// not be used after that.
func (vm *VM) Exec(word string) error {
	if err := panicerr.Catch(isHalt, func() { vm.exec(word) }); err != nil {
		return unwrapHalt(err)
	}
	return vm.flush()
}

// ExecLine processes every whitespace separated word of line, then flushes
// any output.
func (vm *VM) ExecLine(line string) error {
	if err := panicerr.Catch(isHalt, func() { vm.execLine(line) }); err != nil {
		return unwrapHalt(err)
	}
	return vm.flush()
}

// Stack returns a snapshot of the operand stack, bottom first.
func (vm *VM) Stack() []Value {
	return append([]Value{}, vm.stack...)
}

// Capturing returns how many blocks are still open.
func (vm *VM) Capturing() int { return len(vm.blocks) }

// Run processes every line of every queued input in order, stopping at the
// first fault, which is reported along with its input location.
// The context is only checked between lines.
func (vm *VM) Run(ctx context.Context) error {
	return unwrapHalt(panicerr.Recover("VM", func() error {
		return vm.runInput(ctx)
	}))
}

func (vm *VM) runInput(ctx context.Context) error {
	for vm.in.Scan() {
		if err := panicerr.Catch(isHalt, func() { vm.execLine(vm.in.Text()) }); err != nil {
			return locationError{vm.in.Location, unwrapHalt(err)}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if err := vm.in.Err(); err != nil {
		return err
	}
	return vm.flush()
}

func unwrapHalt(err error) error {
	if he, ok := err.(haltError); ok {
		return he.error
	}
	return err
}

func WithInput(r io.Reader) VMOption  { return withInput(r) }
func WithOutput(w io.Writer) VMOption { return withOutput(w) }
func WithTee(w io.Writer) VMOption    { return withTee(w) }

func WithInputString(name, s string) VMOption { return withInput(namedString(name, s)) }

func WithLogf(logfn func(mess string, args ...interface{})) VMOption { return withLogfn(logfn) }

// WithNative binds a Go function by name in the environment of new machines,
// after any prelude natives.
func WithNative(name string, fn func(vm *VM)) VMOption { return nativeOption{name, fn} }

// WithoutPrelude leaves the environment of new machines empty, apart from
// any WithNative bindings.
func WithoutPrelude() VMOption { return preludeOption(false) }

func namedString(name, s string) io.Reader {
	return fileinput.Named(name, strings.NewReader(s))
}
