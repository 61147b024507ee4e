package main

import (
	"fmt"
	"strconv"
)

// Value is any datum that the machine can hold on its operand stack, store in
// its environment, or capture inside a block. The set of implementations is
// closed: Num, Op, Symbol, Block and Native.
type Value interface {
	fmt.Stringer
	kind() valueKind
}

type valueKind uint8

const (
	kindNum valueKind = iota
	kindOp
	kindSymbol
	kindBlock
	kindNative
)

var kindNames = [...]string{
	kindNum:    "num",
	kindOp:     "op",
	kindSymbol: "symbol",
	kindBlock:  "block",
	kindNative: "native",
}

func (k valueKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Num is a signed 32-bit integer; arithmetic wraps on overflow.
type Num int32

// Op is a bare word, resolved when dispatched: first against the builtin
// table, then against the variable environment.
type Op string

// Symbol is a name literal, written as /name, that serves as the target
// operand of def.
type Symbol string

// Block is a captured sequence of values that is only evaluated when invoked
// through a name binding or a control construct like if.
// Blocks are never mutated once closed, so copies share storage.
type Block []Value

// Native is a Go function bound into the variable environment so that it may
// be called by name the same way that a defined block is.
type Native struct {
	Name string
	Fn   func(vm *VM)
}

func (Num) kind() valueKind    { return kindNum }
func (Op) kind() valueKind     { return kindOp }
func (Symbol) kind() valueKind { return kindSymbol }
func (Block) kind() valueKind  { return kindBlock }
func (Native) kind() valueKind { return kindNative }

// String returns the textual form written by puts; blocks and natives only
// render as opaque placeholders.
func (n Num) String() string    { return strconv.FormatInt(int64(n), 10) }
func (op Op) String() string    { return string(op) }
func (s Symbol) String() string { return string(s) }
func (Block) String() string    { return "<Block>" }
func (Native) String() string   { return "<Native>" }

type typeError struct {
	want, got valueKind
}

func (err typeError) Error() string {
	return fmt.Sprintf("expected %v, got %v", err.want, err.got)
}

func asNum(val Value) (Num, error) {
	if n, ok := val.(Num); ok {
		return n, nil
	}
	return 0, typeError{kindNum, val.kind()}
}

func asBlock(val Value) (Block, error) {
	if b, ok := val.(Block); ok {
		return b, nil
	}
	return nil, typeError{kindBlock, val.kind()}
}

func asSymbol(val Value) (Symbol, error) {
	if s, ok := val.(Symbol); ok {
		return s, nil
	}
	return "", typeError{kindSymbol, val.kind()}
}
