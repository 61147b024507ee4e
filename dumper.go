package main

import (
	"fmt"
	"io"
	"strings"
)

// formatValue renders a value structurally, unlike its String form: symbols
// keep their leading slash, and blocks show their contents.
func formatValue(val Value) string {
	var sb strings.Builder
	writeValue(&sb, val)
	return sb.String()
}

// formatValues renders a sequence of values like "[1 2 { 3 }]".
func formatValues(vals []Value) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, val := range vals {
		if i > 0 {
			sb.WriteByte(' ')
		}
		writeValue(&sb, val)
	}
	sb.WriteByte(']')
	return sb.String()
}

func writeValue(sb *strings.Builder, val Value) {
	switch impl := val.(type) {
	case nil:
		sb.WriteString("<nil>")
	case Symbol:
		sb.WriteByte('/')
		sb.WriteString(string(impl))
	case Block:
		sb.WriteByte('{')
		for _, code := range impl {
			sb.WriteByte(' ')
			writeValue(sb, code)
		}
		sb.WriteString(" }")
	case Native:
		sb.WriteString("<native ")
		sb.WriteString(impl.Name)
		sb.WriteByte('>')
	default:
		sb.WriteString(val.String())
	}
}

type vmDumper struct {
	vm  *VM
	out io.Writer

	// natives are elided from the environment unless set
	natives bool
}

func (dump vmDumper) dump() {
	fmt.Fprintf(dump.out, "# VM Dump\n")
	fmt.Fprintf(dump.out, "  stack: %v\n", formatValues(dump.vm.stack))
	dump.dumpBlocks()
	dump.dumpEnv()
}

func (dump vmDumper) dumpBlocks() {
	if len(dump.vm.blocks) == 0 {
		return
	}
	fmt.Fprintf(dump.out, "# Open Blocks\n")
	for i, block := range dump.vm.blocks {
		fmt.Fprintf(dump.out, "  %v: %v\n", i, formatValues(block))
	}
}

func (dump vmDumper) dumpEnv() {
	var buf strings.Builder
	dump.vm.env.each(func(name string, val Value) {
		if _, isNative := val.(Native); isNative && !dump.natives {
			return
		}
		fmt.Fprintf(&buf, "  %v = %v\n", name, formatValue(val))
	})
	if buf.Len() > 0 {
		fmt.Fprintf(dump.out, "# Environment\n")
		io.WriteString(dump.out, buf.String())
	}
}
