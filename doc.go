/*
Command gostack runs programs in a tiny stack language.

Programs are read a line at a time and split on white space into words. Each
word is one of:

	{       open a block
	}       close the innermost open block
	-12     an integer, fitting in 32 bits
	/name   a symbol, naming a binding for def
	name    anything else: an operation

Integers and symbols get pushed onto the operand stack. An operation is looked
up first among the builtins, then among the names bound by def: a bound block
runs, a bound native runs, and any other bound value is pushed.

While a block is open, words are not run: every value, including blocks that
close inside of it, is captured into the innermost open block instead. A
closed block is itself just a value, pushed onto the stack when no other block
remains open. Blocks only run when called by name, or by if.

Builtins, which def cannot replace:

	+ - * /   ( lhs rhs -- n ) 32-bit integer arithmetic, / truncates
	<         ( lhs rhs -- n ) 1 if lhs < rhs, 0 otherwise
	dup       ( a -- a a )
	swap      ( a b -- b a )
	def       ( /name value -- ) bind name to value
	puts      ( a -- ) write a line of output
	if        ( {cond} {true} {false} -- ) run cond, pop a number, then run
	          true if it is nonzero, false otherwise

Natives, bound by default, which def may replace:

	drop      ( a -- )
	over      ( a b -- a b a )
	rot       ( a b c -- b c a )
	exec      ( {block} -- ) run block
	pstack    ( -- ) write the whole stack as a line of output

For example:

	/square { dup * } def
	/abs { { dup 0 < } { 0 swap - } { } if } def
	-5 abs square puts

prints 25.

There is one flat namespace: def overwrites any earlier binding of the same
name, and blocks do not introduce scopes.

Any fault ends the program: popping an empty stack, an operand of the wrong
kind, an undefined operation, closing a block that was never opened, or
dividing by zero. A block that calls itself without end exhausts the Go stack,
crashing the process.

Usage:

	gostack [flags] [file ...]

Files run in order through one machine, whose final stack gets printed. With
no files, stdin is read: line by line from an interactive prompt when it is a
terminal (or given -i), otherwise as one more batch input.

	-i           prompt interactively even if stdin is not a terminal
	-isolate     run each file in its own machine, concurrently; needs files
	-history F   load and save prompt history in file F
	-timeout D   stop after duration D
	-trace       log every word, dispatch, and intermediate stack to stderr
*/
package main
