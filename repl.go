package main

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

const (
	promptMain = "> "
	promptCont = "... "
)

// prompter reads lines interactively; implemented by *liner.State.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// interact runs each line read from pr until end of input, returning the
// first fault. Aborting a prompt discards its line.
func interact(vm *VM, pr prompter) error {
	for {
		prompt := promptMain
		if vm.Capturing() > 0 {
			prompt = promptCont
		}
		line, err := pr.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		pr.AppendHistory(line)
		if err := vm.ExecLine(line); err != nil {
			return err
		}
	}
}

// runInteractive runs a prompt session on the terminal, printing the final
// stack once input ends.
func (cmd command) runInteractive() (rerr error) {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if cmd.history != "" {
		if f, err := os.Open(cmd.history); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(cmd.history); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	vm := New(WithOutput(cmd.stdout), cmd.options(""))
	defer func() {
		if cerr := vm.Close(); rerr == nil {
			rerr = cerr
		}
	}()

	if err := interact(vm, ln); err != nil {
		cmd.traceDump(vm)
		return err
	}
	return printStack(cmd.stdout, vm)
}
