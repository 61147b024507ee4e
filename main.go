package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/gakuakachi/gostack/internal/fileinput"
	"github.com/gakuakachi/gostack/internal/logio"
	"github.com/gakuakachi/gostack/internal/panicerr"
)

func main() {
	ctx := context.Background()

	var (
		timeout time.Duration
		trace   bool
		cmd     = command{
			stdin:  os.Stdin,
			stdout: os.Stdout,
			isTerminal: func() bool {
				return term.IsTerminal(int(os.Stdin.Fd()))
			},
		}
	)
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.BoolVar(&cmd.interactive, "i", false, "read from an interactive prompt even if stdin is not a terminal")
	flag.BoolVar(&cmd.isolated, "isolate", false, "run each file argument in its own machine, concurrently")
	flag.StringVar(&cmd.history, "history", "", "load and save interactive prompt history in the given file")
	flag.Parse()
	cmd.args = flag.Args()

	log := logio.NewLogger(os.Stderr)
	if trace {
		cmd.logf = log.Leveledf("TRACE")
	}

	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd.report(log, cmd.run(ctx))
	os.Exit(log.ExitCode())
}

type command struct {
	args   []string
	stdin  io.Reader
	stdout io.Writer
	logf   func(mess string, args ...interface{})

	interactive bool
	isolated    bool
	history     string
	isTerminal  func() bool
}

var errIsolateNoFiles = errors.New("-isolate requires file arguments")

func (cmd command) run(ctx context.Context) error {
	switch {
	case cmd.isolated && len(cmd.args) == 0:
		return errIsolateNoFiles
	case cmd.isolated:
		return cmd.runIsolated(ctx)
	case len(cmd.args) > 0:
		inputs, err := openAll(cmd.args)
		if err != nil {
			return err
		}
		return cmd.runBatch(ctx, inputs...)
	case cmd.interactive || (cmd.isTerminal != nil && cmd.isTerminal()):
		return cmd.runInteractive()
	default:
		return cmd.runBatch(ctx, fileinput.Named("<stdin>", cmd.stdin))
	}
}

// report logs any error. A recovered panic or goroutine exit is logged as a
// one line fault; its stack trace only goes to the trace log.
func (cmd command) report(log *logio.Logger, err error) {
	switch {
	case err == nil:
	case panicerr.IsPanic(err), panicerr.IsExit(err):
		log.Errorf("internal fault: %v", err)
		if stack := panicerr.PanicStack(err); stack != "" && cmd.logf != nil {
			cmd.logf("panic stack:\n%s", stack)
		}
	default:
		log.ErrorIf(err)
	}
}

func (cmd command) options(name string) VMOption {
	if cmd.logf == nil {
		return nil
	}
	if name == "" {
		return WithLogf(cmd.logf)
	}
	logf := cmd.logf
	return WithLogf(func(mess string, args ...interface{}) {
		logf("%v: "+mess, append([]interface{}{name}, args...)...)
	})
}

// runBatch runs all inputs through one machine, then prints its final stack.
func (cmd command) runBatch(ctx context.Context, inputs ...io.Reader) (rerr error) {
	opts := []VMOption{WithOutput(cmd.stdout), cmd.options("")}
	for _, in := range inputs {
		opts = append(opts, WithInput(in))
	}
	vm := New(opts...)
	defer func() {
		if cerr := vm.Close(); rerr == nil {
			rerr = cerr
		}
	}()

	if err := vm.Run(ctx); err != nil {
		cmd.traceDump(vm)
		return err
	}
	return printStack(cmd.stdout, vm)
}

func (cmd command) traceDump(vm *VM) {
	if cmd.logf != nil {
		lw := logio.Writer{Logf: cmd.logf}
		vmDumper{vm: vm, out: &lw}.dump()
		lw.Close()
	}
}

func printStack(w io.Writer, vm *VM) error {
	_, err := fmt.Fprintf(w, "stack: %v\n", formatValues(vm.Stack()))
	return err
}

func openAll(names []string) ([]io.Reader, error) {
	inputs := make([]io.Reader, 0, len(names))
	for _, name := range names {
		f, err := os.Open(name)
		if err != nil {
			for _, in := range inputs {
				in.(io.Closer).Close()
			}
			return nil, err
		}
		inputs = append(inputs, f)
	}
	return inputs, nil
}
