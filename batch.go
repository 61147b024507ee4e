package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

// runIsolated runs every file argument in a machine of its own, each on its
// own goroutine. Output is collected per file, and printed in argument order
// once all have finished; the first failure cancels any still running.
func (cmd command) runIsolated(ctx context.Context) error {
	outs := make([]bytes.Buffer, len(cmd.args))
	eg, ctx := errgroup.WithContext(ctx)
	for i, name := range cmd.args {
		i, name := i, name
		eg.Go(func() error {
			f, err := os.Open(name)
			if err != nil {
				return err
			}
			return cmd.runOne(ctx, name, f, &outs[i])
		})
	}
	err := eg.Wait()

	for i, name := range cmd.args {
		if outs[i].Len() == 0 {
			continue
		}
		if _, werr := fmt.Fprintf(cmd.stdout, "# %v\n", name); werr != nil && err == nil {
			err = werr
		}
		if _, werr := outs[i].WriteTo(cmd.stdout); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}

func (cmd command) runOne(ctx context.Context, name string, f *os.File, out *bytes.Buffer) (rerr error) {
	vm := New(WithInput(f), WithOutput(out), cmd.options(name))
	defer func() {
		if cerr := vm.Close(); rerr == nil {
			rerr = cerr
		}
	}()
	if err := vm.Run(ctx); err != nil {
		return err
	}
	return printStack(out, vm)
}
