package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gakuakachi/gostack/internal/fileinput"
	"github.com/gakuakachi/gostack/internal/flushio"
)

// Core holds the I/O plumbing around a machine: queued line input, buffered
// output, and optional trace logging.
type Core struct {
	logging
	in      fileinput.Input
	out     flushio.WriteFlusher
	closers []io.Closer
}

// Close flushes output, then closes any remaining input and any other
// resources in reverse order of acquisition.
func (core *Core) Close() (err error) {
	if core.out != nil {
		err = core.out.Flush()
	}
	if cerr := core.in.Close(); err == nil {
		err = cerr
	}
	for i := len(core.closers) - 1; i >= 0; i-- {
		if cerr := core.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	core.closers = nil
	return err
}

func (core *Core) halt(err error) {
	// ignore any panics while trying to flush output
	func() {
		defer func() { recover() }()
		if core.out != nil {
			if ferr := core.out.Flush(); err == nil {
				err = ferr
			}
		}
	}()

	// ignore any panics while logging
	func() {
		defer func() { recover() }()
		core.logf("#", "halt error: %v", err)
	}()

	panic(haltError{err})
}

func (core *Core) haltif(err error) {
	if err != nil {
		core.halt(err)
	}
}

func (core *Core) writeLine(s string) {
	core.haltif(flushio.WriteLine(core.out, s))
}

func (core *Core) flush() error {
	if core.out == nil {
		return nil
	}
	return core.out.Flush()
}

type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}
func (err haltError) Unwrap() error { return err.error }

func isHalt(err error) bool {
	var he haltError
	return errors.As(err, &he)
}

// locationError attributes an error to the input line being run.
type locationError struct {
	fileinput.Location
	err error
}

func (le locationError) Error() string { return fmt.Sprintf("%v: %v", le.Location, le.err) }
func (le locationError) Unwrap() error { return le.err }

type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log *logging) withLogPrefix(prefix string) func() {
	logfn := log.logfn
	log.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		log.logfn = logfn
	}
}

func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		for _, r := range mark {
			mark = strings.Repeat(string(r), n) + mark
			break
		}
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
