// Package flushio provides flush-able writers, so that output may be buffered
// while a program runs and pushed out at well defined points.
package flushio

import (
	"bufio"
	"io"
)

// WriteFlusher is a flush-able io.Writer.
type WriteFlusher interface {
	io.Writer
	Flush() error
}

// Discard is a WriteFlusher that drops everything.
var Discard WriteFlusher = nopFlusher{io.Discard}

// NewWriteFlusher returns w if it already is a WriteFlusher, or a wrapping
// with a noop Flush if it is an in-memory buffer; otherwise w gets wrapped by
// a new bufio.Writer.
func NewWriteFlusher(w io.Writer) WriteFlusher {
	switch impl := w.(type) {
	case nil:
		return Discard
	case WriteFlusher:
		return impl
	}
	if w == io.Discard {
		return Discard
	}

	// types like bytes.Buffer and strings.Builder never need flushing
	type buffer interface {
		io.Writer
		Len() int
		Grow(n int)
		Reset()
	}
	if _, isBuffer := w.(buffer); isBuffer {
		return nopFlusher{w}
	}

	return bufio.NewWriter(w)
}

type nopFlusher struct{ io.Writer }

func (nf nopFlusher) Flush() error { return nil }

// WriteLine writes s followed by a line feed, unless s already ends in one.
func WriteLine(w io.Writer, s string) error {
	if n := len(s); n == 0 || s[n-1] != '\n' {
		s += "\n"
	}
	_, err := io.WriteString(w, s)
	return err
}

// WriteFlushers combines any number of WriteFlusher-s into a single one that
// writes into and flushes all of them.
func WriteFlushers(wfs ...WriteFlusher) WriteFlusher {
	switch all := appendWriteFlusher(nil, wfs...); len(all) {
	case 0:
		return Discard
	case 1:
		return all[0]
	default:
		return all
	}
}

type writeFlushers []WriteFlusher

func (wfs writeFlushers) Write(p []byte) (n int, err error) {
	for _, wf := range wfs {
		n, err = wf.Write(p)
		if err != nil {
			return n, err
		}
		if n != len(p) {
			return n, io.ErrShortWrite
		}
	}
	return len(p), nil
}

func (wfs writeFlushers) Flush() (err error) {
	for _, wf := range wfs {
		if ferr := wf.Flush(); err == nil {
			err = ferr
		}
	}
	return err
}

func appendWriteFlusher(all writeFlushers, some ...WriteFlusher) writeFlushers {
	for _, one := range some {
		switch impl := one.(type) {
		case nil:
		case writeFlushers:
			all = append(all, impl...)
		default:
			if one != Discard {
				all = append(all, one)
			}
		}
	}
	return all
}
