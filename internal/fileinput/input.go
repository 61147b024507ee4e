package fileinput

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Location names a line in an Input file.
type Location struct {
	Name string
	Line int
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }

// Input implements sequential line reading through a Queue of one or more
// input streams. The Location of the last scanned line is tracked to
// facilitate user feedback.
type Input struct {
	Queue []io.Reader
	Location

	cur  io.Reader
	rd   *bufio.Reader
	text string
	err  error
}

// Scan advances to the next line, moving on through the Queue as each stream
// is exhausted. Lines may be of any length. Returns false once every stream
// is done, or after a read error, which is then available from Err.
func (in *Input) Scan() bool {
	for in.err == nil {
		if in.rd == nil && !in.nextIn() {
			return false
		}
		line, err := in.rd.ReadString('\n')
		if err == nil || (err == io.EOF && line != "") {
			in.Line++
			in.text = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if err != nil {
				in.closeCurrent()
			}
			return true
		}
		if err != io.EOF {
			in.Line++
			in.err = err
		}
		in.closeCurrent()
	}
	return false
}

// Text returns the most recently scanned line, without its line ending.
func (in *Input) Text() string { return in.text }

// Err returns the first non-EOF error encountered while scanning.
func (in *Input) Err() error {
	if in.err != nil {
		return fmt.Errorf("%v: %w", in.Location, in.err)
	}
	return nil
}

// Close closes the current stream and any still queued, returning the first
// close error.
func (in *Input) Close() (err error) {
	if cerr := in.closeCurrent(); err == nil {
		err = cerr
	}
	for _, r := range in.Queue {
		if cl, ok := r.(io.Closer); ok {
			if cerr := cl.Close(); err == nil {
				err = cerr
			}
		}
	}
	in.Queue = nil
	return err
}

func (in *Input) closeCurrent() (err error) {
	if cl, ok := in.cur.(io.Closer); ok {
		err = cl.Close()
	}
	in.cur = nil
	in.rd = nil
	return err
}

func (in *Input) nextIn() bool {
	if len(in.Queue) == 0 {
		return false
	}
	r := in.Queue[0]
	in.Queue = in.Queue[1:]
	in.cur = r
	in.rd = bufio.NewReader(r)
	in.Location = Location{Name: NameOf(r)}
	return true
}

// NameOf returns a name for an input stream: either its own Name(), as
// implemented by *os.File, or a placeholder naming its type.
func NameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}

// Named attaches a name to r for Location reporting.
func Named(name string, r io.Reader) io.Reader {
	if cl, ok := r.(io.ReadCloser); ok {
		return namedReadCloser{cl, name}
	}
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

type namedReadCloser struct {
	io.ReadCloser
	name string
}

func (nr namedReader) Name() string     { return nr.name }
func (nr namedReadCloser) Name() string { return nr.name }
