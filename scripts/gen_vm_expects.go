package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"text/template"
	"time"

	"golang.org/x/sync/errgroup"
)

type namedReader interface {
	io.ReadCloser
	Name() string
}

var (
	in  namedReader    = os.Stdin
	out io.WriteCloser = os.Stdout
)

func parseFlags() {
	flag.Parse()

	args := flag.Args()

	if len(args) > 0 {
		name := args[0]
		f, err := os.Open(name)
		if err != nil {
			log.Fatalf("failed to open %v: %v", name, err)
		}
		args = args[1:]
		in = f
	}

	if len(args) > 0 {
		name := args[0]
		f, err := os.Create(name)
		if err != nil {
			log.Fatalf("failed to create %v: %v", name, err)
		}
		out = f
	}
}

func main() {
	parseFlags()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)

	ready := make(chan struct{})

	eg.Go(func() error {
		gofmt := exec.CommandContext(ctx, "goimports")
		fmtPipe, err := gofmt.StdinPipe()
		if err != nil {
			return err
		}

		defer out.Close()
		gofmt.Stdout = out
		gofmt.Stderr = os.Stderr

		out = fmtPipe

		close(ready)
		if err := gofmt.Run(); err != nil {
			return fmt.Errorf("goimports run failed: %w", err)
		}
		return nil
	})

	eg.Go(func() (rerr error) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ready:
		}

		defer func() {
			if cerr := in.Close(); rerr == nil {
				rerr = cerr
			}
			if cerr := out.Close(); rerr == nil {
				rerr = cerr
			}
		}()

		return run(ctx)
	})

	if err := eg.Wait(); err != nil {
		log.Fatalln(err)
	}
}

// expectMethod matches vmTestCase expectation methods that take arguments;
// each gets a wrapper usable with vmTestCase.apply.
var expectMethod = regexp.MustCompile(`func \(vmt vmTestCase\) expect(.+?)\((.+?)\) vmTestCase`)

type wrapper struct {
	What   string
	Params string
	Args   string
}

var wrappersTemplate = template.Must(template.New("wrappers").Parse(`package main

// @generated from {{ .Source }}
{{ if .Generate }}
//go:generate go run scripts/gen_vm_expects.go -- {{ .Generate }}
{{ end }}
{{- range .Wrappers }}
func expectVM{{ .What }}({{ .Params }}) func(vmTestCase) vmTestCase {
	return func(vmt vmTestCase) vmTestCase {
		return vmt.expect{{ .What }}({{ .Args }})
	}
}
{{ end -}}
`))

func parseWrapper(match [][]byte) wrapper {
	w := wrapper{
		What:   string(match[1]),
		Params: string(match[2]),
	}
	var args []string
	for _, part := range strings.Split(w.Params, ",") {
		fields := strings.Fields(part)
		arg := fields[0]
		if len(fields) > 1 && strings.HasPrefix(fields[1], "...") {
			arg += "..."
		}
		args = append(args, arg)
	}
	w.Args = strings.Join(args, ", ")
	return w
}

func run(ctx context.Context) error {
	var data struct {
		Source   string
		Generate string
		Wrappers []wrapper
	}
	data.Source = in.Name()
	if args := flag.Args(); len(args) >= 2 {
		data.Generate = strings.Join(args, " ")
	}

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if match := expectMethod.FindSubmatch(sc.Bytes()); len(match) > 0 {
			data.Wrappers = append(data.Wrappers, parseWrapper(match))
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := wrappersTemplate.Execute(&buf, data); err != nil {
		return err
	}
	_, err := buf.WriteTo(out)
	return err
}
