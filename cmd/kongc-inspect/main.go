// kongc-inspect loads a class-language source file, runs it through
// type-checking and code generation, and opens an interactive terminal
// browser over the resulting class table.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kongclass/kongc/codegen"
	"github.com/kongclass/kongc/inspect"
	"github.com/kongclass/kongc/lexer"
	"github.com/kongclass/kongc/parser"
	"github.com/kongclass/kongc/typecheck"
)

const version = "0.1.0"

func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, `kongc-inspect v%s

USAGE:
    %s -f <path>

DESCRIPTION:
    kongc-inspect compiles a class-language source file far enough to
    resolve its class table (fields, offsets, methods, dispatch labels),
    then opens a terminal browser over the result. Without -f, it reads
    source from standard input.

OPTIONS:
    -f, --file <path>    Inspect a source file instead of stdin
    -v, --version        Show version information
    -h, --help           Show this help message

`, version, os.Args[0])
}

func main() {
	flag.Usage = printUsage

	fileFlag := flag.String("file", "", "inspect a source file instead of stdin")
	versionFlag := flag.Bool("version", false, "show version information")

	flag.StringVar(fileFlag, "f", "", "inspect a source file instead of stdin")
	flag.BoolVar(versionFlag, "v", false, "show version information")

	flag.Parse()

	if *versionFlag {
		fmt.Printf("kongc-inspect v%s\n", version)
		return
	}

	src, err := readSource(*fileFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading source: %s\n", err)
		os.Exit(1)
	}

	classes, err := resolve(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := inspect.Start(classes); err != nil {
		fmt.Fprintf(os.Stderr, "inspector error: %s\n", err)
		os.Exit(1)
	}
}

func readSource(path string) (string, error) {
	if path == "" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	//nolint:gosec // path is an explicit user-supplied flag, not derived input
	b, err := os.ReadFile(path)
	return string(b), err
}

// resolve runs the full pipeline through code generation, since the
// per-class field offset tables the inspector displays are only populated
// once codegen has walked the program (see classtable.Insert).
func resolve(src string) ([]inspect.ClassInfo, error) {
	l := lexer.New(src)
	p := parser.New(l)
	program := p.ParseProgram()

	if errs := p.Errors(); len(errs) != 0 {
		msg := "parse errors:\n"
		for _, e := range errs {
			msg += "\t" + e + "\n"
		}
		return nil, fmt.Errorf("%s", msg)
	}

	result, err := typecheck.Check(program)
	if err != nil {
		return nil, err
	}

	codegen.Generate(program, result.Classes)
	return inspect.Collect(result.Classes), nil
}
