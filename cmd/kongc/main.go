// kongc compiles a class-language source file into 32-bit x86 assembly.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kongclass/kongc/codegen"
	"github.com/kongclass/kongc/lexer"
	"github.com/kongclass/kongc/parser"
	"github.com/kongclass/kongc/typecheck"
)

const version = "0.1.0"

func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, `kongc v%s

USAGE:
    %s [OPTIONS]

DESCRIPTION:
    kongc reads class-language source and emits 32-bit x86 assembly.
    Without -f, it reads source from standard input. Without -o, it
    writes assembly to standard output.

OPTIONS:
    -f, --file <path>    Compile a source file instead of stdin
    -o, --out <path>     Write assembly to a file instead of stdout
    -d, --debug          Print the resolved class table to stderr
    -v, --version        Show version information
    -h, --help           Show this help message

EXAMPLES:
    %s < hello.kong
    %s -f hello.kong -o hello.s

`, version, os.Args[0], os.Args[0], os.Args[0])
}

func main() {
	flag.Usage = printUsage

	fileFlag := flag.String("file", "", "compile a source file instead of stdin")
	outFlag := flag.String("out", "", "write assembly to a file instead of stdout")
	debugFlag := flag.Bool("debug", false, "print the resolved class table to stderr")
	versionFlag := flag.Bool("version", false, "show version information")

	flag.StringVar(fileFlag, "f", "", "compile a source file instead of stdin")
	flag.StringVar(outFlag, "o", "", "write assembly to a file instead of stdout")
	flag.BoolVar(debugFlag, "d", false, "print the resolved class table to stderr")
	flag.BoolVar(versionFlag, "v", false, "show version information")

	flag.Parse()

	if *versionFlag {
		fmt.Printf("kongc v%s\n", version)
		return
	}

	src, err := readSource(*fileFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading source: %s\n", err)
		os.Exit(1)
	}

	asmText, err := compile(src, *debugFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := writeOutput(*outFlag, asmText); err != nil {
		fmt.Fprintf(os.Stderr, "error writing output: %s\n", err)
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

func writeOutput(path, text string) error {
	if path == "" {
		_, err := fmt.Print(text)
		return err
	}
	return os.WriteFile(path, []byte(text), 0o644)
}

// compile runs the full pipeline: lex, parse, type-check, generate. A
// parser error or a semantic error both end the pipeline before code
// generation starts -- there is no error recovery, per this compiler's
// fatal-on-first-error design. A panic escaping code generation is a
// compiler bug (an assertion like "class must exist in the table"
// tripping on a program typecheck already accepted), not a source error,
// so it is recovered here and reported under a distinct prefix rather
// than folded into the semantic-error exit path.
func compile(src string, debug bool) (asmText string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal compiler error (codegen): %v", r)
		}
	}()

	l := lexer.New(src)
	p := parser.New(l)
	program := p.ParseProgram()

	if errs := p.Errors(); len(errs) != 0 {
		msg := "parse errors:\n"
		for _, e := range errs {
			msg += "\t" + e + "\n"
		}
		return "", fmt.Errorf("%s", msg)
	}

	result, err := typecheck.Check(program)
	if err != nil {
		return "", err
	}

	if debug {
		for _, name := range result.Classes.Names() {
			node, _ := result.Classes.Lookup(name)
			fmt.Fprintf(os.Stderr, "class %s (superclass %q)\n", node.Name, node.Superclass)
		}
	}

	return codegen.Generate(program, result.Classes), nil
}
