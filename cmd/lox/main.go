// Command lox is the external driver for the Lox language pipeline: CLI
// argument handling, the REPL loop, and file I/O — the "external
// collaborators" spec.md §1 calls out of scope for the interpreter core,
// built the way the teacher's codecrafters/cmd/main.go built its own
// tokenize/parse/evaluate/run subcommands.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"

	"loxwalk/internal/ast"
	"loxwalk/internal/errs"
	"loxwalk/internal/interpreter"
	"loxwalk/internal/parser"
	"loxwalk/internal/resolver"
	"loxwalk/internal/scanner"
)

func main() {
	args := os.Args[1:]

	switch {
	case len(args) == 0:
		runPrompt()
	case len(args) == 1:
		runFile(args[0])
	case len(args) == 2:
		runSubcommand(args[0], args[1])
	default:
		fmt.Fprintln(os.Stderr, "Usage: lox [subcommand] [script]")
		os.Exit(64)
	}
}

func runSubcommand(command, path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	sink := errs.New(os.Stderr)

	switch command {
	case "tokenize":
		toks := scanner.New(string(source), sink).ScanTokens()
		for _, t := range toks {
			fmt.Println(t.String())
		}
	case "parse":
		toks := scanner.New(string(source), sink).ScanTokens()
		statements := parser.New(toks, sink).Parse()
		fmt.Print(ast.PrintProgram(statements))
	case "resolve":
		toks := scanner.New(string(source), sink).ScanTokens()
		statements := parser.New(toks, sink).Parse()
		if !sink.HadScanOrParseError() {
			resolver.New(sink).Resolve(statements)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown subcommand: %s\n", command)
		os.Exit(64)
	}

	if sink.HadScanOrParseError() {
		os.Exit(65)
	}
}

// runFile implements the "one argument" invocation of spec.md §6: read the
// file, run the full pipeline once, map the resulting error state to an
// exit code.
func runFile(path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	sink := errs.New(os.Stderr)
	interp := interpreter.New(sink, os.Stdout)
	run(string(source), sink, interp)

	switch {
	case sink.HadRuntimeError():
		os.Exit(70)
	case sink.HadScanOrParseError():
		os.Exit(65)
	}
}

// runPrompt implements the "no arguments" REPL of spec.md §6: read one
// line at a time, run it through the full pipeline, reset the error sink
// between lines so a faulty line never terminates the session.
func runPrompt() {
	sink := errs.New(os.Stderr)
	interp := interpreter.New(sink, os.Stdout)

	reader := bufio.NewScanner(os.Stdin)
	for {
		color.New(color.FgCyan).Fprint(os.Stdout, "> ")
		if !reader.Scan() {
			fmt.Println()
			return
		}
		sink.Reset()
		run(reader.Text(), sink, interp)
	}
}

// run is the shared core of runFile/runPrompt: scan, parse, resolve, then
// execute only if no scan/parse/resolve error occurred, per spec.md §7.
func run(source string, sink *errs.Sink, interp *interpreter.Interpreter) {
	tokens := scanner.New(source, sink).ScanTokens()
	statements := parser.New(tokens, sink).Parse()

	if sink.HadScanOrParseError() {
		return
	}

	locals := resolver.New(sink).Resolve(statements)
	if sink.HadScanOrParseError() {
		return
	}

	interp.SetLocals(locals)
	interp.Interpret(statements)
}
