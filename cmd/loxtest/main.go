// Command loxtest is the golden-file differential test harness for the
// `lox` binary. It is a direct generalization of the teacher's own
// test/main.go + test/compare.go + test/collect.go: discover `.lox`
// fixtures under a directory, run a target binary against each, and diff
// stdout/stderr/exit code against recorded `.golden` files, printing
// colorized pass/fail the way the teacher's PrintResult did.
package main

import (
	"flag"
	"fmt"
	"os"
)

var (
	dir     = flag.String("dir", "testdata/golden", "directory of .lox fixtures")
	binary  = flag.String("bin", "./lox", "path to the built lox binary")
	update  = flag.Bool("update", false, "write/refresh golden files instead of comparing")
	noColor = flag.Bool("no-color", false, "disable colorized output")
)

func main() {
	flag.Parse()

	cases, err := discover(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "discovering fixtures: %v\n", err)
		os.Exit(1)
	}

	if *update {
		if err := updateGoldens(*binary, cases); err != nil {
			fmt.Fprintf(os.Stderr, "updating goldens: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("updated %d golden file(s)\n", len(cases))
		return
	}

	results := runAll(*binary, cases)
	failed := report(results, *noColor)
	if failed > 0 {
		os.Exit(1)
	}
}
