package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

const width = 100

// report prints one line per case (colorized pass/fail, as the teacher's
// PrintResult did with color.GreenString/color.RedString) plus a detailed
// diff for every failure, and returns the number of failed cases.
func report(results []Result, disableColor bool) int {
	if disableColor {
		color.NoColor = true
	}

	failed := 0
	for _, r := range results {
		status := color.GreenString("PASS")
		if !r.Passed {
			status = color.RedString("FAIL")
			failed++
		}

		spacing := width - len("[PASS] ") - len(r.Case.Name)
		if spacing < 1 {
			spacing = 1
		}
		fmt.Printf("[%s] %s%s%s\n", status, r.Case.Name, strings.Repeat(" ", spacing), r.Actual.Duration)

		if !r.Passed {
			printDiff(r)
		}
	}

	fmt.Println(strings.Repeat("-", width))
	fmt.Printf("%d passed, %d failed, %d total\n", len(results)-failed, failed, len(results))
	return failed
}

func printDiff(r Result) {
	if r.Mismatch == "" {
		return
	}
	fmt.Printf("  %s\n", r.Mismatch)

	if r.Expected.ExitCode != r.Actual.ExitCode {
		fmt.Printf("  expected exit %d, got %d\n", r.Expected.ExitCode, r.Actual.ExitCode)
	}
	if r.Expected.Stdout != r.Actual.Stdout {
		fmt.Printf("  expected stdout: %q\n  actual stdout:   %q\n", r.Expected.Stdout, r.Actual.Stdout)
	}
	if r.Expected.Stderr != r.Actual.Stderr {
		fmt.Printf("  expected stderr: %q\n  actual stderr:   %q\n", r.Expected.Stderr, r.Actual.Stderr)
	}
}
