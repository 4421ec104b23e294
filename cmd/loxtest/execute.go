package main

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Execution holds the observed result of running the binary against one
// fixture, mirroring the teacher's ExecutionResult/TestResult.
type Execution struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Golden is the recorded expectation format: three sections separated by
// a line of three dashes, in the order exit code / stdout / stderr.
type Golden struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

const goldenSeparator = "---"

func executeCase(binary string, c Case) Execution {
	start := time.Now()

	cmd := exec.Command(binary, c.Path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	duration := time.Since(start)

	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
	}

	return Execution{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
		Duration: duration,
	}
}

// Result is one fixture's comparison outcome.
type Result struct {
	Case     Case
	Actual   Execution
	Expected Golden
	Passed   bool
	Mismatch string
}

func runAll(binary string, cases []Case) []Result {
	results := make([]Result, 0, len(cases))
	for _, c := range cases {
		results = append(results, compareCase(binary, c))
	}
	return results
}

func compareCase(binary string, c Case) Result {
	expected, err := loadGolden(c.GoldenPath())
	if err != nil {
		return Result{Case: c, Mismatch: fmt.Sprintf("no golden file: %v", err)}
	}

	actual := executeCase(binary, c)

	mismatches := []string{}
	if expected.ExitCode != actual.ExitCode {
		mismatches = append(mismatches, fmt.Sprintf("exit code: expected %d, got %d", expected.ExitCode, actual.ExitCode))
	}
	if expected.Stdout != actual.Stdout {
		mismatches = append(mismatches, "stdout mismatch")
	}
	if expected.Stderr != actual.Stderr {
		mismatches = append(mismatches, "stderr mismatch")
	}

	return Result{
		Case:     c,
		Actual:   actual,
		Expected: expected,
		Passed:   len(mismatches) == 0,
		Mismatch: strings.Join(mismatches, "; "),
	}
}

func encodeGolden(exitCode int, stdout, stderr string) string {
	return strconv.Itoa(exitCode) + "\n" + goldenSeparator + "\n" + stdout + goldenSeparator + "\n" + stderr
}
