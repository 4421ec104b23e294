package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// loadGolden reads and parses a recorded expectation file.
func loadGolden(path string) (Golden, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Golden{}, err
	}

	parts := strings.SplitN(string(data), goldenSeparator+"\n", 3)
	if len(parts) != 3 {
		return Golden{}, fmt.Errorf("%s: malformed golden file", path)
	}

	exitCode, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Golden{}, fmt.Errorf("%s: bad exit code: %w", path, err)
	}

	return Golden{ExitCode: exitCode, Stdout: parts[1], Stderr: parts[2]}, nil
}

// updateGoldens runs binary over every case and (re)writes its golden
// file — the harness's "collect reference results" mode, generalized from
// the teacher's CollectReference (which shelled out to a separate
// reference implementation; this repo records its own interpreter's
// output as the expectation instead).
func updateGoldens(binary string, cases []Case) error {
	for _, c := range cases {
		exec := executeCase(binary, c)
		content := encodeGolden(exec.ExitCode, exec.Stdout, exec.Stderr)
		if err := os.WriteFile(c.GoldenPath(), []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}
