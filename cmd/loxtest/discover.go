package main

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Case is a single `.lox` fixture discovered under the fixtures directory.
// Adapted from the teacher's test.TestCase, generalized from "suite +
// filename" to a plain relative path since this repo's fixtures aren't
// grouped into clox-style suites.
type Case struct {
	Name string // relative path, e.g. "classes/init.lox"
	Path string // full path to the .lox source
}

// GoldenPath returns the path of the recorded expectation for a Case.
func (c Case) GoldenPath() string {
	return strings.TrimSuffix(c.Path, ".lox") + ".golden"
}

// discover walks dir for every *.lox file, mirroring the teacher's
// DiscoverTests.
func discover(dir string) ([]Case, error) {
	var cases []Case

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".lox") {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		cases = append(cases, Case{Name: rel, Path: path})
		return nil
	})

	return cases, err
}
