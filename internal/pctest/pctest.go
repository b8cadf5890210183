// Copyright 2024 Paperclip Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package pctest is a small golden-file test harness built on txtar
// archives, modeled on the teacher's cuetxtar.TxTarTest: a directory of
// `.txtar` files, each holding one or more Paperclip source documents
// plus a trailing `out` section that records the expected debug-printed
// result. Setting Suite.Update rewrites the `out` section in place
// instead of failing the comparison; internal/core/eval's TestEvalGolden
// runs its fixtures through this harness.
package pctest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/txtar"
)

// Suite describes one golden-test directory.
type Suite struct {
	// Root is the directory containing *.txtar fixture files.
	Root string
	// Update rewrites each fixture's "out" file in place with the
	// actual captured output instead of comparing against it.
	Update bool
}

// Case is one parsed fixture handed to the test function.
type Case struct {
	t       *testing.T
	path    string
	Archive *txtar.Archive

	// Inputs holds every file in the archive except "out".
	Inputs map[string]string

	update bool
	actual bytes.Buffer
}

// Run invokes fn once per *.txtar file directly under s.Root.
func (s Suite) Run(t *testing.T, fn func(*Case)) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		t.Fatalf("pctest: reading %s: %v", s.Root, err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".txtar" {
			continue
		}
		name := e.Name()
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(s.Root, name)
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("pctest: reading %s: %v", path, err)
			}
			arc := txtar.Parse(data)
			c := &Case{t: t, path: path, Archive: arc, Inputs: map[string]string{}, update: s.Update}
			for _, f := range arc.Files {
				if f.Name == "out" {
					continue
				}
				c.Inputs[f.Name] = string(f.Data)
			}
			fn(c)
			c.finish()
		})
	}
}

// Logf records a line of actual output to be compared (or written, when
// Suite.Update is set) against the fixture's "out" section.
func (c *Case) Logf(format string, args ...any) {
	fmt.Fprintf(&c.actual, format, args...)
}

// Write appends raw bytes to the actual output buffer.
func (c *Case) Write(p []byte) (int, error) {
	return c.actual.Write(p)
}

// WriteString appends s to the actual output buffer.
func (c *Case) WriteString(s string) {
	c.actual.WriteString(s)
}

func (c *Case) finish() {
	want := ""
	for _, f := range c.Archive.Files {
		if f.Name == "out" {
			want = string(f.Data)
		}
	}
	got := c.actual.String()

	if c.update {
		setOutSection(c.Archive, got)
		if err := os.WriteFile(c.path, txtar.Format(c.Archive), 0o644); err != nil {
			c.t.Fatalf("pctest: updating %s: %v", c.path, err)
		}
		return
	}

	if got != want {
		c.t.Errorf("%s: output mismatch\n--- want ---\n%s\n--- got ---\n%s", c.path, want, got)
	}
}

func setOutSection(arc *txtar.Archive, out string) {
	for i, f := range arc.Files {
		if f.Name == "out" {
			arc.Files[i].Data = []byte(out)
			return
		}
	}
	arc.Files = append(arc.Files, txtar.File{Name: "out", Data: []byte(out)})
}
