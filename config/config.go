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

// Package config loads the optional project manifest, paperclip.yaml,
// that marks the root of a multi-document bundle the way the teacher's
// cue.mod/module.cue marks a CUE module root. A Paperclip core consumer
// is never required to have one: without it, the bundle resolver simply
// treats the entry document's own directory as the root.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the conventional name a tool looks for in a project's
// root directory.
const ManifestFile = "paperclip.yaml"

// Manifest is the parsed form of paperclip.yaml.
type Manifest struct {
	// Entry is the canonical import path of the bundle's entry document,
	// relative to the manifest's own directory.
	Entry string `yaml:"entry"`

	// DevMode enables the extra validation passes of spec.md §4.5 by
	// default for every evaluation run against this project.
	DevMode bool `yaml:"devMode"`

	// Tokens optionally names additional documents holding shared public
	// `token` declarations. Parse only records the list; bundle.Resolve
	// does not read the manifest, so these documents are not loaded.
	Tokens []string `yaml:"tokens"`
}

// Parse decodes a paperclip.yaml document's raw bytes.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestFile, err)
	}
	if m.Entry == "" {
		return nil, fmt.Errorf("%s: missing required field %q", ManifestFile, "entry")
	}
	return &m, nil
}
