// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store reads and writes the persisted governance history artifact.
// The pipeline assumes a single writer per refresh cycle; writes are atomic
// so readers never observe a torn file.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentfleet/pulse/pkg/govhealth"
)

// DefaultPath is the conventional location of the history artifact.
const DefaultPath = "data/governance-history.json"

// ErrMalformed reports a history file that exists but does not parse as any
// known artifact shape.
var ErrMalformed = errors.New("history file is not a valid governance artifact")

// Load reads and parses the artifact at path. A missing file surfaces as
// fs.ErrNotExist via errors.Is so callers can turn it into guidance.
func Load(path string) (*govhealth.Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading history file: %w", err)
	}
	a := govhealth.Parse(raw)
	if a == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrMalformed)
	}
	return a, nil
}

// Save writes the artifact atomically: content goes to a temp file in the
// target directory, then a rename swaps it into place.
func Save(path string, a govhealth.Artifact) error {
	content, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}
	content = append(content, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, "history-tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing artifact: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), path); err != nil {
		return fmt.Errorf("moving temp file to %s: %w", path, err)
	}

	return nil
}
