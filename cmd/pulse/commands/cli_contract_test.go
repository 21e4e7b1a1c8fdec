// SPDX-License-Identifier: AGPL-3.0-or-later
package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestCLIContract(t *testing.T) {
	cmd := NewRootCmd()
	b := bytes.NewBufferString("")
	cmd.SetOut(b)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	if err != nil {
		t.Fatalf("root command failed: %v", err)
	}

	out := b.String()

	// Assert top-level commands that are part of the core contract
	requiredCommands := []string{
		"completion",
		"help",
		"replay",
		"score",
		"verify",
		"version",
	}

	for _, c := range requiredCommands {
		if !strings.Contains(out, c) {
			t.Errorf("expected top-level command %q in root help", c)
		}
	}
}

func TestUnknownFlagIsNamed(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(bytes.NewBufferString(""))
	cmd.SetErr(bytes.NewBufferString(""))
	cmd.SetArgs([]string{"replay", "--bogus"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected an error for an unknown flag")
	}
	if !strings.Contains(err.Error(), "--bogus") {
		t.Errorf("error should name the offending flag, got %q", err.Error())
	}
}
