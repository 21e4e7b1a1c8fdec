// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands wires the pulse CLI: replaying and verifying the persisted
// governance history artifact, and scoring fresh activity data into it.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd constructs the pulse root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("PULSE_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:           "pulse",
		Short:         "pulse - governance health tooling for agent-driven repositories",
		Long:          "pulse scores raw repository activity into a sealed governance health history and replays trend summaries from it.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of pulse",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pulse version %s\n", version)
		},
	})

	cmd.AddCommand(NewReplayCommand())
	cmd.AddCommand(NewScoreCommand(version))
	cmd.AddCommand(NewVerifyCommand())

	return cmd
}
