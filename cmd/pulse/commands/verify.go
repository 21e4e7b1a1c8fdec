// SPDX-License-Identifier: AGPL-3.0-or-later
package commands

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/agentfleet/pulse/cmd/pulse/internal/clierr"
	"github.com/agentfleet/pulse/internal/store"
	"github.com/agentfleet/pulse/pkg/govhealth"
)

// NewVerifyCommand checks the integrity seal of a stored history artifact.
func NewVerifyCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the integrity seal of the governance history artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			artifact, err := store.Load(file)
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("no governance history at %s; run 'pulse score' against fresh activity data to generate it", file)
			}
			if err != nil {
				return err
			}

			if artifact.Integrity == nil {
				return clierr.Newf(1, "%s carries no integrity record", file)
			}
			if !govhealth.VerifyIntegrity(*artifact) {
				return clierr.Newf(1, "integrity verification failed for %s", file)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s verified (%s %s)\n",
				file, artifact.Integrity.Algorithm, artifact.Integrity.Digest)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", store.DefaultPath, "Path to the governance history artifact")
	return cmd
}
