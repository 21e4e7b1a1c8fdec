// SPDX-License-Identifier: AGPL-3.0-or-later
package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentfleet/pulse/internal/activity"
	"github.com/agentfleet/pulse/internal/genconfig"
	"github.com/agentfleet/pulse/internal/score"
	"github.com/agentfleet/pulse/internal/store"
	"github.com/agentfleet/pulse/pkg/govhealth"
)

// NewScoreCommand builds the write path of the pipeline: score an activity
// snapshot, append it to the stored history, and re-seal the artifact.
func NewScoreCommand(version string) *cobra.Command {
	var (
		activityFile string
		file         string
		configFile   string
		nowArg       string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score fresh activity data and append it to the sealed history",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().UTC()
			if nowArg != "" {
				t, err := time.Parse(time.RFC3339, nowArg)
				if err != nil {
					return fmt.Errorf("--now must be an RFC3339 timestamp, got %q", nowArg)
				}
				now = t.UTC()
			}

			data, err := activity.LoadFile(activityFile)
			if err != nil {
				return err
			}

			cfg, err := genconfig.Load(configFile)
			if err != nil {
				return err
			}

			var history []govhealth.Snapshot
			prev, err := store.Load(file)
			switch {
			case err == nil:
				history = prev.Snapshots
			case errors.Is(err, fs.ErrNotExist):
				// First refresh cycle; start an empty history.
			default:
				return err
			}

			snapshot := score.Compute(*data, now)
			history = govhealth.AppendSnapshot(history, snapshot)

			var sha *string
			if cfg.SourceCommitSha != "" {
				sha = &cfg.SourceCommitSha
			}
			artifact := govhealth.Build(govhealth.BuildParams{
				GeneratedAt:         now.Format(time.RFC3339),
				Snapshots:           history,
				Repositories:        cfg.Repositories,
				GeneratedBy:         cfg.GeneratedBy,
				GeneratorVersion:    version,
				SourceCommitSha:     sha,
				MissingRepositories: cfg.MissingRepositories,
				PermissionGaps:      cfg.PermissionGaps,
				APIPartials:         cfg.APIPartials,
			})
			seal := govhealth.Seal(artifact)
			artifact.Integrity = &seal

			if err := store.Save(file, artifact); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"✓ Appended snapshot %s (health %d, %d entries) to %s\n",
				snapshot.Timestamp, snapshot.HealthScore, len(artifact.Snapshots), file)
			if artifact.Completeness.Status == govhealth.StatusPartial {
				fmt.Fprintln(cmd.OutOrStdout(), "  completeness: partial — collection gaps recorded in the artifact")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&activityFile, "activity", "", "Path to the activity data JSON (required)")
	cmd.Flags().StringVar(&file, "file", store.DefaultPath, "Path to the governance history artifact")
	cmd.Flags().StringVar(&configFile, "config", "pulse.yaml", "Path to the generator config")
	cmd.Flags().StringVar(&nowArg, "now", "", "Pin the scoring clock (RFC3339); defaults to wall clock")
	_ = cmd.MarkFlagRequired("activity")
	return cmd
}
