// SPDX-License-Identifier: AGPL-3.0-or-later
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentfleet/pulse/cmd/pulse/internal/clierr"
	"github.com/agentfleet/pulse/internal/replay"
	"github.com/agentfleet/pulse/internal/store"
	"github.com/agentfleet/pulse/pkg/govhealth"
)

// replayReport is the full output of a replay run; --json emits it verbatim.
type replayReport struct {
	File          string                 `json:"file"`
	SchemaVersion int                    `json:"schemaVersion"`
	GeneratedAt   string                 `json:"generatedAt"`
	Repositories  []string               `json:"repositories"`
	Completeness  govhealth.Completeness `json:"completeness"`
	Integrity     string                 `json:"integrity"`
	Summary       replay.Summary         `json:"summary"`
}

func NewReplayCommand() *cobra.Command {
	var (
		file    string
		fromArg string
		toArg   string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Summarize the governance health history over a time window",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseBound("--from", fromArg)
			if err != nil {
				return err
			}
			to, err := parseBound("--to", toArg)
			if err != nil {
				return err
			}
			if from != nil && to != nil && from.After(*to) {
				return fmt.Errorf("--from %s is later than --to %s", fromArg, toArg)
			}

			artifact, err := store.Load(file)
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("no governance history at %s; run 'pulse score' against fresh activity data to generate it", file)
			}
			if err != nil {
				return err
			}

			result := replay.FromArtifact(*artifact, from, to)
			report := replayReport{
				File:          file,
				SchemaVersion: artifact.SchemaVersion,
				GeneratedAt:   artifact.GeneratedAt,
				Repositories:  artifact.Provenance.Repositories,
				Completeness:  artifact.Completeness,
				Integrity:     result.Integrity,
				Summary:       result.Summary,
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return fmt.Errorf("encoding report: %w", err)
				}
			} else {
				renderReport(out, report)
			}

			// A present-but-failing seal is the one condition that flips the
			// exit code; an artifact that was never sealed still exits 0.
			if artifact.Integrity != nil && result.Integrity == replay.IntegrityUnverified {
				return clierr.Newf(1, "integrity verification failed for %s", file)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", store.DefaultPath, "Path to the governance history artifact")
	cmd.Flags().StringVar(&fromArg, "from", "", "Window start (inclusive, RFC3339)")
	cmd.Flags().StringVar(&toArg, "to", "", "Window end (inclusive, RFC3339)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the report as JSON")
	return cmd
}

func parseBound(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("%s must be an RFC3339 timestamp, got %q", flag, value)
	}
	return &t, nil
}

func renderReport(w io.Writer, r replayReport) {
	fmt.Fprintf(w, "Governance history replay: %s\n", r.File)
	fmt.Fprintf(w, "  Schema version: %d\n", r.SchemaVersion)
	fmt.Fprintf(w, "  Generated at:   %s\n", r.GeneratedAt)
	repos := strings.Join(r.Repositories, ", ")
	if repos == "" {
		repos = "(none recorded)"
	}
	fmt.Fprintf(w, "  Repositories:   %s\n", repos)
	fmt.Fprintf(w, "  Completeness:   %s%s\n", r.Completeness.Status, completenessGaps(r.Completeness))
	fmt.Fprintf(w, "  Integrity:      %s\n", r.Integrity)
	fmt.Fprintln(w)

	if r.Summary.Points == 0 {
		fmt.Fprintln(w, "No snapshots in the requested window.")
		return
	}

	fmt.Fprintf(w, "Window: %s -> %s (%d points)\n", r.Summary.From, r.Summary.To, r.Summary.Points)
	renderMetric(w, "healthScore", r.Summary.HealthScore)
	renderMetric(w, "participation", r.Summary.Participation)
	renderMetric(w, "pipelineFlow", r.Summary.PipelineFlow)
	renderMetric(w, "followThrough", r.Summary.FollowThrough)
	renderMetric(w, "consensusQuality", r.Summary.ConsensusQuality)
	renderMetric(w, "activeAgents", r.Summary.ActiveAgents)
	renderMetric(w, "proposalVelocity", r.Summary.ProposalVelocity)
}

func completenessGaps(c govhealth.Completeness) string {
	var parts []string
	if len(c.MissingRepositories) > 0 {
		parts = append(parts, "missing: "+strings.Join(c.MissingRepositories, ", "))
	}
	if len(c.PermissionGaps) > 0 {
		parts = append(parts, "permission gaps: "+strings.Join(c.PermissionGaps, ", "))
	}
	if len(c.APIPartials) > 0 {
		parts = append(parts, "api partials: "+strings.Join(c.APIPartials, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, "; ") + ")"
}

func renderMetric(w io.Writer, name string, m *replay.MetricSummary) {
	if m == nil {
		fmt.Fprintf(w, "  %-17s no data\n", name+":")
		return
	}
	fmt.Fprintf(w, "  %-17s first %s  last %s  delta %s  min %s  max %s  avg %s\n",
		name+":",
		trimFloat(m.First), trimFloat(m.Last), trimFloat(m.Delta),
		trimFloat(m.Min), trimFloat(m.Max), trimFloat(m.Average))
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
