// SPDX-License-Identifier: AGPL-3.0-or-later

// Package replay reconstructs trend summaries from a persisted snapshot
// history. It never mutates its inputs, so concurrent reads against a stable
// artifact are safe.
package replay

import (
	"math"
	"sort"
	"time"

	"github.com/agentfleet/pulse/pkg/govhealth"
)

// Integrity status values reported alongside a replay summary.
const (
	IntegrityVerified   = "verified"
	IntegrityUnverified = "unverified"
	IntegrityPartial    = "partial"
)

// MetricSummary describes one numeric series over a replay window.
type MetricSummary struct {
	First   float64 `json:"first"`
	Last    float64 `json:"last"`
	Delta   float64 `json:"delta"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// Summary is the replayed view of a snapshot window. Metric summaries are
// nil when no usable values fell inside the window.
type Summary struct {
	Points           int            `json:"points"`
	From             string         `json:"from,omitempty"`
	To               string         `json:"to,omitempty"`
	HealthScore      *MetricSummary `json:"healthScore"`
	Participation    *MetricSummary `json:"participation"`
	PipelineFlow     *MetricSummary `json:"pipelineFlow"`
	FollowThrough    *MetricSummary `json:"followThrough"`
	ConsensusQuality *MetricSummary `json:"consensusQuality"`
	ActiveAgents     *MetricSummary `json:"activeAgents"`
	ProposalVelocity *MetricSummary `json:"proposalVelocity"`
}

// Result pairs a summary with the artifact's integrity status.
type Result struct {
	Integrity string  `json:"integrity"`
	Summary   Summary `json:"summary"`
}

// SummarizeValues computes first/last/delta/min/max/average over a value
// series, with the average rounded to two decimals. Nil on an empty series.
func SummarizeValues(values []float64) *MetricSummary {
	if len(values) == 0 {
		return nil
	}
	s := MetricSummary{
		First: values[0],
		Last:  values[len(values)-1],
		Min:   values[0],
		Max:   values[0],
	}
	sum := 0.0
	for _, v := range values {
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Delta = s.Last - s.First
	s.Average = math.Round(sum/float64(len(values))*100) / 100
	return &s
}

// Summarize filters snapshots to the inclusive [from, to] window (nil bounds
// are unbounded), sorts them by timestamp, and summarizes every metric.
// Snapshots with unparsable timestamps are excluded.
func Summarize(snapshots []govhealth.Snapshot, from, to *time.Time) Summary {
	type dated struct {
		at time.Time
		s  govhealth.Snapshot
	}

	window := make([]dated, 0, len(snapshots))
	for _, s := range snapshots {
		at, err := time.Parse(time.RFC3339, s.Timestamp)
		if err != nil {
			continue
		}
		if from != nil && at.Before(*from) {
			continue
		}
		if to != nil && at.After(*to) {
			continue
		}
		window = append(window, dated{at: at, s: s})
	}
	sort.SliceStable(window, func(i, j int) bool { return window[i].at.Before(window[j].at) })

	if len(window) == 0 {
		return Summary{}
	}

	summary := Summary{
		Points: len(window),
		From:   window[0].s.Timestamp,
		To:     window[len(window)-1].s.Timestamp,
	}

	collect := func(pick func(govhealth.Snapshot) *float64) *MetricSummary {
		values := make([]float64, 0, len(window))
		for _, d := range window {
			v := pick(d.s)
			if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
				continue
			}
			values = append(values, *v)
		}
		return SummarizeValues(values)
	}
	fromInt := func(get func(govhealth.Snapshot) int) func(govhealth.Snapshot) *float64 {
		return func(s govhealth.Snapshot) *float64 {
			v := float64(get(s))
			return &v
		}
	}

	summary.HealthScore = collect(fromInt(func(s govhealth.Snapshot) int { return s.HealthScore }))
	summary.Participation = collect(fromInt(func(s govhealth.Snapshot) int { return s.Participation }))
	summary.PipelineFlow = collect(fromInt(func(s govhealth.Snapshot) int { return s.PipelineFlow }))
	summary.FollowThrough = collect(fromInt(func(s govhealth.Snapshot) int { return s.FollowThrough }))
	summary.ConsensusQuality = collect(fromInt(func(s govhealth.Snapshot) int { return s.ConsensusQuality }))
	summary.ActiveAgents = collect(fromInt(func(s govhealth.Snapshot) int { return s.ActiveAgents }))
	summary.ProposalVelocity = collect(func(s govhealth.Snapshot) *float64 { return s.ProposalVelocity })

	return summary
}

// FromArtifact replays an artifact and reports its integrity status:
// "unverified" when no usable record is present or the digest does not match,
// "verified" on a match, downgraded to "partial" when the artifact itself
// says data collection was partial.
func FromArtifact(a govhealth.Artifact, from, to *time.Time) Result {
	status := IntegrityUnverified
	if govhealth.VerifyIntegrity(a) {
		status = IntegrityVerified
		if a.Completeness.Status == govhealth.StatusPartial {
			status = IntegrityPartial
		}
	}
	return Result{
		Integrity: status,
		Summary:   Summarize(a.Snapshots, from, to),
	}
}
