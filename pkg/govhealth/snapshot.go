// SPDX-License-Identifier: AGPL-3.0-or-later

// Package govhealth defines the governance health data model shared between
// the score generator, the persisted history artifact, and the replay tooling.
//
// Everything in this package is pure: functions take immutable inputs and
// return new values, so identical inputs always produce identical artifacts
// and identical integrity digests.
package govhealth

// Snapshot is one scored measurement of governance health at a point in time.
// It is created once per refresh cycle and never mutated afterwards.
type Snapshot struct {
	Timestamp        string `json:"timestamp"`
	HealthScore      int    `json:"healthScore"`
	Participation    int    `json:"participation"`
	PipelineFlow     int    `json:"pipelineFlow"`
	FollowThrough    int    `json:"followThrough"`
	ConsensusQuality int    `json:"consensusQuality"`
	ActiveProposals  int    `json:"activeProposals"`
	TotalProposals   int    `json:"totalProposals"`
	ActiveAgents     int    `json:"activeAgents"`

	// ProposalVelocity is resolved proposals per day over a trailing 7-day
	// window. Nil means "insufficient data", which is distinct from zero.
	ProposalVelocity *float64 `json:"proposalVelocity"`
}
