// SPDX-License-Identifier: AGPL-3.0-or-later

// Package score converts a raw activity snapshot into governance health
// scores. The engine is a pure function of its inputs: it never fails, and
// degenerate inputs map to documented neutral defaults rather than errors.
package score

import (
	"math"
	"sort"
	"time"

	"github.com/agentfleet/pulse/internal/activity"
	"github.com/agentfleet/pulse/pkg/govhealth"
)

const velocityWindow = 7 * 24 * time.Hour

// Compute scores one activity snapshot. The clock is an explicit argument so
// identical inputs always yield identical snapshots.
func Compute(data activity.Data, now time.Time) govhealth.Snapshot {
	participation := participationScore(data)
	pipeline := pipelineFlowScore(data.Proposals)
	followThrough := followThroughScore(data.Proposals)
	consensus := consensusQualityScore(data.Proposals)

	sum := participation + pipeline + followThrough + consensus

	active := 0
	for _, p := range data.Proposals {
		if !p.Phase.Terminal() {
			active++
		}
	}
	activeAgents := 0
	for _, a := range data.Agents {
		if a.Active() {
			activeAgents++
		}
	}

	return govhealth.Snapshot{
		Timestamp:        now.UTC().Format(time.RFC3339),
		HealthScore:      roundInt(float64(sum)/5) * 5,
		Participation:    participation,
		PipelineFlow:     pipeline,
		FollowThrough:    followThrough,
		ConsensusQuality: consensus,
		ActiveProposals:  active,
		TotalProposals:   len(data.Proposals),
		ActiveAgents:     activeAgents,
		ProposalVelocity: proposalVelocity(data.Proposals, now),
	}
}

// participationScore measures how evenly governance work is spread across
// active agents. A lower Gini coefficient over activity weights means broader
// participation and a higher score.
func participationScore(data activity.Data) int {
	authored := make(map[string]int, len(data.Agents))
	for _, p := range data.Proposals {
		authored[p.Author]++
	}

	var weights []float64
	for _, a := range data.Agents {
		if !a.Active() {
			continue
		}
		weights = append(weights, float64(authored[a.Name]+a.Reviews+a.Comments))
	}

	switch len(weights) {
	case 0:
		return 0
	case 1:
		return 5
	}

	return roundInt((1 - gini(weights)) * 25)
}

// gini computes the Gini coefficient over non-negative weights, 0 when all
// weight is evenly spread and approaching 1 when one agent holds it all.
func gini(values []float64) float64 {
	n := len(values)
	if n <= 1 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var total, weighted float64
	for i, v := range sorted {
		total += v
		weighted += float64(2*(i+1)-n-1) * v
	}
	if total == 0 {
		return 0
	}
	return weighted / (float64(n) * total)
}

// pipelineFlowScore rewards proposals moving past discussion and reaching a
// terminal phase.
func pipelineFlowScore(proposals []activity.Proposal) int {
	total := len(proposals)
	if total == 0 {
		return 0
	}
	advanced, terminal := 0, 0
	for _, p := range proposals {
		if p.Phase.Advanced() {
			advanced++
		}
		if p.Phase.Terminal() {
			terminal++
		}
	}
	progression := float64(advanced) / float64(total)
	completion := float64(terminal) / float64(total)

	s := roundInt(progression*15) + roundInt(completion*10)
	if s > 25 {
		s = 25
	}
	return s
}

// followThroughScore measures how much approved work actually ships. With no
// approved proposals the score is a neutral 12 rather than a penalty.
func followThroughScore(proposals []activity.Proposal) int {
	implemented, ready := 0, 0
	for _, p := range proposals {
		switch p.Phase {
		case activity.PhaseImplemented:
			implemented++
		case activity.PhaseReadyToImplement:
			ready++
		}
	}
	approved := implemented + ready
	if approved == 0 {
		return 12
	}
	return roundInt(float64(implemented) / float64(approved) * 25)
}

// consensusQualityScore combines vote engagement, outcome diversity, and
// discussion depth, capped at 25.
func consensusQualityScore(proposals []activity.Proposal) int {
	if len(proposals) == 0 {
		return 0
	}

	// Vote engagement: average tally size across voted proposals, where 4
	// reactions per proposal earns the full 10.
	votes, voted := 0, 0
	for _, p := range proposals {
		if p.Votes != nil {
			votes += p.Votes.ThumbsUp + p.Votes.ThumbsDown
			voted++
		}
	}
	voteScore := 0
	if voted > 0 {
		avg := float64(votes) / float64(voted)
		voteScore = roundInt(avg / 4 * 10)
		if voteScore > 10 {
			voteScore = 10
		}
	}

	// Outcome diversity: a healthy pipeline rejects or abandons some share
	// of what it resolves. Everything-implemented scores 1, a moderate
	// rejection rate scores 5.
	terminal, contested := 0, 0
	for _, p := range proposals {
		if !p.Phase.Terminal() {
			continue
		}
		terminal++
		if p.Phase == activity.PhaseRejected || p.Phase == activity.PhaseInconclusive {
			contested++
		}
	}
	diversityScore := 0
	if terminal > 0 {
		rate := float64(contested) / float64(terminal)
		switch {
		case rate == 0:
			diversityScore = 1
		case rate >= 0.1 && rate <= 0.4:
			diversityScore = 5
		case rate < 0.1 || (rate > 0.4 && rate <= 0.6):
			diversityScore = 3
		}
	}

	// Discussion depth: average comments per proposal, 5 earns the full 10.
	comments := 0
	for _, p := range proposals {
		comments += p.CommentCount
	}
	avgComments := float64(comments) / float64(len(proposals))
	discussionScore := roundInt(avgComments / 5 * 10)
	if discussionScore > 10 {
		discussionScore = 10
	}

	s := voteScore + diversityScore + discussionScore
	if s > 25 {
		s = 25
	}
	return s
}

// proposalVelocity counts proposals resolved within the trailing 7 days,
// normalized to resolutions per day. Nil when no proposals have reached a
// terminal phase, which is "insufficient data" rather than zero.
func proposalVelocity(proposals []activity.Proposal, now time.Time) *float64 {
	terminal, recent := 0, 0
	cutoff := now.Add(-velocityWindow)
	for _, p := range proposals {
		if !p.Phase.Terminal() {
			continue
		}
		terminal++
		if t, ok := p.LastTransition(); ok && !t.At.Before(cutoff) && !t.At.After(now) {
			recent++
		}
	}
	if terminal == 0 {
		return nil
	}
	v := math.Round(float64(recent)/7*100) / 100
	return &v
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
