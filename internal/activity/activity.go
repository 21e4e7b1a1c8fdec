// SPDX-License-Identifier: AGPL-3.0-or-later

// Package activity models the raw repository activity supplied by the
// external fetch/aggregation stage. The scoring pipeline consumes this data
// as-is; collecting it (GitHub API calls, retries, pagination) is out of
// scope here.
package activity

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Phase identifies where a proposal sits in its lifecycle.
type Phase string

const (
	PhaseDiscussion       Phase = "discussion"
	PhaseVoting           Phase = "voting"
	PhaseReadyToImplement Phase = "ready_to_implement"
	PhaseImplemented      Phase = "implemented"
	PhaseRejected         Phase = "rejected"
	PhaseInconclusive     Phase = "inconclusive"
)

// Terminal reports whether a proposal in this phase is resolved and will not
// move again.
func (p Phase) Terminal() bool {
	switch p {
	case PhaseImplemented, PhaseRejected, PhaseInconclusive:
		return true
	}
	return false
}

// Advanced reports whether a proposal has moved past the discussion phase.
func (p Phase) Advanced() bool {
	return p != PhaseDiscussion
}

// AgentStats holds one agent's activity counts for the refresh window.
type AgentStats struct {
	Name         string `json:"name"`
	Commits      int    `json:"commits"`
	MergedPRs    int    `json:"mergedPrs"`
	IssuesOpened int    `json:"issuesOpened"`
	Reviews      int    `json:"reviews"`
	Comments     int    `json:"comments"`
	LastActive   string `json:"lastActive,omitempty"`
}

// Active reports whether the agent did anything that counts as participation.
// Opening issues alone does not qualify.
func (a AgentStats) Active() bool {
	return a.Commits > 0 || a.MergedPRs > 0 || a.Reviews > 0 || a.Comments > 0
}

// VoteTally is an optional per-proposal reaction count.
type VoteTally struct {
	ThumbsUp   int `json:"thumbsUp"`
	ThumbsDown int `json:"thumbsDown"`
}

// PhaseTransition records one phase change and when it happened.
type PhaseTransition struct {
	Phase Phase     `json:"phase"`
	At    time.Time `json:"at"`
}

// Proposal is one governance proposal with its lifecycle state.
type Proposal struct {
	ID           string            `json:"id"`
	Phase        Phase             `json:"phase"`
	Author       string            `json:"author"`
	CreatedAt    time.Time         `json:"createdAt"`
	CommentCount int               `json:"commentCount"`
	Votes        *VoteTally        `json:"votes,omitempty"`
	Transitions  []PhaseTransition `json:"transitions,omitempty"`
}

// LastTransition returns the proposal's most recent phase transition, or
// false if none were recorded.
func (p Proposal) LastTransition() (PhaseTransition, bool) {
	if len(p.Transitions) == 0 {
		return PhaseTransition{}, false
	}
	latest := p.Transitions[0]
	for _, t := range p.Transitions[1:] {
		if t.At.After(latest.At) {
			latest = t
		}
	}
	return latest, true
}

// Data is a full activity snapshot for one refresh cycle.
type Data struct {
	Agents    []AgentStats `json:"agents"`
	Proposals []Proposal   `json:"proposals"`
}

// LoadFile reads an activity snapshot from a JSON file.
func LoadFile(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading activity file: %w", err)
	}
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parsing activity file %s: %w", path, err)
	}
	return &d, nil
}
