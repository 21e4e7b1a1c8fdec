// SPDX-License-Identifier: AGPL-3.0-or-later
package activity

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAgentActive(t *testing.T) {
	cases := []struct {
		name  string
		agent AgentStats
		want  bool
	}{
		{"idle", AgentStats{}, false},
		{"issues only", AgentStats{IssuesOpened: 3}, false},
		{"commits", AgentStats{Commits: 1}, true},
		{"merged prs", AgentStats{MergedPRs: 1}, true},
		{"reviews", AgentStats{Reviews: 1}, true},
		{"comments", AgentStats{Comments: 1}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.agent.Active(); got != tc.want {
				t.Errorf("Active() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLastTransitionPicksLatest(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	p := Proposal{Transitions: []PhaseTransition{
		{Phase: PhaseImplemented, At: base.AddDate(0, 0, 5)},
		{Phase: PhaseDiscussion, At: base},
		{Phase: PhaseVoting, At: base.AddDate(0, 0, 2)},
	}}

	last, ok := p.LastTransition()
	if !ok {
		t.Fatal("expected a transition")
	}
	if last.Phase != PhaseImplemented {
		t.Errorf("got %s, want implemented", last.Phase)
	}

	if _, ok := (Proposal{}).LastTransition(); ok {
		t.Error("proposal without transitions should report none")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.json")
	content := `{"agents":[{"name":"a","commits":2}],"proposals":[{"id":"p-1","phase":"voting","author":"a"}]}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	d, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(d.Agents) != 1 || d.Agents[0].Commits != 2 {
		t.Errorf("agents not decoded: %+v", d.Agents)
	}
	if len(d.Proposals) != 1 || d.Proposals[0].Phase != PhaseVoting {
		t.Errorf("proposals not decoded: %+v", d.Proposals)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
