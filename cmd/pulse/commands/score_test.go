// SPDX-License-Identifier: AGPL-3.0-or-later
package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentfleet/pulse/internal/store"
	"github.com/agentfleet/pulse/pkg/govhealth"
)

const activityFixture = `{
	"agents": [
		{"name": "agent-a", "commits": 4, "reviews": 2, "comments": 3},
		{"name": "agent-b", "mergedPrs": 1, "reviews": 3, "comments": 2},
		{"name": "agent-c"}
	],
	"proposals": [
		{"id": "p-1", "phase": "discussion", "author": "agent-a", "commentCount": 6,
		 "votes": {"thumbsUp": 3, "thumbsDown": 1}},
		{"id": "p-2", "phase": "implemented", "author": "agent-b", "commentCount": 4,
		 "transitions": [{"phase": "implemented", "at": "2026-03-08T00:00:00Z"}]},
		{"id": "p-3", "phase": "rejected", "author": "agent-a", "commentCount": 2,
		 "transitions": [{"phase": "rejected", "at": "2026-02-01T00:00:00Z"}]}
	]
}`

const configFixture = `
repositories:
  - octo/governance
generated_by: pulse-generator
permission_gaps:
  - missing issues scope on octo/agents
`

func scoreFixtures(t *testing.T) (activityPath, configPath, historyPath string) {
	t.Helper()
	dir := t.TempDir()
	activityPath = filepath.Join(dir, "activity.json")
	configPath = filepath.Join(dir, "pulse.yaml")
	historyPath = filepath.Join(dir, "data", "governance-history.json")
	require.NoError(t, os.WriteFile(activityPath, []byte(activityFixture), 0o600))
	require.NoError(t, os.WriteFile(configPath, []byte(configFixture), 0o600))
	return
}

func TestScoreCreatesSealedHistory(t *testing.T) {
	activityPath, configPath, historyPath := scoreFixtures(t)

	out, err := runPulse(t, "score",
		"--activity="+activityPath,
		"--config="+configPath,
		"--file="+historyPath,
		"--now=2026-03-10T12:00:00Z")
	require.NoError(t, err)
	assert.Contains(t, out, "Appended snapshot")

	a, err := store.Load(historyPath)
	require.NoError(t, err)

	assert.True(t, govhealth.VerifyIntegrity(*a))
	assert.Equal(t, govhealth.SchemaVersionCurrent, a.SchemaVersion)
	assert.Equal(t, "2026-03-10T12:00:00Z", a.GeneratedAt)
	assert.Equal(t, []string{"octo/governance"}, a.Provenance.Repositories)
	assert.Equal(t, "pulse-generator", a.Provenance.GeneratedBy)
	assert.Equal(t, govhealth.StatusPartial, a.Completeness.Status)

	require.Len(t, a.Snapshots, 1)
	s := a.Snapshots[0]
	assert.Equal(t, "2026-03-10T12:00:00Z", s.Timestamp)
	assert.Equal(t, 3, s.TotalProposals)
	assert.Equal(t, 1, s.ActiveProposals)
	assert.Equal(t, 2, s.ActiveAgents)
	assert.Equal(t, 0, s.HealthScore%5)
	require.NotNil(t, s.ProposalVelocity, "terminal proposals exist, so velocity is measured")
}

func TestScoreAppendsToExistingHistory(t *testing.T) {
	activityPath, configPath, historyPath := scoreFixtures(t)

	for _, now := range []string{"2026-03-10T06:00:00Z", "2026-03-10T12:00:00Z"} {
		_, err := runPulse(t, "score",
			"--activity="+activityPath,
			"--config="+configPath,
			"--file="+historyPath,
			"--now="+now)
		require.NoError(t, err)
	}

	a, err := store.Load(historyPath)
	require.NoError(t, err)
	require.Len(t, a.Snapshots, 2)
	assert.Equal(t, "2026-03-10T06:00:00Z", a.Snapshots[0].Timestamp)
	assert.Equal(t, "2026-03-10T12:00:00Z", a.Snapshots[1].Timestamp)
	assert.True(t, govhealth.VerifyIntegrity(*a))

	// The re-sealed artifact still replays and verifies end to end.
	out, err := runPulse(t, "replay", "--file="+historyPath)
	require.NoError(t, err)
	assert.Contains(t, out, "partial", "verified seal downgraded by partial completeness")
}

func TestScoreRequiresActivityFlag(t *testing.T) {
	_, err := runPulse(t, "score")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "activity")
}

func TestScoreRejectsBadNow(t *testing.T) {
	activityPath, configPath, historyPath := scoreFixtures(t)
	_, err := runPulse(t, "score",
		"--activity="+activityPath,
		"--config="+configPath,
		"--file="+historyPath,
		"--now=noon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--now")
}
