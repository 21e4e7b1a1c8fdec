// SPDX-License-Identifier: AGPL-3.0-or-later
package genconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pulse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
repositories:
  - octo/governance
  - octo/agents
generated_by: pulse-generator
generator_version: 1.2.0
source_commit_sha: f00dfeed
permission_gaps:
  - missing issues scope on octo/agents
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"octo/governance", "octo/agents"}, cfg.Repositories)
	assert.Equal(t, "pulse-generator", cfg.GeneratedBy)
	assert.Equal(t, "f00dfeed", cfg.SourceCommitSha)
	assert.Len(t, cfg.PermissionGaps, 1)
}

func TestLoadRejectsIncompleteConfig(t *testing.T) {
	cases := map[string]string{
		"no repositories":  "generated_by: pulse-generator\n",
		"empty repository": "repositories: [\"\"]\ngenerated_by: pulse-generator\n",
		"no generated_by":  "repositories: [octo/governance]\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
