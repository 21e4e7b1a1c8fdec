// SPDX-License-Identifier: AGPL-3.0-or-later
package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentfleet/pulse/cmd/pulse/internal/clierr"
	"github.com/agentfleet/pulse/pkg/govhealth"
)

func TestVerifyValidSeal(t *testing.T) {
	path := writeHistory(t, nil)

	out, err := runPulse(t, "verify", "--file="+path)
	require.NoError(t, err)
	assert.Contains(t, out, "verified")
}

func TestVerifyTamperedSeal(t *testing.T) {
	path := writeHistory(t, func(a *govhealth.Artifact) {
		a.Provenance.GeneratedBy = "someone-else"
	})

	_, err := runPulse(t, "verify", "--file="+path)
	require.Error(t, err)
	assert.Equal(t, 1, clierr.ExitCodeOf(err))
}

func TestVerifyMissingRecord(t *testing.T) {
	path := writeHistory(t, func(a *govhealth.Artifact) {
		a.Integrity = nil
	})

	_, err := runPulse(t, "verify", "--file="+path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no integrity record")
}

func TestVerifyMissingFile(t *testing.T) {
	_, err := runPulse(t, "verify", "--file="+filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pulse score")
}
