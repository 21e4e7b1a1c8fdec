// SPDX-License-Identifier: AGPL-3.0-or-later
package govhealth

import (
	"encoding/json"
	"math"
	"time"
)

// LegacyGeneratedBy marks artifacts migrated from the bare-array history
// format, which carried no provenance of its own.
const LegacyGeneratedBy = "legacy-governance-history"

const legacyProvenanceGap = "history predates provenance tracking; generator and repository set unknown"

// Parse validates untrusted JSON and reconstructs an artifact from it. It
// returns nil for anything structurally invalid instead of an error, so
// callers are free to treat a bad file the same as "no history yet".
//
// Two wire shapes are accepted: the current artifact object, and the legacy
// format that persisted the snapshot array bare. Legacy input migrates to an
// artifact with SchemaVersionLegacy and a partial completeness status.
func Parse(raw []byte) *Artifact {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil
	}

	switch v := value.(type) {
	case []any:
		return parseLegacy(v)
	case map[string]any:
		return parseObject(v)
	default:
		return nil
	}
}

func parseLegacy(raw []any) *Artifact {
	snapshots, ok := parseSnapshots(raw)
	if !ok {
		return nil
	}

	generatedAt := time.Unix(0, 0).UTC().Format(time.RFC3339)
	if len(snapshots) > 0 {
		generatedAt = snapshots[len(snapshots)-1].Timestamp
	}

	legacy := SchemaVersionLegacy
	a := Build(BuildParams{
		GeneratedAt:    generatedAt,
		Snapshots:      snapshots,
		GeneratedBy:    LegacyGeneratedBy,
		PermissionGaps: []string{legacyProvenanceGap},
		SchemaVersion:  &legacy,
	})
	return &a
}

func parseObject(raw map[string]any) *Artifact {
	rawSnapshots, ok := raw["snapshots"].([]any)
	if !ok {
		return nil
	}
	snapshots, ok := parseSnapshots(rawSnapshots)
	if !ok {
		return nil
	}

	version := SchemaVersionCurrent
	if n, ok := intField(raw, "schemaVersion"); ok {
		version = n
	}

	params := BuildParams{
		GeneratedAt:   stringField(raw, "generatedAt"),
		Snapshots:     snapshots,
		SchemaVersion: &version,
	}

	if prov, ok := raw["provenance"].(map[string]any); ok {
		params.Repositories = stringList(prov["repositories"])
		params.GeneratedBy = stringField(prov, "generatedBy")
		params.GeneratorVersion = stringField(prov, "generatorVersion")
		if sha, ok := prov["sourceCommitSha"].(string); ok {
			params.SourceCommitSha = &sha
		}
	}

	if comp, ok := raw["completeness"].(map[string]any); ok {
		params.MissingRepositories = stringList(comp["missingRepositories"])
		params.PermissionGaps = stringList(comp["permissionGaps"])
		params.APIPartials = stringList(comp["apiPartials"])
		// An explicit, recognized status wins over the one derived from the
		// gap lists. Producers use this when they know more than the lists
		// encode; unknown values are ignored.
		if status := stringField(comp, "status"); status == StatusComplete || status == StatusPartial {
			params.StatusOverride = status
		}
	}

	if integ, ok := raw["integrity"].(map[string]any); ok {
		digest, digestOK := integ["digest"].(string)
		if algorithm, ok := integ["algorithm"].(string); ok && algorithm == AlgorithmSHA256 && digestOK {
			params.Integrity = &Integrity{Algorithm: algorithm, Digest: digest}
		}
	}

	a := Build(params)
	return &a
}

func parseSnapshots(raw []any) ([]Snapshot, bool) {
	snapshots := make([]Snapshot, 0, len(raw))
	for _, el := range raw {
		s, ok := parseSnapshot(el)
		if !ok {
			return nil, false
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, true
}

// parseSnapshot validates one raw element against the snapshot shape. Every
// field is required; the count and score fields must be integer-valued
// numbers and proposalVelocity must be a finite number or null.
func parseSnapshot(el any) (Snapshot, bool) {
	m, ok := el.(map[string]any)
	if !ok {
		return Snapshot{}, false
	}

	s := Snapshot{}
	if s.Timestamp, ok = m["timestamp"].(string); !ok {
		return Snapshot{}, false
	}

	for _, f := range []struct {
		key string
		dst *int
	}{
		{"healthScore", &s.HealthScore},
		{"participation", &s.Participation},
		{"pipelineFlow", &s.PipelineFlow},
		{"followThrough", &s.FollowThrough},
		{"consensusQuality", &s.ConsensusQuality},
		{"activeProposals", &s.ActiveProposals},
		{"totalProposals", &s.TotalProposals},
		{"activeAgents", &s.ActiveAgents},
	} {
		n, ok := intField(m, f.key)
		if !ok {
			return Snapshot{}, false
		}
		*f.dst = n
	}

	velocity, present := m["proposalVelocity"]
	if !present {
		return Snapshot{}, false
	}
	if velocity != nil {
		v, ok := velocity.(float64)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			return Snapshot{}, false
		}
		s.ProposalVelocity = &v
	}

	return s, true
}

func intField(m map[string]any, key string) (int, bool) {
	v, ok := m[key].(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// stringList coerces a raw value to a string slice, keeping only string
// elements. Anything that is not an array defaults to empty.
func stringList(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, el := range raw {
		if s, ok := el.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
