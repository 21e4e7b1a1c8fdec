// SPDX-License-Identifier: AGPL-3.0-or-later
package govhealth

// Schema versions carried by persisted artifacts. Version 0 is reserved for
// histories migrated from the legacy bare-array file format.
const (
	SchemaVersionLegacy  = 0
	SchemaVersionCurrent = 1
)

// Completeness status values.
const (
	StatusComplete = "complete"
	StatusPartial  = "partial"
)

// Provenance records which repositories and generator produced an artifact.
type Provenance struct {
	Repositories     []string `json:"repositories"`
	GeneratedBy      string   `json:"generatedBy"`
	GeneratorVersion string   `json:"generatorVersion"`
	SourceCommitSha  *string  `json:"sourceCommitSha"`
}

// Completeness records whether data collection was full or degraded.
type Completeness struct {
	Status              string   `json:"status"`
	MissingRepositories []string `json:"missingRepositories"`
	PermissionGaps      []string `json:"permissionGaps"`
	APIPartials         []string `json:"apiPartials"`
}

// Integrity is a digest over an artifact's substantive content.
type Integrity struct {
	Algorithm string `json:"algorithm"`
	Digest    string `json:"digest"`
}

// Artifact is the versioned, sealed container for a snapshot history plus
// provenance and completeness metadata. Artifacts are replaced wholesale on
// every refresh, never mutated in place.
type Artifact struct {
	SchemaVersion int          `json:"schemaVersion"`
	GeneratedAt   string       `json:"generatedAt"`
	Snapshots     []Snapshot   `json:"snapshots"`
	Provenance    Provenance   `json:"provenance"`
	Completeness  Completeness `json:"completeness"`
	Integrity     *Integrity   `json:"integrity"`
}

// BuildParams carries everything Build needs. Optional fields keep their
// zero value when unused. SchemaVersion is a pointer because 0 is a real
// version (legacy); nil means SchemaVersionCurrent.
type BuildParams struct {
	GeneratedAt         string
	Snapshots           []Snapshot
	Repositories        []string
	GeneratedBy         string
	GeneratorVersion    string
	SourceCommitSha     *string
	MissingRepositories []string
	PermissionGaps      []string
	APIPartials         []string
	SchemaVersion       *int
	Integrity           *Integrity

	// StatusOverride forces the completeness status instead of deriving it
	// from the gap lists. The parser uses this to honor an explicit status
	// found in raw input.
	StatusOverride string
}

// Build assembles an artifact from params. Input collections are copied so
// the artifact never aliases caller-owned slices, and empty collections stay
// non-nil so the canonical JSON encoding is stable.
func Build(p BuildParams) Artifact {
	version := SchemaVersionCurrent
	if p.SchemaVersion != nil {
		version = *p.SchemaVersion
	}

	completeness := Completeness{
		Status:              StatusComplete,
		MissingRepositories: copyStrings(p.MissingRepositories),
		PermissionGaps:      copyStrings(p.PermissionGaps),
		APIPartials:         copyStrings(p.APIPartials),
	}
	if len(completeness.MissingRepositories) > 0 ||
		len(completeness.PermissionGaps) > 0 ||
		len(completeness.APIPartials) > 0 {
		completeness.Status = StatusPartial
	}
	if p.StatusOverride != "" {
		completeness.Status = p.StatusOverride
	}

	var integrity *Integrity
	if p.Integrity != nil {
		cp := *p.Integrity
		integrity = &cp
	}

	var sha *string
	if p.SourceCommitSha != nil {
		v := *p.SourceCommitSha
		sha = &v
	}

	return Artifact{
		SchemaVersion: version,
		GeneratedAt:   p.GeneratedAt,
		Snapshots:     copySnapshots(p.Snapshots),
		Provenance: Provenance{
			Repositories:     copyStrings(p.Repositories),
			GeneratedBy:      p.GeneratedBy,
			GeneratorVersion: p.GeneratorVersion,
			SourceCommitSha:  sha,
		},
		Completeness: completeness,
		Integrity:    integrity,
	}
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copySnapshots(in []Snapshot) []Snapshot {
	out := make([]Snapshot, len(in))
	for i, s := range in {
		if s.ProposalVelocity != nil {
			v := *s.ProposalVelocity
			s.ProposalVelocity = &v
		}
		out[i] = s
	}
	return out
}
