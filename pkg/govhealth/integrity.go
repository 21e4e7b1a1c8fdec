// SPDX-License-Identifier: AGPL-3.0-or-later
package govhealth

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// AlgorithmSHA256 is the only sealing algorithm this package produces or
// verifies.
const AlgorithmSHA256 = "sha256"

// sealPayload is the exact content covered by the integrity digest. The
// integrity field itself is excluded so sealing stays idempotent. Field order
// here is the canonical key order of the hashed encoding; do not reorder.
type sealPayload struct {
	SchemaVersion int          `json:"schemaVersion"`
	GeneratedAt   string       `json:"generatedAt"`
	Snapshots     []Snapshot   `json:"snapshots"`
	Provenance    Provenance   `json:"provenance"`
	Completeness  Completeness `json:"completeness"`
}

// Seal computes the integrity record for an artifact. The artifact's current
// Integrity value, if any, has no effect on the result.
func Seal(a Artifact) Integrity {
	payload, err := json.Marshal(sealPayload{
		SchemaVersion: a.SchemaVersion,
		GeneratedAt:   a.GeneratedAt,
		Snapshots:     a.Snapshots,
		Provenance:    a.Provenance,
		Completeness:  a.Completeness,
	})
	if err != nil {
		// The payload contains only strings, ints, and floats; Marshal
		// cannot fail on it.
		panic("govhealth: canonical encoding failed: " + err.Error())
	}
	sum := sha256.Sum256(payload)
	return Integrity{
		Algorithm: AlgorithmSHA256,
		Digest:    hex.EncodeToString(sum[:]),
	}
}

// VerifyIntegrity recomputes the digest over an artifact's substantive
// content and compares it with the stored record. It reports false when no
// record is present or the algorithm is unsupported.
func VerifyIntegrity(a Artifact) bool {
	if a.Integrity == nil || a.Integrity.Algorithm != AlgorithmSHA256 {
		return false
	}
	return Seal(a).Digest == a.Integrity.Digest
}
