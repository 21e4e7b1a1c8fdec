// SPDX-License-Identifier: AGPL-3.0-or-later
package govhealth

// MaxHistoryEntries caps the stored snapshot history. At a 6-hour refresh
// cadence this keeps roughly 30 days of trend data.
const MaxHistoryEntries = 120

// AppendSnapshot returns a new history with s appended. When the result would
// exceed MaxHistoryEntries, the oldest entries are dropped from the front so
// the history is always a trailing window. The input slice is never aliased
// or modified.
func AppendSnapshot(history []Snapshot, s Snapshot) []Snapshot {
	next := make([]Snapshot, 0, len(history)+1)
	next = append(next, history...)
	next = append(next, s)
	if over := len(next) - MaxHistoryEntries; over > 0 {
		next = next[over:]
	}
	return next
}
