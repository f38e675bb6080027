// Package libdiff computes differences between payloads.
//
// Diff compares two normalized payloads (see format.Normalize) and returns
// the changes turning one into the other, addressed by wire path. The
// changes apply in order, so array indices account for earlier changes in
// the same array. ToPatch renders changes as an RFC 6902 JSON patch.
//
// Text is a line diff of two encoded payloads, used to show round trip
// differences.
package libdiff
