// Package diff compares the two most recent catalog snapshots of each
// recently activated summit.
//
// The flow for one monthly run:
//
//  1. Candidates: snapshot rows whose activation date falls in the month,
//     optionally deduplicated by summit code (see DedupMode).
//  2. For each candidate, the two newest snapshots are fetched and turned into
//     a Delta. A summit with fewer than two snapshots yields an insufficient
//     entry instead.
//  3. The first summit with enough history also has its snapshot spacing
//     checked against the expected monthly cadence.
//
// The package only computes. Rendering lives in internal/report.
package diff
