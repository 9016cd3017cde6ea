// Package scheduler runs the poller's control loop.
//
// Each tick compares the current UTC time with the previous tick's:
//
//   - hour changed (or first tick): ingest recent spots
//   - day changed: daily spot report for the previous tick's date
//   - month changed: monthly spot report, catalog refresh, then the summit
//     delta report, all for the previous tick's month
//
// Triggers run in that order and each fires at most once per tick. Only the
// coarse field is compared, so a long pause collapses many crossings into
// one firing, and crossings missed while the process was down are not
// replayed.
package scheduler
