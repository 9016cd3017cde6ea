// Package model defines the canonical records shared by sotastats components.
//
// Spots are point-in-time observations keyed by their SOTA id; a later spot with
// the same id replaces the earlier one. Summits are catalog snapshots keyed by
// (SummitCode, Refreshed) and are only ever appended.
//
// All timestamps are UTC with second precision.
package model
