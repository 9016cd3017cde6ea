// Package store provides SQLite-backed storage for spots and summit snapshots.
//
// Two independent tables are kept:
//   - Spots: keyed by the SOTA spot id. Writes are upserts; the newest write
//     for an id wins.
//   - Summits: catalog snapshots keyed by (summitCode, refreshed). Writes use
//     INSERT OR REPLACE but every refresh carries a new timestamp, so rows are
//     appended in practice and never rewritten.
//
// # Transactions
//
// All writes made during one scheduler trigger go through a single Tx and are
// committed together. A failing write returns its error without poisoning the
// transaction; the caller decides whether to skip the record.
//
// # Time
//
// Timestamps are stored as "YYYY-MM-DD HH:MM:SS" UTC text. This keeps SQLite's
// date() usable and makes lexical comparison equal to chronological order.
//
// # Database Configuration
//
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout=5000
package store
