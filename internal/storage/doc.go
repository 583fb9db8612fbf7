// Package storage defines the persistence interfaces for the match
// archive.
//
// Live matches stay in memory inside the service; only finished matches
// are persisted, for history and the leaderboard. Implementations of
// these interfaces (e.g., using SQLite) can be found in subpackages.
//
// # Error Types
//
//   - ErrNotFound: Indicates a requested record is missing.
//   - ErrAlreadyArchived: Indicates a finished match was archived twice.
package storage
