// Package store provides SQLite-backed persistence for fetched icon assets.
//
// The asset cache is authoritative for a session; the store only lets a
// later session start warm. Rows follow the cache's own rules:
//   - Write-once: INSERT ... ON CONFLICT(name) DO NOTHING. The first source
//     stored for a name is never overwritten.
//   - Content-addressed digest: every row carries Digest(source) so a
//     corrupted or hand-edited row can be detected and skipped on load.
//   - Deterministic reads: ListAssets orders by name.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - Single connection: SQLite allows one writer
package store
