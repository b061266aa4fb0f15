// Package store provides the SQLite-backed sandbox remote and the run
// history of the configurator.
//
// The store holds:
//   - Entities: the remote side of reconciliation, one row per entity,
//     unique per (kind, identifier)
//   - Runs: one row per finished reconciliation run with its summary
//   - Run outcomes: one row per entity outcome of a run
//
// # Critical Patterns
//
// Deterministic Query Results
//   - Entity queries include: ORDER BY seq ASC, id ASC COLLATE BINARY
//   - seq is the insertion order, so List is stable across processes
//
// Canonical Storage
//   - Entity fields are stored as canonical JSON (internal/canon), so equal
//     field sets are byte-identical
//
// Idempotent History
//   - RecordRun uses ON CONFLICT DO NOTHING; recording a run twice is a no-op
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
