// Package engine reconciles a configuration document against a remote
// service.
//
// A run walks the sections of the document in a fixed dependency order and
// hands every entity to the synchronizer for its section. A synchronizer
// locates the remote entity by identifier, resolves reference fields into
// remote IDs, and then either creates the entity, patches the fields that
// differ, or leaves it alone.
//
// ARCHITECTURE:
//
//	Document ──► Preflight ──► Plan ──► Synchronizer (per section) ──► Report
//	                                        │                           │
//	                                        ▼                           ▼
//	                                     Resolver                 Suggestions
//
// Entity-scoped failures (unresolved references, rejected mutations,
// malformed attributes) become Failed outcomes and never stop the run.
// Document-scoped failures (duplicate identifiers) are returned by Run
// before any remote call is made.
//
// The Resolver owns the only run-scoped cache: one List per section, built
// lazily, discarded with the run. Every run starts cold.
//
// CRITICAL PATTERNS:
//
// Deterministic ordering:
// Sections follow document.Sections. Entities follow document order,
// except categories, which are emitted parent before child. Outcomes are
// stamped by Clock in submission order, also when a section is synced in
// parallel.
//
// Merge semantics:
// Only fields present in the desired record are compared or sent. Fields
// omitted from the document are never touched on the remote side.
package engine
